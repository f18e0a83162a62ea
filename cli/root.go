package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// dataDir is the default data directory.
var dataDir string

// databasePath is the default SQLite database path.
var databasePath string

// driver selects the store implementation ("sqlite" or "postgres").
var driver string

// connString overrides the store connection string (env otherwise).
var connString string

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:   "activityimport",
		Short: "Replay exported chat history into an activity/XP store",
		Long: `activityimport replays exported chat message streams into a relational
store, computing an XP score per message under an anti-abuse model that
penalises duplication and implausible typing speed, while maintaining
rolling per-user and per-guild statistics.

Get started:
  activityimport init     Create the database schema
  activityimport import   Ingest one or more export files
  activityimport stats    Report aggregate row counts`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	home, _ := os.UserHomeDir()
	dataDir = filepath.Join(home, ".activityimport")
	databasePath = filepath.Join(dataDir, "activity.db")

	root.SetVersionTemplate("activityimport {{.Version}}\n")
	root.Version = versionString()
	root.PersistentFlags().StringVar(&dataDir, "data", dataDir, "Data directory")
	root.PersistentFlags().StringVar(&databasePath, "database", databasePath, "SQLite database path (sqlite driver)")
	root.PersistentFlags().StringVar(&driver, "driver", "sqlite", "Store driver: sqlite or postgres")
	root.PersistentFlags().StringVar(&connString, "conn", "", "Connection string override (postgres driver, or sqlite path)")

	root.AddCommand(NewInit())
	root.AddCommand(NewImport())
	root.AddCommand(NewStats())

	if err := fang.Execute(ctx, root,
		fang.WithVersion(Version),
		fang.WithCommit(Commit),
	); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[ERROR] "+err.Error()))
		return err
	}
	return nil
}

func versionString() string {
	if strings.TrimSpace(Version) != "" && Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			return bi.Main.Version
		}
	}
	return "dev"
}

// GetDataDir returns the data directory.
func GetDataDir() string {
	return dataDir
}

// GetDatabasePath returns the default SQLite database path.
func GetDatabasePath() string {
	return databasePath
}
