package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vycdev/activityimport/internal/config"
	"github.com/vycdev/activityimport/internal/ingest"
	"github.com/vycdev/activityimport/internal/ingestfile"
	"github.com/vycdev/activityimport/internal/ingesttype"
	"github.com/vycdev/activityimport/internal/rolling"
)

var (
	importGlob         string
	importGuild        uint64
	importDryRun       bool
	importFast         bool
	importSkipBadFiles bool
)

// NewImport creates the import command.
func NewImport() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file-or-dir>",
		Short: "Replay one or more export files into the activity store",
		Long: `Ingest export JSON files, computing an XP score per message and
writing activity rows and per-user level aggregates.

The argument is either a single export file, or a directory searched
(non-recursively) with --glob.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringVar(&importGlob, "glob", "*.json", "Glob pattern when the argument is a directory")
	cmd.Flags().Uint64Var(&importGuild, "guild", 0, "Only ingest this guild id (0 = all)")
	cmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and score against a scratch in-memory store; nothing is persisted and the configured store is not opened")
	cmd.Flags().BoolVar(&importFast, "fast", true, "Ingest guilds in parallel and relax synchronous commit (disable for one guild at a time with full durability); the merge and bulk-insert path is used either way")
	cmd.Flags().BoolVar(&importSkipBadFiles, "skip-bad-files", false, "Log and continue on parse failure instead of failing the run")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	runID := uuid.New().String()

	envCfg, err := config.Load()
	if err != nil {
		return err
	}
	if connString != "" {
		envCfg.ConnString = connString
	}
	if driver != "" {
		envCfg.Driver = driver
	}

	if !importDryRun && envCfg.Driver == "postgres" {
		if err := envCfg.RequireConnString(); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[ERROR] "+err.Error()))
			os.Exit(2)
		}
	}

	files, err := discoverFiles(args[0], importGlob)
	if err != nil {
		return err
	}

	var exports []ingesttype.Export
	for _, path := range files {
		export, err := ingestfile.Load(path)
		if err != nil {
			if importSkipBadFiles {
				fmt.Fprintln(os.Stderr, errorStyle.Render("[WARN] skipping "+err.Error()))
				continue
			}
			return err
		}
		if importGuild != 0 && export.Guild.ID != importGuild {
			continue
		}
		exports = append(exports, export)
	}

	imports := ingest.GroupByGuild(exports)
	fmt.Println(infoStyle.Render(fmt.Sprintf("[%s] Ingesting %d guild(s) from %d file(s)...", runID, len(imports), len(files))))

	cfg := rolling.Config{
		SimilarityWindow: envCfg.SimilarityWindow,
		EMASmoothingN:    envCfg.EMASmoothingN,
		RecentCap:        envCfg.RecentCap,
	}

	if importDryRun {
		s, err := newDryRunStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := ingest.RunAll(ctx, s, imports, cfg, !importFast, concurrencyFor(importFast)); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("[%s] Dry run complete, nothing persisted.", runID)))
		return nil
	}

	s, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := ingest.RunAll(ctx, s, imports, cfg, !importFast, concurrencyFor(importFast)); err != nil {
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("[%s] Import complete.", runID)))
	return nil
}

func concurrencyFor(fast bool) int {
	if !fast {
		return 1
	}
	return runtime.NumCPU()
}

func discoverFiles(path, glob string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	matches, err := filepath.Glob(filepath.Join(path, glob))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", glob, err)
	}
	return matches, nil
}
