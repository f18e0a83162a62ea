package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewInit creates the init command.
func NewInit() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		Long: `Create the tables the activity engine reads and writes:

  - guilds
  - users
  - user_activity (append-only)
  - user_levels`,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Println(Banner())
	fmt.Println(subtitleStyle.Render("Initializing database..."))
	fmt.Println()

	if err := os.MkdirAll(GetDataDir(), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	s, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	fmt.Println(infoStyle.Render("Creating tables and indexes..."))
	if err := s.Ensure(ctx); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	fmt.Println(successStyle.Render("  Schema ready"))

	fmt.Println()
	fmt.Println(successStyle.Render("Database initialized successfully!"))
	fmt.Println()
	fmt.Println(infoStyle.Render("Next step:"))
	fmt.Println("  activityimport import <file-or-dir> --guild <id>")
	fmt.Println()

	return nil
}
