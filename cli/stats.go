package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStats creates the stats command.
func NewStats() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Report aggregate row counts",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	st, err := s.Stats(ctx)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	fmt.Println(boxStyle.Render(fmt.Sprintf(
		"%s %d\n%s %d\n%s %d\n%s %d",
		labelStyle.Render("Guilds:"), st.Guilds,
		labelStyle.Render("Users:"), st.Users,
		labelStyle.Render("Activity rows:"), st.ActivityRows,
		labelStyle.Render("User levels rows:"), st.UserLevelsRows,
	)))

	return nil
}
