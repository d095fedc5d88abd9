package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdpower/ahelpstats/internal/calculator"
	"github.com/sdpower/ahelpstats/internal/output"
)

func NewGlobalCommand() *cobra.Command {
	var (
		flags      sharedFlags
		moderators bool
	)

	cmd := &cobra.Command{
		Use:   "global",
		Short: "Show per-admin ahelp totals across all servers",
		Long:  `Aggregate every export in the data folder and list admins by ahelps answered, with a per-server breakdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.run(cmd.Context())
			if err != nil {
				return err
			}

			rows := a.calc.GenerateGlobalReport(a.global)
			title := "Global Ahelp Statistics"
			if moderators {
				rows = calculator.FilterModerators(rows, a.cfg.ModeratorKeywords)
				title = "Moderator Ahelp Statistics"
			}

			out := cmd.OutOrStdout()
			if flags.format == output.FormatTable {
				summary, err := a.formatter.FormatSummary(a.summary())
				if err != nil {
					return fmt.Errorf("failed to format summary: %w", err)
				}
				fmt.Fprintln(out, summary)
			}

			report, err := a.formatter.FormatGlobalReport(title, rows, a.servers())
			if err != nil {
				return fmt.Errorf("failed to format report: %w", err)
			}
			fmt.Fprint(out, report)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&moderators, "moderators", false, "Only admins whose role matches MODERATOR_ROLE_KEYWORDS")

	return cmd
}
