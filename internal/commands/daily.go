package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdpower/ahelpstats/internal/calculator"
	"github.com/sdpower/ahelpstats/internal/types"
)

func NewDailyCommand() *cobra.Command {
	var (
		flags     sharedFlags
		server    string
		adminOnly bool
	)

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show ahelps per admin per day",
		Long: `Show a date × admin matrix of answered ahelps, either for one server
or for all servers combined.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.run(cmd.Context())
			if err != nil {
				return err
			}

			var (
				table map[types.Date]map[string]int
				title string
			)
			if server != "" {
				src, err := a.findServer(server)
				if err != nil {
					return err
				}
				table = src.DailyAhelps
				if adminOnly {
					table = src.DailyAdminOnlyAhelps
				}
				title = "Daily Ahelps - " + server
			} else {
				table = calculator.GlobalDaily(a.global, adminOnly)
				title = "Daily Ahelps - All Servers"
			}
			if adminOnly {
				title += " (admin only)"
			}

			report, err := a.formatter.FormatDailyMatrix(title, calculator.GenerateDailyMatrix(table))
			if err != nil {
				return fmt.Errorf("failed to format report: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), report)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&server, "server", "", "Only this server (default: all servers combined)")
	cmd.Flags().BoolVar(&adminOnly, "admin-only", false, "Count only admin-only responses")

	return cmd
}
