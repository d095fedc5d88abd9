package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdpower/ahelpstats/internal/calculator"
	"github.com/sdpower/ahelpstats/internal/types"
)

func NewHourlyCommand() *cobra.Command {
	var (
		flags  sharedFlags
		server string
	)

	cmd := &cobra.Command{
		Use:   "hourly",
		Short: "Show help requests and processing rate per hour",
		Long: `Show, for every date and hour, how many chats contained a player
message and how many of those got an admin response.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.run(cmd.Context())
			if err != nil {
				return err
			}

			var table map[types.Date]map[int]*types.HourBucket
			if server != "" {
				src, err := a.findServer(server)
				if err != nil {
					return err
				}
				table = src.HourlyAhelps
			} else {
				table = calculator.GlobalHourly(a.global)
			}

			report, err := a.formatter.FormatHourlyReport(
				calculator.GenerateHourlyReport(table),
				calculator.HourOfDayProfile(table),
			)
			if err != nil {
				return fmt.Errorf("failed to format report: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), report)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&server, "server", "", "Only this server (default: all servers combined)")

	return cmd
}
