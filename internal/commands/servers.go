package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdpower/ahelpstats/internal/calculator"
)

func NewServersCommand() *cobra.Command {
	var flags sharedFlags

	cmd := &cobra.Command{
		Use:   "servers",
		Short: "Show totals per server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.run(cmd.Context())
			if err != nil {
				return err
			}

			report, err := a.formatter.FormatServerSummaries(calculator.GenerateServerSummaries(a.global))
			if err != nil {
				return fmt.Errorf("failed to format report: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), report)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
