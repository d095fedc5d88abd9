package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdpower/ahelpstats/internal/commands"
)

func main() {
	ctx := context.Background()

	rootCmd := &cobra.Command{
		Use:          "ahelpstats",
		Short:        "Ahelp chat statistics tool",
		Long:         `A CLI tool for counting admin responses to player help requests in exported ahelp chat logs.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		commands.NewGlobalCommand(),
		commands.NewDailyCommand(),
		commands.NewHourlyCommand(),
		commands.NewServersCommand(),
		commands.NewExportCommand(),
		commands.NewHistoryCommand(),
		commands.NewMonitorCommand(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
