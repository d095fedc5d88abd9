package commands

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sdpower/ahelpstats/internal/config"
	"github.com/sdpower/ahelpstats/internal/logger"
	"github.com/sdpower/ahelpstats/internal/output"
	"github.com/sdpower/ahelpstats/internal/store"
	"github.com/sdpower/ahelpstats/internal/types"
)

func NewHistoryCommand() *cobra.Command {
	var (
		format  string
		noColor bool
		debug   bool
		dbPath  string
		limit   int
		runID   int64
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs stored by export --db",
		Long:  `List stored run summaries, or show the admin table of one run with --run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !output.ValidFormat(format) {
				return types.ValidationError{Field: "format", Message: fmt.Sprintf("unsupported format %q", format)}
			}
			if limit <= 0 {
				return types.ValidationError{Field: "limit", Message: "must be positive"}
			}
			if !noColor && !isatty.IsTerminal(os.Stdout.Fd()) {
				noColor = true
			}
			logger.Init(debug, noColor)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if dbPath == "" {
				dbPath = cfg.DatabasePath
			}
			if dbPath == "" {
				return types.ValidationError{Field: "db", Message: "no database given, use --db or DATABASE_PATH"}
			}

			db, err := store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open run database: %w", err)
			}
			defer db.Close()

			formatter := output.NewFormatter(output.FormatterOptions{
				Format:  format,
				NoColor: noColor,
			})

			var text string
			if runID > 0 {
				rows, err := db.RunAdmins(cmd.Context(), runID)
				if err != nil {
					return fmt.Errorf("failed to load run: %w", err)
				}
				text, err = formatter.FormatGlobalReport(fmt.Sprintf("Run %d", runID), rows, nil)
				if err != nil {
					return fmt.Errorf("failed to format report: %w", err)
				}
			} else {
				runs, err := db.ListRuns(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("failed to list runs: %w", err)
				}
				text, err = formatter.FormatRuns(runs)
				if err != nil {
					return fmt.Errorf("failed to format runs: %w", err)
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", output.FormatTable, "Output format (table, json, csv)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&debug, "debug", false, "Show debug information")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database written by export --db (default: DATABASE_PATH)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to list")
	cmd.Flags().Int64Var(&runID, "run", 0, "Show the admin table of this run")

	return cmd
}
