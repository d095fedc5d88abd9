package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sdpower/ahelpstats/internal/export"
	"github.com/sdpower/ahelpstats/internal/output"
	"github.com/sdpower/ahelpstats/internal/store"
)

func NewExportCommand() *cobra.Command {
	var (
		flags      sharedFlags
		outputPath string
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full report to an Excel workbook",
		Long: `Write the global, moderator, daily and hourly tables to an .xlsx workbook.
With --db (or DATABASE_PATH) the run summary is also stored for the history command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.run(cmd.Context())
			if err != nil {
				return err
			}

			if outputPath == "" {
				outputPath = a.cfg.ExcelFilename
			}
			if dbPath == "" {
				dbPath = a.cfg.DatabasePath
			}

			report := export.NewReport(a.calc, a.global, a.cfg.ModeratorKeywords)
			if err := export.WriteWorkbook(outputPath, report); err != nil {
				return fmt.Errorf("failed to write workbook: %w", err)
			}
			log.Info().Str("path", outputPath).Int("admins", len(report.Global)).Msg("Workbook written")

			summary := a.summary()
			if dbPath != "" {
				db, err := store.New(dbPath)
				if err != nil {
					return fmt.Errorf("failed to open run database: %w", err)
				}
				defer db.Close()

				start, end := windowBounds(a.window)
				id, err := db.SaveRun(cmd.Context(), summary, start, end, report.Global)
				if err != nil {
					return fmt.Errorf("failed to save run: %w", err)
				}
				log.Info().Int64("run", id).Str("db", db.Path()).Msg("Run saved")
			}

			text, err := a.formatter.FormatSummary(summary)
			if err != nil {
				return fmt.Errorf("failed to format summary: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, text)
			if flags.format == output.FormatTable {
				fmt.Fprintf(out, "\nStatistics saved to %s\n", outputPath)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Workbook path (default: EXCEL_FILENAME or ahelp_stats.xlsx)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to record the run in (default: DATABASE_PATH)")

	return cmd
}
