package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdpower/ahelpstats/internal/monitor"
)

func NewMonitorCommand() *cobra.Command {
	var (
		flags      sharedFlags
		interval   time.Duration
		continuous bool
		watch      bool
		top        int
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch ahelp statistics in a live dashboard",
		Long: `Re-analyze the data folder on an interval, or when files change with --watch,
and show today's hourly load and the top admins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, loc, window, err := flags.setup()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("interval") {
				interval = cfg.MonitorRefreshInterval
			}
			if !cmd.Flags().Changed("top") {
				top = cfg.TopAdmins
			}
			if interval < time.Second {
				return fmt.Errorf("interval must be at least 1s, got %s", interval)
			}

			mon := monitor.New(monitor.Options{
				DataPath:       flags.dataPath,
				Interval:       interval,
				NoColor:        flags.noColor,
				Continuous:     continuous,
				Watch:          watch,
				TopAdmins:      top,
				Timezone:       loc,
				SkipSelfAhelps: flags.excludeSelfAhelps,
				Window:         window,
				Out:            cmd.OutOrStdout(),
			})

			if err := mon.Start(cmd.Context()); err != nil {
				return fmt.Errorf("failed to start monitor: %w", err)
			}

			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.Flags().MarkHidden("format")
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "Refresh interval (default: MONITOR_REFRESH_INTERVAL)")
	cmd.Flags().BoolVar(&continuous, "continuous", true, "Run continuously; --continuous=false prints one snapshot")
	cmd.Flags().BoolVar(&watch, "watch", false, "Also refresh when files in the data folder change")
	cmd.Flags().IntVar(&top, "top", 10, "Number of admins to show (default: TOP_ADMINS)")

	return cmd
}
