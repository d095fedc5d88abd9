package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/sdpower/ahelpstats/internal/calculator"
	"github.com/sdpower/ahelpstats/internal/config"
	"github.com/sdpower/ahelpstats/internal/loader"
	"github.com/sdpower/ahelpstats/internal/logger"
	"github.com/sdpower/ahelpstats/internal/output"
	"github.com/sdpower/ahelpstats/internal/types"
)

// sharedFlags are the flags every analysis command accepts
type sharedFlags struct {
	format            string
	dataPath          string
	noColor           bool
	debug             bool
	timezone          string
	since             string
	until             string
	days              int
	excludeSelfAhelps bool
}

func (f *sharedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", output.FormatTable, "Output format (table, json, csv)")
	cmd.Flags().StringVar(&f.dataPath, "data-path", "", "Export file or directory (default: DATA_FOLDER or ./data)")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "Show debug information")
	cmd.Flags().StringVarP(&f.timezone, "timezone", "z", "", "Timezone for day and hour buckets (e.g., UTC, Europe/Moscow). Default: STATS_TIMEZONE or UTC")
	cmd.Flags().StringVarP(&f.since, "since", "s", "", "Only messages from this date (YYYY-MM-DD or YYYYMMDD)")
	cmd.Flags().StringVarP(&f.until, "until", "u", "", "Only messages up to the end of this date (YYYY-MM-DD or YYYYMMDD)")
	cmd.Flags().IntVar(&f.days, "days", 0, "Only messages from the last N days")
	cmd.Flags().BoolVar(&f.excludeSelfAhelps, "exclude-self-ahelps", false, "Do not credit an ahelp to an admin who also wrote as the player")
}

// analysis is the merged result of one run plus what produced it
type analysis struct {
	cfg       *config.Config
	calc      *calculator.Calculator
	window    *calculator.Window
	sources   []types.Source
	global    *types.GlobalStats
	formatter *output.Formatter
}

func (a *analysis) servers() []string {
	names := lo.Keys(a.global.Sources)
	sort.Strings(names)
	return names
}

func (a *analysis) summary() types.RunSummary {
	return calculator.Summarize(a.global, len(a.sources))
}

// setup initializes logging and resolves config, timezone and window
// without touching the data.
func (f *sharedFlags) setup() (*config.Config, *time.Location, *calculator.Window, error) {
	if !output.ValidFormat(f.format) {
		return nil, nil, nil, types.ValidationError{Field: "format", Message: fmt.Sprintf("unsupported format %q", f.format)}
	}

	if !f.noColor && !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		f.noColor = true
	}
	logger.Init(f.debug, f.noColor)

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if f.dataPath == "" {
		f.dataPath = cfg.DataFolder
	}

	loc := cfg.Timezone
	if f.timezone != "" {
		loc, err = time.LoadLocation(f.timezone)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid timezone %s: %w", f.timezone, err)
		}
	}

	window, err := buildWindow(f.since, f.until, f.days, loc, time.Now())
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, loc, window, nil
}

// run loads the data folder and aggregates it.
func (f *sharedFlags) run(ctx context.Context) (*analysis, error) {
	cfg, loc, window, err := f.setup()
	if err != nil {
		return nil, err
	}

	dataLoader := loader.New()
	dataLoader.SetDebug(f.debug)

	sources, err := dataLoader.LoadFromPath(ctx, f.dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load ahelp data: %w", err)
	}

	calc := calculator.New()
	calc.SetTimezone(loc)
	calc.SetSkipSelfAhelps(f.excludeSelfAhelps)

	return &analysis{
		cfg:     cfg,
		calc:    calc,
		window:  window,
		sources: sources,
		global:  calc.AggregateAll(sources, window),
		formatter: output.NewFormatter(output.FormatterOptions{
			Format:  f.format,
			NoColor: f.noColor,
		}),
	}, nil
}

// buildWindow turns the date flags into an aggregation window. since starts
// at midnight; until runs through the last instant of its day.
func buildWindow(since, until string, days int, loc *time.Location, now time.Time) (*calculator.Window, error) {
	if days < 0 {
		return nil, types.ValidationError{Field: "days", Message: "must not be negative"}
	}
	if days > 0 && since != "" {
		return nil, types.ValidationError{Field: "days", Message: "cannot be combined with --since"}
	}

	var start, end time.Time
	if since != "" {
		d, err := parseDate(since, loc)
		if err != nil {
			return nil, types.ValidationError{Field: "since", Message: err.Error()}
		}
		start = d
	}
	if days > 0 {
		start = now.In(loc).AddDate(0, 0, -days)
	}
	if until != "" {
		d, err := parseDate(until, loc)
		if err != nil {
			return nil, types.ValidationError{Field: "until", Message: err.Error()}
		}
		if !start.IsZero() && d.Before(dayStart(start)) {
			return nil, types.ValidationError{Field: "since", Message: types.ErrInvalidWindow.Error() + ": since is after until"}
		}
		end = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return calculator.NewWindow(start, end)
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{types.DateFormat, "20060102"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", value)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func windowBounds(w *calculator.Window) (string, string) {
	if w == nil {
		return "", ""
	}
	format := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}
	return format(w.Start), format(w.End)
}

func (a *analysis) findServer(name string) (*types.SourceStats, error) {
	src, ok := a.global.Sources[name]
	if !ok {
		return nil, types.ValidationError{
			Field:   "server",
			Message: fmt.Sprintf("unknown server %q (available: %v)", name, a.servers()),
		}
	}
	return src, nil
}
