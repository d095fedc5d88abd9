package monitor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sdpower/ahelpstats/internal/calculator"
	"github.com/sdpower/ahelpstats/internal/loader"
	"github.com/sdpower/ahelpstats/internal/types"
)

type Monitor struct {
	options Options
}

type Options struct {
	DataPath       string
	Interval       time.Duration
	NoColor        bool
	Continuous     bool
	Watch          bool
	TopAdmins      int
	Timezone       *time.Location
	SkipSelfAhelps bool
	Window         *calculator.Window
	Out            io.Writer
}

// Snapshot is the result of one analysis pass shown by the monitor
type Snapshot struct {
	Summary types.RunSummary
	Top     []types.AdminRow
	Day     types.Date
	Today   [24]types.HourBucket
	Updated time.Time
}

func New(opts Options) *Monitor {
	if opts.Interval == 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.TopAdmins <= 0 {
		opts.TopAdmins = 10
	}
	if opts.Timezone == nil {
		opts.Timezone = time.UTC
	}

	return &Monitor{
		options: opts,
	}
}

func (m *Monitor) Start(ctx context.Context) error {
	if m.options.Continuous {
		return startDashboard(ctx, m.options)
	}
	return m.runOnce(ctx)
}

func (m *Monitor) runOnce(ctx context.Context) error {
	snap, err := Analyze(ctx, m.options, time.Now())
	if err != nil {
		return fmt.Errorf("failed to analyze data: %w", err)
	}

	_, err = io.WriteString(m.options.Out, render(snap, m.options, 0))
	return err
}

// Analyze loads and aggregates the data folder once. now selects which day
// is reported as today.
func Analyze(ctx context.Context, opts Options, now time.Time) (*Snapshot, error) {
	dataLoader := loader.New()
	sources, err := dataLoader.LoadFromPath(ctx, opts.DataPath)
	if err != nil {
		return nil, err
	}

	calc := calculator.New()
	calc.SetTimezone(opts.Timezone)
	calc.SetSkipSelfAhelps(opts.SkipSelfAhelps)

	global := calc.AggregateAll(sources, opts.Window)
	rows := calc.GenerateGlobalReport(global)
	if len(rows) > opts.TopAdmins {
		rows = rows[:opts.TopAdmins]
	}

	day := types.Date(now.In(opts.Timezone).Format(types.DateFormat))
	hourly := calculator.GlobalHourly(global)

	return &Snapshot{
		Summary: calculator.Summarize(global, len(sources)),
		Top:     rows,
		Day:     day,
		Today:   calculator.HourOfDayProfile(map[types.Date]map[int]*types.HourBucket{day: hourly[day]}),
		Updated: now,
	}, nil
}
