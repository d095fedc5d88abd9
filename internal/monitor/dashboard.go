package monitor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sdpower/ahelpstats/internal/logger"
	"github.com/sdpower/ahelpstats/internal/output"
)

// dashboardModel is the bubbletea state of the live monitor
type dashboardModel struct {
	options  Options
	snapshot *Snapshot
	err      error
	loading  bool
	width    int
	quitting bool
	changes  <-chan struct{}
}

type tickMsg time.Time

type fileChangedMsg struct{}

type snapshotMsg struct {
	snapshot *Snapshot
	err      error
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.options.Interval),
		m.refresh(),
		waitForChange(m.changes),
		tea.WindowSize(),
	)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.refresh()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		m.loading = true
		return m, tea.Batch(tickCmd(m.options.Interval), m.refresh())

	case fileChangedMsg:
		m.loading = true
		return m, tea.Batch(waitForChange(m.changes), m.refresh())

	case snapshotMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.snapshot = msg.snapshot
		}
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.quitting {
		return ""
	}

	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress 'q' to quit, 'r' to retry", m.err)
	}

	if m.snapshot == nil {
		waitingStyle := lipgloss.NewStyle().Bold(true)
		if !m.options.NoColor {
			waitingStyle = waitingStyle.Foreground(lipgloss.Color("226"))
		}
		return waitingStyle.Render("Loading ahelp data...") + "\n\nPress 'q' to quit."
	}

	view := render(m.snapshot, m.options, m.width)
	status := fmt.Sprintf("↻ Refreshing every %s", m.options.Interval)
	if m.changes != nil {
		status += " and on file changes"
	}
	if m.loading {
		status += "  •  updating..."
	}
	status += "  •  'r' refresh  •  'q' quit"

	footerStyle := lipgloss.NewStyle()
	if !m.options.NoColor {
		footerStyle = footerStyle.Foreground(lipgloss.Color("240"))
	}
	return view + "\n" + footerStyle.Render(status)
}

func (m dashboardModel) refresh() tea.Cmd {
	opts := m.options
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		snap, err := Analyze(ctx, opts, time.Now())
		return snapshotMsg{snapshot: snap, err: err}
	}
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks until the watcher fires. A nil channel disables it.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

// render draws the summary box, the top admins and today's hourly rates.
func render(snap *Snapshot, opts Options, width int) string {
	var out strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true)
	if !opts.NoColor {
		titleStyle = titleStyle.Foreground(lipgloss.Color("205"))
	}
	out.WriteString(titleStyle.Render("AHELP LIVE MONITOR"))
	out.WriteString(fmt.Sprintf("  updated %s\n\n", snap.Updated.In(opts.Timezone).Format("15:04:05")))

	out.WriteString(output.StatsBox(snap.Summary, opts.NoColor))
	out.WriteString("\n")

	out.WriteString(topAdminsTable(snap, opts.NoColor))
	out.WriteString("\n")

	out.WriteString(fmt.Sprintf("Today (%s) response rate by hour:\n", snap.Day))
	profile := output.HourlyProfile(snap.Today, barWidth(width), opts.NoColor)
	if profile == "" {
		profile = "no help requests yet\n"
	}
	out.WriteString(profile)

	return out.String()
}

func topAdminsTable(snap *Snapshot, noColor bool) string {
	var buf bytes.Buffer

	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignCenter},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	table.Header([]string{"#", "Admin", "Role", "Ahelps", "Mentions", "Sessions"})
	for i, row := range snap.Top {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			row.Name,
			row.Role,
			fmt.Sprintf("%d", row.Ahelps),
			fmt.Sprintf("%d", row.Mentions),
			fmt.Sprintf("%d", row.Sessions),
		})
	}
	table.Render()

	heading := "Top admins"
	if !noColor {
		heading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36")).Render(heading)
	}
	return heading + "\n" + buf.String()
}

func barWidth(termWidth int) int {
	if termWidth <= 0 {
		return 30
	}
	w := termWidth - 30
	if w < 10 {
		return 10
	}
	if w > 60 {
		return 60
	}
	return w
}

// startDashboard runs the full-screen monitor until the user quits.
func startDashboard(ctx context.Context, opts Options) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("live monitoring requires an interactive terminal (TTY)")
	}

	model := dashboardModel{options: opts}

	if opts.Watch {
		w, err := NewWatcher(opts.DataPath)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", opts.DataPath, err)
		}
		defer func() { _ = w.Close() }()
		model.changes = w.Changes()
	}

	// Logs would draw over the alternate screen.
	logger.Quiet()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	go func() {
		select {
		case <-sigChan:
			p.Quit()
		case <-ctx.Done():
		}
	}()

	fmt.Println("ℹ Live monitoring started. Press 'q' or Ctrl+C to quit.")
	_, err := p.Run()
	fmt.Println("ℹ Live monitoring stopped.")
	return err
}
