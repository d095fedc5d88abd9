package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sdpower/ahelpstats/internal/store"
	"github.com/sdpower/ahelpstats/internal/types"
)

// TableWriterFormatter renders reports as bordered tables
type TableWriterFormatter struct {
	noColor bool
}

func NewTableWriterFormatter(noColor bool) *TableWriterFormatter {
	return &TableWriterFormatter{noColor: noColor}
}

func (f *TableWriterFormatter) FormatGlobalReport(title string, rows []types.AdminRow, servers []string) string {
	if len(rows) == 0 {
		return f.formatEmptyReport(title)
	}

	var buf bytes.Buffer
	table := newTable(&buf)

	header := []string{
		"Admin\n",
		"Role\n",
		"Ahelps\n",
		"Mentions\n",
		"Sessions\n",
		"Admin Only\nAhelps",
		"Admin Only\nMentions",
		"Admin Only\nSessions",
	}
	for _, server := range servers {
		header = append(header, "Ahelps\n"+server)
	}
	table.Header(header)

	var total types.AdminStats
	perServer := make(map[string]int, len(servers))

	for _, row := range rows {
		total.Add(&row.AdminStats)

		cells := []string{
			row.Name,
			row.Role,
			f.formatLargeNumber(row.Ahelps),
			f.formatLargeNumber(row.Mentions),
			f.formatLargeNumber(row.Sessions),
			f.formatLargeNumber(row.AdminOnlyAhelps),
			f.formatLargeNumber(row.AdminOnlyMentions),
			f.formatLargeNumber(row.AdminOnlySessions),
		}
		for _, server := range servers {
			perServer[server] += row.PerServer[server]
			cells = append(cells, f.formatLargeNumber(row.PerServer[server]))
		}
		table.Append(cells)
	}

	footer := []string{
		"Total",
		"",
		f.formatLargeNumber(total.Ahelps),
		f.formatLargeNumber(total.Mentions),
		f.formatLargeNumber(total.Sessions),
		f.formatLargeNumber(total.AdminOnlyAhelps),
		f.formatLargeNumber(total.AdminOnlyMentions),
		f.formatLargeNumber(total.AdminOnlySessions),
	}
	for _, server := range servers {
		footer = append(footer, f.formatLargeNumber(perServer[server]))
	}
	table.Footer(footer)
	table.Render()

	return f.title(title) + f.colorize(buf.String())
}

func (f *TableWriterFormatter) FormatDailyMatrix(title string, m types.DailyMatrix) string {
	if len(m.Admins) == 0 {
		return f.formatEmptyReport(title)
	}

	var buf bytes.Buffer
	table := newTable(&buf)

	header := []string{"Admin\n"}
	for _, d := range m.Dates {
		// YYYY\nMM-DD keeps wide matrices readable
		parts := strings.SplitN(string(d), "-", 2)
		if len(parts) == 2 {
			header = append(header, parts[0]+"\n"+parts[1])
		} else {
			header = append(header, string(d)+"\n")
		}
	}
	header = append(header, "Total\n")
	table.Header(header)

	dayTotals := make([]int, len(m.Dates))
	var grand int
	for i, admin := range m.Admins {
		cells := []string{admin}
		for j, n := range m.Counts[i] {
			dayTotals[j] += n
			cells = append(cells, f.formatLargeNumber(n))
		}
		rowTotal := m.Total(i)
		grand += rowTotal
		cells = append(cells, f.formatLargeNumber(rowTotal))
		table.Append(cells)
	}

	footer := []string{"Total"}
	for _, n := range dayTotals {
		footer = append(footer, f.formatLargeNumber(n))
	}
	footer = append(footer, f.formatLargeNumber(grand))
	table.Footer(footer)
	table.Render()

	return f.title(title) + f.colorize(buf.String())
}

func (f *TableWriterFormatter) FormatHourlyReport(rows []types.HourlyRow) string {
	const title = "Help Requests by Hour"
	if len(rows) == 0 {
		return f.formatEmptyReport(title)
	}

	var buf bytes.Buffer
	table := newTable(&buf)
	table.Header([]string{"Date\n", "Hour\n", "Requests\n", "Processed\n", "Response\nRate"})

	var total types.HourBucket
	for _, row := range rows {
		total.Total += row.Total
		total.Processed += row.Processed
		table.Append([]string{
			string(row.Date),
			fmt.Sprintf("%02d:00", row.Hour),
			f.formatLargeNumber(row.Total),
			f.formatLargeNumber(row.Processed),
			formatRate(row.Rate),
		})
	}

	table.Footer([]string{
		"Total",
		"",
		f.formatLargeNumber(total.Total),
		f.formatLargeNumber(total.Processed),
		formatRate(total.ResponseRate()),
	})
	table.Render()

	return f.title(title) + f.colorize(buf.String())
}

func (f *TableWriterFormatter) FormatServerSummaries(summaries []types.ServerSummary) string {
	const title = "Servers"
	if len(summaries) == 0 {
		return f.formatEmptyReport(title)
	}

	var buf bytes.Buffer
	table := newTable(&buf)
	table.Header([]string{
		"Server\n",
		"Chats\n",
		"Admins\n",
		"Ahelps\n",
		"Admin Only\nAhelps",
		"Requests\n",
		"Processed\n",
		"Response\nRate",
	})

	var total types.ServerSummary
	for _, s := range summaries {
		total.Chats += s.Chats
		total.Ahelps += s.Ahelps
		total.AdminOnlyAhelps += s.AdminOnlyAhelps
		total.Requests += s.Requests
		total.Processed += s.Processed

		table.Append([]string{
			s.Name,
			f.formatLargeNumber(s.Chats),
			f.formatLargeNumber(s.Admins),
			f.formatLargeNumber(s.Ahelps),
			f.formatLargeNumber(s.AdminOnlyAhelps),
			f.formatLargeNumber(s.Requests),
			f.formatLargeNumber(s.Processed),
			formatRate(s.Rate),
		})
	}

	totalRate := types.HourBucket{Total: total.Requests, Processed: total.Processed}.ResponseRate()
	table.Footer([]string{
		"Total",
		f.formatLargeNumber(total.Chats),
		"",
		f.formatLargeNumber(total.Ahelps),
		f.formatLargeNumber(total.AdminOnlyAhelps),
		f.formatLargeNumber(total.Requests),
		f.formatLargeNumber(total.Processed),
		formatRate(totalRate),
	})
	table.Render()

	return f.title(title) + f.colorize(buf.String())
}

func (f *TableWriterFormatter) FormatRuns(runs []store.Run) string {
	const title = "Stored Runs"
	if len(runs) == 0 {
		return f.formatEmptyReport(title)
	}

	var buf bytes.Buffer
	table := newTable(&buf)
	table.Header([]string{"ID\n", "Created\n", "Since\n", "Until\n", "Files\n", "Admins\n", "Ahelps\n", "Chats\n", "Response\nRate"})

	for _, run := range runs {
		rate := types.HourBucket{Total: run.Requests, Processed: run.Processed}.ResponseRate()
		table.Append([]string{
			fmt.Sprintf("%d", run.ID),
			run.GeneratedAt.Format("2006-01-02 15:04"),
			orDash(run.WindowStart),
			orDash(run.WindowEnd),
			f.formatLargeNumber(run.Files),
			f.formatLargeNumber(run.Admins),
			f.formatLargeNumber(run.Ahelps),
			f.formatLargeNumber(run.Chats),
			formatRate(rate),
		})
	}
	table.Render()

	return f.title(title) + f.colorize(buf.String())
}

func newTable(buf *bytes.Buffer) *tablewriter.Table {
	return tablewriter.NewTable(buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On}},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignRight},
			},
		}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
}

func (f *TableWriterFormatter) title(text string) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		MarginLeft(1)
	if !f.noColor {
		style = style.Bold(true).BorderForeground(lipgloss.Color("240"))
	}
	return "\n" + style.Render(text) + "\n\n"
}

// colorize paints borders gray, the two header lines cyan and the Total
// row yellow.
func (f *TableWriterFormatter) colorize(tableOutput string) string {
	if f.noColor {
		return tableOutput
	}

	gray := "\033[90m"
	cyan := "\033[36m"
	yellow := "\033[33m"
	reset := "\033[0m"

	lines := strings.Split(tableOutput, "\n")
	var colored strings.Builder

	for i, line := range lines {
		switch {
		case line == "":
		case strings.HasPrefix(line, "┌") || strings.HasPrefix(line, "├") || strings.HasPrefix(line, "└"):
			colored.WriteString(gray + line + reset)
		case strings.Contains(line, "│"):
			isTotal := strings.Contains(line, "Total")
			for j, part := range strings.Split(line, "│") {
				if j > 0 {
					colored.WriteString(gray + "│" + reset)
				}
				switch {
				case strings.TrimSpace(part) == "":
					colored.WriteString(part)
				case i <= 2:
					colored.WriteString(cyan + part + reset)
				case isTotal:
					colored.WriteString(yellow + part + reset)
				default:
					colored.WriteString(part)
				}
			}
		default:
			colored.WriteString(line)
		}

		if i < len(lines)-1 {
			colored.WriteString("\n")
		}
	}

	return colored.String()
}

func (f *TableWriterFormatter) formatEmptyReport(title string) string {
	return f.title(title) + "No ahelp data found for the specified criteria.\n"
}

func (f *TableWriterFormatter) formatLargeNumber(n int) string {
	if n == 0 {
		return "-"
	}
	return formatNumberWithCommas(n)
}

// formatNumberWithCommas formats a number with thousand separators
func formatNumberWithCommas(n int) string {
	if n < 0 {
		return "-" + formatNumberWithCommas(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatNumberWithCommas(n/1000) + "," + fmt.Sprintf("%03d", n%1000)
}

func formatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
