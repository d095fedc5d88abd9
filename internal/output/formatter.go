package output

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sdpower/ahelpstats/internal/store"
	"github.com/sdpower/ahelpstats/internal/types"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

type Formatter struct {
	options FormatterOptions
}

type FormatterOptions struct {
	Format   string // "table", "json", "csv"
	NoColor  bool
	MaxWidth int
}

func NewFormatter(opts FormatterOptions) *Formatter {
	if opts.MaxWidth == 0 {
		opts.MaxWidth = 120
	}
	return &Formatter{options: opts}
}

// ValidFormat reports whether format is one the formatter can produce.
func ValidFormat(format string) bool {
	switch format {
	case FormatTable, FormatJSON, FormatCSV:
		return true
	}
	return false
}

func (f *Formatter) FormatGlobalReport(title string, rows []types.AdminRow, servers []string) (string, error) {
	switch f.options.Format {
	case FormatJSON:
		return f.FormatJSON(rows)
	case FormatCSV:
		return f.FormatCSV(globalCSV(rows, servers))
	default:
		return NewTableWriterFormatter(f.options.NoColor).FormatGlobalReport(title, rows, servers), nil
	}
}

func (f *Formatter) FormatDailyMatrix(title string, m types.DailyMatrix) (string, error) {
	switch f.options.Format {
	case FormatJSON:
		return f.FormatJSON(m)
	case FormatCSV:
		return f.FormatCSV(dailyCSV(m))
	default:
		return NewTableWriterFormatter(f.options.NoColor).FormatDailyMatrix(title, m), nil
	}
}

// FormatHourlyReport renders the date × hour rows; the table form adds the
// hour-of-day chart and rate bars under the table.
func (f *Formatter) FormatHourlyReport(rows []types.HourlyRow, profile [24]types.HourBucket) (string, error) {
	switch f.options.Format {
	case FormatJSON:
		return f.FormatJSON(struct {
			Rows    []types.HourlyRow    `json:"rows"`
			Profile [24]types.HourBucket `json:"hour_of_day"`
		}{rows, profile})
	case FormatCSV:
		return f.FormatCSV(hourlyCSV(rows))
	default:
		var out strings.Builder
		out.WriteString(NewTableWriterFormatter(f.options.NoColor).FormatHourlyReport(rows))
		if len(rows) > 0 {
			out.WriteString("\n")
			out.WriteString(HourlyChart(profile, f.options.MaxWidth-20, 10, f.options.NoColor))
			out.WriteString("\n")
			out.WriteString(HourlyProfile(profile, 30, f.options.NoColor))
		}
		return out.String(), nil
	}
}

func (f *Formatter) FormatServerSummaries(summaries []types.ServerSummary) (string, error) {
	switch f.options.Format {
	case FormatJSON:
		return f.FormatJSON(summaries)
	case FormatCSV:
		return f.FormatCSV(serversCSV(summaries))
	default:
		return NewTableWriterFormatter(f.options.NoColor).FormatServerSummaries(summaries), nil
	}
}

func (f *Formatter) FormatRuns(runs []store.Run) (string, error) {
	switch f.options.Format {
	case FormatJSON:
		return f.FormatJSON(runs)
	case FormatCSV:
		data := [][]string{{"id", "created_at", "window_start", "window_end", "files", "servers", "admins", "chats", "ahelps", "admin_only_ahelps", "requests", "processed"}}
		for _, r := range runs {
			data = append(data, []string{
				strconv.FormatInt(r.ID, 10),
				r.GeneratedAt.Format(time.RFC3339),
				r.WindowStart,
				r.WindowEnd,
				strconv.Itoa(r.Files),
				strconv.Itoa(r.Servers),
				strconv.Itoa(r.Admins),
				strconv.Itoa(r.Chats),
				strconv.Itoa(r.Ahelps),
				strconv.Itoa(r.AdminOnlyAhelps),
				strconv.Itoa(r.Requests),
				strconv.Itoa(r.Processed),
			})
		}
		return f.FormatCSV(data)
	default:
		return NewTableWriterFormatter(f.options.NoColor).FormatRuns(runs), nil
	}
}

// FormatSummary renders the run headline; tables get the stats box.
func (f *Formatter) FormatSummary(summary types.RunSummary) (string, error) {
	switch f.options.Format {
	case FormatJSON:
		return f.FormatJSON(summary)
	case FormatCSV:
		return f.FormatCSV([][]string{
			{"files", "servers", "admins", "ahelps", "admin_only_ahelps", "chats", "requests", "processed"},
			{
				strconv.Itoa(summary.Files),
				strconv.Itoa(summary.Servers),
				strconv.Itoa(summary.Admins),
				strconv.Itoa(summary.Ahelps),
				strconv.Itoa(summary.AdminOnlyAhelps),
				strconv.Itoa(summary.Chats),
				strconv.Itoa(summary.Requests),
				strconv.Itoa(summary.Processed),
			},
		})
	default:
		return StatsBox(summary, f.options.NoColor), nil
	}
}

func (f *Formatter) FormatJSON(data interface{}) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(jsonData) + "\n", nil
}

func (f *Formatter) FormatCSV(data [][]string) (string, error) {
	var output strings.Builder
	for _, row := range data {
		for i, cell := range row {
			if i > 0 {
				output.WriteString(",")
			}
			if strings.ContainsAny(cell, "\",\n") {
				output.WriteString("\"")
				output.WriteString(strings.ReplaceAll(cell, "\"", "\"\""))
				output.WriteString("\"")
			} else {
				output.WriteString(cell)
			}
		}
		output.WriteString("\n")
	}
	return output.String(), nil
}

func globalCSV(rows []types.AdminRow, servers []string) [][]string {
	header := []string{
		"admin", "role", "ahelps", "mentions", "sessions",
		"admin_only_ahelps", "admin_only_mentions", "admin_only_sessions",
	}
	for _, server := range servers {
		header = append(header, "ahelps_"+server)
	}

	data := [][]string{header}
	for _, r := range rows {
		line := []string{
			r.Name,
			r.Role,
			strconv.Itoa(r.Ahelps),
			strconv.Itoa(r.Mentions),
			strconv.Itoa(r.Sessions),
			strconv.Itoa(r.AdminOnlyAhelps),
			strconv.Itoa(r.AdminOnlyMentions),
			strconv.Itoa(r.AdminOnlySessions),
		}
		for _, server := range servers {
			line = append(line, strconv.Itoa(r.PerServer[server]))
		}
		data = append(data, line)
	}
	return data
}

func dailyCSV(m types.DailyMatrix) [][]string {
	header := []string{"admin"}
	for _, d := range m.Dates {
		header = append(header, string(d))
	}
	header = append(header, "total")

	data := [][]string{header}
	for i, admin := range m.Admins {
		line := []string{admin}
		for _, n := range m.Counts[i] {
			line = append(line, strconv.Itoa(n))
		}
		line = append(line, strconv.Itoa(m.Total(i)))
		data = append(data, line)
	}
	return data
}

func hourlyCSV(rows []types.HourlyRow) [][]string {
	data := [][]string{{"date", "hour", "total", "processed", "rate"}}
	for _, r := range rows {
		data = append(data, []string{
			string(r.Date),
			strconv.Itoa(r.Hour),
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Processed),
			strconv.FormatFloat(r.Rate, 'f', 4, 64),
		})
	}
	return data
}

func serversCSV(summaries []types.ServerSummary) [][]string {
	data := [][]string{{"server", "chats", "admins", "ahelps", "admin_only_ahelps", "requests", "processed", "rate"}}
	for _, s := range summaries {
		data = append(data, []string{
			s.Name,
			strconv.Itoa(s.Chats),
			strconv.Itoa(s.Admins),
			strconv.Itoa(s.Ahelps),
			strconv.Itoa(s.AdminOnlyAhelps),
			strconv.Itoa(s.Requests),
			strconv.Itoa(s.Processed),
			strconv.FormatFloat(s.Rate, 'f', 4, 64),
		})
	}
	return data
}
