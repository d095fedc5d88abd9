// Package export writes analysis results to an Excel workbook.
package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/sdpower/ahelpstats/internal/calculator"
	"github.com/sdpower/ahelpstats/internal/types"
)

const maxSheetName = 31

var (
	forbiddenSheetRe = regexp.MustCompile(`[\\/*?:\[\]]`)
	nonWordRe        = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// Report is everything one workbook holds.
type Report struct {
	Global      []types.AdminRow
	Moderators  []types.AdminRow
	Servers     []string
	Daily       map[string]types.DailyMatrix
	GlobalDaily types.DailyMatrix
	Hourly      map[string][]types.HourlyRow
}

// NewReport prepares the workbook content from merged stats.
func NewReport(calc *calculator.Calculator, global *types.GlobalStats, moderatorKeywords []string) Report {
	rows := calc.GenerateGlobalReport(global)
	servers := lo.Keys(global.Sources)
	sort.Strings(servers)

	report := Report{
		Global:      rows,
		Moderators:  calculator.FilterModerators(rows, moderatorKeywords),
		Servers:     servers,
		Daily:       make(map[string]types.DailyMatrix, len(servers)),
		GlobalDaily: calculator.GenerateDailyMatrix(calculator.GlobalDaily(global, false)),
		Hourly:      make(map[string][]types.HourlyRow, len(servers)),
	}
	for _, name := range servers {
		src := global.Sources[name]
		report.Daily[name] = calculator.GenerateDailyMatrix(src.DailyAhelps)
		report.Hourly[name] = calculator.GenerateHourlyReport(src.HourlyAhelps)
	}
	return report
}

// CleanSheetName replaces characters Excel rejects and non-word runs with
// "_" and cuts the result to 31 characters.
func CleanSheetName(name string) string {
	name = forbiddenSheetRe.ReplaceAllString(name, "_")
	name = nonWordRe.ReplaceAllString(name, "_")
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	if name == "" {
		name = "_"
	}
	return name
}

// WriteWorkbook writes the report to path, replacing any existing file.
func WriteWorkbook(path string, r Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	w := &writer{file: f, used: make(map[string]bool)}
	if err := w.init(); err != nil {
		return err
	}

	w.adminSheet("Global", r.Global, r.Servers)
	w.adminSheet("Moderators", r.Moderators, r.Servers)
	for _, server := range r.Servers {
		w.dailySheet("Daily_Ahelps_"+server, r.Daily[server])
	}
	w.dailySheet("Daily_Ahelps_Global", r.GlobalDaily)
	for _, server := range r.Servers {
		w.hourlySheet("Hourly_"+server, r.Hourly[server])
	}

	if w.err != nil {
		return fmt.Errorf("failed to build workbook: %w", w.err)
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("sheets", len(f.GetSheetList())).Msg("workbook written")
	return nil
}

// writer keeps the first error and turns later calls into no-ops.
type writer struct {
	file   *excelize.File
	used   map[string]bool
	header int
	first  bool
	err    error
}

func (w *writer) init() error {
	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	w.header = style
	w.first = true
	return nil
}

// sheet creates a uniquely named sheet; the default sheet is reused for the
// first one.
func (w *writer) sheet(raw string) string {
	if w.err != nil {
		return ""
	}

	name := CleanSheetName(raw)
	base := name
	for i := 2; w.used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf("_%d", i)
		runes := []rune(base)
		if len(runes)+len(suffix) > maxSheetName {
			runes = runes[:maxSheetName-len(suffix)]
		}
		name = string(runes) + suffix
	}
	w.used[strings.ToLower(name)] = true

	if w.first {
		w.first = false
		w.err = w.file.SetSheetName("Sheet1", name)
		return name
	}
	if _, err := w.file.NewSheet(name); err != nil {
		w.err = err
	}
	return name
}

func (w *writer) row(sheet string, index int, values []interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, index)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.file.SetSheetRow(sheet, cell, &values)
}

func (w *writer) headerRow(sheet string, values []interface{}) {
	w.row(sheet, 1, values)
	if w.err != nil {
		return
	}
	w.err = w.file.SetRowStyle(sheet, 1, 1, w.header)
	if w.err == nil {
		w.err = w.file.SetColWidth(sheet, "A", "A", 24)
	}
}

func (w *writer) adminSheet(title string, rows []types.AdminRow, servers []string) {
	sheet := w.sheet(title)

	header := []interface{}{
		"Admin", "Role", "Ahelps", "Mentions", "Sessions",
		"Admin Only Ahelps", "Admin Only Mentions", "Admin Only Sessions",
	}
	for _, server := range servers {
		header = append(header, "Ahelps_"+server)
	}
	w.headerRow(sheet, header)

	for i, r := range rows {
		values := []interface{}{
			r.Name, r.Role, r.Ahelps, r.Mentions, r.Sessions,
			r.AdminOnlyAhelps, r.AdminOnlyMentions, r.AdminOnlySessions,
		}
		for _, server := range servers {
			values = append(values, r.PerServer[server])
		}
		w.row(sheet, i+2, values)
	}
}

func (w *writer) dailySheet(title string, m types.DailyMatrix) {
	sheet := w.sheet(title)

	header := []interface{}{"Admin"}
	for _, d := range m.Dates {
		header = append(header, string(d))
	}
	header = append(header, "Total")
	w.headerRow(sheet, header)

	for i, admin := range m.Admins {
		values := []interface{}{admin}
		for _, n := range m.Counts[i] {
			values = append(values, n)
		}
		values = append(values, m.Total(i))
		w.row(sheet, i+2, values)
	}
}

func (w *writer) hourlySheet(title string, rows []types.HourlyRow) {
	sheet := w.sheet(title)

	w.headerRow(sheet, []interface{}{"Date", "Hour", "Total", "Processed", "Response Rate"})
	for i, r := range rows {
		w.row(sheet, i+2, []interface{}{string(r.Date), r.Hour, r.Total, r.Processed, r.Rate})
	}
}
