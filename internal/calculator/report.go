package calculator

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/sdpower/ahelpstats/internal/parser"
	"github.com/sdpower/ahelpstats/internal/types"
)

// GenerateGlobalReport lists every admin with per-server ahelp columns,
// sorted by ahelps descending and then by name.
func (c *Calculator) GenerateGlobalReport(global *types.GlobalStats) []types.AdminRow {
	perSource := make(map[string]map[string]*types.AdminStats, len(global.Sources))
	for name, src := range global.Sources {
		perSource[name] = MergeDuplicateAdmins(src.Admins)
	}

	rows := make([]types.AdminRow, 0, len(global.Admins))
	for name, stats := range global.Admins {
		row := types.AdminRow{
			Name:       name,
			AdminStats: *stats,
			PerServer:  make(map[string]int, len(perSource)),
		}
		for server, admins := range perSource {
			var n int
			if s, ok := admins[name]; ok {
				n = s.Ahelps
			}
			row.PerServer[server] = n
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Ahelps != rows[j].Ahelps {
			return rows[i].Ahelps > rows[j].Ahelps
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// FilterModerators keeps rows whose role contains any keyword, ignoring case.
func FilterModerators(rows []types.AdminRow, keywords []string) []types.AdminRow {
	lowered := lo.FilterMap(keywords, func(k string, _ int) (string, bool) {
		k = strings.ToLower(strings.TrimSpace(k))
		return k, k != ""
	})
	return lo.Filter(rows, func(row types.AdminRow, _ int) bool {
		role := strings.ToLower(row.Role)
		return lo.SomeBy(lowered, func(k string) bool {
			return strings.Contains(role, k)
		})
	})
}

// GlobalDaily sums the per-day ahelp tables of every source.
func GlobalDaily(global *types.GlobalStats, adminOnly bool) map[types.Date]map[string]int {
	table := make(map[types.Date]map[string]int)
	for _, src := range global.Sources {
		daily := src.DailyAhelps
		if adminOnly {
			daily = src.DailyAdminOnlyAhelps
		}
		for day, admins := range daily {
			row, ok := table[day]
			if !ok {
				row = make(map[string]int)
				table[day] = row
			}
			for admin, n := range admins {
				row[parser.Normalize(admin)] += n
			}
		}
	}
	return table
}

// GlobalHourly sums the hourly buckets of every source.
func GlobalHourly(global *types.GlobalStats) map[types.Date]map[int]*types.HourBucket {
	merged := types.NewSourceStats("")
	for _, src := range global.Sources {
		for day, hours := range src.HourlyAhelps {
			for hour, b := range hours {
				bucket := merged.Hour(day, hour)
				bucket.Total += b.Total
				bucket.Processed += b.Processed
			}
		}
	}
	return merged.HourlyAhelps
}

// GenerateDailyMatrix turns a day table into a matrix with dates ascending
// and admins ordered by their total descending, then by name.
func GenerateDailyMatrix(table map[types.Date]map[string]int) types.DailyMatrix {
	dates := lo.Keys(table)
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })

	totals := make(map[string]int)
	for _, admins := range table {
		for admin, n := range admins {
			totals[admin] += n
		}
	}
	admins := lo.Keys(totals)
	sort.Slice(admins, func(i, j int) bool {
		if totals[admins[i]] != totals[admins[j]] {
			return totals[admins[i]] > totals[admins[j]]
		}
		return admins[i] < admins[j]
	})

	counts := make([][]int, len(admins))
	for i, admin := range admins {
		counts[i] = lo.Map(dates, func(day types.Date, _ int) int {
			return table[day][admin]
		})
	}

	return types.DailyMatrix{Dates: dates, Admins: admins, Counts: counts}
}

// GenerateHourlyReport flattens an hourly table into rows ordered by date and hour.
func GenerateHourlyReport(table map[types.Date]map[int]*types.HourBucket) []types.HourlyRow {
	var rows []types.HourlyRow
	for day, hours := range table {
		for hour, b := range hours {
			rows = append(rows, types.HourlyRow{
				Date:      day,
				Hour:      hour,
				Total:     b.Total,
				Processed: b.Processed,
				Rate:      b.ResponseRate(),
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].Hour < rows[j].Hour
	})
	return rows
}

// HourOfDayProfile folds an hourly table over all dates.
func HourOfDayProfile(table map[types.Date]map[int]*types.HourBucket) [24]types.HourBucket {
	var profile [24]types.HourBucket
	for _, hours := range table {
		for hour, b := range hours {
			if hour < 0 || hour > 23 {
				continue
			}
			profile[hour].Total += b.Total
			profile[hour].Processed += b.Processed
		}
	}
	return profile
}

func GenerateServerSummaries(global *types.GlobalStats) []types.ServerSummary {
	names := sortedKeys(global.Sources)
	return lo.Map(names, func(name string, _ int) types.ServerSummary {
		src := global.Sources[name]
		ahelps, adminOnly := src.TotalAhelps()
		requests := src.HelpRequests()
		return types.ServerSummary{
			Name:            name,
			Chats:           src.ChatCount,
			Admins:          len(src.Admins),
			Ahelps:          ahelps,
			AdminOnlyAhelps: adminOnly,
			Requests:        requests.Total,
			Processed:       requests.Processed,
			Rate:            requests.ResponseRate(),
		}
	})
}

// Summarize builds the run headline. files is the number of inputs read.
func Summarize(global *types.GlobalStats, files int) types.RunSummary {
	summary := types.RunSummary{
		GeneratedAt: time.Now(),
		Files:       files,
		Servers:     len(global.Sources),
		Admins:      len(global.Admins),
		Chats:       global.ChatCount,
	}
	for _, stats := range global.Admins {
		summary.Ahelps += stats.Ahelps
		summary.AdminOnlyAhelps += stats.AdminOnlyAhelps
	}
	for _, src := range global.Sources {
		requests := src.HelpRequests()
		summary.Requests += requests.Total
		summary.Processed += requests.Processed
	}
	return summary
}
