package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdpower/ahelpstats/internal/types"
)

func reportFixture() *types.GlobalStats {
	main := types.NewSourceStats("main")
	main.Admins["Alice"] = adminStats(3, 2, 3, "Модератор")
	main.Admins["Bob"] = adminStats(1, 0, 1, "Admin")
	main.ChatCount = 4
	main.AddDaily("2024-01-01", "Alice", 2)
	main.AddDaily("2024-01-02", "Alice", 1)
	main.AddDaily("2024-01-02", "Bob", 1)
	main.Hour("2024-01-01", 10).Total = 3
	main.Hour("2024-01-01", 10).Processed = 2

	event := types.NewSourceStats("event")
	event.Admins["Bob"] = adminStats(2, 0, 2, types.RoleUnknown)
	event.Admins["Carol"] = adminStats(3, 0, 3, "Game Master")
	event.ChatCount = 5
	event.AddDaily("2024-01-02", "Bob", 2)
	event.AddDaily("2024-01-03", "Carol", 3)
	event.AddDailyAdminOnly("2024-01-03", "Carol", 1)
	event.Hour("2024-01-01", 10).Total = 1
	event.Hour("2024-01-03", 23).Total = 2
	event.Hour("2024-01-03", 23).Processed = 2

	return Merge(map[string]*types.SourceStats{"main": main, "event": event})
}

func TestGenerateGlobalReport(t *testing.T) {
	rows := New().GenerateGlobalReport(reportFixture())

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, []string{rows[0].Name, rows[1].Name, rows[2].Name})
	assert.Equal(t, 3, rows[1].Ahelps)
	assert.Equal(t, map[string]int{"main": 1, "event": 2}, rows[1].PerServer)
	assert.Equal(t, map[string]int{"main": 0, "event": 3}, rows[2].PerServer)
	assert.Equal(t, "Admin", rows[1].Role)
}

func TestFilterModerators(t *testing.T) {
	rows := New().GenerateGlobalReport(reportFixture())

	mods := FilterModerators(rows, []string{"модератор", " GAME master ", ""})
	require.Len(t, mods, 2)
	assert.Equal(t, "Alice", mods[0].Name)
	assert.Equal(t, "Carol", mods[1].Name)

	assert.Empty(t, FilterModerators(rows, nil))
}

func TestGenerateDailyMatrix(t *testing.T) {
	m := GenerateDailyMatrix(GlobalDaily(reportFixture(), false))

	assert.Equal(t, []types.Date{"2024-01-01", "2024-01-02", "2024-01-03"}, m.Dates)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, m.Admins)
	assert.Equal(t, [][]int{{2, 1, 0}, {0, 3, 0}, {0, 0, 3}}, m.Counts)
	assert.Equal(t, 3, m.Total(1))

	adminOnly := GenerateDailyMatrix(GlobalDaily(reportFixture(), true))
	assert.Equal(t, []string{"Carol"}, adminOnly.Admins)
	assert.Equal(t, [][]int{{1}}, adminOnly.Counts)
}

func TestGenerateDailyMatrix_Empty(t *testing.T) {
	m := GenerateDailyMatrix(nil)
	assert.Empty(t, m.Dates)
	assert.Empty(t, m.Admins)
	assert.Empty(t, m.Counts)
}

func TestGenerateHourlyReport(t *testing.T) {
	rows := GenerateHourlyReport(GlobalHourly(reportFixture()))

	require.Len(t, rows, 2)
	assert.Equal(t, types.HourlyRow{Date: "2024-01-01", Hour: 10, Total: 4, Processed: 2, Rate: 0.5}, rows[0])
	assert.Equal(t, types.HourlyRow{Date: "2024-01-03", Hour: 23, Total: 2, Processed: 2, Rate: 1}, rows[1])
}

func TestHourOfDayProfile(t *testing.T) {
	profile := HourOfDayProfile(GlobalHourly(reportFixture()))

	assert.Equal(t, types.HourBucket{Total: 4, Processed: 2}, profile[10])
	assert.Equal(t, types.HourBucket{Total: 2, Processed: 2}, profile[23])
	assert.Equal(t, types.HourBucket{}, profile[0])
}

func TestGenerateServerSummaries(t *testing.T) {
	summaries := GenerateServerSummaries(reportFixture())

	require.Len(t, summaries, 2)
	assert.Equal(t, "event", summaries[0].Name)
	assert.Equal(t, 5, summaries[0].Chats)
	assert.Equal(t, 5, summaries[0].Ahelps)
	assert.Equal(t, 3, summaries[0].Requests)
	assert.InDelta(t, 2.0/3.0, summaries[0].Rate, 1e-9)

	assert.Equal(t, "main", summaries[1].Name)
	assert.Equal(t, 2, summaries[1].Admins)
}

func TestSummarize(t *testing.T) {
	summary := Summarize(reportFixture(), 3)

	assert.Equal(t, 3, summary.Files)
	assert.Equal(t, 2, summary.Servers)
	assert.Equal(t, 3, summary.Admins)
	assert.Equal(t, 9, summary.Ahelps)
	assert.Equal(t, 9, summary.Chats)
	assert.Equal(t, 6, summary.Requests)
	assert.Equal(t, 4, summary.Processed)
	assert.False(t, summary.GeneratedAt.IsZero())
}
