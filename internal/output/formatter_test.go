package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdpower/ahelpstats/internal/types"
)

func sampleRows() []types.AdminRow {
	return []types.AdminRow{
		{
			Name:       "Alice",
			AdminStats: types.AdminStats{Ahelps: 1200, Mentions: 3, Sessions: 1300, Role: "Moderator"},
			PerServer:  map[string]int{"event": 200, "main": 1000},
		},
		{
			Name:       "Bob, Jr.",
			AdminStats: types.AdminStats{Ahelps: 2, Sessions: 2, AdminOnlyAhelps: 1, Role: types.RoleUnknown},
			PerServer:  map[string]int{"main": 2},
		},
	}
}

func TestFormatNumberWithCommas(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1500, "-1,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumberWithCommas(tt.input))
	}
}

func TestFormatter_GlobalCSV(t *testing.T) {
	f := NewFormatter(FormatterOptions{Format: FormatCSV})

	out, err := f.FormatGlobalReport("Global", sampleRows(), []string{"event", "main"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "admin,role,ahelps,mentions,sessions,admin_only_ahelps,admin_only_mentions,admin_only_sessions,ahelps_event,ahelps_main", lines[0])
	assert.Equal(t, "Alice,Moderator,1200,3,1300,0,0,0,200,1000", lines[1])
	assert.Equal(t, `"Bob, Jr.",Unknown,2,0,2,1,0,0,0,2`, lines[2])
}

func TestFormatter_GlobalJSON(t *testing.T) {
	f := NewFormatter(FormatterOptions{Format: FormatJSON})

	out, err := f.FormatGlobalReport("Global", sampleRows(), nil)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Alice", decoded[0]["name"])
	assert.Equal(t, float64(1200), decoded[0]["ahelps"])
	assert.Equal(t, "Moderator", decoded[0]["role"])
}

func TestFormatter_GlobalTable(t *testing.T) {
	f := NewFormatter(FormatterOptions{Format: FormatTable, NoColor: true})

	out, err := f.FormatGlobalReport("Global Ahelps", sampleRows(), []string{"event", "main"})
	require.NoError(t, err)

	assert.Contains(t, out, "Global Ahelps")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "1,202")
	assert.Contains(t, out, "Total")
	assert.NotContains(t, out, "\033[")
}

func TestFormatter_EmptyTable(t *testing.T) {
	f := NewFormatter(FormatterOptions{Format: FormatTable, NoColor: true})

	out, err := f.FormatGlobalReport("Global", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "No ahelp data found")
}

func TestFormatter_DailyCSV(t *testing.T) {
	f := NewFormatter(FormatterOptions{Format: FormatCSV})
	m := types.DailyMatrix{
		Dates:  []types.Date{"2024-01-01", "2024-01-02"},
		Admins: []string{"Alice"},
		Counts: [][]int{{2, 3}},
	}

	out, err := f.FormatDailyMatrix("Daily", m)
	require.NoError(t, err)
	assert.Equal(t, "admin,2024-01-01,2024-01-02,total\nAlice,2,3,5\n", out)
}

func TestFormatter_HourlyTable(t *testing.T) {
	f := NewFormatter(FormatterOptions{Format: FormatTable, NoColor: true})

	var profile [24]types.HourBucket
	profile[10] = types.HourBucket{Total: 4, Processed: 3}
	rows := []types.HourlyRow{{Date: "2024-01-01", Hour: 10, Total: 4, Processed: 3, Rate: 0.75}}

	out, err := f.FormatHourlyReport(rows, profile)
	require.NoError(t, err)
	assert.Contains(t, out, "10:00")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "(3/4)")
}

func TestFormatter_ServersCSV(t *testing.T) {
	f := NewFormatter(FormatterOptions{Format: FormatCSV})

	out, err := f.FormatServerSummaries([]types.ServerSummary{{Name: "main", Chats: 3, Admins: 1, Ahelps: 2, Requests: 4, Processed: 2, Rate: 0.5}})
	require.NoError(t, err)
	assert.Equal(t, "server,chats,admins,ahelps,admin_only_ahelps,requests,processed,rate\nmain,3,1,2,0,4,2,0.5000\n", out)
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat("table"))
	assert.True(t, ValidFormat("json"))
	assert.True(t, ValidFormat("csv"))
	assert.False(t, ValidFormat("xml"))
}
