package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sdpower/ahelpstats/internal/calculator"
	"github.com/sdpower/ahelpstats/internal/types"
)

func TestCleanSheetName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Global", "Global"},
		{"Daily_Ahelps_main", "Daily_Ahelps_main"},
		{"Daily_Ahelps_a/b:c", "Daily_Ahelps_a_b_c"},
		{"Hourly_Основной сервер", "Hourly_Основной_сервер"},
		{"Daily_Ahelps_[EU] Server #1", "Daily_Ahelps__EU__Server_1"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
		{"", "_"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanSheetName(tt.input))
		})
	}
}

func workbookFixture() *types.GlobalStats {
	calc := calculator.New()
	chat := ":outbox_tray: Модератор | Alice: hi\n:inbox_tray: Player: hey"
	sources := []types.Source{
		{Name: "main", Messages: []types.Message{
			{ID: "1", Timestamp: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), Embeds: []types.Embed{{Description: chat}}},
		}},
		{Name: "event", Messages: []types.Message{
			{ID: "2", Timestamp: time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC), Embeds: []types.Embed{{Description: ":outbox_tray: Bob: yo\n:inbox_tray: P: thanks"}}},
		}},
	}
	return calc.AggregateAll(sources, nil)
}

func TestWriteWorkbook(t *testing.T) {
	global := workbookFixture()
	report := NewReport(calculator.New(), global, []string{"модератор"})

	path := filepath.Join(t.TempDir(), "stats.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))
	require.NoError(t, WriteWorkbook(path, report))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"Global",
		"Moderators",
		"Daily_Ahelps_event",
		"Daily_Ahelps_main",
		"Daily_Ahelps_Global",
		"Hourly_event",
		"Hourly_main",
	}, f.GetSheetList())

	rows, err := f.GetRows("Global")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"Admin", "Role", "Ahelps", "Mentions", "Sessions",
		"Admin Only Ahelps", "Admin Only Mentions", "Admin Only Sessions",
		"Ahelps_event", "Ahelps_main",
	}, rows[0])
	assert.Equal(t, "Alice", rows[1][0])
	assert.Equal(t, "Модератор", rows[1][1])
	assert.Equal(t, "0", rows[1][8])
	assert.Equal(t, "1", rows[1][9])

	mods, err := f.GetRows("Moderators")
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.Equal(t, "Alice", mods[1][0])

	daily, err := f.GetRows("Daily_Ahelps_Global")
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin", "2024-01-01", "2024-01-02", "Total"}, daily[0])

	hourly, err := f.GetRows("Hourly_main")
	require.NoError(t, err)
	require.Len(t, hourly, 2)
	assert.Equal(t, []string{"2024-01-01", "10", "1", "1", "1"}, hourly[1])
}

func TestWriteWorkbook_DuplicateSheetNames(t *testing.T) {
	report := Report{
		Servers: []string{"a:b", "a/b"},
		Daily:   map[string]types.DailyMatrix{},
		Hourly:  map[string][]types.HourlyRow{},
	}

	path := filepath.Join(t.TempDir(), "dup.xlsx")
	require.NoError(t, WriteWorkbook(path, report))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "Daily_Ahelps_a_b")
	assert.Contains(t, f.GetSheetList(), "Daily_Ahelps_a_b_2")
}
