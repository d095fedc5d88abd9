package monitor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdpower/ahelpstats/internal/types"
)

const sampleExport = `[
	{"id": "1", "created_at": "2024-05-01T09:15:00Z", "embeds": [{"description": ":outbox_tray: Moderator | Alice: hi\n:inbox_tray: Player: hello"}]},
	{"id": "2", "created_at": "2024-05-01T09:45:00Z", "embeds": [{"description": ":inbox_tray: Player: anyone?"}]},
	{"id": "3", "created_at": "2024-04-30T22:00:00Z", "embeds": [{"description": ":outbox_tray: Bob: hey\n:inbox_tray: Other: thanks"}]}
]`

func writeExport(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ahelp-main [1].json"), []byte(sampleExport), 0o644))
	return dir
}

func TestAnalyze(t *testing.T) {
	dir := writeExport(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	snap, err := Analyze(context.Background(), Options{DataPath: dir, TopAdmins: 1, Timezone: time.UTC}, now)
	require.NoError(t, err)

	assert.Equal(t, 1, snap.Summary.Files)
	assert.Equal(t, 2, snap.Summary.Ahelps)
	require.Len(t, snap.Top, 1)
	assert.Equal(t, "Alice", snap.Top[0].Name)
	assert.Equal(t, types.Date("2024-05-01"), snap.Day)
	assert.Equal(t, types.HourBucket{Total: 2, Processed: 1}, snap.Today[9])
	assert.Equal(t, types.HourBucket{}, snap.Today[22])
}

func TestMonitor_RunOnce(t *testing.T) {
	var buf bytes.Buffer
	m := New(Options{DataPath: writeExport(t), NoColor: true, Out: &buf})

	require.NoError(t, m.Start(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "AHELP LIVE MONITOR")
	assert.Contains(t, out, "Top admins")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Total ahelps")
}

func TestMonitor_RunOnceMissingData(t *testing.T) {
	m := New(Options{DataPath: filepath.Join(t.TempDir(), "missing"), Out: &bytes.Buffer{}})
	assert.ErrorIs(t, m.Start(context.Background()), types.ErrDataNotFound)
}

func TestDashboardModel_Update(t *testing.T) {
	m := dashboardModel{options: Options{Interval: time.Second, NoColor: true, Timezone: time.UTC, TopAdmins: 5}}
	assert.Contains(t, m.View(), "Loading")

	snap := &Snapshot{Day: "2024-05-01", Updated: time.Now()}
	next, _ := m.Update(snapshotMsg{snapshot: snap})
	m = next.(dashboardModel)
	assert.Same(t, snap, m.snapshot)
	assert.Contains(t, m.View(), "no help requests yet")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(dashboardModel)
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestWaitForChange(t *testing.T) {
	assert.Nil(t, waitForChange(nil))

	changes := make(chan struct{}, 1)
	changes <- struct{}{}
	assert.Equal(t, fileChangedMsg{}, waitForChange(changes)())
}

func TestWatcher_Relevant(t *testing.T) {
	w := &Watcher{}
	assert.True(t, w.relevant(fsnotify.Event{Name: "/data/ahelp-main [1].json", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/data/x.JSON", Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/data/notes.txt", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/data/a.json", Op: fsnotify.Chmod}))

	single := &Watcher{file: "a.json"}
	assert.True(t, single.relevant(fsnotify.Event{Name: "/data/a.json", Op: fsnotify.Write}))
	assert.False(t, single.relevant(fsnotify.Event{Name: "/data/b.json", Op: fsnotify.Write}))
}

func TestWatcher_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ahelp-new [2].json"), []byte("[]"), 0o644))

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled")
	}
}
