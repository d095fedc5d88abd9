package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdpower/ahelpstats/internal/types"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "runs.db")

	db, err := New(dbPath)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, dbPath, db.Path())
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestSaveRun_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	generated := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	summary := types.RunSummary{
		GeneratedAt: generated,
		Files:       2,
		Servers:     2,
		Admins:      2,
		Ahelps:      7,
		Chats:       9,
		Requests:    8,
		Processed:   6,
	}
	rows := []types.AdminRow{
		{Name: "Bob", AdminStats: types.AdminStats{Ahelps: 2, Sessions: 2, Role: types.RoleUnknown}},
		{Name: "Alice", AdminStats: types.AdminStats{Ahelps: 5, Mentions: 3, Sessions: 6, AdminOnlyAhelps: 1, Role: "Moderator"}},
	}

	id, err := db.SaveRun(ctx, summary, "2024-02-01", "", rows)
	require.NoError(t, err)
	assert.Positive(t, id)

	runs, err := db.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "2024-02-01", runs[0].WindowStart)
	assert.Empty(t, runs[0].WindowEnd)
	assert.Equal(t, 7, runs[0].Ahelps)
	assert.True(t, generated.Equal(runs[0].GeneratedAt))

	admins, err := db.RunAdmins(ctx, id)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, "Alice", admins[0].Name)
	assert.Equal(t, "Moderator", admins[0].Role)
	assert.Equal(t, 1, admins[0].AdminOnlyAhelps)
	assert.Equal(t, "Bob", admins[1].Name)
}

func TestListRuns_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := db.SaveRun(ctx, types.RunSummary{Ahelps: i}, "", "", nil)
		require.NoError(t, err)
	}

	runs, err := db.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 3, runs[0].Ahelps)
	assert.Equal(t, 2, runs[1].Ahelps)
}

func TestRunAdmins_Missing(t *testing.T) {
	db := newTestDB(t)

	_, err := db.RunAdmins(context.Background(), 42)
	assert.ErrorIs(t, err, types.ErrDataNotFound)
}
