package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sdpower/ahelpstats/internal/types"
)

// Run is one stored analysis snapshot.
type Run struct {
	ID          int64  `json:"id"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	types.RunSummary
}

// SaveRun stores the summary and the global admin table of one run and
// returns the new run id. Window bounds are stored as given, empty when open.
func (db *DB) SaveRun(ctx context.Context, summary types.RunSummary, windowStart, windowEnd string, rows []types.AdminRow) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := summary.GeneratedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			created_at, window_start, window_end, files, servers, admins,
			chats, ahelps, admin_only_ahelps, requests, processed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		createdAt.UTC().Format(timeLayout),
		windowStart,
		windowEnd,
		summary.Files,
		summary.Servers,
		summary.Admins,
		summary.Chats,
		summary.Ahelps,
		summary.AdminOnlyAhelps,
		summary.Requests,
		summary.Processed,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_admins (
			run_id, name, role, ahelps, mentions, sessions,
			admin_only_ahelps, admin_only_mentions, admin_only_sessions
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare admin insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			id, row.Name, row.Role, row.Ahelps, row.Mentions, row.Sessions,
			row.AdminOnlyAhelps, row.AdminOnlyMentions, row.AdminOnlySessions,
		); err != nil {
			return 0, fmt.Errorf("failed to insert admin %s: %w", row.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, created_at, window_start, window_end, files, servers, admins,
			   chats, ahelps, admin_only_ahelps, requests, processed
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(
			&run.ID,
			&createdAt,
			&run.WindowStart,
			&run.WindowEnd,
			&run.Files,
			&run.Servers,
			&run.Admins,
			&run.Chats,
			&run.Ahelps,
			&run.AdminOnlyAhelps,
			&run.Requests,
			&run.Processed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.GeneratedAt, _ = time.ParseInLocation(timeLayout, createdAt, time.UTC)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// RunAdmins returns the stored admin table of one run ordered like the
// global report. A missing run is ErrDataNotFound.
func (db *DB) RunAdmins(ctx context.Context, id int64) ([]types.AdminRow, error) {
	var exists int64
	err := db.QueryRowContext(ctx, `SELECT id FROM runs WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, types.ErrDataNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT name, role, ahelps, mentions, sessions,
			   admin_only_ahelps, admin_only_mentions, admin_only_sessions
		FROM run_admins
		WHERE run_id = ?
		ORDER BY ahelps DESC, name ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run admins: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var admins []types.AdminRow
	for rows.Next() {
		var row types.AdminRow
		if err := rows.Scan(
			&row.Name,
			&row.Role,
			&row.Ahelps,
			&row.Mentions,
			&row.Sessions,
			&row.AdminOnlyAhelps,
			&row.AdminOnlyMentions,
			&row.AdminOnlySessions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run admin: %w", err)
		}
		admins = append(admins, row)
	}

	return admins, rows.Err()
}
