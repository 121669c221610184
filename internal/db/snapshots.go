package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/aiconsole/internal/logger"
	"github.com/j-veylop/aiconsole/internal/models"
)

// InsertSnapshot records a copy of the backend totals.
func (db *DB) InsertSnapshot(ctx context.Context, snap *models.StatsSnapshot) error {
	takenAt := snap.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO stats_snapshots (
			profile, taken_at, total_requests, successful_requests, failed_requests, total_tokens
		) VALUES (?, ?, ?, ?, ?, ?)`,
		snap.Profile,
		formatTime(takenAt),
		snap.TotalRequests,
		snap.SuccessfulRequests,
		snap.FailedRequests,
		snap.TotalTokens,
	)
	if err != nil {
		return fmt.Errorf("failed to insert stats snapshot: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		snap.ID = id
	}
	return nil
}

// GetSnapshots returns at most limit snapshots for profile taken at or after
// since, oldest first. The most recent ones are kept when limit cuts the range.
func (db *DB) GetSnapshots(ctx context.Context, profile string, since time.Time, limit int) ([]models.StatsSnapshot, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, profile, taken_at, total_requests, successful_requests, failed_requests, total_tokens
		FROM (
			SELECT * FROM stats_snapshots
			WHERE profile = ? AND taken_at >= ?
			ORDER BY taken_at DESC, id DESC
			LIMIT ?
		)
		ORDER BY taken_at ASC, id ASC`,
		profile, formatTime(since), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats snapshots: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var snaps []models.StatsSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *s)
	}
	return snaps, rows.Err()
}

// LatestSnapshot returns the newest snapshot for profile, or nil when there is none.
func (db *DB) LatestSnapshot(ctx context.Context, profile string) (*models.StatsSnapshot, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, profile, taken_at, total_requests, successful_requests, failed_requests, total_tokens
		FROM stats_snapshots
		WHERE profile = ?
		ORDER BY taken_at DESC, id DESC
		LIMIT 1`, profile)

	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// PruneSnapshots deletes snapshots older than before and returns how many were removed.
func (db *DB) PruneSnapshots(ctx context.Context, before time.Time) (int64, error) {
	result, err := db.ExecContext(ctx, "DELETE FROM stats_snapshots WHERE taken_at < ?", formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("failed to prune stats snapshots: %w", err)
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*models.StatsSnapshot, error) {
	var s models.StatsSnapshot
	var takenAt string
	if err := row.Scan(&s.ID, &s.Profile, &takenAt, &s.TotalRequests, &s.SuccessfulRequests,
		&s.FailedRequests, &s.TotalTokens); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan stats snapshot: %w", err)
	}
	s.TakenAt = parseTime(takenAt)
	return &s, nil
}
