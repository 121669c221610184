package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/aiconsole/internal/logger"
	"github.com/j-veylop/aiconsole/internal/models"
)

// InsertAuditEvent journals one mutation issued from this machine.
func (db *DB) InsertAuditEvent(ctx context.Context, ev *models.AuditEvent) error {
	occurredAt := ev.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	success := 0
	if ev.Success {
		success = 1
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO audit_events (
			profile, username, action, resource, resource_id, success, error, occurred_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Profile,
		nullString(ev.Username),
		ev.Action,
		ev.Resource,
		nullString(ev.ResourceID),
		success,
		nullString(ev.Error),
		formatTime(occurredAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		ev.ID = id
	}
	return nil
}

// RecentAuditEvents returns the newest events for profile, newest first.
func (db *DB) RecentAuditEvents(ctx context.Context, profile string, limit int) ([]models.AuditEvent, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, profile, username, action, resource, resource_id, success, error, occurred_at
		FROM audit_events
		WHERE profile = ?
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?`, profile, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var events []models.AuditEvent
	for rows.Next() {
		var ev models.AuditEvent
		var username, resourceID, errStr sql.NullString
		var success int
		var occurredAt string

		if err := rows.Scan(&ev.ID, &ev.Profile, &username, &ev.Action, &ev.Resource,
			&resourceID, &success, &errStr, &occurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}

		ev.Username = username.String
		ev.ResourceID = resourceID.String
		ev.Error = errStr.String
		ev.Success = success == 1
		ev.OccurredAt = parseTime(occurredAt)
		events = append(events, ev)
	}
	return events, rows.Err()
}
