package models

import "time"

// AuditEvent is a locally journaled mutation issued from the console or CLI.
type AuditEvent struct {
	OccurredAt time.Time
	Profile    string
	Username   string
	Action     string
	Resource   string
	ResourceID string
	Error      string
	ID         int64
	Success    bool
}
