package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SyncLogEntry is one row of the sync audit log. Queued syncs run after the
// caller has disconnected; this log is how their outcome stays observable.
type SyncLogEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Direction string    `json:"direction"` // inbound, outbound
	Action    string    `json:"action"`    // completed, failed, deletion_capped
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// AddSyncLog appends an audit entry. Best effort on the details encoding:
// a log row with empty details beats no log row.
func (d *DB) AddSyncLog(ctx context.Context, userID int64, direction, action string, details map[string]any) error {
	detailsJSON := "{}"
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			detailsJSON = string(b)
		}
	}

	_, err := d.db.ExecContext(ctx,
		`INSERT INTO sync_log (user_id, direction, action, timestamp, details)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, direction, action, time.Now(), detailsJSON,
	)
	return err
}

// RecentSyncLogs returns the latest audit entries for a user.
func (d *DB) RecentSyncLogs(ctx context.Context, userID int64, limit int) ([]SyncLogEntry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, user_id, direction, action, timestamp, details
		 FROM sync_log WHERE user_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query sync log: %w", err)
	}
	defer rows.Close()

	var entries []SyncLogEntry
	for rows.Next() {
		var e SyncLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Direction, &e.Action, &e.Timestamp, &e.Details); err != nil {
			return nil, fmt.Errorf("scan sync log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
