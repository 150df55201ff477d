// ABOUTME: Activity log entity and store methods for shelter record changes
// ABOUTME: Records who changed which record for later review

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityAction identifies a recorded operation.
type ActivityAction string

const (
	ActionCreateAnimal  ActivityAction = "create-animal"
	ActionUpdateAnimal  ActivityAction = "update-animal"
	ActionDeleteAnimal  ActivityAction = "delete-animal"
	ActionCreateRequest ActivityAction = "create-request"
	ActionUpdateRequest ActivityAction = "update-request"
	ActionDeleteRequest ActivityAction = "delete-request"
	ActionSignUp        ActivityAction = "sign-up"
)

// ActivityEntry is one recorded operation against a shelter record.
type ActivityEntry struct {
	ID         string // UUID v4, generated when empty
	Actor      string // username of the session performing the action, empty when unauthenticated
	Action     ActivityAction
	TargetType string // "animal", "request", "user"
	TargetID   string
	Timestamp  time.Time
	Detail     map[string]any
}

// AppendActivity appends a new entry to the activity log.
// Generates ID and Timestamp if not set.
func (s *SQLiteStore) AppendActivity(ctx context.Context, e *ActivityEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	var detailJSON *string
	if e.Detail != nil {
		data, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("marshaling activity detail: %w", err)
		}
		str := string(data)
		detailJSON = &str
	}

	query := `
		INSERT INTO activity_log (id, actor, action, target_type, target_id, ts, detail_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.Actor,
		string(e.Action),
		e.TargetType,
		e.TargetID,
		e.Timestamp.UTC().Format(time.RFC3339),
		detailJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting activity entry: %w", err)
	}

	s.logger.Debug("appended activity",
		"id", e.ID,
		"actor", e.Actor,
		"action", e.Action,
		"target", e.TargetType+"/"+e.TargetID,
	)
	return nil
}

// ListActivity returns the most recent activity entries, newest first.
// If limit is 0 or negative, a default limit of 100 is used; the cap is 1000.
func (s *SQLiteStore) ListActivity(ctx context.Context, limit int) ([]*ActivityEntry, error) {
	switch {
	case limit <= 0:
		limit = 100
	case limit > 1000:
		limit = 1000
	}

	query := `
		SELECT id, actor, action, target_type, target_id, ts, detail_json
		FROM activity_log
		ORDER BY ts DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying activity log: %w", err)
	}
	defer rows.Close()

	var entries []*ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		var actionStr, tsStr string
		var detailJSON *string

		if err := rows.Scan(&e.ID, &e.Actor, &actionStr, &e.TargetType, &e.TargetID, &tsStr, &detailJSON); err != nil {
			return nil, fmt.Errorf("scanning activity entry: %w", err)
		}

		e.Action = ActivityAction(actionStr)
		e.Timestamp, err = time.Parse(time.RFC3339, tsStr)
		if err != nil {
			return nil, fmt.Errorf("parsing activity timestamp: %w", err)
		}
		if detailJSON != nil {
			if err := json.Unmarshal([]byte(*detailJSON), &e.Detail); err != nil {
				return nil, fmt.Errorf("unmarshaling activity detail: %w", err)
			}
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity rows: %w", err)
	}
	return entries, nil
}
