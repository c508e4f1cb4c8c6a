// Package audit records membership-affecting actions. Entries are
// written fire-and-forget; an audit failure never fails the action.
package audit

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Entry struct {
	ID             string            `json:"id"`
	OrganizationID string            `json:"organization_id"`
	ActorID        string            `json:"actor_id"`
	Action         string            `json:"action"`
	ResourceType   string            `json:"resource_type"`
	ResourceID     string            `json:"resource_id"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      int64             `json:"created_at"`
}

type Logger struct {
	db *sql.DB
}

func NewLogger(db *sql.DB) *Logger {
	return &Logger{db: db}
}

// Record inserts an audit entry on a background goroutine. Safe to call
// on a nil Logger.
func (l *Logger) Record(orgID, actorID, action, resourceType, resourceID string, metadata map[string]string) {
	if l == nil {
		return
	}

	entry := &Entry{
		ID:             "aud_" + uuid.NewString(),
		OrganizationID: orgID,
		ActorID:        actorID,
		Action:         action,
		ResourceType:   resourceType,
		ResourceID:     resourceID,
		Metadata:       metadata,
		CreatedAt:      time.Now().Unix(),
	}

	go func() {
		var metaJSON []byte
		if entry.Metadata != nil {
			metaJSON, _ = json.Marshal(entry.Metadata)
		}
		_, err := l.db.Exec(`
			INSERT INTO audit_logs (id, organization_id, actor_id, action, resource_type, resource_id, metadata, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, entry.ID, entry.OrganizationID, entry.ActorID, entry.Action, entry.ResourceType, entry.ResourceID, string(metaJSON), entry.CreatedAt)
		if err != nil {
			log.Warn().Err(err).Str("action", entry.Action).Msg("audit write failed")
		}
	}()
}

// ListByOrganization returns an organization's audit trail, newest
// first.
func (l *Logger) ListByOrganization(orgID string, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := l.db.Query(`
		SELECT id, organization_id, actor_id, action, resource_type, resource_id, metadata, created_at
		FROM audit_logs WHERE organization_id = ?
		ORDER BY created_at DESC LIMIT ?
	`, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		var metaJSON sql.NullString
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.ActorID, &e.Action,
			&e.ResourceType, &e.ResourceID, &metaJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		if metaJSON.Valid && metaJSON.String != "" {
			json.Unmarshal([]byte(metaJSON.String), &e.Metadata)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
