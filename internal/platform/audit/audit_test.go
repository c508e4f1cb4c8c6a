package audit

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"shortspace/internal/platform/database"
)

func setupDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	orgID := "org_" + uuid.NewString()
	now := time.Now().Unix()
	if _, err := db.Exec(`INSERT INTO organizations (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		orgID, "Acme", now, now); err != nil {
		t.Fatalf("Failed to seed org: %v", err)
	}
	return db, orgID
}

func TestRecordAndList(t *testing.T) {
	db, orgID := setupDB(t)
	logger := NewLogger(db)

	logger.Record(orgID, "usr_1", "member.role_changed", "member", "mem_1",
		map[string]string{"from": "VIEWER", "to": "EDITOR"})

	// The write happens on a background goroutine.
	var entries []*Entry
	var err error
	for i := 0; i < 200; i++ {
		entries, err = logger.ListByOrganization(orgID, 10)
		if err != nil {
			t.Fatalf("ListByOrganization failed: %v", err)
		}
		if len(entries) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Action != "member.role_changed" || e.ActorID != "usr_1" || e.ResourceID != "mem_1" {
		t.Errorf("Unexpected entry: %+v", e)
	}
	if e.Metadata["from"] != "VIEWER" || e.Metadata["to"] != "EDITOR" {
		t.Errorf("Unexpected metadata: %v", e.Metadata)
	}
}

func TestRecord_NilLoggerIsNoop(t *testing.T) {
	var logger *Logger
	logger.Record("org_1", "usr_1", "organization.created", "organization", "org_1", nil)
}
