package workers

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"shortspace/internal/platform/database"
	"shortspace/internal/platform/models"
	"shortspace/internal/platform/repositories"
)

func setupDB(t *testing.T) *sql.DB {
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
	return db
}

func seedInvitation(t *testing.T, db *sql.DB, status string, expiresAt int64) string {
	t.Helper()
	now := time.Now().Unix()
	orgID := "org_" + uuid.NewString()
	userID := "usr_" + uuid.NewString()
	if _, err := db.Exec(`INSERT INTO organizations (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		orgID, "Org", now, now); err != nil {
		t.Fatalf("Failed to seed org: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO users (id, username, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, userID, userID+"@example.com", "x", now, now); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	invID := "inv_" + uuid.NewString()
	if _, err := db.Exec(`INSERT INTO organization_invitations
		(id, organization_id, email, role, token, invited_by, status, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invID, orgID, invID+"@example.com", models.RoleViewer, "tok_"+invID, userID, status, now, expiresAt); err != nil {
		t.Fatalf("Failed to seed invitation: %v", err)
	}
	return invID
}

func TestSweep_ExpiresOnlyStalePending(t *testing.T) {
	db := setupDB(t)
	past := time.Now().Add(-time.Hour).Unix()
	future := time.Now().Add(time.Hour).Unix()

	stale := seedInvitation(t, db, models.InvitationPending, past)
	live := seedInvitation(t, db, models.InvitationPending, future)
	accepted := seedInvitation(t, db, models.InvitationAccepted, past)

	sweeper := NewInvitationSweeper(repositories.NewInvitationRepository(db), time.Hour)
	sweeper.Sweep()

	status := func(id string) string {
		var s string
		if err := db.QueryRow(`SELECT status FROM organization_invitations WHERE id = ?`, id).Scan(&s); err != nil {
			t.Fatalf("Failed to read status: %v", err)
		}
		return s
	}

	if got := status(stale); got != models.InvitationExpired {
		t.Errorf("Stale pending invitation: expected EXPIRED, got %s", got)
	}
	if got := status(live); got != models.InvitationPending {
		t.Errorf("Live invitation: expected PENDING, got %s", got)
	}
	if got := status(accepted); got != models.InvitationAccepted {
		t.Errorf("Accepted invitation: expected ACCEPTED untouched, got %s", got)
	}
}

func TestNewInvitationSweeper_DefaultInterval(t *testing.T) {
	s := NewInvitationSweeper(nil, 0)
	if s.interval != time.Hour {
		t.Errorf("Expected default interval of 1h, got %v", s.interval)
	}
}
