package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"shortspace/internal/engine/authz"
	"shortspace/internal/engine/shorturls"
	"shortspace/internal/platform/config"
	"shortspace/internal/platform/database"
	"shortspace/internal/platform/repositories"
)

func setupRedirect(t *testing.T) (*RedirectHandler, *sql.DB) {
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

	svc := shorturls.NewService(
		repositories.NewShortURLRepository(db),
		repositories.NewNamespaceRepository(db),
		authz.New(repositories.NewMemberRepository(db)),
		shorturls.NewGenerator(config.ShortCodeConfig{}),
	)
	return NewRedirectHandler(svc), db
}

func seedLink(t *testing.T, db *sql.DB, nsName, code, target string) {
	t.Helper()
	now := time.Now().Unix()
	orgID := "org_" + uuid.NewString()
	nsID := "ns_" + uuid.NewString()
	if _, err := db.Exec(`INSERT INTO organizations (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		orgID, nsName+"-org", now, now); err != nil {
		t.Fatalf("Failed to seed org: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO namespaces (id, name, organization_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		nsID, nsName, orgID, now, now); err != nil {
		t.Fatalf("Failed to seed namespace: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO short_urls (id, original_url, short_code, namespace_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		"url_"+uuid.NewString(), target, code, nsID, now, now); err != nil {
		t.Fatalf("Failed to seed short url: %v", err)
	}
}

func TestRedirect(t *testing.T) {
	handler, db := setupRedirect(t)
	seedLink(t, db, "acme", "promo", "https://example.com/landing")

	req := httptest.NewRequest("GET", "/acme/promo", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://example.com/landing" {
		t.Errorf("Unexpected Location: %s", loc)
	}

	var clicks int64
	if err := db.QueryRow(`SELECT click_count FROM short_urls WHERE short_code = ?`, "promo").Scan(&clicks); err != nil {
		t.Fatalf("Failed to read clicks: %v", err)
	}
	if clicks != 1 {
		t.Errorf("Expected 1 click, got %d", clicks)
	}
}

func TestRedirect_UnknownLink(t *testing.T) {
	handler, _ := setupRedirect(t)

	req := httptest.NewRequest("GET", "/acme/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestRedirect_IgnoresNonRedirectPaths(t *testing.T) {
	handler, db := setupRedirect(t)
	seedLink(t, db, "api", "x", "https://example.com")

	for _, path := range []string{"/", "/onesegment", "/a/b/c", "/api/urls"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Path %q: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestRedirect_RejectsNonGet(t *testing.T) {
	handler, db := setupRedirect(t)
	seedLink(t, db, "acme", "promo", "https://example.com")

	req := httptest.NewRequest("POST", "/acme/promo", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for POST, got %d", rec.Code)
	}
}
