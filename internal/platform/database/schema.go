package database

import "database/sql"

// Schema is the full DDL. Uniqueness invariants live here as unique
// indexes: namespace names and original URLs are unique across all
// organizations, short codes across all namespaces, and at most one
// live PENDING invitation may exist per (organization, email).
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	created_at    INTEGER NOT NULL,
	updated_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS organizations (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS organization_members (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
	user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role            TEXT NOT NULL CHECK (role IN ('ADMIN', 'EDITOR', 'VIEWER')),
	joined_at       INTEGER NOT NULL,
	UNIQUE (organization_id, user_id)
);

CREATE TABLE IF NOT EXISTS organization_invitations (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
	email           TEXT NOT NULL COLLATE NOCASE,
	role            TEXT NOT NULL CHECK (role IN ('ADMIN', 'EDITOR', 'VIEWER')),
	token           TEXT NOT NULL UNIQUE,
	invited_by      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	status          TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'ACCEPTED', 'EXPIRED')),
	created_at      INTEGER NOT NULL,
	expires_at      INTEGER NOT NULL,
	accepted_at     INTEGER
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_invitations_live_pending
	ON organization_invitations (organization_id, email) WHERE status = 'PENDING';

CREATE TABLE IF NOT EXISTS namespaces (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL UNIQUE,
	organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_namespaces_org ON namespaces (organization_id);

CREATE TABLE IF NOT EXISTS short_urls (
	id           TEXT PRIMARY KEY,
	original_url TEXT NOT NULL UNIQUE,
	short_code   TEXT NOT NULL UNIQUE,
	namespace_id TEXT NOT NULL REFERENCES namespaces(id) ON DELETE CASCADE,
	created_by   TEXT REFERENCES users(id) ON DELETE SET NULL,
	click_count  INTEGER NOT NULL DEFAULT 0,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_short_urls_namespace ON short_urls (namespace_id, created_at DESC);

CREATE TABLE IF NOT EXISTS audit_logs (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
	actor_id        TEXT NOT NULL,
	action          TEXT NOT NULL,
	resource_type   TEXT NOT NULL,
	resource_id     TEXT NOT NULL,
	metadata        TEXT,
	created_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_logs_org ON audit_logs (organization_id, created_at DESC);
`

// Migrate applies the schema. Statements are idempotent, so running
// it repeatedly is safe.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
