package repositories

import (
	"database/sql"
	"time"

	"shortspace/internal/platform/models"
)

type NamespaceRepository struct {
	db *sql.DB
}

func NewNamespaceRepository(db *sql.DB) *NamespaceRepository {
	return &NamespaceRepository{db: db}
}

func (r *NamespaceRepository) Create(ns *models.Namespace) error {
	_, err := r.db.Exec(`
		INSERT INTO namespaces (id, name, organization_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, ns.ID, ns.Name, ns.OrgID, ns.CreatedAt, ns.UpdatedAt)
	return err
}

func (r *NamespaceRepository) GetByID(id string) (*models.Namespace, error) {
	return r.getOne(`
		SELECT id, name, organization_id, created_at, updated_at
		FROM namespaces WHERE id = ?
	`, id)
}

func (r *NamespaceRepository) GetByName(name string) (*models.Namespace, error) {
	return r.getOne(`
		SELECT id, name, organization_id, created_at, updated_at
		FROM namespaces WHERE name = ?
	`, name)
}

func (r *NamespaceRepository) getOne(query string, arg interface{}) (*models.Namespace, error) {
	ns := &models.Namespace{}
	err := r.db.QueryRow(query, arg).Scan(&ns.ID, &ns.Name, &ns.OrgID, &ns.CreatedAt, &ns.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return ns, nil
}

// ListForUser returns namespaces in organizations where the user
// holds any role, optionally filtered to one organization.
func (r *NamespaceRepository) ListForUser(userID, orgFilter string) ([]*models.Namespace, error) {
	query := `
		SELECT n.id, n.name, n.organization_id, n.created_at, n.updated_at
		FROM namespaces n
		JOIN organization_members m ON m.organization_id = n.organization_id
		WHERE m.user_id = ?
	`
	args := []interface{}{userID}
	if orgFilter != "" {
		query += " AND n.organization_id = ?"
		args = append(args, orgFilter)
	}
	query += " ORDER BY n.created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var namespaces []*models.Namespace
	for rows.Next() {
		ns := &models.Namespace{}
		if err := rows.Scan(&ns.ID, &ns.Name, &ns.OrgID, &ns.CreatedAt, &ns.UpdatedAt); err != nil {
			return nil, err
		}
		namespaces = append(namespaces, ns)
	}
	return namespaces, rows.Err()
}

// UpdateName renames a namespace. The owning organization is
// immutable after creation, so no other column is writable.
func (r *NamespaceRepository) UpdateName(id, name string) error {
	_, err := r.db.Exec(`
		UPDATE namespaces SET name = ?, updated_at = ? WHERE id = ?
	`, name, time.Now().Unix(), id)
	return err
}

func (r *NamespaceRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM namespaces WHERE id = ?`, id)
	return err
}
