package repositories

import (
	"database/sql"
	"time"

	"shortspace/internal/platform/models"
)

type OrganizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) BeginTx() (*sql.Tx, error) {
	return r.db.Begin()
}

func (r *OrganizationRepository) CreateTx(tx *sql.Tx, org *models.Organization) error {
	_, err := tx.Exec(`
		INSERT INTO organizations (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, org.ID, org.Name, org.CreatedAt, org.UpdatedAt)
	return err
}

func (r *OrganizationRepository) GetByID(id string) (*models.Organization, error) {
	org := &models.Organization{}
	err := r.db.QueryRow(`
		SELECT id, name, created_at, updated_at
		FROM organizations WHERE id = ?
	`, id).Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

// ListForUser returns the organizations where the user holds any
// role, newest first.
func (r *OrganizationRepository) ListForUser(userID string, limit, offset int) ([]*models.Organization, error) {
	rows, err := r.db.Query(`
		SELECT o.id, o.name, o.created_at, o.updated_at
		FROM organizations o
		JOIN organization_members m ON m.organization_id = o.id
		WHERE m.user_id = ?
		ORDER BY o.created_at DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org := &models.Organization{}
		if err := rows.Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *OrganizationRepository) Update(org *models.Organization) error {
	_, err := r.db.Exec(`
		UPDATE organizations SET name = ?, updated_at = ? WHERE id = ?
	`, org.Name, time.Now().Unix(), org.ID)
	return err
}

// Delete removes the organization; memberships, invitations,
// namespaces and short URLs go with it via foreign-key cascades.
func (r *OrganizationRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM organizations WHERE id = ?`, id)
	return err
}
