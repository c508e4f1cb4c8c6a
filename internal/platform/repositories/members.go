package repositories

import (
	"database/sql"

	"shortspace/internal/platform/models"
)

type MemberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) CreateTx(tx *sql.Tx, m *models.OrganizationMember) error {
	_, err := tx.Exec(`
		INSERT INTO organization_members (id, organization_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.OrganizationID, m.UserID, m.Role, m.JoinedAt)
	return err
}

func (r *MemberRepository) Create(m *models.OrganizationMember) error {
	_, err := r.db.Exec(`
		INSERT INTO organization_members (id, organization_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.OrganizationID, m.UserID, m.Role, m.JoinedAt)
	return err
}

// RoleOf returns the user's role in the organization, or "" when the
// user has no membership row. Absence is a normal outcome, not an
// error.
func (r *MemberRepository) RoleOf(userID, orgID string) (string, error) {
	var role string
	err := r.db.QueryRow(`
		SELECT role FROM organization_members
		WHERE user_id = ? AND organization_id = ?
	`, userID, orgID).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return role, nil
}

func (r *MemberRepository) GetByID(id string) (*models.OrganizationMember, error) {
	m := &models.OrganizationMember{}
	err := r.db.QueryRow(`
		SELECT id, organization_id, user_id, role, joined_at
		FROM organization_members WHERE id = ?
	`, id).Scan(&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// ListByOrganization returns memberships joined with user login
// details for display.
func (r *MemberRepository) ListByOrganization(orgID string) ([]*models.OrganizationMember, error) {
	rows, err := r.db.Query(`
		SELECT m.id, m.organization_id, m.user_id, m.role, m.joined_at, u.username, u.email
		FROM organization_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = ?
		ORDER BY m.joined_at DESC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.OrganizationMember
	for rows.Next() {
		m := &models.OrganizationMember{}
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.JoinedAt, &m.Username, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *MemberRepository) CountAdmins(orgID string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM organization_members
		WHERE organization_id = ? AND role = ?
	`, orgID, models.RoleAdmin).Scan(&count)
	return count, err
}

func (r *MemberRepository) UpdateRole(id, role string) error {
	_, err := r.db.Exec(`
		UPDATE organization_members SET role = ? WHERE id = ?
	`, role, id)
	return err
}

func (r *MemberRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM organization_members WHERE id = ?`, id)
	return err
}

// ExistsByEmail reports whether a user with the given email already
// belongs to the organization.
func (r *MemberRepository) ExistsByEmail(orgID, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM organization_members m
			JOIN users u ON u.id = m.user_id
			WHERE m.organization_id = ? AND u.email = ?
		)
	`, orgID, email).Scan(&exists)
	return exists, err
}
