package repositories

import (
	"database/sql"

	"shortspace/internal/platform/models"
)

type InvitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(inv *models.OrganizationInvitation) error {
	_, err := r.db.Exec(`
		INSERT INTO organization_invitations
			(id, organization_id, email, role, token, invited_by, status, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, inv.ID, inv.OrganizationID, inv.Email, inv.Role, inv.Token, inv.InvitedBy, inv.Status, inv.CreatedAt, inv.ExpiresAt)
	return err
}

func (r *InvitationRepository) GetByToken(token string) (*models.OrganizationInvitation, error) {
	inv := &models.OrganizationInvitation{}
	err := r.db.QueryRow(`
		SELECT id, organization_id, email, role, token, invited_by, status, created_at, expires_at, accepted_at
		FROM organization_invitations WHERE token = ?
	`, token).Scan(&inv.ID, &inv.OrganizationID, &inv.Email, &inv.Role, &inv.Token,
		&inv.InvitedBy, &inv.Status, &inv.CreatedAt, &inv.ExpiresAt, &inv.AcceptedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return inv, nil
}

// HasLivePending reports whether a PENDING invitation for the email
// exists in the organization that has not yet passed its expiry.
// Expired rows are ignored here; they flip to EXPIRED lazily on
// validate/accept.
func (r *InvitationRepository) HasLivePending(orgID, email string, now int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM organization_invitations
			WHERE organization_id = ? AND email = ? AND status = ? AND expires_at > ?
		)
	`, orgID, email, models.InvitationPending, now).Scan(&exists)
	return exists, err
}

func (r *InvitationRepository) ListByOrganization(orgID string) ([]*models.OrganizationInvitation, error) {
	rows, err := r.db.Query(`
		SELECT id, organization_id, email, role, token, invited_by, status, created_at, expires_at, accepted_at
		FROM organization_invitations
		WHERE organization_id = ?
		ORDER BY created_at DESC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []*models.OrganizationInvitation
	for rows.Next() {
		inv := &models.OrganizationInvitation{}
		if err := rows.Scan(&inv.ID, &inv.OrganizationID, &inv.Email, &inv.Role, &inv.Token,
			&inv.InvitedBy, &inv.Status, &inv.CreatedAt, &inv.ExpiresAt, &inv.AcceptedAt); err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

// ExpireStale flips PENDING invitations for (org, email) that have
// passed their expiry to EXPIRED. Run before inserting a new invite
// so the partial unique index on live PENDING rows stays accurate.
func (r *InvitationRepository) ExpireStale(orgID, email string, now int64) error {
	_, err := r.db.Exec(`
		UPDATE organization_invitations SET status = ?
		WHERE organization_id = ? AND email = ? AND status = ? AND expires_at <= ?
	`, models.InvitationExpired, orgID, email, models.InvitationPending, now)
	return err
}

// ExpireAllStale flips every PENDING invitation past its expiry to
// EXPIRED, across all organizations. Used by the background sweeper;
// the lazy flips on validate/accept remain authoritative.
func (r *InvitationRepository) ExpireAllStale(now int64) (int64, error) {
	res, err := r.db.Exec(`
		UPDATE organization_invitations SET status = ?
		WHERE status = ? AND expires_at <= ?
	`, models.InvitationExpired, models.InvitationPending, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *InvitationRepository) MarkExpired(id string) error {
	_, err := r.db.Exec(`
		UPDATE organization_invitations SET status = ? WHERE id = ? AND status = ?
	`, models.InvitationExpired, id, models.InvitationPending)
	return err
}

func (r *InvitationRepository) MarkAcceptedTx(tx *sql.Tx, id string, acceptedAt int64) error {
	_, err := tx.Exec(`
		UPDATE organization_invitations SET status = ?, accepted_at = ? WHERE id = ? AND status = ?
	`, models.InvitationAccepted, acceptedAt, id, models.InvitationPending)
	return err
}
