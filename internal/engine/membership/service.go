// Package membership owns organizations, memberships and the
// invitation lifecycle, including the sole-admin invariant and the
// role transition policy.
package membership

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"shortspace/internal/engine/authz"
	"shortspace/internal/engine/mailer"
	apperr "shortspace/internal/pkg/errors"
	"shortspace/internal/platform/audit"
	"shortspace/internal/platform/database"
	"shortspace/internal/platform/models"
	"shortspace/internal/platform/repositories"
)

type Service struct {
	orgs      *repositories.OrganizationRepository
	members   *repositories.MemberRepository
	users     *repositories.UserRepository
	invites   *repositories.InvitationRepository
	authz     *authz.Authorizer
	mailer    mailer.Mailer
	audit     *audit.Logger
	inviteTTL time.Duration
}

func NewService(
	orgs *repositories.OrganizationRepository,
	members *repositories.MemberRepository,
	users *repositories.UserRepository,
	invites *repositories.InvitationRepository,
	az *authz.Authorizer,
	m mailer.Mailer,
	inviteTTL time.Duration,
) *Service {
	if inviteTTL <= 0 {
		inviteTTL = 7 * 24 * time.Hour
	}
	return &Service{
		orgs:      orgs,
		members:   members,
		users:     users,
		invites:   invites,
		authz:     az,
		mailer:    m,
		inviteTTL: inviteTTL,
	}
}

// SetAuditLogger enables the audit trail. A nil logger is a no-op.
func (s *Service) SetAuditLogger(a *audit.Logger) {
	s.audit = a
}

// CreateOrganization creates the organization and its first ADMIN
// membership in one transaction: both rows or neither.
func (s *Service) CreateOrganization(creatorID, name string) (*models.Organization, error) {
	if name == "" {
		return nil, apperr.BadRequestField("name", "name is required")
	}

	now := time.Now().Unix()
	org := &models.Organization{
		ID:        "org_" + uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	member := &models.OrganizationMember{
		ID:             "mem_" + uuid.NewString(),
		OrganizationID: org.ID,
		UserID:         creatorID,
		Role:           models.RoleAdmin,
		JoinedAt:       now,
	}

	tx, err := s.orgs.BeginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.orgs.CreateTx(tx, org); err != nil {
		return nil, err
	}
	if err := s.members.CreateTx(tx, member); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	org.Members = []*models.OrganizationMember{member}
	org.UserRole = models.RoleAdmin
	s.audit.Record(org.ID, creatorID, "organization.created", "organization", org.ID, nil)
	return org, nil
}

// ListOrganizations returns the caller's organizations with members
// and the caller's own role attached.
func (s *Service) ListOrganizations(userID string, limit, offset int) ([]*models.Organization, error) {
	orgs, err := s.orgs.ListForUser(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, org := range orgs {
		if err := s.attachMembers(org, userID); err != nil {
			return nil, err
		}
	}
	return orgs, nil
}

// GetOrganization returns NotFound for non-members; membership is the
// visibility boundary and existence must not leak.
func (s *Service) GetOrganization(userID, orgID string) (*models.Organization, error) {
	ok, err := s.authz.IsMember(userID, orgID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("Organization not found")
	}

	org, err := s.orgs.GetByID(orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("Organization not found")
	}
	if err := s.attachMembers(org, userID); err != nil {
		return nil, err
	}
	return org, nil
}

// UpdateOrganization renames the organization; ADMIN only. Non-members
// get NotFound, members without the role get Forbidden.
func (s *Service) UpdateOrganization(actorID, orgID, name string) (*models.Organization, error) {
	org, err := s.adminVisible(actorID, orgID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperr.BadRequestField("name", "name is required")
	}

	org.Name = name
	if err := s.orgs.Update(org); err != nil {
		return nil, err
	}
	s.audit.Record(orgID, actorID, "organization.renamed", "organization", orgID,
		map[string]string{"name": name})
	if err := s.attachMembers(org, actorID); err != nil {
		return nil, err
	}
	return org, nil
}

// DeleteOrganization removes the organization and, via cascade, its
// memberships, invitations, namespaces and short URLs; ADMIN only.
func (s *Service) DeleteOrganization(actorID, orgID string) error {
	if _, err := s.adminVisible(actorID, orgID); err != nil {
		return err
	}
	return s.orgs.Delete(orgID)
}

func (s *Service) adminVisible(actorID, orgID string) (*models.Organization, error) {
	isMember, err := s.authz.IsMember(actorID, orgID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperr.NotFound("Organization not found")
	}
	isAdmin, err := s.authz.IsAdmin(actorID, orgID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, apperr.Forbidden("You must be an admin to manage this organization")
	}

	org, err := s.orgs.GetByID(orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("Organization not found")
	}
	return org, nil
}

func (s *Service) attachMembers(org *models.Organization, userID string) error {
	members, err := s.members.ListByOrganization(org.ID)
	if err != nil {
		return err
	}
	org.Members = members
	for _, m := range members {
		if m.UserID == userID {
			org.UserRole = m.Role
		}
	}
	return nil
}

// InviteMember creates a PENDING invitation with an unguessable token
// and triggers the notification email. Mail delivery is best-effort
// and never fails the invite.
func (s *Service) InviteMember(inviterID, orgID, email, role string) (*models.OrganizationInvitation, error) {
	isAdmin, err := s.authz.IsAdmin(inviterID, orgID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, apperr.Forbidden("You must be an admin to invite members")
	}

	if !models.ValidRole(role) {
		return nil, apperr.BadRequestField("role", "role must be ADMIN, EDITOR or VIEWER")
	}
	if email == "" {
		return nil, apperr.BadRequestField("email", "email is required")
	}

	now := time.Now()

	isMember, err := s.members.ExistsByEmail(orgID, email)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, apperr.Conflict("A user with this email is already a member of the organization")
	}

	// Flip stale PENDING rows first so only live invitations count
	// against the duplicate check and its backing index.
	if err := s.invites.ExpireStale(orgID, email, now.Unix()); err != nil {
		return nil, err
	}
	pending, err := s.invites.HasLivePending(orgID, email, now.Unix())
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperr.Conflict("A pending invitation already exists for this email")
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, err
	}

	inv := &models.OrganizationInvitation{
		ID:             "inv_" + uuid.NewString(),
		OrganizationID: orgID,
		Email:          email,
		Role:           role,
		Token:          token,
		InvitedBy:      inviterID,
		Status:         models.InvitationPending,
		CreatedAt:      now.Unix(),
		ExpiresAt:      now.Add(s.inviteTTL).Unix(),
	}

	if err := s.invites.Create(inv); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict("A pending invitation already exists for this email")
		}
		return nil, err
	}

	s.notify(inv, inviterID)
	s.audit.Record(orgID, inviterID, "invitation.sent", "invitation", inv.ID,
		map[string]string{"email": email, "role": role})
	return inv, nil
}

func (s *Service) notify(inv *models.OrganizationInvitation, inviterID string) {
	org, err := s.orgs.GetByID(inv.OrganizationID)
	if err != nil || org == nil {
		log.Warn().Str("organization_id", inv.OrganizationID).Msg("could not load organization for invitation mail")
		return
	}
	inviterName := "A member"
	if inviter, err := s.users.GetByID(inviterID); err == nil && inviter != nil {
		inviterName = inviter.Username
	}
	s.mailer.SendInvitation(inv, org.Name, inviterName)
}

// ListInvitations lists an organization's invitations; ADMIN only.
func (s *Service) ListInvitations(actorID, orgID string) ([]*models.OrganizationInvitation, error) {
	isAdmin, err := s.authz.IsAdmin(actorID, orgID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, apperr.Forbidden("You must be an admin to list invitations")
	}
	return s.invites.ListByOrganization(orgID)
}

// ListAuditLog returns the organization's audit trail; ADMIN only.
// Returns an empty list when no audit logger is configured.
func (s *Service) ListAuditLog(actorID, orgID string, limit int) ([]*audit.Entry, error) {
	isAdmin, err := s.authz.IsAdmin(actorID, orgID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, apperr.Forbidden("You must be an admin to view the audit log")
	}
	if s.audit == nil {
		return nil, nil
	}
	return s.audit.ListByOrganization(orgID, limit)
}

// InvitationInfo is the public view of a token, safe to show before
// authentication.
type InvitationInfo struct {
	Valid            bool   `json:"valid"`
	Email            string `json:"email"`
	OrganizationName string `json:"organization_name"`
	Role             string `json:"role"`
}

// ValidateInvitationToken resolves a token to its invitation details.
// A PENDING invitation past its expiry flips to EXPIRED here, as a
// side effect of the read; the background sweeper only tidies rows
// nobody reads.
func (s *Service) ValidateInvitationToken(token string) (*InvitationInfo, error) {
	inv, err := s.invites.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.Status != models.InvitationPending {
		return nil, apperr.NotFound("Invalid or expired invitation token.")
	}

	if time.Now().Unix() > inv.ExpiresAt {
		if err := s.invites.MarkExpired(inv.ID); err != nil {
			return nil, err
		}
		return nil, apperr.Expired("This invitation has expired.")
	}

	org, err := s.orgs.GetByID(inv.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("Invalid or expired invitation token.")
	}

	return &InvitationInfo{
		Valid:            true,
		Email:            inv.Email,
		OrganizationName: org.Name,
		Role:             inv.Role,
	}, nil
}

// AcceptResult reports the membership granted by a token.
type AcceptResult struct {
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	Role             string `json:"role"`
}

// AcceptInvitation grants the invited role to the user and marks the
// invitation ACCEPTED, atomically. The invitation email must match
// the user's email, case-insensitively.
func (s *Service) AcceptInvitation(user *models.User, token string) (*AcceptResult, error) {
	inv, err := s.invites.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.Status != models.InvitationPending {
		return nil, apperr.NotFound("Invalid or expired invitation token.")
	}

	if time.Now().Unix() > inv.ExpiresAt {
		if err := s.invites.MarkExpired(inv.ID); err != nil {
			return nil, err
		}
		return nil, apperr.Expired("This invitation has expired.")
	}

	if !strings.EqualFold(inv.Email, user.Email) {
		return nil, apperr.EmailMismatch(fmt.Sprintf(
			"This invitation was sent to %s, but you signed up with %s.", inv.Email, user.Email))
	}

	isMember, err := s.authz.IsMember(user.ID, inv.OrganizationID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, apperr.Conflict("You are already a member of this organization.")
	}

	now := time.Now().Unix()
	member := &models.OrganizationMember{
		ID:             "mem_" + uuid.NewString(),
		OrganizationID: inv.OrganizationID,
		UserID:         user.ID,
		Role:           inv.Role,
		JoinedAt:       now,
	}

	tx, err := s.orgs.BeginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.members.CreateTx(tx, member); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict("You are already a member of this organization.")
		}
		return nil, err
	}
	if err := s.invites.MarkAcceptedTx(tx, inv.ID, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	org, err := s.orgs.GetByID(inv.OrganizationID)
	if err != nil {
		return nil, err
	}
	orgName := ""
	if org != nil {
		orgName = org.Name
	}

	s.audit.Record(inv.OrganizationID, user.ID, "invitation.accepted", "invitation", inv.ID,
		map[string]string{"role": inv.Role})

	return &AcceptResult{
		OrganizationID:   inv.OrganizationID,
		OrganizationName: orgName,
		Role:             inv.Role,
	}, nil
}

// UpdateMemberRole applies the role transition policy:
//   - ADMIN may move to any role, but the sole ADMIN cannot demote
//     themselves;
//   - EDITOR may only be promoted to ADMIN;
//   - VIEWER may be promoted to EDITOR or ADMIN.
func (s *Service) UpdateMemberRole(actorID, orgID, memberID, newRole string) (*models.OrganizationMember, error) {
	isAdmin, err := s.authz.IsAdmin(actorID, orgID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, apperr.Forbidden("You must be an admin to change member roles")
	}

	member, err := s.members.GetByID(memberID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.OrganizationID != orgID {
		return nil, apperr.NotFound("Member not found")
	}

	if !models.ValidRole(newRole) {
		return nil, apperr.BadRequestField("role", "role must be ADMIN, EDITOR or VIEWER")
	}

	if member.Role == models.RoleAdmin && newRole != models.RoleAdmin && member.UserID == actorID {
		admins, err := s.members.CountAdmins(orgID)
		if err != nil {
			return nil, err
		}
		if admins == 1 {
			return nil, apperr.Conflict("Cannot demote yourself: you are the only admin of this organization")
		}
	}

	if !transitionAllowed(member.Role, newRole) {
		return nil, apperr.InvalidTransition(fmt.Sprintf(
			"Role change from %s to %s is not allowed", member.Role, newRole))
	}

	if err := s.members.UpdateRole(memberID, newRole); err != nil {
		return nil, err
	}
	s.audit.Record(orgID, actorID, "member.role_changed", "member", memberID,
		map[string]string{"from": member.Role, "to": newRole})
	member.Role = newRole
	return member, nil
}

// RemoveMember deletes a membership. Removing the organization's only
// ADMIN is blocked the same way sole-admin self-demotion is, so the
// "at least one ADMIN" invariant holds through deletion too.
func (s *Service) RemoveMember(actorID, orgID, memberID string) error {
	isAdmin, err := s.authz.IsAdmin(actorID, orgID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return apperr.Forbidden("You must be an admin to remove members")
	}

	member, err := s.members.GetByID(memberID)
	if err != nil {
		return err
	}
	if member == nil || member.OrganizationID != orgID {
		return apperr.NotFound("Member not found")
	}

	if member.Role == models.RoleAdmin {
		admins, err := s.members.CountAdmins(orgID)
		if err != nil {
			return err
		}
		if admins == 1 {
			return apperr.Conflict("Cannot remove the only admin of this organization")
		}
	}

	if err := s.members.Delete(memberID); err != nil {
		return err
	}
	s.audit.Record(orgID, actorID, "member.removed", "member", memberID,
		map[string]string{"user_id": member.UserID})
	return nil
}

// transitionAllowed encodes the role transition matrix. Same-role
// updates are only meaningful for ADMIN (a no-op confirmation);
// EDITOR→EDITOR and VIEWER→VIEWER are rejected like any other
// disallowed move.
func transitionAllowed(current, next string) bool {
	switch current {
	case models.RoleAdmin:
		return true
	case models.RoleEditor:
		return next == models.RoleAdmin
	case models.RoleViewer:
		return next == models.RoleEditor || next == models.RoleAdmin
	}
	return false
}

