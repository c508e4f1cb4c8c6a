// Package authz resolves a caller's role inside an organization and
// answers the permission predicates every mutating operation consults.
package authz

import (
	"shortspace/internal/platform/models"
)

// MembershipStore resolves (user, organization) to a role. An empty
// role means the user has no membership row; callers treat that as
// "no access", never as an error.
type MembershipStore interface {
	RoleOf(userID, orgID string) (string, error)
}

// OrganizationScoped is implemented by every entity that belongs to
// an organization, directly (Namespace) or through its owner
// (ShortURL via its namespace). Object-level checks share this one
// dispatch point.
type OrganizationScoped interface {
	OrganizationID() string
}

type Authorizer struct {
	store MembershipStore
}

func New(store MembershipStore) *Authorizer {
	return &Authorizer{store: store}
}

func (a *Authorizer) RoleOf(userID, orgID string) (string, error) {
	return a.store.RoleOf(userID, orgID)
}

func (a *Authorizer) IsMember(userID, orgID string) (bool, error) {
	role, err := a.store.RoleOf(userID, orgID)
	return role != "", err
}

func (a *Authorizer) IsAdmin(userID, orgID string) (bool, error) {
	role, err := a.store.RoleOf(userID, orgID)
	return role == models.RoleAdmin, err
}

func (a *Authorizer) IsEditorOrAdmin(userID, orgID string) (bool, error) {
	role, err := a.store.RoleOf(userID, orgID)
	return role == models.RoleAdmin || role == models.RoleEditor, err
}

// CanView is satisfied by any role.
func (a *Authorizer) CanView(userID string, obj OrganizationScoped) (bool, error) {
	return a.IsMember(userID, obj.OrganizationID())
}

// CanEdit requires EDITOR or ADMIN.
func (a *Authorizer) CanEdit(userID string, obj OrganizationScoped) (bool, error) {
	return a.IsEditorOrAdmin(userID, obj.OrganizationID())
}

// CanAdminister requires ADMIN.
func (a *Authorizer) CanAdminister(userID string, obj OrganizationScoped) (bool, error) {
	return a.IsAdmin(userID, obj.OrganizationID())
}
