// Package namespaces enforces the global namespace-name uniqueness
// invariant and the ADMIN-only mutation rules.
package namespaces

import (
	"time"

	"github.com/google/uuid"

	"shortspace/internal/engine/authz"
	apperr "shortspace/internal/pkg/errors"
	"shortspace/internal/pkg/validator"
	"shortspace/internal/platform/database"
	"shortspace/internal/platform/models"
	"shortspace/internal/platform/repositories"
)

// CacheFlusher invalidates cached redirect targets. Namespace renames
// and deletes change or remove the public path of every link under the
// namespace, so the whole cache goes.
type CacheFlusher interface {
	FlushResolveCache()
}

type Service struct {
	repo    *repositories.NamespaceRepository
	orgs    *repositories.OrganizationRepository
	authz   *authz.Authorizer
	flusher CacheFlusher
}

func NewService(repo *repositories.NamespaceRepository, orgs *repositories.OrganizationRepository, az *authz.Authorizer) *Service {
	return &Service{repo: repo, orgs: orgs, authz: az}
}

// SetCacheFlusher is optional; without it renames and deletes simply
// skip cache invalidation.
func (s *Service) SetCacheFlusher(f CacheFlusher) {
	s.flusher = f
}

// List returns namespaces across the caller's organizations. A
// malformed organization filter is a BadRequest, not a silent no-op.
func (s *Service) List(userID, orgFilter string) ([]*models.Namespace, error) {
	if orgFilter != "" {
		if err := validator.ValidEntityID(orgFilter, "org"); err != nil {
			return nil, apperr.BadRequestField("organization", "organization filter must be a valid organization id")
		}
	}
	return s.repo.ListForUser(userID, orgFilter)
}

// Create requires ADMIN of the owning organization. The namespace
// name is unique across all organizations; the unique index is
// authoritative and a constraint violation maps to Conflict.
func (s *Service) Create(userID, name, orgID string) (*models.Namespace, error) {
	if orgID == "" {
		return nil, apperr.BadRequestField("organization", "organization is required")
	}
	if err := validator.ValidNamespaceName(name); err != nil {
		return nil, apperr.BadRequestField("name", err.Error())
	}

	org, err := s.orgs.GetByID(orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("Organization not found")
	}

	isAdmin, err := s.authz.IsAdmin(userID, orgID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, apperr.Forbidden("You must be an admin to create namespaces")
	}

	now := time.Now().Unix()
	ns := &models.Namespace{
		ID:        "ns_" + uuid.NewString(),
		Name:      name,
		OrgID:     orgID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ns); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict("A namespace with this name already exists")
		}
		return nil, err
	}
	return ns, nil
}

// Get surfaces NotFound for namespaces outside the caller's
// organizations; visibility never leaks existence.
func (s *Service) Get(userID, nsID string) (*models.Namespace, error) {
	ns, err := s.visible(userID, nsID)
	if err != nil {
		return nil, err
	}
	return ns, nil
}

// Update renames a namespace; ADMIN of the owning organization only.
// The organization itself is immutable after creation.
func (s *Service) Update(userID, nsID, name string) (*models.Namespace, error) {
	ns, err := s.visible(userID, nsID)
	if err != nil {
		return nil, err
	}

	isAdmin, err := s.authz.CanAdminister(userID, ns)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, apperr.Forbidden("You must be an admin to update namespaces")
	}

	if err := validator.ValidNamespaceName(name); err != nil {
		return nil, apperr.BadRequestField("name", err.Error())
	}

	if err := s.repo.UpdateName(ns.ID, name); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict("A namespace with this name already exists")
		}
		return nil, err
	}
	ns.Name = name
	if s.flusher != nil {
		s.flusher.FlushResolveCache()
	}
	return ns, nil
}

// Delete removes a namespace and, via cascade, its short URLs; ADMIN
// of the owning organization only.
func (s *Service) Delete(userID, nsID string) error {
	ns, err := s.visible(userID, nsID)
	if err != nil {
		return err
	}

	isAdmin, err := s.authz.CanAdminister(userID, ns)
	if err != nil {
		return err
	}
	if !isAdmin {
		return apperr.Forbidden("You must be an admin to delete namespaces")
	}

	if err := s.repo.Delete(ns.ID); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.FlushResolveCache()
	}
	return nil
}

func (s *Service) visible(userID, nsID string) (*models.Namespace, error) {
	ns, err := s.repo.GetByID(nsID)
	if err != nil {
		return nil, err
	}
	if ns == nil {
		return nil, apperr.NotFound("Namespace not found")
	}

	ok, err := s.authz.CanView(userID, ns)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("Namespace not found")
	}
	return ns, nil
}
