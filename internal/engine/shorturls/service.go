// Package shorturls owns short link creation, the global uniqueness
// invariants on original URLs and short codes, and the redirect path
// with its atomic click counting.
package shorturls

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"shortspace/internal/engine/authz"
	apperr "shortspace/internal/pkg/errors"
	"shortspace/internal/pkg/validator"
	"shortspace/internal/platform/database"
	"shortspace/internal/platform/models"
	"shortspace/internal/platform/repositories"
)

const resolveCacheTTL = 30 * time.Second

type Service struct {
	repo       *repositories.ShortURLRepository
	namespaces *repositories.NamespaceRepository
	authz      *authz.Authorizer
	generator  *Generator
	cache      *resolveCache
}

func NewService(repo *repositories.ShortURLRepository, namespaces *repositories.NamespaceRepository, az *authz.Authorizer, gen *Generator) *Service {
	return &Service{
		repo:       repo,
		namespaces: namespaces,
		authz:      az,
		generator:  gen,
		cache:      newResolveCache(resolveCacheTTL),
	}
}

// List returns short URLs across the caller's organizations. A
// malformed namespace filter is a BadRequest.
func (s *Service) List(userID, namespaceFilter string) ([]*models.ShortURL, error) {
	if namespaceFilter != "" {
		if err := validator.ValidEntityID(namespaceFilter, "ns"); err != nil {
			return nil, apperr.BadRequestField("namespace", "namespace filter must be a valid namespace id")
		}
	}
	return s.repo.ListForUser(userID, namespaceFilter)
}

// Create shortens a URL inside a namespace. Requires EDITOR or ADMIN
// of the namespace's organization. original_url is unique across all
// namespaces; the Conflict message names the existing link so the
// caller can find it.
func (s *Service) Create(userID, originalURL, namespaceID, customCode string) (*models.ShortURL, error) {
	if err := validateOriginalURL(originalURL); err != nil {
		return nil, err
	}

	ns, err := s.namespaces.GetByID(namespaceID)
	if err != nil {
		return nil, err
	}
	if ns == nil {
		return nil, apperr.NotFound("Namespace not found")
	}

	ok, err := s.authz.CanEdit(userID, ns)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Non-members must not learn the namespace exists.
		visible, verr := s.authz.CanView(userID, ns)
		if verr != nil {
			return nil, verr
		}
		if !visible {
			return nil, apperr.NotFound("Namespace not found")
		}
		return nil, apperr.Forbidden("You must be an admin or editor to create URLs")
	}

	if existing, err := s.repo.GetByOriginalURL(originalURL); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, urlAlreadyShortened(existing)
	}

	shortCode := customCode
	if shortCode == "" {
		shortCode, err = s.generator.Generate(s.repo)
		if err != nil {
			return nil, err
		}
	} else {
		if err := s.generator.ValidateCustom(shortCode); err != nil {
			return nil, err
		}
		taken, err := s.repo.ExistsByShortCode(shortCode)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("This short code is already taken. Please choose a different one.")
		}
	}

	now := time.Now().Unix()
	u := &models.ShortURL{
		ID:            "url_" + uuid.NewString(),
		OriginalURL:   originalURL,
		ShortCode:     shortCode,
		NamespaceID:   ns.ID,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
		NamespaceName: ns.Name,
		OrgID:         ns.OrgID,
	}

	if err := s.repo.Create(u); err != nil {
		// Concurrent creates race past the existence checks; the
		// unique indexes settle it.
		if database.IsUniqueViolation(err) {
			if existing, lerr := s.repo.GetByOriginalURL(originalURL); lerr == nil && existing != nil {
				return nil, urlAlreadyShortened(existing)
			}
			return nil, apperr.Conflict("This short code is already taken. Please choose a different one.")
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) Get(userID, id string) (*models.ShortURL, error) {
	return s.visible(userID, id)
}

// Update rewrites the destination or short code; EDITOR or ADMIN of
// the owning organization. Empty fields keep their current value.
func (s *Service) Update(userID, id, originalURL, shortCode string) (*models.ShortURL, error) {
	u, err := s.visible(userID, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.authz.CanEdit(userID, u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("You do not have permission to edit this URL")
	}

	oldKey := u.NamespaceName + "/" + u.ShortCode

	if originalURL != "" && originalURL != u.OriginalURL {
		if err := validateOriginalURL(originalURL); err != nil {
			return nil, err
		}
		if existing, err := s.repo.GetByOriginalURL(originalURL); err != nil {
			return nil, err
		} else if existing != nil && existing.ID != u.ID {
			return nil, urlAlreadyShortened(existing)
		}
		u.OriginalURL = originalURL
	}

	if shortCode != "" && shortCode != u.ShortCode {
		if err := s.generator.ValidateCustom(shortCode); err != nil {
			return nil, err
		}
		taken, err := s.repo.ExistsByShortCode(shortCode)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("This short code is already taken. Please choose a different one.")
		}
		u.ShortCode = shortCode
	}

	if err := s.repo.Update(u); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict("This short code or URL is already taken.")
		}
		return nil, err
	}
	s.cache.invalidate(oldKey)
	return u, nil
}

// Delete removes a short URL; EDITOR or ADMIN of the owning
// organization.
func (s *Service) Delete(userID, id string) error {
	u, err := s.visible(userID, id)
	if err != nil {
		return err
	}

	ok, err := s.authz.CanEdit(userID, u)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("You do not have permission to delete this URL")
	}

	if err := s.repo.Delete(u.ID); err != nil {
		return err
	}
	s.cache.invalidate(u.NamespaceName + "/" + u.ShortCode)
	return nil
}

// Resolve is the public redirect path. It looks up the link by
// namespace name and code, bumps the click counter with a single
// atomic UPDATE, and returns the destination for a temporary (302)
// redirect.
func (s *Service) Resolve(namespaceName, shortCode string) (string, error) {
	key := namespaceName + "/" + shortCode
	if target, ok := s.cache.get(key); ok {
		if err := s.repo.IncrementClicks(target.id); err != nil {
			return "", err
		}
		return target.originalURL, nil
	}

	u, err := s.repo.GetByNamespaceAndCode(namespaceName, shortCode)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", apperr.NotFound("Short URL not found")
	}

	if err := s.repo.IncrementClicks(u.ID); err != nil {
		return "", err
	}
	s.cache.set(key, u.ID, u.OriginalURL)
	return u.OriginalURL, nil
}

// FlushResolveCache drops every cached redirect target. Called after a
// namespace rename or delete, which changes or removes the public path
// of every link under it.
func (s *Service) FlushResolveCache() {
	s.cache.flush()
}

func (s *Service) visible(userID, id string) (*models.ShortURL, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("Short URL not found")
	}

	ok, err := s.authz.CanView(userID, u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("Short URL not found")
	}
	return u, nil
}

func urlAlreadyShortened(existing *models.ShortURL) error {
	e := apperr.Conflictf("This URL has already been shortened as: %s/%s", existing.NamespaceName, existing.ShortCode)
	e.Fields = map[string]string{"original_url": e.Message}
	return e
}

func validateOriginalURL(raw string) error {
	if raw == "" {
		return apperr.BadRequestField("original_url", "original_url is required")
	}
	if len(raw) > 2048 {
		return apperr.BadRequestField("original_url", "original_url must be at most 2048 characters")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return apperr.BadRequestField("original_url", "original_url must be a valid http or https URL")
	}
	return nil
}
