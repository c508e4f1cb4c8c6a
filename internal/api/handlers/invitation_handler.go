package handlers

import (
	"net/http"

	"shortspace/internal/engine/membership"
	"shortspace/internal/pkg/errors"
	"shortspace/internal/platform/repositories"
)

type InvitationHandler struct {
	membership *membership.Service
	userRepo   *repositories.UserRepository
}

func NewInvitationHandler(ms *membership.Service, users *repositories.UserRepository) *InvitationHandler {
	return &InvitationHandler{membership: ms, userRepo: users}
}

// Validate is public: the invite link is opened before the user has an account.
func (h *InvitationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	info, err := h.membership.ValidateInvitationToken(paramFrom(r, "token"))
	if err != nil {
		status := http.StatusBadRequest
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]interface{}{
			"valid": false,
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetByID(claimsFrom(r).UserID)
	if err != nil || user == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid credentials", nil)
		return
	}

	result, err := h.membership.AcceptInvitation(user, paramFrom(r, "token"))
	if err != nil {
		errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"organization_id":   result.OrganizationID,
		"organization_name": result.OrganizationName,
		"role":              result.Role,
	})
}
