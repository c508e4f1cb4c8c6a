package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shortspace/internal/engine/membership"
	"shortspace/internal/pkg/errors"
)

type OrgHandler struct {
	membership *membership.Service
}

func NewOrgHandler(ms *membership.Service) *OrgHandler {
	return &OrgHandler{membership: ms}
}

type CreateOrgRequest struct {
	Name string `json:"name"`
}

func (h *OrgHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	org, err := h.membership.CreateOrganization(claimsFrom(r).UserID, req.Name)
	if err != nil {
		errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, org)
}

func (h *OrgHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	orgs, err := h.membership.ListOrganizations(claimsFrom(r).UserID, limit, offset)
	if err != nil {
		errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": orgs,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *OrgHandler) Get(w http.ResponseWriter, r *http.Request) {
	org, err := h.membership.GetOrganization(claimsFrom(r).UserID, paramFrom(r, "id"))
	if err != nil {
		errors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

type UpdateOrgRequest struct {
	Name string `json:"name"`
}

func (h *OrgHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	org, err := h.membership.UpdateOrganization(claimsFrom(r).UserID, paramFrom(r, "id"), req.Name)
	if err != nil {
		errors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (h *OrgHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.membership.DeleteOrganization(claimsFrom(r).UserID, paramFrom(r, "id")); err != nil {
		errors.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *OrgHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	inv, err := h.membership.InviteMember(claimsFrom(r).UserID, paramFrom(r, "id"), req.Email, req.Role)
	if err != nil {
		errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, inv)
}

func (h *OrgHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	invs, err := h.membership.ListInvitations(claimsFrom(r).UserID, paramFrom(r, "id"))
	if err != nil {
		errors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": invs})
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

func (h *OrgHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateMemberRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	member, err := h.membership.UpdateMemberRole(
		claimsFrom(r).UserID, paramFrom(r, "id"), paramFrom(r, "member_id"), req.Role)
	if err != nil {
		errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

func (h *OrgHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	limit, _ := pagination(r)
	entries, err := h.membership.ListAuditLog(claimsFrom(r).UserID, paramFrom(r, "id"), limit)
	if err != nil {
		errors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": entries})
}

func (h *OrgHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	err := h.membership.RemoveMember(claimsFrom(r).UserID, paramFrom(r, "id"), paramFrom(r, "member_id"))
	if err != nil {
		errors.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pagination(r *http.Request) (limit, offset int) {
	limit = 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
