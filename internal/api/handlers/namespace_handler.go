package handlers

import (
	"encoding/json"
	"net/http"

	"shortspace/internal/engine/namespaces"
	"shortspace/internal/pkg/errors"
)

type NamespaceHandler struct {
	namespaces *namespaces.Service
}

func NewNamespaceHandler(ns *namespaces.Service) *NamespaceHandler {
	return &NamespaceHandler{namespaces: ns}
}

func (h *NamespaceHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.namespaces.List(claimsFrom(r).UserID, r.URL.Query().Get("organization"))
	if err != nil {
		errors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": list})
}

type CreateNamespaceRequest struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
}

func (h *NamespaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNamespaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	ns, err := h.namespaces.Create(claimsFrom(r).UserID, req.Name, req.Organization)
	if err != nil {
		errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ns)
}

func (h *NamespaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ns, err := h.namespaces.Get(claimsFrom(r).UserID, paramFrom(r, "id"))
	if err != nil {
		errors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

type UpdateNamespaceRequest struct {
	Name string `json:"name"`
}

func (h *NamespaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateNamespaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	ns, err := h.namespaces.Update(claimsFrom(r).UserID, paramFrom(r, "id"), req.Name)
	if err != nil {
		errors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

func (h *NamespaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.namespaces.Delete(claimsFrom(r).UserID, paramFrom(r, "id")); err != nil {
		errors.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
