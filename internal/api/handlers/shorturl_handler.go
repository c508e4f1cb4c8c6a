package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shortspace/internal/engine/shorturls"
	"shortspace/internal/pkg/errors"
)

type ShortURLHandler struct {
	shorturls   *shorturls.Service
	shortDomain string
}

func NewShortURLHandler(s *shorturls.Service, shortDomain string) *ShortURLHandler {
	return &ShortURLHandler{shorturls: s, shortDomain: shortDomain}
}

func (h *ShortURLHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.shorturls.List(claimsFrom(r).UserID, r.URL.Query().Get("namespace"))
	if err != nil {
		errors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": list})
}

type CreateShortURLRequest struct {
	OriginalURL string `json:"original_url"`
	Namespace   string `json:"namespace"`
	ShortCode   string `json:"short_code"`
}

func (h *ShortURLHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateShortURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	url, err := h.shorturls.Create(claimsFrom(r).UserID, req.OriginalURL, req.Namespace, req.ShortCode)
	if err != nil {
		errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, url)
}

func (h *ShortURLHandler) Get(w http.ResponseWriter, r *http.Request) {
	url, err := h.shorturls.Get(claimsFrom(r).UserID, paramFrom(r, "id"))
	if err != nil {
		errors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, url)
}

type UpdateShortURLRequest struct {
	OriginalURL string `json:"original_url"`
	ShortCode   string `json:"short_code"`
}

func (h *ShortURLHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateShortURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	url, err := h.shorturls.Update(claimsFrom(r).UserID, paramFrom(r, "id"), req.OriginalURL, req.ShortCode)
	if err != nil {
		errors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, url)
}

func (h *ShortURLHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.shorturls.Delete(claimsFrom(r).UserID, paramFrom(r, "id")); err != nil {
		errors.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShortURLHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	size := 0
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "size must be an integer", nil)
			return
		}
		size = n
	}

	png, err := h.shorturls.QRCode(claimsFrom(r).UserID, paramFrom(r, "id"), h.shortDomain, size)
	if err != nil {
		errors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
