package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"shortspace/internal/engine/shorturls"
	apperr "shortspace/internal/pkg/errors"
)

// RedirectHandler serves public short link resolution. It is installed as
// the router's NotFound handler so that /{namespace}/{code} paths do not
// collide with the static /api routes.
type RedirectHandler struct {
	shorturls *shorturls.Service
}

func NewRedirectHandler(s *shorturls.Service) *RedirectHandler {
	return &RedirectHandler{shorturls: s}
}

func (h *RedirectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || parts[0] == "api" {
		http.NotFound(w, r)
		return
	}

	target, err := h.shorturls.Resolve(parts[0], parts[1])
	if err != nil {
		if !apperr.IsCode(err, apperr.ErrCodeNotFound) {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("redirect resolution failed")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}
