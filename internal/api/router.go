package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "shortspace/internal/api/context"
	"shortspace/internal/api/handlers"
	"shortspace/internal/api/middleware"
)

type Dependencies struct {
	AuthHandler       *handlers.AuthHandler
	OrgHandler        *handlers.OrgHandler
	InvitationHandler *handlers.InvitationHandler
	NamespaceHandler  *handlers.NamespaceHandler
	ShortURLHandler   *handlers.ShortURLHandler
	RedirectHandler   *handlers.RedirectHandler
	HealthHandler     *handlers.HealthHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	authMid := deps.AuthMiddleware

	// Authentication routes
	router.POST("/api/auth/register", wrap(deps.AuthHandler.Register))
	router.POST("/api/auth/login", wrap(deps.AuthHandler.Login))
	router.GET("/api/auth/me", chain(deps.AuthHandler.Me, authMid.Handle))

	// Organization management
	router.POST("/api/organizations", chain(deps.OrgHandler.Create, authMid.Handle))
	router.GET("/api/organizations", chain(deps.OrgHandler.List, authMid.Handle))
	router.GET("/api/organizations/:id", chain(deps.OrgHandler.Get, authMid.Handle))
	router.PUT("/api/organizations/:id", chain(deps.OrgHandler.Update, authMid.Handle))
	router.PATCH("/api/organizations/:id", chain(deps.OrgHandler.Update, authMid.Handle))
	router.DELETE("/api/organizations/:id", chain(deps.OrgHandler.Delete, authMid.Handle))
	router.POST("/api/organizations/:id/invite", chain(deps.OrgHandler.Invite, authMid.Handle))
	router.GET("/api/organizations/:id/invitations", chain(deps.OrgHandler.ListInvitations, authMid.Handle))
	router.GET("/api/organizations/:id/audit", chain(deps.OrgHandler.AuditLog, authMid.Handle))
	router.PATCH("/api/organizations/:id/members/:member_id", chain(deps.OrgHandler.UpdateMemberRole, authMid.Handle))
	router.DELETE("/api/organizations/:id/members/:member_id", chain(deps.OrgHandler.RemoveMember, authMid.Handle))

	// Invitations; validation is public so the invite link works pre-signup
	router.GET("/api/invitations/:token/validate", wrap(deps.InvitationHandler.Validate))
	router.POST("/api/invitations/:token/accept", chain(deps.InvitationHandler.Accept, authMid.Handle))

	// Namespace management
	router.GET("/api/namespaces", chain(deps.NamespaceHandler.List, authMid.Handle))
	router.POST("/api/namespaces", chain(deps.NamespaceHandler.Create, authMid.Handle))
	router.GET("/api/namespaces/:id", chain(deps.NamespaceHandler.Get, authMid.Handle))
	router.PUT("/api/namespaces/:id", chain(deps.NamespaceHandler.Update, authMid.Handle))
	router.PATCH("/api/namespaces/:id", chain(deps.NamespaceHandler.Update, authMid.Handle))
	router.DELETE("/api/namespaces/:id", chain(deps.NamespaceHandler.Delete, authMid.Handle))

	// Short URL management
	router.GET("/api/urls", chain(deps.ShortURLHandler.List, authMid.Handle))
	router.POST("/api/urls", chain(deps.ShortURLHandler.Create, authMid.Handle))
	router.GET("/api/urls/:id", chain(deps.ShortURLHandler.Get, authMid.Handle))
	router.PUT("/api/urls/:id", chain(deps.ShortURLHandler.Update, authMid.Handle))
	router.DELETE("/api/urls/:id", chain(deps.ShortURLHandler.Delete, authMid.Handle))
	router.GET("/api/urls/:id/qr", chain(deps.ShortURLHandler.QRCode, authMid.Handle))

	router.GET("/api/health", wrap(deps.HealthHandler.Check))

	// Public redirects live at /{namespace}/{code}. Registering them as a
	// wildcard route would conflict with /api, so they are resolved from
	// the not-found fallback instead.
	router.NotFound = deps.RedirectHandler

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
