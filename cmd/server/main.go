package main

import (
	"fmt"
	"log"
	"net/http"

	"shortspace/internal/api"
	"shortspace/internal/api/handlers"
	"shortspace/internal/api/middleware"
	"shortspace/internal/engine/authz"
	"shortspace/internal/engine/mailer"
	"shortspace/internal/engine/membership"
	"shortspace/internal/engine/namespaces"
	"shortspace/internal/engine/shorturls"
	"shortspace/internal/platform/audit"
	"shortspace/internal/platform/auth"
	"shortspace/internal/platform/config"
	"shortspace/internal/platform/database"
	"shortspace/internal/platform/repositories"
	"shortspace/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	orgRepo := repositories.NewOrganizationRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	inviteRepo := repositories.NewInvitationRepository(db)
	nsRepo := repositories.NewNamespaceRepository(db)
	urlRepo := repositories.NewShortURLRepository(db)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	az := authz.New(memberRepo)
	mail := mailer.New(cfg.Email, cfg.Domains.AppDomain)
	membershipSvc := membership.NewService(orgRepo, memberRepo, userRepo, inviteRepo, az, mail, cfg.Invitations.TTL)
	membershipSvc.SetAuditLogger(audit.NewLogger(db))
	namespaceSvc := namespaces.NewService(nsRepo, orgRepo, az)
	shortURLSvc := shorturls.NewService(urlRepo, nsRepo, az, shorturls.NewGenerator(cfg.ShortCodes))
	namespaceSvc.SetCacheFlusher(shortURLSvc)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, membershipSvc, tokenSvc)
	orgHandler := handlers.NewOrgHandler(membershipSvc)
	invitationHandler := handlers.NewInvitationHandler(membershipSvc, userRepo)
	namespaceHandler := handlers.NewNamespaceHandler(namespaceSvc)
	shortURLHandler := handlers.NewShortURLHandler(shortURLSvc, cfg.Domains.ShortDomain)
	redirectHandler := handlers.NewRedirectHandler(shortURLSvc)
	healthHandler := handlers.NewHealthHandler(db)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)

	router := api.NewRouter(&api.Dependencies{
		AuthHandler:       authHandler,
		OrgHandler:        orgHandler,
		InvitationHandler: invitationHandler,
		NamespaceHandler:  namespaceHandler,
		ShortURLHandler:   shortURLHandler,
		RedirectHandler:   redirectHandler,
		HealthHandler:     healthHandler,
		AuthMiddleware:    authMiddleware,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
