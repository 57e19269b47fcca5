package httpx

import (
	"log/slog"
	"net/http"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth          *service.AuthService
	Authz         *service.AuthorizerService
	Admin         *service.AdminService
	Audit         *service.AuditService
	Impersonation *service.ImpersonationService
	Feedback      *service.FeedbackService
	Users         service.UserStore
	CookieDomain  string
	Logger        *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	meHandlers := &MeHandlers{
		Authz:        services.Authz,
		Users:        services.Users,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	feedbackHandlers := &FeedbackHandlers{Svc: services.Feedback}
	adminHandlers := &AdminHandlers{
		Svc:    services.Admin,
		Audit:  services.Audit,
		Logger: services.Logger,
	}
	impersonationHandlers := &ImpersonationHandlers{
		Svc:          services.Impersonation,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}

	registerAuthRoutes(mux, authHandlers)
	registerUserRoutes(mux, userRouteConfig{
		Me:       meHandlers,
		Feedback: feedbackHandlers,
		Auth:     services.Auth,
	})
	registerAdminRoutes(mux, adminRouteConfig{
		Admin:         adminHandlers,
		Impersonation: impersonationHandlers,
		Auth:          services.Auth,
		Authz:         services.Authz,
	})

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/login", h.PasswordLogin)
	mux.HandleFunc("GET /auth/oauth/login", h.OAuthLogin)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// userRouteConfig groups dependencies for authenticated (non-admin) routes.
type userRouteConfig struct {
	Me       *MeHandlers
	Feedback *FeedbackHandlers
	Auth     TokenVerifier
}

func registerUserRoutes(mux *http.ServeMux, cfg userRouteConfig) {
	wrap := RequireAuth(cfg.Auth)
	mux.Handle("GET /api/me", wrap(http.HandlerFunc(cfg.Me.Me)))
	mux.Handle("POST /api/feedback", wrap(http.HandlerFunc(cfg.Feedback.Submit)))
	mux.Handle("GET /api/feedback", wrap(http.HandlerFunc(cfg.Feedback.ListMine)))
}

// adminRouteConfig groups dependencies for admin-gated routes.
type adminRouteConfig struct {
	Admin         *AdminHandlers
	Impersonation *ImpersonationHandlers
	Auth          TokenVerifier
	Authz         Authorizer
}

func registerAdminRoutes(mux *http.ServeMux, cfg adminRouteConfig) {
	// Every admin route re-checks the stored role per request.
	wrap := RequireAdmin(cfg.Auth, cfg.Authz)

	mux.Handle("GET /api/admin/users", wrap(http.HandlerFunc(cfg.Admin.ListUsers)))
	mux.Handle("GET /api/admin/users/{id}", wrap(http.HandlerFunc(cfg.Admin.GetUser)))
	mux.Handle("POST /api/admin/users/{id}/promote", wrap(http.HandlerFunc(cfg.Admin.PromoteUser)))
	mux.Handle("POST /api/admin/users/{id}/demote", wrap(http.HandlerFunc(cfg.Admin.DemoteUser)))
	mux.Handle("POST /api/admin/users/{id}/deactivate", wrap(http.HandlerFunc(cfg.Admin.DeactivateUser)))
	mux.Handle("POST /api/admin/users/{id}/reactivate", wrap(http.HandlerFunc(cfg.Admin.ReactivateUser)))

	mux.Handle("GET /api/admin/sessions", wrap(http.HandlerFunc(cfg.Admin.ListSessions)))
	mux.Handle("DELETE /api/admin/sessions/{id}", wrap(http.HandlerFunc(cfg.Admin.RevokeSession)))

	mux.Handle("GET /api/admin/feedback", wrap(http.HandlerFunc(cfg.Admin.ListFeedback)))
	mux.Handle("POST /api/admin/feedback/{id}/reply", wrap(http.HandlerFunc(cfg.Admin.ReplyFeedback)))
	mux.Handle("POST /api/admin/feedback/{id}/resolve", wrap(http.HandlerFunc(cfg.Admin.ResolveFeedback)))

	mux.Handle("GET /api/admin/audit", wrap(http.HandlerFunc(cfg.Admin.ListAudit)))

	mux.Handle("POST /api/admin/impersonate/{id}", wrap(http.HandlerFunc(cfg.Impersonation.Start)))
	mux.Handle("POST /api/admin/impersonate/revert", wrap(http.HandlerFunc(cfg.Impersonation.Revert)))
}
