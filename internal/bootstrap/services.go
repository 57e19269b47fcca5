package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/DKiloDesigns/CreatorFlow-sub004/config"
	redisadapter "github.com/DKiloDesigns/CreatorFlow-sub004/internal/adapters/redis"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/data"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/service"
)

// ServiceContainer holds the application services wired for the HTTP layer.
type ServiceContainer struct {
	Auth          *service.AuthService
	Authz         *service.AuthorizerService
	Admin         *service.AdminService
	Audit         *service.AuditService
	Impersonation *service.ImpersonationService
	Feedback      *service.FeedbackService
	Users         service.UserStore
}

// ServiceDeps contains the infrastructure dependencies for building services.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices builds the service container from infrastructure dependencies.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userRepo := data.NewUserRepo(deps.DB)
	feedbackRepo := data.NewFeedbackRepo(deps.DB)
	auditRepo := data.NewAuditRepo(deps.DB)

	sessionStore := redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, "session:")

	auth, err := BuildAuthService(AuthDeps{
		Auth:        deps.Config.Auth,
		RedisClient: deps.RedisClient,
		Sessions:    sessionStore,
		Users:       userRepo,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	audit := service.NewAuditService(auditRepo, logger)

	return ServiceContainer{
		Auth:  auth,
		Authz: service.NewAuthorizerService(userRepo),
		Admin: service.NewAdminService(service.AdminServiceOptions{
			Users:    userRepo,
			Sessions: sessionStore,
			Feedback: feedbackRepo,
			Audit:    audit,
		}),
		Audit:         audit,
		Impersonation: service.NewImpersonationService(userRepo, audit),
		Feedback:      service.NewFeedbackService(feedbackRepo),
		Users:         userRepo,
	}, nil
}

// RunServerWithShutdown starts the HTTP server and blocks until a shutdown
// signal arrives, then drains the server gracefully.
func RunServerWithShutdown(cfg *config.AppConfig, services ServiceContainer, logger *slog.Logger) error {
	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg,
		Services: services,
		Logger:   logger,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	signal.Stop(sigCh)

	logger.Info("shutdown signal received", "signal", sig.String())

	return ShutdownHTTPServer(ShutdownConfig{
		Context: context.Background(),
		Server:  server,
		Logger:  logger,
	})
}
