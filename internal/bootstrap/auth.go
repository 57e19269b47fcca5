package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/DKiloDesigns/CreatorFlow-sub004/config"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/adapters/authroles"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/adapters/oidc"
	redisadapter "github.com/DKiloDesigns/CreatorFlow-sub004/internal/adapters/redis"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/ports"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/service"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/token"
)

// AuthDeps contains dependencies for building the auth service.
type AuthDeps struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Sessions    ports.SessionStore // optional; built from RedisClient when nil
	Users       service.UserStore
	Logger      *slog.Logger
}

// BuildAuthService creates the auth service based on the configured auth mode.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	if deps.Users == nil {
		return nil, errors.New("auth service requires a user store")
	}

	codec, err := token.NewCodec(deps.Auth.TokenSecret, deps.Auth.TokenIssuer)
	if err != nil {
		return nil, fmt.Errorf("create token codec: %w", err)
	}

	sessionStore := deps.Sessions
	if sessionStore == nil {
		if deps.RedisClient == nil {
			return nil, errors.New("auth service requires a redis client")
		}
		sessionStore = redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, "session:")
	}

	roleMapper := authroles.StaticRoleMapper{
		AdminGroup: deps.Auth.AdminGroup,
		UserGroup:  deps.Auth.UserGroup,
	}

	provider, err := buildAuthProvider(deps.Auth)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:   provider,
		Sessions:   sessionStore,
		Roles:      roleMapper,
		Users:      deps.Users,
		Tokens:     codec,
		SessionTTL: deps.Auth.SessionTTL,
	}), nil
}

//nolint:ireturn // the provider is selected at runtime from config.
func buildAuthProvider(cfg config.AuthConfig) (ports.AuthProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		return buildMockAuthProvider(cfg)

	case config.AuthModeOAuth:
		oauth := cfg.OAuth
		if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
			return nil, errors.New(
				"oauth mode requires OAUTH_DISCOVERY_URL, OAUTH_CLIENT_ID, and OAUTH_CLIENT_SECRET")
		}

		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
			LogoutURL:    oauth.LogoutURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create OIDC provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}
