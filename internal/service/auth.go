package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/data"
	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/ports"
)

// UserStore is the subset of user persistence the auth service needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpsertFromIdentity(ctx context.Context, identity domainauth.Identity, role domainauth.Role) (*model.User, error)
}

// ErrInvalidCredentials is returned when an email/password pair does not
// match an active account. Callers must not distinguish the failure modes.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidSession is returned when a presented token does not resolve to a
// live session: bad token, revoked session, or expired session.
var ErrInvalidSession = errors.New("invalid session")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider   ports.AuthProvider
	Sessions   ports.SessionStore
	Roles      ports.RoleMapper
	Users      UserStore
	Tokens     ports.SessionTokenCodec
	SessionTTL time.Duration // default 12h when zero
}

// AuthService orchestrates authentication flows: OIDC and password logins,
// session persistence, token minting, and token verification.
type AuthService struct {
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	roles      ports.RoleMapper
	users      UserStore
	tokens     ports.SessionTokenCodec
	sessionTTL time.Duration
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl == 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		roles:      opts.Roles,
		users:      opts.Users,
		tokens:     opts.Tokens,
		sessionTTL: ttl,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	input := ports.BeginInput{RedirectURL: redirectURL}
	authURL, state, nonce, err := s.provider.Begin(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// LoginResult contains an established session and its signed token.
type LoginResult struct {
	Session domainauth.Session
	Token   string
	User    *model.User
}

// CompleteLogin completes an OIDC flow: exchanges the code for an identity,
// upserts the user record, persists a session, and mints its token. The
// session's user ID is the local account ID, never the IdP subject.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*LoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	exchangeInput := ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	}
	identity, err := s.provider.Exchange(ctx, exchangeInput)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	// The mapped role only seeds new accounts; existing accounts keep theirs.
	mappedRole := s.roles.Map(identity.Groups)

	user, err := s.users.UpsertFromIdentity(ctx, identity, mappedRole)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	expiresAt := identity.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(s.sessionTTL)
	}

	return s.establishSession(ctx, user, expiresAt)
}

// LoginWithPassword authenticates an email/password pair and establishes a
// session. Unknown email, wrong password, no password set, and deactivated
// account all collapse into ErrInvalidCredentials.
func (s *AuthService) LoginWithPassword(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user.PasswordHash == nil || !user.Active {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.establishSession(ctx, user, time.Now().Add(s.sessionTTL))
}

func (s *AuthService) establishSession(ctx context.Context, user *model.User, expiresAt time.Time) (*LoginResult, error) {
	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	token, err := s.tokens.Mint(session)
	if err != nil {
		return nil, fmt.Errorf("mint session token: %w", err)
	}

	return &LoginResult{
		Session: session,
		Token:   token,
		User:    user,
	}, nil
}

// VerifyToken resolves a raw session token to its live session. Any failure,
// from a bad signature to a revoked or expired session, collapses into
// ErrInvalidSession.
func (s *AuthService) VerifyToken(ctx context.Context, raw string) (*domainauth.Session, error) {
	if raw == "" {
		return nil, ErrInvalidSession
	}

	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	// The token names a session; the session record is authoritative.
	if session.UserID != claims.UserID {
		return nil, ErrInvalidSession
	}
	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, claims.SessionID); deleteErr != nil {
			return nil, errors.Join(ErrInvalidSession, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrInvalidSession
	}

	return &session, nil
}

// Logout removes a session. Logging out with no session is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// Use UUID for session ID - it's URL-safe and has good entropy
	id := uuid.New()
	return id.String()
}
