package httpx

import (
	"context"

	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// actorKey carries the freshly loaded user record for the authenticated actor.
// Set by RequireAdmin after the store lookup so handlers never re-fetch.
type actorKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// GetSessionFromContext retrieves the session from the request context.
// Maintained for convenience; prefer GetUserSessionFromContext when you need presence info.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return nil
}

// SetActorInContext returns a child context carrying the authenticated actor's
// user record. If user is nil, the original ctx is returned unchanged.
func SetActorInContext(ctx context.Context, user *model.User) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, user)
}

// GetActorFromContext returns the authenticated actor's user record, if set.
func GetActorFromContext(ctx context.Context) (*model.User, bool) {
	if user, ok := ctx.Value(actorKey{}).(*model.User); ok && user != nil {
		return user, true
	}
	return nil, false
}

// IsGuestUser reports whether the current request context is unauthenticated or a guest session.
func IsGuestUser(ctx context.Context) bool {
	s, ok := GetUserSessionFromContext(ctx)
	if !ok || s == nil {
		return true
	}
	return s.IsGuest()
}
