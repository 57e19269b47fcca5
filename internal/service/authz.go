package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/data"
	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
)

// ErrForbidden is returned when an authenticated caller lacks the required
// role, the account is gone, or the account is deactivated.
var ErrForbidden = errors.New("forbidden")

// AuthorizerService makes role decisions. It always re-reads the user record;
// the role snapshot inside a session or token is never trusted for
// authorization, so demotions and deactivations take effect immediately.
type AuthorizerService struct {
	users UserStore
}

// NewAuthorizerService constructs a new AuthorizerService.
func NewAuthorizerService(users UserStore) *AuthorizerService {
	return &AuthorizerService{users: users}
}

// RequireAdmin returns the caller's current user record if it exists, is
// active, and holds the admin role. A missing account is ErrForbidden, not a
// not-found: an authenticated caller without a user row has no privileges.
func (s *AuthorizerService) RequireAdmin(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != domainauth.RoleAdmin {
		return nil, ErrForbidden
	}
	return user, nil
}

// RequireUser returns the caller's current user record if it exists and is active.
func (s *AuthorizerService) RequireUser(ctx context.Context, userID string) (*model.User, error) {
	return s.currentUser(ctx, userID)
}

func (s *AuthorizerService) currentUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, ErrForbidden
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("load user for authorization: %w", err)
	}
	if !user.Active {
		return nil, ErrForbidden
	}
	return user, nil
}
