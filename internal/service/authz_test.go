package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
	mockstore "github.com/DKiloDesigns/CreatorFlow-sub004/internal/mocks/store"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/service"
)

func TestAuthorizerService_RequireAdmin_Admin(t *testing.T) {
	users := mockstore.NewMemoryUserStore()
	admin := users.Add(model.User{Email: "a@example.com", Role: domainauth.RoleAdmin, Active: true})
	authz := service.NewAuthorizerService(users)

	user, err := authz.RequireAdmin(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)
}

func TestAuthorizerService_RequireAdmin_NonAdmin(t *testing.T) {
	users := mockstore.NewMemoryUserStore()
	regular := users.Add(model.User{Email: "u@example.com", Role: domainauth.RoleUser, Active: true})
	authz := service.NewAuthorizerService(users)

	_, err := authz.RequireAdmin(context.Background(), regular.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestAuthorizerService_RequireAdmin_MissingUser(t *testing.T) {
	authz := service.NewAuthorizerService(mockstore.NewMemoryUserStore())

	// A session may outlive its account; a missing record means no privileges.
	_, err := authz.RequireAdmin(context.Background(), "ghost")
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = authz.RequireAdmin(context.Background(), "")
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestAuthorizerService_RequireAdmin_Deactivated(t *testing.T) {
	users := mockstore.NewMemoryUserStore()
	admin := users.Add(model.User{Email: "a@example.com", Role: domainauth.RoleAdmin, Active: false})
	authz := service.NewAuthorizerService(users)

	_, err := authz.RequireAdmin(context.Background(), admin.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestAuthorizerService_RequireAdmin_DemotionTakesEffectImmediately(t *testing.T) {
	users := mockstore.NewMemoryUserStore()
	admin := users.Add(model.User{Email: "a@example.com", Role: domainauth.RoleAdmin, Active: true})
	authz := service.NewAuthorizerService(users)

	_, err := authz.RequireAdmin(context.Background(), admin.ID)
	require.NoError(t, err)

	// Demote while the session is still live. The next check must fail even
	// though the session still carries an admin role snapshot.
	_, err = users.UpdateRole(context.Background(), admin.ID, domainauth.RoleUser)
	require.NoError(t, err)

	_, err = authz.RequireAdmin(context.Background(), admin.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestAuthorizerService_RequireUser(t *testing.T) {
	users := mockstore.NewMemoryUserStore()
	regular := users.Add(model.User{Email: "u@example.com", Role: domainauth.RoleUser, Active: true})
	authz := service.NewAuthorizerService(users)

	user, err := authz.RequireUser(context.Background(), regular.ID)
	require.NoError(t, err)
	assert.Equal(t, regular.ID, user.ID)

	_, err = authz.RequireUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, service.ErrForbidden)
}
