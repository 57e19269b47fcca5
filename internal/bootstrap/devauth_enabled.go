//go:build devauth

package bootstrap

import (
	"fmt"

	"github.com/DKiloDesigns/CreatorFlow-sub004/config"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/adapters/devauth"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/ports"
)

// buildMockAuthProvider constructs the config-driven dev auth provider.
// It exists only in binaries built with the devauth tag.
//
//nolint:ireturn // the provider is selected at runtime from config.
func buildMockAuthProvider(cfg config.AuthConfig) (ports.AuthProvider, error) {
	prov, err := devauth.NewProvider(devauth.Config{
		UserID: cfg.DevAuth.UserID,
		Name:   cfg.DevAuth.Name,
		Email:  cfg.DevAuth.Email,
		Groups: cfg.DevAuth.Groups,
		// session duration defaults inside provider
	})
	if err != nil {
		return nil, fmt.Errorf("create dev auth provider: %w", err)
	}
	return prov, nil
}
