//go:build !devauth

package bootstrap

import (
	"errors"

	"github.com/DKiloDesigns/CreatorFlow-sub004/config"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/ports"
)

// buildMockAuthProvider refuses mock auth in binaries built without the
// devauth tag, so the bypass can never reach production.
//
//nolint:ireturn // the provider is selected at runtime from config.
func buildMockAuthProvider(config.AuthConfig) (ports.AuthProvider, error) {
	return nil, errors.New("mock auth requires a binary built with the devauth tag")
}
