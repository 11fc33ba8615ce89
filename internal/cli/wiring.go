package cli

import (
	"fmt"

	"github.com/jellykids/jellykids-cli/internal/api"
	"github.com/jellykids/jellykids-cli/internal/auth"
	"github.com/jellykids/jellykids-cli/internal/config"
)

// newSession wires the session over the user config and the OS keyring
func newSession() (*auth.Session, *auth.DeviceIdentityProvider, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	secrets := auth.NewKeyringStore()
	creds := auth.NewCredentialStore(secrets)
	session := auth.NewSession(cfg, creds)
	device := auth.NewDeviceIdentityProvider(secrets)

	return session, device, nil
}

// newAuthClient wires the authentication client
func newAuthClient() (*auth.Client, error) {
	session, device, err := newSession()
	if err != nil {
		return nil, err
	}
	return auth.NewClient(session, device), nil
}

// newAPIClient wires the API client over the bound host
func newAPIClient() (*api.Client, error) {
	session, device, err := newSession()
	if err != nil {
		return nil, err
	}
	return api.NewClient(session, device), nil
}
