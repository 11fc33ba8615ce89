package auth

import (
	"os"
	"sync"

	"github.com/google/uuid"
)

// DeviceIdentityProvider produces and persists the stable device identity
// used on every authenticated request. Identity is a labeling convenience,
// not security-critical: no failure here is fatal.
type DeviceIdentityProvider struct {
	secrets  SecretStore
	hostname func() (string, error)

	mu     sync.Mutex
	cached *DeviceIdentity
}

// NewDeviceIdentityProvider creates a provider over the given secrets backend
func NewDeviceIdentityProvider(secrets SecretStore) *DeviceIdentityProvider {
	return &DeviceIdentityProvider{
		secrets:  secrets,
		hostname: os.Hostname,
	}
}

// EnsureDeviceIdentity returns the stored device identity, generating and
// persisting a new random id on first use. Repeated calls yield the same
// id. If persistence fails the generated id is kept in memory for the
// current process only.
func (p *DeviceIdentityProvider) EnsureDeviceIdentity() DeviceIdentity {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return *p.cached
	}

	id, err := p.secrets.Get(keyDeviceID)
	if err != nil || id == "" {
		id = uuid.NewString()
		// Best effort; a failed write degrades to an in-memory id
		_ = p.secrets.Set(keyDeviceID, id)
	}

	name := UnknownDeviceName
	if h, err := p.hostname(); err == nil && h != "" {
		name = h
	}

	p.cached = &DeviceIdentity{DeviceID: id, DeviceName: name}
	return *p.cached
}
