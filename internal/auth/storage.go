package auth

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

// KeyringStore implements SecretStore using the OS keyring
type KeyringStore struct{}

// NewKeyringStore creates a new keyring-based secret store
func NewKeyringStore() *KeyringStore {
	// The zalando keyring library handles backend selection automatically
	return &KeyringStore{}
}

// Get retrieves a value from the keyring
func (s *KeyringStore) Get(key string) (string, error) {
	value, err := keyring.Get(KeyringService, key)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Set stores a value in the keyring
func (s *KeyringStore) Set(key, value string) error {
	if err := keyring.Set(KeyringService, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes a value from the keyring
func (s *KeyringStore) Delete(key string) error {
	err := keyring.Delete(KeyringService, key)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// CredentialStore persists the authenticated user id, display name, and
// access token as a single JSON record in secret storage. Writing one
// record keeps the save as atomic as the backend allows; a partial write
// under process crash remains possible and is tolerated by Bootstrap's
// "both present" rule.
type CredentialStore struct {
	secrets SecretStore
}

// NewCredentialStore creates a credential store over the given secrets backend
func NewCredentialStore(secrets SecretStore) *CredentialStore {
	return &CredentialStore{secrets: secrets}
}

// Save persists the credential triple
func (c *CredentialStore) Save(creds *Credentials) error {
	if creds == nil {
		return fmt.Errorf("cannot save nil credentials")
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := c.secrets.Set(keyCredentials, string(data)); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	return nil
}

// Load retrieves the stored credentials, returning ErrNotFound when none
// are stored
func (c *CredentialStore) Load() (*Credentials, error) {
	data, err := c.secrets.Get(keyCredentials)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	return &creds, nil
}

// Clear removes the stored credentials. Clearing when nothing is stored is
// not an error.
func (c *CredentialStore) Clear() error {
	return c.secrets.Delete(keyCredentials)
}

// MemStore implements SecretStore in memory, for tests and as the degraded
// backend when the OS keyring is unavailable
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

// NewMemStore creates an in-memory secret store. A non-nil err makes every
// operation fail with it.
func NewMemStore(err error) *MemStore {
	return &MemStore{
		values: make(map[string]string),
		err:    err,
	}
}

// Get retrieves a value
func (m *MemStore) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}
	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores a value
func (m *MemStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

// Delete removes a value
func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	delete(m.values, key)
	return nil
}
