package auth

import (
	"net/http"
)

// SecretStore defines the interface for opaque secure key/value storage
type SecretStore interface {
	// Get retrieves a value, returning ErrNotFound when the key is absent
	Get(key string) (string, error)
	// Set stores a value, overwriting any existing one
	Set(key, value string) error
	// Delete removes a value; deleting an absent key is not an error
	Delete(key string) error
}

// HostStore defines the interface for the host binding
type HostStore interface {
	// Host returns the bound server base URL, if any
	Host() (string, bool)
	// SetHost binds a server base URL, overwriting unconditionally
	SetHost(url string) error
	// ClearHost removes the binding
	ClearHost() error
}

// HTTPClient defines the interface for HTTP operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// BrowserOpener defines the interface for opening URLs in a browser
type BrowserOpener interface {
	OpenURL(url string) error
}
