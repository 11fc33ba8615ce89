package auth

import (
	"fmt"
	"net/http"
	"sync"
)

// MockHTTPClient is a mock implementation of HTTPClient for testing
type MockHTTPClient struct {
	mu sync.Mutex

	// Do behavior
	DoFunc  func(req *http.Request) (*http.Response, error)
	DoCalls []struct {
		Req *http.Request
	}
}

// Do implements HTTPClient
func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.DoCalls = append(m.DoCalls, struct {
		Req *http.Request
	}{
		Req: req,
	})
	fn := m.DoFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(req)
	}

	// Default error response
	return nil, fmt.Errorf("mock HTTP client: no DoFunc configured")
}

// Reset clears all recorded calls
func (m *MockHTTPClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DoCalls = nil
}

// Ensure MockHTTPClient implements HTTPClient
var _ HTTPClient = (*MockHTTPClient)(nil)

// MemHostStore implements HostStore in memory, for tests
type MemHostStore struct {
	mu  sync.Mutex
	url string
	set bool
	err error
}

// NewMemHostStore creates an in-memory host store. A non-nil err makes the
// write operations fail with it.
func NewMemHostStore(url string, err error) *MemHostStore {
	return &MemHostStore{url: url, set: url != "", err: err}
}

// Host implements HostStore
func (m *MemHostStore) Host() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url, m.set
}

// SetHost implements HostStore
func (m *MemHostStore) SetHost(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.url, m.set = url, true
	return nil
}

// ClearHost implements HostStore
func (m *MemHostStore) ClearHost() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.url, m.set = "", false
	return nil
}

// Ensure MemHostStore implements HostStore
var _ HostStore = (*MemHostStore)(nil)
