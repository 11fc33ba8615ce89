package auth

import (
	"context"
	"sync"
)

// Session composes the host binding and the credential store into the
// startup authenticated/unauthenticated verdict. Host and credentials live
// in independent storage slots; they are correlated only here.
type Session struct {
	hosts HostStore
	creds *CredentialStore
}

// NewSession creates a session over the given host binding and credential store
func NewSession(hosts HostStore, creds *CredentialStore) *Session {
	return &Session{hosts: hosts, creds: creds}
}

// Bootstrap reads the host binding and the stored credentials and reports
// whether a usable session exists. The two reads have no ordering
// dependency and run concurrently. A failed read is treated as absent,
// never propagated: the caller uses the verdict to pick an entry screen
// and must always get a definite answer.
func (s *Session) Bootstrap(ctx context.Context) Verdict {
	var (
		wg      sync.WaitGroup
		hostURL string
		hostSet bool
		creds   *Credentials
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		hostURL, hostSet = s.hosts.Host()
	}()
	go func() {
		defer wg.Done()
		if c, err := s.creds.Load(); err == nil {
			creds = c
		}
	}()
	wg.Wait()

	verdict := Verdict{HostURL: hostURL}
	if creds != nil {
		verdict.UserID = creds.UserID
		verdict.UserName = creds.UserName
		verdict.AccessToken = creds.AccessToken
	}
	verdict.Authenticated = hostSet && verdict.UserID != "" && verdict.AccessToken != ""
	return verdict
}

// Host returns the bound server base URL, if any
func (s *Session) Host() (string, bool) {
	return s.hosts.Host()
}

// SetHost binds a server base URL
func (s *Session) SetHost(url string) error {
	return s.hosts.SetHost(url)
}

// ClearHost removes the host binding
func (s *Session) ClearHost() error {
	return s.hosts.ClearHost()
}

// SignOut clears the stored credentials. The host binding is left in place
// so the next login lands on the same server.
func (s *Session) SignOut() error {
	return s.creds.Clear()
}

// Credentials returns the credential store for write-through by the auth client
func (s *Session) Credentials() *CredentialStore {
	return s.creds
}
