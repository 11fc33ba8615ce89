package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Client performs the password login exchange and the Quick Connect
// initiate/poll/finalize exchange against the bound host, writing through
// the credential store on success. It never retries: a failed attempt
// surfaces immediately and retry policy stays with the caller.
type Client struct {
	httpClient   HTTPClient
	session      *Session
	device       *DeviceIdentityProvider
	pollInterval time.Duration
	qcTimeout    time.Duration

	// Password login and Quick Connect both write through the credential
	// store; the slot keeps the two flows from racing.
	attemptMu sync.Mutex
	attempt   bool
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, primarily for testing
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithPollInterval overrides the Quick Connect poll interval
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// WithQuickConnectTimeout overrides the client-side Quick Connect budget
func WithQuickConnectTimeout(d time.Duration) Option {
	return func(c *Client) { c.qcTimeout = d }
}

// NewClient creates an authentication client over the given session and
// device identity provider
func NewClient(session *Session, device *DeviceIdentityProvider, opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		session:      session,
		device:       device,
		pollInterval: QuickConnectPollInterval,
		qcTimeout:    QuickConnectTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login authenticates with a username and password. On success the
// credential triple is written through the store before returning. A save
// failure is reported as a warning only: the server response is still
// returned and the in-memory session proceeds.
func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	host, ok := c.session.Host()
	if !ok {
		return nil, ErrNoHost
	}

	if err := c.acquireAttempt(); err != nil {
		return nil, err
	}
	defer c.releaseAttempt()

	body := map[string]string{
		"Username": username,
		"Pw":       password,
	}

	resp, err := c.authRequest(ctx, http.MethodPost, host+"/Users/authenticatebyname", body)
	if err != nil {
		if se, ok := err.(*ServerError); ok && se.Status == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return c.saveLogin(resp)
}

// finalizeQuickConnect exchanges an authorized Quick Connect secret for
// credentials, with the same handling and write-through as password login
func (c *Client) finalizeQuickConnect(ctx context.Context, host, secret string) (*Credentials, error) {
	body := map[string]string{"Secret": secret}

	resp, err := c.authRequest(ctx, http.MethodPost, host+"/Users/AuthenticateWithQuickConnect", body)
	if err != nil {
		if se, ok := err.(*ServerError); ok && se.Status == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return c.saveLogin(resp)
}

// saveLogin parses a login response and writes the credentials through the store
func (c *Client) saveLogin(resp *LoginResponse) (*Credentials, error) {
	creds := &Credentials{
		UserID:      resp.User.ID,
		UserName:    resp.User.Name,
		AccessToken: resp.AccessToken,
	}

	if err := c.session.Credentials().Save(creds); err != nil {
		// Non-fatal: the server accepted the login, so the caller gets the
		// credentials even though the next bootstrap may not see them
		fmt.Printf("Warning: failed to save credentials: %v\n", err)
	}

	return creds, nil
}

// authRequest performs one authentication POST with device-identity
// headers and parses the login response shape
func (c *Client) authRequest(ctx context.Context, method, endpoint string, body any) (*LoginResponse, error) {
	data, err := c.doJSON(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}

	var resp LoginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &resp, nil
}

// doJSON performs one request with device-identity headers and returns the
// response body. Non-2xx statuses map to *ServerError; network-level
// failures map to *TransportError.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = BuildHeaders(c.device.EnsureDeviceIdentity(), "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{Status: resp.StatusCode}
	}

	return data, nil
}

// quickConnectURL builds the poll URL for a secret
func quickConnectURL(host, secret string) string {
	params := url.Values{"secret": {secret}}
	return host + "/QuickConnect/Connect?" + params.Encode()
}
