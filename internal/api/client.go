// Package api provides the authenticated client for the bound media server
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jellykids/jellykids-cli/internal/auth"
)

// Client performs API calls against the bound host, authorizing each
// request with the device identity and the stored access token
type Client struct {
	httpClient auth.HTTPClient
	session    *auth.Session
	device     *auth.DeviceIdentityProvider
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, primarily for testing
func WithHTTPClient(h auth.HTTPClient) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates an API client over the given session
func NewClient(session *auth.Session, device *auth.DeviceIdentityProvider, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    session,
		device:     device,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PublicServerInfo fetches a server's public system info. It takes an
// explicit base URL because it is also used to validate a candidate host
// before any binding exists, and needs no authentication.
func (c *Client) PublicServerInfo(ctx context.Context, baseURL string) (*PublicServerInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/System/Info/Public", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var info PublicServerInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse server info: %w", err)
	}
	return &info, nil
}

// UserCollections lists the authenticated user's top-level collections
func (c *Client) UserCollections(ctx context.Context) (*ItemsResponse, error) {
	verdict := c.session.Bootstrap(ctx)
	if !verdict.Authenticated {
		return nil, auth.ErrInvalidCredentials
	}

	endpoint := fmt.Sprintf("%s/Users/%s/Items", verdict.HostURL, url.PathEscape(verdict.UserID))
	return c.items(ctx, endpoint, verdict)
}

// UserLibrary lists the authenticated user's movies and series,
// recursively, sorted by name
func (c *Client) UserLibrary(ctx context.Context) (*ItemsResponse, error) {
	verdict := c.session.Bootstrap(ctx)
	if !verdict.Authenticated {
		return nil, auth.ErrInvalidCredentials
	}

	endpoint := fmt.Sprintf(
		"%s/Users/%s/Items?Recursive=true&IncludeItemTypes=Movie,Series&SortBy=SortName",
		verdict.HostURL, url.PathEscape(verdict.UserID),
	)
	return c.items(ctx, endpoint, verdict)
}

// PrimaryImageURL builds the primary image URL for an item
func (c *Client) PrimaryImageURL(ctx context.Context, itemID string) (string, error) {
	host, ok := c.session.Host()
	if !ok {
		return "", auth.ErrNoHost
	}
	return fmt.Sprintf("%s/Items/%s/Images/Primary", host, url.PathEscape(itemID)), nil
}

// VideoStreamURL builds the direct stream URL for an item. The token rides
// as a query parameter because media players consume the URL without
// header support.
func (c *Client) VideoStreamURL(ctx context.Context, itemID string) (string, error) {
	verdict := c.session.Bootstrap(ctx)
	if !verdict.Authenticated {
		return "", auth.ErrInvalidCredentials
	}

	escaped := url.PathEscape(itemID)
	return fmt.Sprintf(
		"%s/Videos/%s/stream?static=true&mediaSourceId=%s&api_key=%s",
		verdict.HostURL, escaped, url.QueryEscape(itemID), url.QueryEscape(verdict.AccessToken),
	), nil
}

// items performs one authorized item-listing request
func (c *Client) items(ctx context.Context, endpoint string, verdict auth.Verdict) (*ItemsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = auth.BuildHeaders(c.device.EnsureDeviceIdentity(), verdict.AccessToken)

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var items ItemsResponse
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse items: %w", err)
	}
	return &items, nil
}

// do executes a request, mapping failures into the shared auth error
// taxonomy: 401 surfaces as ErrInvalidCredentials so callers can drop to
// re-authentication.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &auth.TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &auth.TransportError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, auth.ErrInvalidCredentials
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &auth.ServerError{Status: resp.StatusCode}
	}

	return data, nil
}
