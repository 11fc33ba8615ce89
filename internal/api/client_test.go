package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jellykids/jellykids-cli/internal/auth"
)

// newTestClient wires a Client over in-memory stores, optionally
// pre-authenticated against the given host
func newTestClient(t *testing.T, hostURL string, authenticated bool) *Client {
	t.Helper()

	secrets := auth.NewMemStore(nil)
	hosts := auth.NewMemHostStore(hostURL, nil)

	creds := auth.NewCredentialStore(secrets)
	if authenticated {
		require.NoError(t, creds.Save(&auth.Credentials{
			UserID:      "u1",
			UserName:    "Alice",
			AccessToken: "tok1",
		}))
	}

	session := auth.NewSession(hosts, creds)
	device := auth.NewDeviceIdentityProvider(secrets)
	return NewClient(session, device)
}

func TestPublicServerInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/System/Info/Public", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "public endpoint must not be authorized")

		_, _ = w.Write([]byte(`{"Id":"srv1","ServerName":"Demo","Version":"10.9.1","ProductName":"Jellyfin Server"}`))
	}))
	defer server.Close()

	// The candidate URL is explicit, no binding required
	client := newTestClient(t, "", false)

	info, err := client.PublicServerInfo(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "srv1", info.ID)
	assert.Equal(t, "Demo", info.ServerName)
	assert.Equal(t, "10.9.1", info.Version)
}

func TestPublicServerInfo_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, "", false)

	_, err := client.PublicServerInfo(context.Background(), server.URL)
	var te *auth.TransportError
	assert.ErrorAs(t, err, &te)
}

func TestUserCollections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Users/u1/Items", r.URL.Path)

		authz := r.Header.Get("Authorization")
		assert.True(t, strings.HasPrefix(authz, `MediaBrowser Client="JellyKids"`), "Authorization = %q", authz)
		assert.Contains(t, authz, `Token="tok1"`)

		_, _ = w.Write([]byte(`{
			"Items": [
				{"Id": "c1", "Name": "Movies", "CollectionType": "movies", "IsFolder": true},
				{"Id": "c2", "Name": "Shows", "CollectionType": "tvshows", "IsFolder": true}
			],
			"TotalRecordCount": 2
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, true)

	items, err := client.UserCollections(context.Background())
	require.NoError(t, err)
	require.Len(t, items.Items, 2)
	assert.Equal(t, "Movies", items.Items[0].Name)
	assert.Equal(t, "movies", items.Items[0].CollectionType)
	assert.Equal(t, 2, items.TotalRecordCount)
}

func TestUserLibrary_QueryShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Users/u1/Items", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("Recursive"))
		assert.Equal(t, "Movie,Series", q.Get("IncludeItemTypes"))
		assert.Equal(t, "SortName", q.Get("SortBy"))

		_, _ = w.Write([]byte(`{"Items":[{"Id":"m1","Name":"A Movie","Type":"Movie"}],"TotalRecordCount":1}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, true)

	items, err := client.UserLibrary(context.Background())
	require.NoError(t, err)
	require.Len(t, items.Items, 1)
	assert.Equal(t, "A Movie", items.Items[0].Name)
}

func TestUserCollections_RequiresSession(t *testing.T) {
	client := newTestClient(t, "https://demo.example", false)

	_, err := client.UserCollections(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestUserCollections_TokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, true)

	_, err := client.UserCollections(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestUserCollections_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, true)

	_, err := client.UserCollections(context.Background())
	var se *auth.ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Status)
}

func TestMediaURLs(t *testing.T) {
	client := newTestClient(t, "https://demo.example", true)

	img, err := client.PrimaryImageURL(context.Background(), "item1")
	require.NoError(t, err)
	assert.Equal(t, "https://demo.example/Items/item1/Images/Primary", img)

	stream, err := client.VideoStreamURL(context.Background(), "item1")
	require.NoError(t, err)
	assert.Equal(t, "https://demo.example/Videos/item1/stream?static=true&mediaSourceId=item1&api_key=tok1", stream)
}

func TestVideoStreamURL_RequiresSession(t *testing.T) {
	client := newTestClient(t, "https://demo.example", false)

	_, err := client.VideoStreamURL(context.Background(), "item1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestPrimaryImageURL_RequiresHost(t *testing.T) {
	client := newTestClient(t, "", false)

	_, err := client.PrimaryImageURL(context.Background(), "item1")
	assert.ErrorIs(t, err, auth.ErrNoHost)
}
