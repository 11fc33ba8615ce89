package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, hostURL string, opts ...Option) (*Client, *CredentialStore) {
	t.Helper()
	creds := NewCredentialStore(NewMemStore(nil))
	session := NewSession(NewMemHostStore(hostURL, nil), creds)
	device := NewDeviceIdentityProvider(NewMemStore(nil))
	return NewClient(session, device, opts...), creds
}

func TestClient_Login(t *testing.T) {
	t.Run("successful login writes through the store", func(t *testing.T) {
		var gotBody map[string]string
		var gotAuth string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/Users/authenticatebyname" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			gotAuth = r.Header.Get("Authorization")
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("decode body: %v", err)
			}
			_ = json.NewEncoder(w).Encode(LoginResponse{
				User:        User{ID: "u1", Name: "Alice"},
				AccessToken: "tok1",
			})
		}))
		defer server.Close()

		client, store := newTestClient(t, server.URL)

		creds, err := client.Login(context.Background(), "alice", "secret1")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		if creds.UserID != "u1" || creds.UserName != "Alice" || creds.AccessToken != "tok1" {
			t.Errorf("Login() = %+v, want server triple", creds)
		}
		if gotBody["Username"] != "alice" || gotBody["Pw"] != "secret1" {
			t.Errorf("request body = %v", gotBody)
		}
		if !strings.HasPrefix(gotAuth, `MediaBrowser Client="JellyKids"`) {
			t.Errorf("Authorization = %q", gotAuth)
		}
		if strings.Contains(gotAuth, "Token=") {
			t.Errorf("login must not carry a token, got %q", gotAuth)
		}

		stored, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if *stored != *creds {
			t.Errorf("stored = %+v, want %+v", stored, creds)
		}
	})

	t.Run("401 maps to invalid credentials and skips the store", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client, store := newTestClient(t, server.URL)

		_, err := client.Login(context.Background(), "alice", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}

		if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
			t.Error("credentials written despite rejected login")
		}
	})

	t.Run("other non-2xx maps to ServerError with status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client, _ := newTestClient(t, server.URL)

		_, err := client.Login(context.Background(), "alice", "secret1")
		var se *ServerError
		if !errors.As(err, &se) {
			t.Fatalf("Login() error = %v, want *ServerError", err)
		}
		if se.Status != http.StatusBadGateway {
			t.Errorf("Status = %d, want 502", se.Status)
		}
	})

	t.Run("network failure maps to TransportError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // connection refused from here on

		client, _ := newTestClient(t, server.URL)

		_, err := client.Login(context.Background(), "alice", "secret1")
		var te *TransportError
		if !errors.As(err, &te) {
			t.Errorf("Login() error = %v, want *TransportError", err)
		}
		if errors.Is(err, ErrInvalidCredentials) {
			t.Error("transport failure must stay distinguishable from credential failure")
		}
	})

	t.Run("no bound host", func(t *testing.T) {
		client, _ := newTestClient(t, "")

		_, err := client.Login(context.Background(), "alice", "secret1")
		if !errors.Is(err, ErrNoHost) {
			t.Errorf("Login() error = %v, want ErrNoHost", err)
		}
	})
}

func TestClient_LoginWithMockTransport(t *testing.T) {
	t.Run("records requests and serves canned responses", func(t *testing.T) {
		mock := &MockHTTPClient{
			DoFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(strings.NewReader(`{"User":{"Id":"u1","Name":"Alice"},"AccessToken":"tok1"}`)),
				}, nil
			},
		}
		client, _ := newTestClient(t, "https://demo.example", WithHTTPClient(mock))

		creds, err := client.Login(context.Background(), "alice", "secret1")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if creds.AccessToken != "tok1" {
			t.Errorf("AccessToken = %q, want tok1", creds.AccessToken)
		}

		if len(mock.DoCalls) != 1 {
			t.Fatalf("Do called %d times, want 1", len(mock.DoCalls))
		}
		if got := mock.DoCalls[0].Req.URL.Path; got != "/Users/authenticatebyname" {
			t.Errorf("request path = %q", got)
		}

		mock.Reset()
		if len(mock.DoCalls) != 0 {
			t.Errorf("DoCalls not cleared by Reset")
		}
	})

	t.Run("unconfigured mock surfaces as a transport error", func(t *testing.T) {
		client, _ := newTestClient(t, "https://demo.example", WithHTTPClient(&MockHTTPClient{}))

		_, err := client.Login(context.Background(), "alice", "secret1")
		var te *TransportError
		if !errors.As(err, &te) {
			t.Errorf("Login() error = %v, want *TransportError", err)
		}
	})
}

func TestLoginThenBootstrap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(LoginResponse{
			User:        User{ID: "u1", Name: "Alice"},
			AccessToken: "tok1",
		})
	}))
	defer server.Close()

	creds := NewCredentialStore(NewMemStore(nil))
	session := NewSession(NewMemHostStore(server.URL, nil), creds)
	device := NewDeviceIdentityProvider(NewMemStore(nil))
	client := NewClient(session, device)

	if _, err := client.Login(context.Background(), "alice", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	verdict := session.Bootstrap(context.Background())
	if !verdict.Authenticated {
		t.Error("Authenticated = false after login")
	}
	if verdict.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", verdict.UserID)
	}
}
