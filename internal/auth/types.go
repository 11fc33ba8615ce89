package auth

import (
	"time"
)

// DeviceIdentity is the stable per-installation id/name pair sent on every
// request for client attribution.
type DeviceIdentity struct {
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
}

// Credentials represents a stored authenticated session
type Credentials struct {
	// Server-assigned user id
	UserID string `json:"user_id"`
	// Display name of the user
	UserName string `json:"user_name"`
	// Access token issued by the server on login
	AccessToken string `json:"access_token"`
}

// User is the subset of the server's user object the client consumes
type User struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// LoginResponse represents the response from the authentication endpoints
type LoginResponse struct {
	User        User   `json:"User"`
	AccessToken string `json:"AccessToken"`
}

// QuickConnectState represents the server's view of one Quick Connect
// attempt. It is ephemeral and never persisted.
type QuickConnectState struct {
	Secret        string `json:"Secret"`
	Code          string `json:"Code"`
	Authenticated bool   `json:"Authenticated"`
	DeviceID      string `json:"DeviceId,omitempty"`
	DeviceName    string `json:"DeviceName,omitempty"`
	AppName       string `json:"AppName,omitempty"`
	AppVersion    string `json:"AppVersion,omitempty"`
	DateAdded     string `json:"DateAdded,omitempty"`
}

// Verdict is the result of a session bootstrap. It is computed fresh on
// every call and never cached beyond process lifetime.
type Verdict struct {
	Authenticated bool
	HostURL       string
	UserID        string
	UserName      string
	AccessToken   string
}

// Constants for client identification and protocol timing
const (
	// Client name reported in the authorization header
	ClientName = "JellyKids"
	// Protocol version reported in the authorization header
	ClientVersion = "1"
	// Device name used when the platform cannot be queried
	UnknownDeviceName = "Unknown"
	// Keyring service name
	KeyringService = "jellykids"
	// Interval between Quick Connect polls
	QuickConnectPollInterval = 5 * time.Second
	// Client-side budget for a Quick Connect attempt, measured from the
	// moment the code is surfaced for display
	QuickConnectTimeout = 60 * time.Second
)

// Secret storage keys
const (
	keyCredentials = "credentials"
	keyDeviceID    = "device-id"
)
