package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// QuickConnectAttempt is one out-of-band authentication attempt:
// Initiated -> Polling -> {Authenticated, Cancelled, Expired, Failed}.
// At most one attempt is live per Client.
type QuickConnectAttempt struct {
	client *Client
	host   string
	state  QuickConnectState

	cancelOnce sync.Once
	cancelCh   chan struct{}
	finishOnce sync.Once
}

// InitiateQuickConnect starts a new Quick Connect attempt against the
// bound host. The returned attempt carries the code to display; the caller
// then calls Wait to drive polling. A second initiate while an attempt is
// live fails with ErrAttemptInProgress.
func (c *Client) InitiateQuickConnect(ctx context.Context) (*QuickConnectAttempt, error) {
	host, ok := c.session.Host()
	if !ok {
		return nil, ErrNoHost
	}

	if err := c.acquireAttempt(); err != nil {
		return nil, err
	}

	data, err := c.doJSON(ctx, http.MethodPost, host+"/QuickConnect/Initiate", nil)
	if err != nil {
		c.releaseAttempt()
		if se, ok := err.(*ServerError); ok && se.Status == http.StatusUnauthorized {
			return nil, ErrQuickConnectDisabled
		}
		return nil, err
	}

	var state QuickConnectState
	if err := json.Unmarshal(data, &state); err != nil {
		c.releaseAttempt()
		return nil, err
	}

	return &QuickConnectAttempt{
		client:   c,
		host:     host,
		state:    state,
		cancelCh: make(chan struct{}),
	}, nil
}

// acquireAttempt claims the client's single credential-writing slot, shared
// by password login and Quick Connect
func (c *Client) acquireAttempt() error {
	c.attemptMu.Lock()
	defer c.attemptMu.Unlock()

	if c.attempt {
		return ErrAttemptInProgress
	}
	c.attempt = true
	return nil
}

func (c *Client) releaseAttempt() {
	c.attemptMu.Lock()
	c.attempt = false
	c.attemptMu.Unlock()
}

// Code returns the human-readable code the user enters on another trusted
// device
func (a *QuickConnectAttempt) Code() string {
	return a.state.Code
}

// Cancel aborts the attempt. Idempotent; safe from any goroutine. Polling
// stops before the next poll would fire. A request already in flight is
// not aborted at the transport level, only its result is discarded, and no
// credentials are written.
func (a *QuickConnectAttempt) Cancel() {
	a.cancelOnce.Do(func() {
		close(a.cancelCh)
	})
	a.finish()
}

func (a *QuickConnectAttempt) finish() {
	a.finishOnce.Do(a.client.releaseAttempt)
}

// Wait polls the server until the code is authorized, then finalizes the
// exchange and writes the credentials through the store. The client-side
// budget runs from here: on expiry the attempt resolves to
// ErrQuickConnectExpired without relying on the server's own secret
// expiry. Cancellation resolves to ErrCancelled. A 401 on any poll is a
// hard ErrInvalidCredentials; other non-2xx poll responses also end the
// attempt immediately (transient server errors are not retried).
func (a *QuickConnectAttempt) Wait(ctx context.Context) (*Credentials, error) {
	defer a.finish()

	ctx, cancel := context.WithTimeout(ctx, a.client.qcTimeout)
	defer cancel()

	ticker := time.NewTicker(a.client.pollInterval)
	defer ticker.Stop()

	for {
		// Cancellation wins over an already-due tick
		select {
		case <-a.cancelCh:
			return nil, ErrCancelled
		default:
		}

		state, err := a.poll(ctx)
		if err != nil {
			select {
			case <-a.cancelCh:
				// The in-flight poll lost to a cancel; its outcome is discarded
				return nil, ErrCancelled
			default:
			}
			if ctx.Err() == context.DeadlineExceeded {
				return nil, ErrQuickConnectExpired
			}
			return nil, err
		}

		if state.Authenticated {
			// A cancel that raced the in-flight poll wins; its result is
			// discarded even when the code was already authorized
			select {
			case <-a.cancelCh:
				return nil, ErrCancelled
			default:
			}
			return a.client.finalizeQuickConnect(ctx, a.host, a.state.Secret)
		}

		select {
		case <-a.cancelCh:
			return nil, ErrCancelled
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return nil, ErrQuickConnectExpired
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// poll issues one state fetch for the attempt's secret
func (a *QuickConnectAttempt) poll(ctx context.Context) (*QuickConnectState, error) {
	data, err := a.client.doJSON(ctx, http.MethodGet, quickConnectURL(a.host, a.state.Secret), nil)
	if err != nil {
		if se, ok := err.(*ServerError); ok && se.Status == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	var state QuickConnectState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}
