// Package discovery locates media servers on the local network via UDP broadcast
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

const (
	// discoveryPort is the UDP port servers answer discovery probes on
	discoveryPort = 7359

	// discoveryMessage is the probe payload servers recognize
	discoveryMessage = "Who is JellyfinServer?"

	// maxServers caps how many distinct servers one scan collects
	maxServers = 25

	// defaultWindow is how long a scan listens for replies
	defaultWindow = 5 * time.Second
)

// ServerCandidate is one server that answered a discovery probe
type ServerCandidate struct {
	ID      string `json:"Id"`
	Name    string `json:"Name"`
	Address string `json:"Address"`
}

// Discoverer finds servers on the local network
type Discoverer interface {
	Discover(ctx context.Context) ([]ServerCandidate, error)
}

// UDPDiscoverer broadcasts the discovery probe and collects replies for a
// fixed window
type UDPDiscoverer struct {
	window time.Duration
}

// NewUDPDiscoverer creates a discoverer with the default listen window
func NewUDPDiscoverer() *UDPDiscoverer {
	return &UDPDiscoverer{window: defaultWindow}
}

// Discover broadcasts the probe and returns every distinct server that
// replied before the window closed. An empty result is not an error.
func (d *UDPDiscoverer) Discover(ctx context.Context) ([]ServerCandidate, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return nil, fmt.Errorf("failed to open discovery socket: %w", err)
	}
	defer conn.Close()

	broadcast := &net.UDPAddr{IP: net.IPv4bcast, Port: discoveryPort}
	if _, err := conn.WriteToUDP([]byte(discoveryMessage), broadcast); err != nil {
		return nil, fmt.Errorf("failed to send discovery probe: %w", err)
	}

	deadline := time.Now().Add(d.window)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %w", err)
	}

	var (
		servers []ServerCandidate
		seen    = make(map[string]bool)
		buf     = make([]byte, 4096)
	)
	for len(servers) < maxServers {
		if err := ctx.Err(); err != nil {
			return servers, err
		}

		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			// The window closing is the normal exit
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				break
			}
			return servers, fmt.Errorf("failed to read discovery reply: %w", err)
		}

		candidate, ok := parseReply(buf[:n])
		if !ok || seen[candidate.Address] {
			continue
		}
		seen[candidate.Address] = true
		servers = append(servers, candidate)
	}

	return servers, nil
}

// parseReply decodes one discovery reply. Replies missing an address are
// unusable and dropped.
func parseReply(data []byte) (ServerCandidate, bool) {
	var candidate ServerCandidate
	if err := json.Unmarshal(data, &candidate); err != nil {
		return ServerCandidate{}, false
	}
	if candidate.Address == "" {
		return ServerCandidate{}, false
	}
	return candidate, true
}
