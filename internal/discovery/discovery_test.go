package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name string
		data string
		want ServerCandidate
		ok   bool
	}{
		{
			name: "valid reply",
			data: `{"Id":"srv1","Name":"Living Room","Address":"http://192.168.1.10:8096"}`,
			want: ServerCandidate{ID: "srv1", Name: "Living Room", Address: "http://192.168.1.10:8096"},
			ok:   true,
		},
		{
			name: "missing address",
			data: `{"Id":"srv1","Name":"Living Room"}`,
			ok:   false,
		},
		{
			name: "not JSON",
			data: `Who is JellyfinServer?`,
			ok:   false,
		},
		{
			name: "empty",
			data: ``,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseReply([]byte(tt.data))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestProbeShape(t *testing.T) {
	// The probe payload and port are fixed by the server protocol
	assert.Equal(t, "Who is JellyfinServer?", discoveryMessage)
	assert.Equal(t, 7359, discoveryPort)
}
