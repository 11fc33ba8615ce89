package auth

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// BuildHeaders builds the header set sent on every API call: the
// MediaBrowser authorization header carrying the client attribution, plus
// content negotiation. An empty token omits the Token field; device headers
// are always present. The function cannot fail.
//
// A zero-value identity substitutes a freshly generated id, which will not
// match any previously stored one. Accepted: the id only labels the device.
func BuildHeaders(identity DeviceIdentity, token string) http.Header {
	deviceID := identity.DeviceID
	if deviceID == "" {
		deviceID = uuid.NewString()
	}
	deviceName := identity.DeviceName
	if deviceName == "" {
		deviceName = UnknownDeviceName
	}

	authorization := fmt.Sprintf(
		`MediaBrowser Client=%q, Device=%q, DeviceId=%q, Version=%q`,
		ClientName, deviceName, deviceID, ClientVersion,
	)
	if token != "" {
		authorization += fmt.Sprintf(`, Token=%q`, token)
	}

	headers := http.Header{}
	headers.Set("Authorization", authorization)
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json")
	return headers
}
