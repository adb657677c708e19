package ports

import (
	"context"

	"github.com/gamearena/wakegate/core"
)

// RouterClient talks to the router's HTTP API.
type RouterClient interface {
	// Login performs the challenge/response handshake and returns a
	// short-lived session token. The token is never persisted.
	Login(ctx context.Context, cred core.Credential) (string, error)

	// Wake asks the router to send a wake-on-LAN frame to mac, authorized
	// by a session token previously obtained through Login.
	Wake(ctx context.Context, baseURL, sessionToken, mac string) error

	// RequestAuthorization registers the application with the router and
	// returns the token plus the track id used to poll for approval.
	RequestAuthorization(ctx context.Context, baseURL string, app core.AppMetadata) (core.AuthorizationRequest, error)

	// AuthorizationStatus polls the approval state for a pending registration.
	AuthorizationStatus(ctx context.Context, baseURL string, trackID int) (core.AuthStatus, error)
}
