package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gamearena/wakegate/core"
	"github.com/gamearena/wakegate/ports"
)

// AuthorizeFlow is the one-time interactive registration flow: request an
// application token, wait for a human to approve it on the router's front
// panel, then persist the credential. It blocks its caller for up to the
// full poll budget and must never run on the request-serving path.
type AuthorizeFlow struct {
	router  ports.RouterClient
	store   ports.CredentialStore
	app     core.AppMetadata
	baseURL string

	interval time.Duration
	attempts int

	// sleep is injected so tests can drive the poll loop without real delays.
	sleep func(time.Duration)
	// progress, when set, is called after each pending poll.
	progress func(attempt, attempts int)

	log zerolog.Logger
}

// NewAuthorizeFlow builds a flow polling once per interval, at most attempts times.
func NewAuthorizeFlow(
	router ports.RouterClient,
	store ports.CredentialStore,
	app core.AppMetadata,
	baseURL string,
	interval time.Duration,
	attempts int,
	log zerolog.Logger,
) *AuthorizeFlow {
	return &AuthorizeFlow{
		router:   router,
		store:    store,
		app:      app,
		baseURL:  baseURL,
		interval: interval,
		attempts: attempts,
		sleep:    time.Sleep,
		log:      log.With().Str("component", "authorize").Logger(),
	}
}

// OnProgress registers a callback invoked after each poll that is still pending.
func (f *AuthorizeFlow) OnProgress(fn func(attempt, attempts int)) {
	f.progress = fn
}

// Run executes the flow to a terminal state. The credential is persisted
// exactly once, and only when the router reports the grant.
func (f *AuthorizeFlow) Run(ctx context.Context) (core.Credential, error) {
	req, err := f.router.RequestAuthorization(ctx, f.baseURL, f.app)
	if err != nil {
		return core.Credential{}, err
	}

	f.log.Info().Int("track_id", req.TrackID).Msg("authorization requested, waiting for approval on the router")

	for attempt := 1; attempt <= f.attempts; attempt++ {
		f.sleep(f.interval)

		status, err := f.router.AuthorizationStatus(ctx, f.baseURL, req.TrackID)
		if err != nil {
			return core.Credential{}, fmt.Errorf("%w: %v", core.ErrPolling, err)
		}

		switch status {
		case core.AuthGranted:
			cred := core.Credential{
				AppID:      f.app.ID,
				AppToken:   req.AppToken,
				FreeboxURL: f.baseURL,
			}
			if err := f.store.Save(cred); err != nil {
				return core.Credential{}, fmt.Errorf("persisting credential: %w", err)
			}
			f.log.Info().Msg("authorization granted")
			return cred, nil

		case core.AuthDenied:
			return core.Credential{}, core.ErrAuthorizationDenied

		case core.AuthTimeout:
			return core.Credential{}, core.ErrAuthorizationTimedOut

		case core.AuthPending:
			if f.progress != nil {
				f.progress(attempt, f.attempts)
			}
		}
	}

	return core.Credential{}, core.ErrAuthorizationTimedOut
}
