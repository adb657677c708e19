package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gamearena/wakegate/config"
	"github.com/gamearena/wakegate/core"
	"github.com/gamearena/wakegate/ports"
)

// GatewayService implements the redirect policy and wake orchestration.
// It holds no mutable state of its own: the credential is reloaded from the
// store on every operation and the machine registry is read-only.
type GatewayService struct {
	cfg    *config.Config
	store  ports.CredentialStore
	router ports.RouterClient
	prober ports.Prober
	log    zerolog.Logger
}

// NewGatewayService wires the gateway policy to its collaborators.
func NewGatewayService(
	cfg *config.Config,
	store ports.CredentialStore,
	router ports.RouterClient,
	prober ports.Prober,
	log zerolog.Logger,
) *GatewayService {
	return &GatewayService{
		cfg:    cfg,
		store:  store,
		router: router,
		prober: prober,
		log:    log.With().Str("component", "gateway").Logger(),
	}
}

// Decide evaluates the redirect policy for the configured target, strictly
// in order: service probe, host probe, then credential load, login and wake.
//
// A host that answers ping but is not serving yet still gets a redirect:
// it is assumed to be booting and the browser is expected to retry. This is
// a deliberate weak guarantee, not something to fix server-side.
func (s *GatewayService) Decide(ctx context.Context) core.Decision {
	target := s.cfg.Gateway.Target

	if s.prober.ServiceUp(target.ProbeHost(), target.Port, s.cfg.Gateway.ProbeTimeout) {
		return core.Decision{Kind: core.DecisionRedirect, URL: target.ServiceURL}
	}

	if s.prober.HostUp(ctx, target.ProbeHost()) {
		s.log.Info().Str("host", target.ProbeHost()).Msg("host up but service not serving yet, redirecting anyway")
		return core.Decision{Kind: core.DecisionRedirect, URL: target.ServiceURL}
	}

	cred, err := s.store.Load()
	if err != nil {
		return core.Decision{Kind: core.DecisionConfigError, Err: err}
	}

	machine, ok := s.cfg.MachineByIP(target.ProbeHost())
	if !ok {
		return core.Decision{
			Kind: core.DecisionConfigError,
			Err:  fmt.Errorf("%w: no machine with ip %s", core.ErrMachineNotRegistered, target.ProbeHost()),
		}
	}

	// A failed wake does not abort the request: the waiting page is shown
	// either way, annotated with the outcome.
	wakeErr := s.wake(ctx, cred, machine.MAC)
	if wakeErr != nil {
		s.log.Warn().Str("machine", machine.ID).Err(wakeErr).Msg("wake attempt failed")
	} else {
		s.log.Info().Str("machine", machine.ID).Str("mac", machine.MAC).Msg("wake dispatched")
	}

	return core.Decision{Kind: core.DecisionWait, Machine: machine, WakeErr: wakeErr}
}

// WakeMAC loads the credential, logs in and dispatches a wake for mac.
func (s *GatewayService) WakeMAC(ctx context.Context, mac string) error {
	cred, err := s.store.Load()
	if err != nil {
		return err
	}
	return s.wake(ctx, cred, mac)
}

func (s *GatewayService) wake(ctx context.Context, cred core.Credential, mac string) error {
	session, err := s.router.Login(ctx, cred)
	if err != nil {
		return err
	}
	return s.router.Wake(ctx, cred.FreeboxURL, session, mac)
}

// PingHost reports single-probe reachability of ip.
func (s *GatewayService) PingHost(ctx context.Context, ip string) bool {
	return s.prober.HostUp(ctx, ip)
}

// MachineStatuses returns every registered machine with its current
// reachability. Probes run sequentially; the registry is small.
func (s *GatewayService) MachineStatuses(ctx context.Context) map[string]core.MachineStatus {
	statuses := make(map[string]core.MachineStatus, len(s.cfg.Machines))
	for id, machine := range s.cfg.Machines {
		statuses[id] = core.MachineStatus{
			Machine: machine,
			Online:  s.prober.HostUp(ctx, machine.IP),
		}
	}
	return statuses
}

// Health reports whether a usable credential is configured.
func (s *GatewayService) Health() error {
	_, err := s.store.Load()
	return err
}

// CredentialPath exposes the credential file location for diagnostics.
func (s *GatewayService) CredentialPath() string {
	return s.store.Path()
}

// CredentialExists reports raw file presence for diagnostics.
func (s *GatewayService) CredentialExists() bool {
	return s.store.Exists()
}
