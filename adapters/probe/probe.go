package probe

import (
	"context"
	"net"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/gamearena/wakegate/ports"
)

// NetworkProber implements ports.Prober with the platform ping binary for
// host checks and a plain TCP connect for service checks. Both are single
// attempts: callers that want to wait for a boot loop externally.
type NetworkProber struct {
	pingTimeout time.Duration
	log         zerolog.Logger
}

// NewNetworkProber creates a prober whose ICMP checks are bounded by pingTimeout.
func NewNetworkProber(pingTimeout time.Duration, log zerolog.Logger) ports.Prober {
	return &NetworkProber{
		pingTimeout: pingTimeout,
		log:         log.With().Str("component", "probe").Logger(),
	}
}

// HostUp sends a single ICMP echo to ip. Any failure, including a missing
// ping binary, counts as down.
func (p *NetworkProber) HostUp(ctx context.Context, ip string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.pingTimeout)
	defer cancel()

	countFlag := "-c"
	if runtime.GOOS == "windows" {
		countFlag = "-n"
	}

	// Timeout flags differ across platforms; the context deadline bounds
	// the probe instead.
	err := exec.CommandContext(ctx, "ping", countFlag, "1", ip).Run()
	if err != nil {
		p.log.Debug().Str("ip", ip).Err(err).Msg("host probe failed")
		return false
	}
	return true
}

// ServiceUp attempts one TCP connect to host:port. A successful connect is
// "up" regardless of what the service says afterwards.
func (p *NetworkProber) ServiceUp(host string, port int, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), timeout)
	if err != nil {
		p.log.Debug().Str("host", host).Int("port", port).Err(err).Msg("service probe failed")
		return false
	}
	conn.Close()
	return true
}
