package ports

import (
	"context"
	"time"
)

// Prober answers "is this thing up" questions with single-attempt,
// best-effort checks. Implementations never return errors: any failure
// to probe counts as down.
type Prober interface {
	// HostUp sends one ICMP echo to ip and reports whether it answered.
	HostUp(ctx context.Context, ip string) bool

	// ServiceUp attempts one TCP connect to host:port within timeout.
	ServiceUp(host string, port int, timeout time.Duration) bool
}
