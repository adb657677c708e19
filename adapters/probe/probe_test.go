package probe

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProber() *NetworkProber {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	return NewNetworkProber(time.Second, logger).(*NetworkProber)
}

func TestServiceUp_ListeningPort(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	addr := listener.Addr().(*net.TCPAddr)
	assert.True(t, newTestProber().ServiceUp("127.0.0.1", addr.Port, time.Second))
}

func TestServiceUp_ClosedPort(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	assert.False(t, newTestProber().ServiceUp("127.0.0.1", port, 200*time.Millisecond))
}

func TestHostUp_NeverPanicsOnBadInput(t *testing.T) {
	// Whatever ping does with a hostname that cannot resolve, the probe
	// must come back with a plain boolean.
	up := newTestProber().HostUp(context.Background(), "host.invalid.wakegate.test")
	assert.False(t, up)
}
