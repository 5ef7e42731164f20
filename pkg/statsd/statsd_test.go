package statsd_test

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-labs/world-engine/keeper/pkg/statsd"
)

func TestInitRequiresAddress(t *testing.T) {
	require.Error(t, statsd.Init("", nil))
}

func TestMetricsReachAgent(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, statsd.Init(conn.LocalAddr().String(), []string{"env:test"}))
	t.Cleanup(func() { _ = statsd.Close() })

	statsd.CountOutcome("auction_started", "0x12345")
	statsd.EmitTickStat(time.Now(), "tick")
	require.NoError(t, statsd.Client().Flush())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	buf := make([]byte, 4096)
	var received strings.Builder
	for !strings.Contains(received.String(), "vault_keeper.tick") ||
		!strings.Contains(received.String(), "vault_keeper.outcome") {
		n, _, err := conn.ReadFrom(buf)
		require.NoError(t, err)
		received.Write(buf[:n])
	}

	assert.Contains(t, received.String(), "action:auction_started")
	assert.Contains(t, received.String(), "env:test")
}
