package events

import (
	"os"
	"testing"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats-server/v2/test"
)

var testNATS *server.Server //nolint:gochecknoglobals // shared test server

func TestMain(m *testing.M) {
	// Uses modified values of NATS's own default test server config.
	opts := &server.Options{
		Host:                  "127.0.0.1",
		Port:                  -1, // Random available port
		NoLog:                 true,
		NoSigs:                true,
		MaxControlLine:        4096,
		DisableShortFirstPing: true,
	}

	testNATS = test.RunServer(opts)
	code := m.Run()
	testNATS.Shutdown()
	os.Exit(code)
}
