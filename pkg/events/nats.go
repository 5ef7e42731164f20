package events

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const subjectPrefix = "keeper.outcome."

var _ Sink = (*NATSSink)(nil)

// NATSSink publishes outcomes as JSON to keeper.outcome.<vault>.
type NATSSink struct {
	conn *nats.Conn
	log  zerolog.Logger
}

// NewNATSSink connects to the NATS server at url.
func NewNATSSink(url string, log zerolog.Logger) (*NATSSink, error) {
	if url == "" {
		return nil, eris.New("NATS URL is required")
	}

	s := &NATSSink{log: log}
	conn, err := nats.Connect(url,
		nats.Name("vault-keeper"),
		nats.MaxReconnects(10),             //nolint:mnd // reconnect limit
		nats.ReconnectWait(5*time.Second), //nolint:mnd // reconnect backoff
		nats.DisconnectErrHandler(s.handleDisconnect),
		nats.ReconnectHandler(s.handleReconnect),
	)
	if err != nil {
		return nil, eris.Wrap(err, "failed to connect to NATS server")
	}
	s.conn = conn

	s.log.Info().Str("url", conn.ConnectedUrl()).Msg("Connected to NATS server")
	return s, nil
}

// Subject returns the subject outcomes for vault are published on.
func Subject(vault string) string {
	return subjectPrefix + strings.ToLower(vault)
}

func (s *NATSSink) Publish(_ context.Context, outcome Outcome) error {
	bz, err := json.Marshal(outcome)
	if err != nil {
		return eris.Wrap(err, "failed to marshal outcome")
	}
	if err := s.conn.Publish(Subject(outcome.Vault), bz); err != nil {
		return eris.Wrapf(err, "failed to publish outcome for %s", outcome.Vault)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (s *NATSSink) Close() error {
	if s.conn == nil {
		return nil
	}
	if err := s.conn.Drain(); err != nil {
		s.conn.Close()
		return eris.Wrap(err, "failed to drain NATS connection")
	}
	return nil
}

func (s *NATSSink) handleDisconnect(nc *nats.Conn, err error) {
	if err != nil {
		s.log.Warn().Err(err).Str("nats_url", nc.ConnectedUrl()).Msg("Disconnected from NATS with error")
		return
	}
	s.log.Info().Msg("Disconnected from NATS")
}

func (s *NATSSink) handleReconnect(nc *nats.Conn) {
	s.log.Info().Str("nats_url", nc.ConnectedUrl()).Msg("Reconnected to NATS")
}
