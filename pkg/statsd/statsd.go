// Package statsd wraps the few statsd calls the keeper makes. It hides the datadog dependency
// so migrating to another statsd client only touches this file.
package statsd

import (
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

const namespace = "vault_keeper."

var client ddstatsd.ClientInterface = &ddstatsd.NoOpClient{} //nolint:gochecknoglobals // process wide client

func Client() ddstatsd.ClientInterface {
	return client
}

// EmitTickStat records how long a stage took, e.g. a whole tick or one vault check.
func EmitTickStat(start time.Time, stage string, tags ...string) {
	duration := time.Since(start)
	err := Client().Timing("tick", duration, append([]string{"stage:" + stage}, tags...), 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit tick stat: %v", err)
	}
}

// CountOutcome increments the counter of check outcomes for one vault.
func CountOutcome(action string, vault string) {
	err := Client().Incr("outcome", []string{"action:" + action, "vault:" + vault}, 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit outcome stat: %v", err)
	}
}

// GaugeTick reports the success and failure counts of the latest tick.
func GaugeTick(successes, failures int) {
	if err := Client().Gauge("tick.successes", float64(successes), nil, 1); err != nil {
		log.Logger.Warn().Msgf("failed to emit tick gauge: %v", err)
	}
	if err := Client().Gauge("tick.failures", float64(failures), nil, 1); err != nil {
		log.Logger.Warn().Msgf("failed to emit tick gauge: %v", err)
	}
}

func Init(address string, tags []string) error {
	if address == "" {
		return eris.New("address must not be empty")
	}
	opts := []ddstatsd.Option{
		// The statsd namespace is the prefix of all metrics
		ddstatsd.WithNamespace(namespace),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}

	newClient, err := ddstatsd.New(address, opts...)
	if err != nil {
		return eris.Wrap(err, "failed to create statsd client")
	}
	// Success! replace the global client
	client = newClient
	return nil
}

// Close flushes and closes the client. It is a no-op before Init.
func Close() error {
	return client.Close()
}
