package telemetry

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/argus-labs/world-engine/keeper/pkg/telemetry/sentry"
)

const sentryFlushTimeout = 5 * time.Second

type Telemetry struct {
	Logger      zerolog.Logger
	Tracer      trace.Tracer
	serviceName string

	shutdown func(context.Context) error
}

func New(opts Options) (Telemetry, error) {
	config, err := loadConfig()
	if err != nil {
		return Telemetry{}, eris.Wrap(err, "failed to load otel config")
	}

	options := newDefaultOptions()
	config.applyToOptions(&options)
	options.apply(opts)
	if err := options.validate(); err != nil {
		return Telemetry{}, eris.Wrap(err, "invalid otel options")
	}

	ctx := context.Background()
	tracer, logger, shutdown, err := setupOpenTelemetry(ctx, options)
	if err != nil {
		return Telemetry{}, eris.Wrap(err, "failed to setup telemetry")
	}

	if err := sentry.New(options.SentryOptions); err != nil {
		return Telemetry{}, errors.Join(err, shutdown(ctx))
	}

	return Telemetry{
		Logger:      logger,
		Tracer:      tracer,
		serviceName: options.ServiceName,
		shutdown:    shutdown,
	}, nil
}

// Shutdown flushes pending error reports and spans and closes log files.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	sentry.Shutdown(ctx, sentryFlushTimeout)
	if t.shutdown != nil {
		return t.shutdown(ctx)
	}
	return nil
}

// GetLogger returns a component-specific logger.
func (t *Telemetry) GetLogger(component string) zerolog.Logger {
	return t.Logger.With().Str("component", t.serviceName+"."+component).Logger()
}

// CaptureException reports a handled error to Sentry, tagged with the span in ctx and the
// given key/value pairs.
func (t *Telemetry) CaptureException(ctx context.Context, err error, tags ...string) {
	sentry.CaptureException(ctx, err, tags...)
}

func init() { //nolint:gochecknoinits // Its fine
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.InterfaceMarshalFunc = json.Marshal

	// The global logger is only used before telemetry is configured.
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	log.Logger = zerolog.New(consoleWriter). //nolint:reassign // Its fine
							With().
							Timestamp().
							Logger()
}

// SetGlobalLogLevel sets the level cap shared by every zerolog logger, the global console
// logger included. Loggers built by New raise or lower it to the configured level.
func SetGlobalLogLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// GetGlobalLogger returns a component-specific logger using the global console logger.
func GetGlobalLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
