package telemetry

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	otelTrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/argus-labs/world-engine/keeper/pkg/assert"
)

const (
	combinedLogFile = "combined.log"
	errorLogFile    = "error.log"
)

// setupOpenTelemetry sets up the logger and, when enabled, trace export.
// It returns a tracer, logger, and shutdown function.
func setupOpenTelemetry(
	ctx context.Context,
	opts Options,
) (otelTrace.Tracer, zerolog.Logger, func(context.Context) error, error) {
	var shutdownFuncs []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var shutdownErrs error
		for _, fn := range shutdownFuncs {
			shutdownErrs = errors.Join(shutdownErrs, fn(ctx))
		}
		shutdownFuncs = nil
		return shutdownErrs
	}

	logger, closeLogs, err := newLogger(opts)
	if err != nil {
		return nil, zerolog.Nop(), shutdown, err
	}
	shutdownFuncs = append(shutdownFuncs, closeLogs)

	if !opts.Enabled {
		return noop.NewTracerProvider().Tracer(opts.ServiceName), logger, shutdown, nil
	}

	res, err := newResource(opts)
	if err != nil {
		return nil, logger, shutdown, errors.Join(err, shutdown(ctx))
	}

	otel.SetTextMapPropagator(newPropagator())

	tracerProvider, err := newTracerProvider(ctx, res, opts)
	if err != nil {
		return nil, logger, shutdown, errors.Join(err, shutdown(ctx))
	}
	// Flush spans before the log files are closed.
	shutdownFuncs = append([]func(context.Context) error{tracerProvider.Shutdown}, shutdownFuncs...)
	otel.SetTracerProvider(tracerProvider)

	return tracerProvider.Tracer(opts.ServiceName), logger, shutdown, nil
}

func newResource(opts Options) (*resource.Resource, error) {
	return resource.Merge(resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(opts.ServiceVersion),
		))
}

func newPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

func newTracerProvider(ctx context.Context, res *resource.Resource, opts Options) (*trace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(opts.Endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, eris.Wrap(err, "failed to create OTLP trace exporter")
	}

	var sampler trace.Sampler
	switch opts.TraceSampleRate {
	case 1.0:
		sampler = trace.AlwaysSample()
	case 0.0:
		sampler = trace.NeverSample()
	default:
		sampler = trace.ParentBased(trace.TraceIDRatioBased(opts.TraceSampleRate))
	}

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(sampler),
	), nil
}

// newLogger creates the service logger. Console output follows the configured format; when a
// log directory is set, JSON lines also go to combined.log and error level and above to
// error.log.
func newLogger(opts Options) (zerolog.Logger, func(context.Context) error, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	SetGlobalLogLevel(level)

	var console io.Writer
	switch opts.LogFormat {
	case LogFormatPretty:
		console = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	case LogFormatJSON:
		console = os.Stdout
	case LogFormatUndefined:
		assert.That(false, "log format must be validated before building the logger")
		console = os.Stdout
	}

	noClose := func(context.Context) error { return nil }
	writer := console
	closeFn := noClose

	if opts.LogDir != "" {
		files, err := openLogFiles(opts.LogDir)
		if err != nil {
			return zerolog.Nop(), noClose, err
		}
		writer = zerolog.MultiLevelWriter(
			console,
			files[0],
			levelFilter{w: files[1], min: zerolog.ErrorLevel},
		)
		closeFn = func(context.Context) error {
			return errors.Join(files[0].Close(), files[1].Close())
		}
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger(), closeFn, nil
}

func openLogFiles(dir string) ([2]*os.File, error) {
	var files [2]*os.File
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd // standard dir perms
		return files, eris.Wrapf(err, "failed to create log dir %s", dir)
	}
	for i, name := range []string{combinedLogFile, errorLogFile} {
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:mnd // log file perms
		if err != nil {
			for _, opened := range files[:i] {
				_ = opened.Close()
			}
			return files, eris.Wrapf(err, "failed to open log file %s", name)
		}
		files[i] = f
	}
	return files, nil
}

// levelFilter drops events below min.
type levelFilter struct {
	w   io.Writer
	min zerolog.Level
}

func (f levelFilter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

func (f levelFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < f.min || level == zerolog.NoLevel {
		return len(p), nil
	}
	return f.w.Write(p)
}
