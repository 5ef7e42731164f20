package sentry

import (
	"context"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel/trace"
)

const flushTimeout = 5 * time.Second

type Options struct {
	Dsn         string
	Environment string
	// Release names the running build, such as vault-keeper@v1.4.0.
	Release string
}

// New sets up Sentry. Error reporting stays off when the DSN is empty.
func New(opt Options) error {
	if opt.Dsn == "" {
		return nil
	}

	err := sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              opt.Dsn,
		Environment:      opt.Environment,
		Release:          opt.Release,
		AttachStacktrace: true,
	})
	if err != nil {
		return eris.Wrap(err, "failed to initialize sentry")
	}

	return nil
}

// CaptureException reports a handled error to Sentry. Tags of the form key=value can be
// attached, for example the vault address a check failed for.
func CaptureException(ctx context.Context, err error, tags ...string) {
	if !isInitialized() || err == nil {
		return
	}
	sentrygo.WithScope(func(scope *sentrygo.Scope) {
		if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
			scope.SetTag("trace_id", spanCtx.TraceID().String())
			scope.SetTag("span_id", spanCtx.SpanID().String())
		}
		for i := 0; i+1 < len(tags); i += 2 {
			scope.SetTag(tags[i], tags[i+1])
		}
		sentrygo.CaptureException(err)
	})
}

// RecoverAndFlush must be deferred directly. It reports a panic, flushes, and rethrows the
// panic when repanic is set.
func RecoverAndFlush(repanic bool) {
	if !isInitialized() {
		return
	}
	r := recover()
	if r != nil {
		sentrygo.CurrentHub().Recover(r)
	}
	sentrygo.Flush(flushTimeout)
	if r != nil && repanic {
		panic(r)
	}
}

// Shutdown flushes buffered events with the provided timeout or context deadline.
func Shutdown(ctx context.Context, timeout time.Duration) {
	if !isInitialized() {
		return
	}
	t := timeout
	if dl, ok := ctx.Deadline(); ok {
		if until := time.Until(dl); until > 0 && until < t {
			t = until
		}
	}
	if t <= 0 {
		t = 1 * time.Second
	}
	sentrygo.Flush(t)
}

func isInitialized() bool {
	return sentrygo.CurrentHub().Client() != nil
}
