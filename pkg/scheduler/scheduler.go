// Package scheduler drives vault monitor ticks from a cron schedule, or runs a single tick.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/argus-labs/world-engine/keeper/pkg/keeper"
)

// ErrTickFailures is returned by RunOnce when at least one vault check failed.
var ErrTickFailures = eris.New("one or more vault checks failed")

// Ticker runs one tick across all vaults. keeper.VaultMonitor implements it.
type Ticker interface {
	Tick(ctx context.Context) keeper.TickResult
}

var _ Ticker = (*keeper.VaultMonitor)(nil)

// ValidateSchedule checks a standard five field cron expression or a descriptor such as
// @every 1m.
func ValidateSchedule(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return eris.Wrapf(err, "invalid cron schedule %q", expr)
	}
	return nil
}

type Scheduler struct {
	ticker   Ticker
	schedule string
	log      zerolog.Logger
}

func New(ticker Ticker, schedule string, log zerolog.Logger) (*Scheduler, error) {
	if ticker == nil {
		return nil, eris.New("ticker is required")
	}
	if err := ValidateSchedule(schedule); err != nil {
		return nil, err
	}
	return &Scheduler{ticker: ticker, schedule: schedule, log: log}, nil
}

// Run fires a tick on every schedule activation until ctx is cancelled, then waits for
// running ticks to finish. Ticks run on a context detached from ctx so a shutdown never
// interrupts a submitted transaction. Overlapping ticks are allowed.
func (s *Scheduler) Run(ctx context.Context) error {
	tickCtx := context.WithoutCancel(ctx)
	logger := cronLogger{log: s.log}

	c := cron.New(
		cron.WithParser(cron.NewParser(
			cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor,
		)),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger)),
	)
	if _, err := c.AddFunc(s.schedule, func() {
		s.log.Info().Msg("Running scheduled state transition checks")
		s.ticker.Tick(tickCtx)
	}); err != nil {
		return eris.Wrap(err, "failed to schedule ticks")
	}

	c.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("Scheduler started")

	<-ctx.Done()
	s.log.Info().Msg("Shutting down gracefully, waiting for running checks")
	<-c.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
	return nil
}

// RunOnce runs exactly one tick. It returns ErrTickFailures when any vault failed so the
// process can exit non-zero.
func RunOnce(ctx context.Context, ticker Ticker) (keeper.TickResult, error) {
	res := ticker.Tick(context.WithoutCancel(ctx))
	if res.Failures > 0 {
		return res, eris.Wrapf(ErrTickFailures, "%d of %d vaults failed", res.Failures, res.Failures+res.Successes)
	}
	return res, nil
}

// cronLogger routes cron's own logging into zerolog.
type cronLogger struct {
	log zerolog.Logger
}

var _ cron.Logger = cronLogger{}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(fields(keysAndValues)).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(fields(keysAndValues)).Msg(msg)
}

func fields(keysAndValues []any) map[string]any {
	out := make(map[string]any, len(keysAndValues)/2) //nolint:mnd // pairs
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return out
}
