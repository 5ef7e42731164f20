package keeper

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/argus-labs/world-engine/keeper/pkg/events"
	"github.com/argus-labs/world-engine/keeper/pkg/round"
	"github.com/argus-labs/world-engine/keeper/pkg/statsd"
)

// Checker runs one check of one vault. RoundStateMachine is the production implementation.
type Checker interface {
	VaultAddress() common.Address
	CheckAndAdvance(ctx context.Context) (CheckResult, error)
}

var _ Checker = (*RoundStateMachine)(nil)

// ErrorReporter receives failed checks. telemetry.Telemetry reports them to Sentry.
type ErrorReporter interface {
	CaptureException(ctx context.Context, err error, tags ...string)
}

type nopReporter struct{}

func (nopReporter) CaptureException(context.Context, error, ...string) {}

// TickResult is the tally of one tick across all vaults.
type TickResult struct {
	ID        uuid.UUID
	Successes int
	Failures  int
	// Outcomes holds one entry per vault, in the order the vaults were configured.
	Outcomes []events.Outcome
	Elapsed  time.Duration
}

// VaultMonitor checks every configured vault once per tick. Vault checks run concurrently and
// a failing or panicking vault never affects the others.
type VaultMonitor struct {
	checkers []Checker
	sink     events.Sink
	reporter ErrorReporter
	log      zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

func NewVaultMonitor(checkers []Checker, opts MonitorOptions) (*VaultMonitor, error) {
	if len(checkers) == 0 {
		return nil, eris.New("at least one vault is required")
	}
	seen := make(map[common.Address]struct{}, len(checkers))
	for _, c := range checkers {
		if _, dup := seen[c.VaultAddress()]; dup {
			return nil, eris.Errorf("vault %s is configured twice", c.VaultAddress().Hex())
		}
		seen[c.VaultAddress()] = struct{}{}
	}

	options := newDefaultMonitorOptions()
	opts.apply(&options)

	return &VaultMonitor{
		checkers: checkers,
		sink:     options.Sink,
		reporter: options.Reporter,
		log:      options.Logger,
		tracer:   options.Tracer,
		now:      options.Clock,
	}, nil
}

// Vaults returns the monitored vault addresses in configuration order.
func (vm *VaultMonitor) Vaults() []common.Address {
	out := make([]common.Address, len(vm.checkers))
	for i, c := range vm.checkers {
		out[i] = c.VaultAddress()
	}
	return out
}

// Tick checks all vaults concurrently and waits for every check to finish. It never fails;
// per vault failures are counted in the result.
func (vm *VaultMonitor) Tick(ctx context.Context) TickResult {
	start := time.Now()
	res := TickResult{ID: uuid.New(), Outcomes: make([]events.Outcome, len(vm.checkers))}

	ctx, span := vm.tracer.Start(ctx, "keeper.tick", trace.WithAttributes(
		attribute.String("tick_id", res.ID.String()),
		attribute.Int("vaults", len(vm.checkers)),
	))
	defer span.End()

	log := vm.log.With().Str("tick_id", res.ID.String()).Logger()
	log.Info().Int("vaults", len(vm.checkers)).Msg("Starting vault checks")

	errs := make([]error, len(vm.checkers))
	var wg sync.WaitGroup
	for i, c := range vm.checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res.Outcomes[i], errs[i] = vm.checkOne(ctx, log, res.ID, c)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			res.Failures++
		} else {
			res.Successes++
		}
	}
	res.Elapsed = time.Since(start)

	statsd.EmitTickStat(start, "tick")
	statsd.GaugeTick(res.Successes, res.Failures)
	span.SetAttributes(attribute.Int("successes", res.Successes), attribute.Int("failures", res.Failures))

	event := log.Info()
	if res.Failures > 0 {
		event = log.Warn()
	}
	event.
		Int("successes", res.Successes).
		Int("failures", res.Failures).
		Dur("elapsed", res.Elapsed).
		Msgf("Completed checks: %d successful, %d failed", res.Successes, res.Failures)

	return res
}

// checkOne runs a single vault check, converting a panic into a failure for that vault.
func (vm *VaultMonitor) checkOne(
	ctx context.Context, log zerolog.Logger, tickID uuid.UUID, c Checker,
) (out events.Outcome, err error) {
	start := time.Now()
	var vault common.Address

	defer func() {
		if r := recover(); r != nil {
			err = &CheckError{Kind: ErrCheckPanicked, Vault: vault, Step: "check", Err: eris.New(fmt.Sprint(r))}
			out = vm.outcome(tickID, CheckResult{Vault: vault, Action: events.ActionFailed}, err)
			log.Error().
				Str("vault", round.Label(vault)).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Vault check panicked")
		}

		label := round.Label(vault)
		statsd.EmitTickStat(start, "check", "vault:"+label)
		statsd.CountOutcome(string(out.Action), label)
		if err != nil {
			vm.reporter.CaptureException(ctx, err, "vault", vault.Hex(), "tick_id", tickID.String())
		}
		if pubErr := vm.sink.Publish(ctx, out); pubErr != nil {
			log.Warn().Err(pubErr).Str("vault", label).Msg("Failed to publish check outcome")
		}
	}()

	vault = c.VaultAddress()
	res, err := c.CheckAndAdvance(ctx)
	return vm.outcome(tickID, res, err), err
}

func (vm *VaultMonitor) outcome(tickID uuid.UUID, res CheckResult, err error) events.Outcome {
	out := events.Outcome{
		TickID: tickID,
		Vault:  round.HexAddress(res.Vault),
		Action: res.Action,
		JobID:  res.JobID,
		At:     vm.now().UTC(),
	}
	if res.RoundID != nil {
		out.RoundID = res.RoundID.String()
	}
	if res.StateKnown {
		state := res.State
		out.State = &state
	}
	if res.TxHash != (common.Hash{}) {
		out.TxHash = res.TxHash.Hex()
	}
	if err != nil {
		out.Action = events.ActionFailed
		out.Error = err.Error()
	}
	return out
}

// ----- Options -----

// MonitorOptions configures a VaultMonitor. All fields are optional.
type MonitorOptions struct {
	Sink     events.Sink
	Reporter ErrorReporter
	Logger   *zerolog.Logger
	Tracer   trace.Tracer
	Clock    func() time.Time
}

type monitorOptions struct {
	Sink     events.Sink
	Reporter ErrorReporter
	Logger   zerolog.Logger
	Tracer   trace.Tracer
	Clock    func() time.Time
}

func newDefaultMonitorOptions() monitorOptions {
	return monitorOptions{
		Sink:     events.NopSink{},
		Reporter: nopReporter{},
		Logger:   zerolog.Nop(),
		Tracer:   noop.NewTracerProvider().Tracer("keeper"),
		Clock:    time.Now,
	}
}

func (opt MonitorOptions) apply(options *monitorOptions) {
	if opt.Sink != nil {
		options.Sink = opt.Sink
	}
	if opt.Reporter != nil {
		options.Reporter = opt.Reporter
	}
	if opt.Logger != nil {
		options.Logger = *opt.Logger
	}
	if opt.Tracer != nil {
		options.Tracer = opt.Tracer
	}
	if opt.Clock != nil {
		options.Clock = opt.Clock
	}
}
