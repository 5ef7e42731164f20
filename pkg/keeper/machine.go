package keeper

import (
	"context"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/argus-labs/world-engine/keeper/pkg/assert"
	"github.com/argus-labs/world-engine/keeper/pkg/chain"
	"github.com/argus-labs/world-engine/keeper/pkg/events"
	"github.com/argus-labs/world-engine/keeper/pkg/pricing"
	"github.com/argus-labs/world-engine/keeper/pkg/round"
)

// PricingClient is the part of the pricing service the state machine uses.
type PricingClient interface {
	LatestBlock(ctx context.Context) (pricing.LatestBlock, error)
	SubmitPricingRequest(ctx context.Context, body round.PricingRequest) (string, error)
}

var _ PricingClient = (*pricing.Client)(nil)

// CheckResult describes what one check saw and did.
type CheckResult struct {
	Vault   common.Address
	RoundID *big.Int
	// State is only meaningful when StateKnown is set.
	State      round.State
	StateKnown bool
	Action     events.Action
	TxHash     common.Hash
	JobID      string
	// Wait is the number of seconds still to go when Action is ActionWaiting.
	Wait uint64
}

// RoundStateMachine advances the current round of one vault. It keeps no round data between
// checks; every check re-reads the chain, so concurrent or repeated checks are safe.
type RoundStateMachine struct {
	chain          chain.Client
	pricing        PricingClient
	log            zerolog.Logger
	tracer         trace.Tracer
	now            func() time.Time
	stallWarnAfter time.Duration

	// Unix nanoseconds since which the pricing horizon has been behind a required timestamp,
	// or 0 when it is not behind.
	behindSince atomic.Int64
}

func NewRoundStateMachine(opts MachineOptions) (*RoundStateMachine, error) {
	options := newDefaultMachineOptions()
	opts.apply(&options)
	if err := options.validate(); err != nil {
		return nil, eris.Wrap(err, "invalid state machine options")
	}

	vault := options.Chain.VaultAddress()
	return &RoundStateMachine{
		chain:   options.Chain,
		pricing: options.Pricing,
		log: options.Logger.With().
			Str("vault", round.Label(vault)).
			Str("vault_address", vault.Hex()).
			Logger(),
		tracer:         options.Tracer,
		now:            options.Clock,
		stallWarnAfter: options.StallWarnAfter,
	}, nil
}

// VaultAddress returns the vault this machine drives.
func (m *RoundStateMachine) VaultAddress() common.Address {
	return m.chain.VaultAddress()
}

// CheckAndAdvance performs one check of the vault's current round and issues at most one
// advancing action. Waiting for a deadline or for pricing data is a successful no-op.
func (m *RoundStateMachine) CheckAndAdvance(ctx context.Context) (CheckResult, error) {
	ctx, span := m.tracer.Start(ctx, "keeper.check",
		trace.WithAttributes(attribute.String("vault", m.VaultAddress().Hex())))
	defer span.End()

	res := CheckResult{Vault: m.VaultAddress(), Action: events.ActionNone}
	err := m.check(ctx, &res)
	if err != nil {
		res.Action = events.ActionFailed
		span.RecordError(err)
		span.SetStatus(codes.Error, "check failed")
		m.log.Error().Err(err).Str("trace", eris.ToString(err, true)).Msg("Error in transition check")
		return res, err
	}

	span.SetAttributes(attribute.String("action", string(res.Action)))
	return res, nil
}

func (m *RoundStateMachine) check(ctx context.Context, res *CheckResult) error {
	m.log.Info().Msg("Checking RPC connection...")
	if _, err := m.chain.BlockNumber(ctx); err != nil {
		return m.fail(res, "liveness probe", ErrConnectivity, err)
	}
	m.log.Info().Msg("Connected to RPC successfully")

	roundID, err := m.chain.CurrentRoundID(ctx)
	if err != nil {
		return m.fail(res, "read current round id", classify(err), err)
	}
	if roundID == nil {
		return m.fail(res, "read current round id", ErrUnexpectedResponse, eris.New("nil round id"))
	}
	res.RoundID = roundID

	roundAddr, err := m.chain.RoundAddress(ctx, roundID)
	if err != nil {
		return m.fail(res, "read round address", classify(err), err)
	}
	m.log.Info().Str("round_id", roundID.String()).Str("round", roundAddr.Hex()).Msg("Checking round")

	state, err := m.chain.RoundState(ctx, roundAddr)
	if err != nil {
		return m.fail(res, "read round state", classify(err), err)
	}
	res.State, res.StateKnown = state, true
	rnd := &round.Round{ID: roundID, Address: roundAddr, State: state}

	log := m.log.With().Str("round_id", roundID.String()).Str("state", state.String()).Logger()
	log.Info().Msg("Current state: " + state.String())

	now := uint64(m.now().Unix()) //nolint:gosec // wall clock is after 1970

	switch state {
	case round.StateOpen:
		return m.handleOpen(ctx, log, res, rnd, now)
	case round.StateAuctioning:
		return m.handleAuctioning(ctx, log, res, rnd, now)
	case round.StateRunning:
		return m.handleRunning(ctx, log, res, rnd, now)
	case round.StateSettled:
		log.Info().Msg("Round is settled, no actions possible")
		return nil
	}
	assert.That(false, "unhandled round state %s", state)
	return m.fail(res, "dispatch", ErrUnexpectedResponse, eris.Errorf("unhandled round state %s", state))
}

func (m *RoundStateMachine) handleOpen(
	ctx context.Context, log zerolog.Logger, res *CheckResult, rnd *round.Round, now uint64,
) error {
	reserve, err := m.chain.ReservePrice(ctx, rnd.Address)
	if err != nil {
		return m.fail(res, "read reserve price", classify(err), err)
	}
	if reserve == nil {
		return m.fail(res, "read reserve price", ErrUnexpectedResponse, eris.New("nil reserve price"))
	}
	rnd.ReservePrice = reserve

	if rnd.NeedsBootstrap() {
		log.Info().Msg("First round detected, needs initialization")
		desc, err := m.chain.RequestToStartFirstRound(ctx)
		if err != nil {
			return m.fail(res, "read first round request", classify(err), err)
		}
		// Opening the round happens on chain once the pricing job is fulfilled; a later check
		// observes it.
		return m.requestPricing(ctx, log, res, desc, events.ActionBootstrapRequested)
	}

	rnd.AuctionStart, err = m.chain.AuctionStartDate(ctx, rnd.Address)
	if err != nil {
		return m.fail(res, "read auction start date", classify(err), err)
	}
	if now < rnd.AuctionStart {
		m.wait(log, res, round.TimeLeft(now, rnd.AuctionStart), "Waiting for auction start time")
		return nil
	}

	log.Info().Msg("Starting auction...")
	return m.advance(ctx, log, res, "start auction", m.chain.StartAuction, events.ActionAuctionStarted)
}

func (m *RoundStateMachine) handleAuctioning(
	ctx context.Context, log zerolog.Logger, res *CheckResult, rnd *round.Round, now uint64,
) error {
	var err error
	rnd.AuctionEnd, err = m.chain.AuctionEndDate(ctx, rnd.Address)
	if err != nil {
		return m.fail(res, "read auction end date", classify(err), err)
	}
	if now < rnd.AuctionEnd {
		m.wait(log, res, round.TimeLeft(now, rnd.AuctionEnd), "Waiting for auction end time")
		return nil
	}

	log.Info().Msg("Ending auction...")
	return m.advance(ctx, log, res, "end auction", m.chain.EndAuction, events.ActionAuctionEnded)
}

func (m *RoundStateMachine) handleRunning(
	ctx context.Context, log zerolog.Logger, res *CheckResult, rnd *round.Round, now uint64,
) error {
	var err error
	rnd.Settlement, err = m.chain.SettlementDate(ctx, rnd.Address)
	if err != nil {
		return m.fail(res, "read settlement date", classify(err), err)
	}
	if now < rnd.Settlement {
		m.wait(log, res, round.TimeLeft(now, rnd.Settlement), "Waiting for settlement time")
		return nil
	}

	log.Info().Msg("Settlement time reached")
	desc, err := m.chain.RequestToSettleRound(ctx)
	if err != nil {
		return m.fail(res, "read settlement request", classify(err), err)
	}
	return m.requestPricing(ctx, log, res, desc, events.ActionSettlementRequested)
}

// advance sends one state advancing transaction and waits for it to be mined.
func (m *RoundStateMachine) advance(
	ctx context.Context,
	log zerolog.Logger,
	res *CheckResult,
	step string,
	send func(context.Context) (*types.Transaction, error),
	action events.Action,
) error {
	tx, err := send(ctx)
	if err != nil {
		return m.fail(res, step, classify(err), err)
	}
	if tx == nil {
		return m.fail(res, step, ErrTransaction, eris.New("no transaction returned"))
	}
	res.TxHash = tx.Hash()

	if _, err := m.chain.WaitForTransaction(ctx, tx); err != nil {
		return m.fail(res, step, ErrTransaction, err)
	}

	res.Action = action
	log.Info().Str("tx_hash", tx.Hash().Hex()).Msgf("%s succeeded", step)
	return nil
}

// requestPricing submits a pricing job for desc once the pricing service has data up to the
// descriptor's timestamp. The job id is logged and not awaited.
func (m *RoundStateMachine) requestPricing(
	ctx context.Context, log zerolog.Logger, res *CheckResult, desc round.Descriptor, action events.Action,
) error {
	latest, err := m.pricing.LatestBlock(ctx)
	if err != nil {
		return m.fail(res, "query pricing horizon", classify(err), err)
	}
	log.Debug().
		Uint64("block_number", latest.Number).
		Uint64("block_timestamp", latest.Timestamp).
		Uint64("request_timestamp", desc.Timestamp).
		Msg("Latest pricing block")

	if !round.Available(latest.Timestamp, desc.Timestamp) {
		m.horizonBehind(log)
		m.wait(log, res, desc.Timestamp-latest.Timestamp, "Waiting for pricing data to reach the request timestamp")
		return nil
	}
	m.behindSince.Store(0)

	clientAddr, err := m.chain.FossilClientAddress(ctx)
	if err != nil {
		return m.fail(res, "read pricing client address", classify(err), err)
	}
	duration, err := m.chain.RoundDuration(ctx)
	if err != nil {
		return m.fail(res, "read round duration", classify(err), err)
	}

	req := round.NewPricingRequest(desc, clientAddr, duration)
	log.Debug().
		Uint64("round_duration", duration).
		Ints64("twap", req.Params.Twap[:]).
		Ints64("volatility", req.Params.Volatility[:]).
		Ints64("reserve_price", req.Params.ReservePrice[:]).
		Msg("Calculation windows")

	log.Info().Msg("Sending request to pricing service")
	log.Debug().Interface("request", req).Msg("Pricing request")
	jobID, err := m.pricing.SubmitPricingRequest(ctx, req)
	if err != nil {
		return m.fail(res, "submit pricing request", classify(err), err)
	}

	res.Action = action
	res.JobID = jobID
	log.Info().Str("job_id", jobID).Msg("Pricing request submitted")
	return nil
}

func (m *RoundStateMachine) wait(log zerolog.Logger, res *CheckResult, seconds uint64, msg string) {
	res.Action = events.ActionWaiting
	res.Wait = seconds
	log.Info().Uint64("seconds_left", seconds).Msgf("%s. Time left: %s", msg, round.FormatTimeLeft(seconds))
}

// horizonBehind tracks how long the pricing horizon has been behind and warns once it has
// been stuck for longer than the configured threshold.
func (m *RoundStateMachine) horizonBehind(log zerolog.Logger) {
	now := m.now()
	m.behindSince.CompareAndSwap(0, now.UnixNano())
	if m.stallWarnAfter <= 0 {
		return
	}
	behind := now.Sub(time.Unix(0, m.behindSince.Load()))
	if behind >= m.stallWarnAfter {
		log.Warn().Dur("behind_for", behind).Msg("Pricing data horizon has not caught up, check the pricing service")
	}
}

func (m *RoundStateMachine) fail(res *CheckResult, step string, kind error, err error) error {
	ce := &CheckError{
		Kind:    kind,
		Vault:   res.Vault,
		RoundID: res.RoundID,
		Step:    step,
		Err:     err,
	}
	if res.StateKnown {
		ce.State = res.State.String()
	}
	return ce
}

// ----- Options -----

// MachineOptions configures a RoundStateMachine.
type MachineOptions struct {
	// Chain is the vault bound chain client. Required.
	Chain chain.Client

	// Pricing is the pricing service client. Required.
	Pricing PricingClient

	Logger *zerolog.Logger
	Tracer trace.Tracer

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time

	// StallWarnAfter logs a warning when the pricing horizon stays behind a required
	// timestamp for this long. Zero disables the warning.
	StallWarnAfter time.Duration
}

type machineOptions struct {
	Chain          chain.Client
	Pricing        PricingClient
	Logger         zerolog.Logger
	Tracer         trace.Tracer
	Clock          func() time.Time
	StallWarnAfter time.Duration
}

func newDefaultMachineOptions() machineOptions {
	return machineOptions{
		Logger: zerolog.Nop(),
		Tracer: noop.NewTracerProvider().Tracer("keeper"),
		Clock:  time.Now,
	}
}

func (opt MachineOptions) apply(options *machineOptions) {
	options.Chain = opt.Chain
	options.Pricing = opt.Pricing
	if opt.Logger != nil {
		options.Logger = *opt.Logger
	}
	if opt.Tracer != nil {
		options.Tracer = opt.Tracer
	}
	if opt.Clock != nil {
		options.Clock = opt.Clock
	}
	options.StallWarnAfter = opt.StallWarnAfter
}

func (opt machineOptions) validate() error {
	if opt.Chain == nil {
		return eris.New("chain client is required")
	}
	if opt.Pricing == nil {
		return eris.New("pricing client is required")
	}
	if opt.StallWarnAfter < 0 {
		return eris.New("stall warning threshold cannot be negative")
	}
	return nil
}
