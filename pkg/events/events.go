// Package events publishes the outcome of every vault check so other services can follow round
// progress without polling the chain themselves.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/argus-labs/world-engine/keeper/pkg/round"
)

// Action is what a vault check decided to do.
type Action string

const (
	ActionNone                Action = "none"
	ActionWaiting             Action = "waiting"
	ActionBootstrapRequested  Action = "bootstrap_requested"
	ActionAuctionStarted      Action = "auction_started"
	ActionAuctionEnded        Action = "auction_ended"
	ActionSettlementRequested Action = "settlement_requested"
	ActionFailed              Action = "failed"
)

// Outcome is one vault's result for one tick. State is encoded by variant name and is absent
// when the check failed before reading it.
type Outcome struct {
	TickID  uuid.UUID    `json:"tick_id"`
	Vault   string       `json:"vault"`
	RoundID string       `json:"round_id,omitempty"`
	State   *round.State `json:"state,omitempty"`
	Action  Action       `json:"action"`
	TxHash  string       `json:"tx_hash,omitempty"`
	JobID   string       `json:"job_id,omitempty"`
	Error   string       `json:"error,omitempty"`
	At      time.Time    `json:"at"`
}

// Sink receives check outcomes. Publish must be safe for concurrent use.
type Sink interface {
	Publish(ctx context.Context, outcome Outcome) error
	Close() error
}

// NopSink discards outcomes.
type NopSink struct{}

var _ Sink = NopSink{}

func (NopSink) Publish(context.Context, Outcome) error { return nil }
func (NopSink) Close() error                           { return nil }
