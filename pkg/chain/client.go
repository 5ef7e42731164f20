package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/argus-labs/world-engine/keeper/pkg/round"
)

//go:generate mockgen -source=client.go -package mocks -destination=mocks/client.go

// Client is the chain access one vault's state machine needs. Each vault gets its own Client
// bound to that vault's contract.
type Client interface {
	// VaultAddress returns the vault contract this client is bound to.
	VaultAddress() common.Address

	// BlockNumber is the liveness probe.
	BlockNumber(ctx context.Context) (uint64, error)

	CurrentRoundID(ctx context.Context) (*big.Int, error)
	RoundAddress(ctx context.Context, roundID *big.Int) (common.Address, error)
	FossilClientAddress(ctx context.Context) (common.Address, error)
	RoundDuration(ctx context.Context) (uint64, error)
	RequestToStartFirstRound(ctx context.Context) (round.Descriptor, error)
	RequestToSettleRound(ctx context.Context) (round.Descriptor, error)

	RoundState(ctx context.Context, roundAddr common.Address) (round.State, error)
	ReservePrice(ctx context.Context, roundAddr common.Address) (*big.Int, error)
	AuctionStartDate(ctx context.Context, roundAddr common.Address) (uint64, error)
	AuctionEndDate(ctx context.Context, roundAddr common.Address) (uint64, error)
	SettlementDate(ctx context.Context, roundAddr common.Address) (uint64, error)

	StartAuction(ctx context.Context) (*types.Transaction, error)
	EndAuction(ctx context.Context) (*types.Transaction, error)

	// WaitForTransaction blocks until tx is mined. A reverted receipt is returned together
	// with ErrReverted.
	WaitForTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}
