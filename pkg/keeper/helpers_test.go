package keeper_test

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/argus-labs/world-engine/keeper/pkg/chain"
	"github.com/argus-labs/world-engine/keeper/pkg/chain/mocks"
	"github.com/argus-labs/world-engine/keeper/pkg/keeper"
	"github.com/argus-labs/world-engine/keeper/pkg/pricing"
	"github.com/argus-labs/world-engine/keeper/pkg/round"
)

//nolint:gochecknoglobals // test fixtures
var (
	vaultAddr  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	roundAddr  = common.HexToAddress("0x2222222222222222222222222222222222222222")
	fossilAddr = common.HexToAddress("0x3333333333333333333333333333333333333333")
	roundID    = big.NewInt(3)
)

func clockAt(ts uint64) func() time.Time {
	return func() time.Time { return time.Unix(int64(ts), 0) } //nolint:gosec // test timestamps are small
}

func newTx(nonce uint64) *types.Transaction {
	return types.NewTx(&types.DynamicFeeTx{Nonce: nonce, To: &vaultAddr, Gas: 21_000})
}

// fakePricing records submissions and serves a configurable data horizon.
type fakePricing struct {
	mu        sync.Mutex
	latest    pricing.LatestBlock
	latestErr error
	submitErr error
	submitted []round.PricingRequest
}

func (f *fakePricing) LatestBlock(context.Context) (pricing.LatestBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, f.latestErr
}

func (f *fakePricing) SubmitPricingRequest(_ context.Context, body round.PricingRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, body)
	return fmt.Sprintf("job-%d", len(f.submitted)), nil
}

func (f *fakePricing) setLatest(ts uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = pricing.LatestBlock{Number: ts / 12, Timestamp: ts} //nolint:mnd // fake block time
}

func (f *fakePricing) submissions() []round.PricingRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]round.PricingRequest(nil), f.submitted...)
}

// newMockChain returns a gomock chain client bound to vaultAddr that expects the reads every
// check performs before dispatching on state.
func newMockChain(t *testing.T, state round.State) *mocks.MockClient {
	t.Helper()
	m := mocks.NewMockClient(gomock.NewController(t))
	m.EXPECT().VaultAddress().Return(vaultAddr).AnyTimes()
	m.EXPECT().BlockNumber(gomock.Any()).Return(uint64(100), nil)
	m.EXPECT().CurrentRoundID(gomock.Any()).Return(roundID, nil)
	m.EXPECT().RoundAddress(gomock.Any(), roundID).Return(roundAddr, nil)
	m.EXPECT().RoundState(gomock.Any(), roundAddr).Return(state, nil)
	return m
}

func newMachine(t *testing.T, c chain.Client, p keeper.PricingClient, now uint64) *keeper.RoundStateMachine {
	t.Helper()
	m, err := keeper.NewRoundStateMachine(keeper.MachineOptions{
		Chain:   c,
		Pricing: p,
		Clock:   clockAt(now),
	})
	require.NoError(t, err)
	return m
}

// fakeVault is a stateful chain.Client. Transactions and pricing fulfilment move the round
// forward the way the contracts would, so tests can run several checks in a row.
type fakeVault struct {
	mu sync.Mutex

	vault    common.Address
	roundID  int64
	state    round.State
	reserve  int64
	start    uint64
	end      uint64
	settle   uint64
	duration uint64
	request  round.Descriptor

	probeErr    error
	readErr     error
	panicOnRead bool

	startCalls int
	endCalls   int
	nonce      uint64
}

var _ chain.Client = (*fakeVault)(nil)

func newFakeVault(vault common.Address) *fakeVault {
	return &fakeVault{
		vault:    vault,
		roundID:  1,
		state:    round.StateOpen,
		duration: 3600,
		request:  round.Descriptor{VaultAddress: vault, Timestamp: 1000},
	}
}

func (f *fakeVault) VaultAddress() common.Address { return f.vault }

func (f *fakeVault) BlockNumber(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOnRead {
		panic("rpc client exploded")
	}
	return 1, f.probeErr
}

func (f *fakeVault) CurrentRoundID(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	return big.NewInt(f.roundID), nil
}

func (f *fakeVault) RoundAddress(_ context.Context, id *big.Int) (common.Address, error) {
	return common.BigToAddress(new(big.Int).Add(id, big.NewInt(0x1000))), nil
}

func (f *fakeVault) FossilClientAddress(context.Context) (common.Address, error) {
	return fossilAddr, nil
}

func (f *fakeVault) RoundDuration(context.Context) (uint64, error) {
	return f.duration, nil
}

func (f *fakeVault) RequestToStartFirstRound(context.Context) (round.Descriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.request, nil
}

func (f *fakeVault) RequestToSettleRound(context.Context) (round.Descriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.request, nil
}

func (f *fakeVault) RoundState(context.Context, common.Address) (round.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, nil
}

func (f *fakeVault) ReservePrice(context.Context, common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return big.NewInt(f.reserve), nil
}

func (f *fakeVault) AuctionStartDate(context.Context, common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.start, nil
}

func (f *fakeVault) AuctionEndDate(context.Context, common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.end, nil
}

func (f *fakeVault) SettlementDate(context.Context, common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settle, nil
}

func (f *fakeVault) StartAuction(context.Context) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	f.state = round.StateAuctioning
	f.nonce++
	return newTx(f.nonce), nil
}

func (f *fakeVault) EndAuction(context.Context) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endCalls++
	f.state = round.StateRunning
	f.nonce++
	return newTx(f.nonce), nil
}

func (f *fakeVault) WaitForTransaction(_ context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: tx.Hash()}, nil
}

// fulfilBootstrap simulates the pricing callback opening the first round.
func (f *fakeVault) fulfilBootstrap(reserve int64, start, end, settle uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reserve, f.start, f.end, f.settle = reserve, start, end, settle
}

// fulfilSettlement simulates the pricing callback settling the round and opening the next.
func (f *fakeVault) fulfilSettlement() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = round.StateSettled
}

func (f *fakeVault) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startCalls, f.endCalls
}
