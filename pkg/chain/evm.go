package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/argus-labs/world-engine/keeper/pkg/round"
)

var _ Client = (*EVMClient)(nil)

// Backend is the node access EVMClient needs. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractCaller
	bind.ContractTransactor
	bind.DeployBackend
	BlockNumber(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// EVMClient implements Client against a vault contract on an EVM chain.
type EVMClient struct {
	backend        Backend
	vault          common.Address
	vaultContract  *bind.BoundContract
	signer         *Signer
	confirmTimeout time.Duration
	log            zerolog.Logger
}

// ClientOption configures an EVMClient.
type ClientOption func(*EVMClient)

// WithConfirmTimeout bounds how long WaitForTransaction waits for a receipt. Zero means no
// limit beyond the caller's context.
func WithConfirmTimeout(d time.Duration) ClientOption {
	return func(c *EVMClient) {
		c.confirmTimeout = d
	}
}

func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *EVMClient) {
		c.log = log
	}
}

// NewEVMClient binds a client to one vault contract.
func NewEVMClient(backend Backend, vault common.Address, signer *Signer, opts ...ClientOption) (*EVMClient, error) {
	if backend == nil {
		return nil, eris.New("backend is required")
	}
	if signer == nil {
		return nil, eris.New("signer is required")
	}
	if vault == (common.Address{}) {
		return nil, eris.New("vault address is required")
	}

	c := &EVMClient{
		backend: backend,
		vault:   vault,
		// Only Transact is used on the bound contract, so no filterer is needed.
		vaultContract: bind.NewBoundContract(vault, VaultABI, backend, backend, nil),
		signer:        signer,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dial connects to a JSON-RPC endpoint. When chainID is zero it is queried from the node.
func Dial(ctx context.Context, url string, chainID uint64) (*ethclient.Client, *big.Int, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "failed to dial %s", url)
	}
	if chainID != 0 {
		return client, new(big.Int).SetUint64(chainID), nil
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, eris.Wrap(err, "failed to query chain id")
	}
	return client, id, nil
}

func (c *EVMClient) VaultAddress() common.Address {
	return c.vault
}

func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return 0, eris.Wrapf(ErrCall, "block number: %v", err)
	}
	return n, nil
}

// ----- Vault reads -----

func (c *EVMClient) CurrentRoundID(ctx context.Context) (*big.Int, error) {
	return callOne[*big.Int](ctx, c, VaultABI, c.vault, MethodCurrentRoundID)
}

func (c *EVMClient) RoundAddress(ctx context.Context, roundID *big.Int) (common.Address, error) {
	return callOne[common.Address](ctx, c, VaultABI, c.vault, MethodRoundAddress, roundID)
}

func (c *EVMClient) FossilClientAddress(ctx context.Context) (common.Address, error) {
	return callOne[common.Address](ctx, c, VaultABI, c.vault, MethodFossilClientAddress)
}

func (c *EVMClient) RoundDuration(ctx context.Context) (uint64, error) {
	return callOne[uint64](ctx, c, VaultABI, c.vault, MethodRoundDuration)
}

func (c *EVMClient) RequestToStartFirstRound(ctx context.Context) (round.Descriptor, error) {
	return c.descriptor(ctx, MethodRequestToStartFirstRound)
}

func (c *EVMClient) RequestToSettleRound(ctx context.Context) (round.Descriptor, error) {
	return c.descriptor(ctx, MethodRequestToSettleRound)
}

func (c *EVMClient) descriptor(ctx context.Context, method string) (round.Descriptor, error) {
	out, err := c.call(ctx, VaultABI, c.vault, method)
	if err != nil {
		return round.Descriptor{}, err
	}
	if len(out) != 3 { //nolint:mnd // (vault, timestamp, identifier)
		return round.Descriptor{}, eris.Wrapf(ErrDecode, "%s: expected 3 outputs, got %d", method, len(out))
	}
	vault, ok1 := out[0].(common.Address)
	ts, ok2 := out[1].(uint64)
	id, ok3 := out[2].([32]byte)
	if !ok1 || !ok2 || !ok3 {
		return round.Descriptor{}, eris.Wrapf(ErrDecode, "%s: unexpected output types %T %T %T",
			method, out[0], out[1], out[2])
	}
	return round.Descriptor{VaultAddress: vault, Timestamp: ts, Identifier: id}, nil
}

// ----- Round reads -----

func (c *EVMClient) RoundState(ctx context.Context, roundAddr common.Address) (round.State, error) {
	tag, err := callOne[uint8](ctx, c, RoundABI, roundAddr, MethodState)
	if err != nil {
		return 0, err
	}
	return round.ParseState(tag)
}

func (c *EVMClient) ReservePrice(ctx context.Context, roundAddr common.Address) (*big.Int, error) {
	return callOne[*big.Int](ctx, c, RoundABI, roundAddr, MethodReservePrice)
}

func (c *EVMClient) AuctionStartDate(ctx context.Context, roundAddr common.Address) (uint64, error) {
	return callOne[uint64](ctx, c, RoundABI, roundAddr, MethodAuctionStartDate)
}

func (c *EVMClient) AuctionEndDate(ctx context.Context, roundAddr common.Address) (uint64, error) {
	return callOne[uint64](ctx, c, RoundABI, roundAddr, MethodAuctionEndDate)
}

func (c *EVMClient) SettlementDate(ctx context.Context, roundAddr common.Address) (uint64, error) {
	return callOne[uint64](ctx, c, RoundABI, roundAddr, MethodSettlementDate)
}

// ----- Transactions -----

func (c *EVMClient) StartAuction(ctx context.Context) (*types.Transaction, error) {
	return c.transact(ctx, MethodStartAuction)
}

func (c *EVMClient) EndAuction(ctx context.Context) (*types.Transaction, error) {
	return c.transact(ctx, MethodEndAuction)
}

func (c *EVMClient) WaitForTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if c.confirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.confirmTimeout)
		defer cancel()
	}

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, eris.Wrapf(ErrConfirm, "tx %s: %v", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, eris.Wrapf(ErrReverted, "tx %s in block %s", tx.Hash().Hex(), receipt.BlockNumber)
	}
	return receipt, nil
}

func (c *EVMClient) transact(ctx context.Context, method string) (*types.Transaction, error) {
	var tx *types.Transaction
	err := c.signer.send(ctx, func(opts *bind.TransactOpts) error {
		var err error
		tx, err = c.vaultContract.Transact(opts, method)
		return err
	})
	if err != nil {
		return nil, eris.Wrapf(ErrSend, "%s: %v", method, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("tx_hash", tx.Hash().Hex()).
		Uint64("nonce", tx.Nonce()).
		Msg("Transaction sent")
	return tx, nil
}

// ----- Call helpers -----

func (c *EVMClient) call(
	ctx context.Context, contract abi.ABI, to common.Address, method string, args ...any,
) ([]any, error) {
	input, err := contract.Pack(method, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to pack %s", method)
	}

	data, err := c.backend.CallContract(ctx, ethereum.CallMsg{From: c.signer.Address(), To: &to, Data: input}, nil)
	if err != nil {
		return nil, eris.Wrapf(ErrCall, "%s on %s: %v", method, to.Hex(), err)
	}

	out, err := contract.Unpack(method, data)
	if err != nil {
		return nil, eris.Wrapf(ErrDecode, "%s on %s: %v", method, to.Hex(), err)
	}
	return out, nil
}

func callOne[T any](
	ctx context.Context, c *EVMClient, contract abi.ABI, to common.Address, method string, args ...any,
) (T, error) {
	var zero T
	out, err := c.call(ctx, contract, to, method, args...)
	if err != nil {
		return zero, err
	}
	if len(out) != 1 {
		return zero, eris.Wrapf(ErrDecode, "%s: expected 1 output, got %d", method, len(out))
	}
	v, ok := out[0].(T)
	if !ok {
		return zero, eris.Wrapf(ErrDecode, "%s: unexpected output type %T", method, out[0])
	}
	return v, nil
}
