package keeper

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rotisserie/eris"

	"github.com/argus-labs/world-engine/keeper/pkg/chain"
	"github.com/argus-labs/world-engine/keeper/pkg/pricing"
	"github.com/argus-labs/world-engine/keeper/pkg/round"
)

// Failure kinds of a vault check. A precondition that is not met yet is never an error.
var (
	// ErrConnectivity means the chain node or the pricing service could not be reached.
	ErrConnectivity = eris.New("connectivity error")
	// ErrUnexpectedResponse means the chain returned data the keeper cannot act on.
	ErrUnexpectedResponse = eris.New("unexpected on-chain response")
	// ErrTransaction means a transaction was rejected, reverted or never confirmed.
	ErrTransaction = eris.New("transaction failure")
	// ErrUpstream means the pricing service answered with an error.
	ErrUpstream = eris.New("upstream service error")
	// ErrCheckPanicked means a vault check panicked and was recovered by the monitor.
	ErrCheckPanicked = eris.New("vault check panicked")
)

// CheckError carries the vault and round context of a failed check. It matches its Kind and
// anything in the wrapped error's chain with errors.Is and eris.Is.
type CheckError struct {
	Kind    error
	Vault   common.Address
	RoundID *big.Int
	State   string
	Step    string
	Err     error
}

func (e *CheckError) Error() string {
	where := "vault " + e.Vault.Hex()
	if e.RoundID != nil {
		where += fmt.Sprintf(" round %s", e.RoundID)
	}
	if e.State != "" {
		where += " (" + e.State + ")"
	}
	return fmt.Sprintf("%s: %s: %v: %v", where, e.Step, e.Kind, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

func (e *CheckError) Is(target error) bool {
	return errors.Is(e.Kind, target) || eris.Is(e.Err, target)
}

// classify maps an error from a collaborator to a failure kind.
func classify(err error) error {
	switch {
	case eris.Is(err, round.ErrUnknownState), eris.Is(err, chain.ErrDecode):
		return ErrUnexpectedResponse
	case eris.Is(err, chain.ErrSend), eris.Is(err, chain.ErrConfirm), eris.Is(err, chain.ErrReverted):
		return ErrTransaction
	case eris.Is(err, pricing.ErrUpstream), eris.Is(err, pricing.ErrMalformed):
		return ErrUpstream
	default:
		return ErrConnectivity
	}
}
