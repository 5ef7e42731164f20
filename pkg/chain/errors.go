package chain

import "github.com/rotisserie/eris"

var (
	// ErrCall is returned when a read or RPC request could not be completed.
	ErrCall = eris.New("chain call failed")
	// ErrDecode is returned when a contract returned data that does not match its ABI.
	ErrDecode = eris.New("malformed contract response")
	// ErrSend is returned when a transaction could not be built, signed or broadcast.
	ErrSend = eris.New("transaction submission failed")
	// ErrConfirm is returned when waiting for a receipt failed or timed out.
	ErrConfirm = eris.New("transaction confirmation failed")
	// ErrReverted is returned when a transaction was mined with a failed status.
	ErrReverted = eris.New("transaction reverted")
)
