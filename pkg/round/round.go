package round

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Round is a snapshot of one option round read from chain during a single check. It is never
// kept across checks.
type Round struct {
	ID           *big.Int
	Address      common.Address
	State        State
	ReservePrice *big.Int
	AuctionStart uint64
	AuctionEnd   uint64
	Settlement   uint64
}

// NeedsBootstrap reports whether the round is the vault's first one and has not been
// initialized yet. An unset reserve price is the on-chain marker for that.
func (r Round) NeedsBootstrap() bool {
	return r.State == StateOpen && (r.ReservePrice == nil || r.ReservePrice.Sign() == 0)
}

// Descriptor is the raw request descriptor a vault exposes for bootstrapping its first round
// or for settling the current one.
type Descriptor struct {
	VaultAddress common.Address
	Timestamp    uint64
	Identifier   [32]byte
}

// IdentifierHex renders the identifier the way the pricing service expects it: a 0x prefixed
// hex number without leading zeros.
func (d Descriptor) IdentifierHex() string {
	return "0x" + new(big.Int).SetBytes(d.Identifier[:]).Text(16)
}

// Available reports whether the pricing service's data horizon has reached the required
// timestamp.
func Available(latest, required uint64) bool {
	return latest >= required
}

// FormatTimeLeft renders a duration in seconds as "N seconds (H.HH hrs)".
func FormatTimeLeft(seconds uint64) string {
	return fmt.Sprintf("%d seconds (%.2f hrs)", seconds, float64(seconds)/3600) //nolint:mnd // seconds per hour
}

// TimeLeft returns how many seconds remain until deadline, or 0 when it has passed.
func TimeLeft(now, deadline uint64) uint64 {
	if now >= deadline {
		return 0
	}
	return deadline - now
}

// HexAddress renders an address as lower-case 0x prefixed hex.
func HexAddress(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

// Label returns the short per-vault label used in logs, the first 7 characters of the address.
func Label(addr common.Address) string {
	return addr.Hex()[:7]
}
