package round

import (
	"math"

	"github.com/ethereum/go-ethereum/common"
)

const volatilitySpan = 3

// Window is a closed [start, end] range of unix seconds. It marshals as a two element array.
// The start is end minus the span and goes negative when the span reaches back past 1970.
type Window [2]int64

func (w Window) Start() int64 { return w[0] }
func (w Window) End() int64   { return w[1] }

// windowEndingAt returns [end - span, end]. Both inputs are at most math.MaxInt64, so the
// subtraction cannot wrap.
func windowEndingAt(end, span int64) Window {
	return Window{end - span, end}
}

// toSeconds saturates a chain timestamp or duration at math.MaxInt64.
func toSeconds(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

type Params struct {
	Twap         Window `json:"twap"`
	Volatility   Window `json:"volatility"`
	ReservePrice Window `json:"reserve_price"`
}

type ClientInfo struct {
	ClientAddress string `json:"client_address"`
	VaultAddress  string `json:"vault_address"`
	Timestamp     uint64 `json:"timestamp"`
}

// PricingRequest is the body of a pricing job submission.
type PricingRequest struct {
	Identifiers []string   `json:"identifiers"`
	Params      Params     `json:"params"`
	ClientInfo  ClientInfo `json:"client_info"`
}

// NewPricingRequest derives the calculation windows for a descriptor. Given target timestamp T
// and round duration D, twap covers [T-D, T] and volatility and reserve price cover [T-3D, T].
// 3D saturates at math.MaxInt64 instead of overflowing.
func NewPricingRequest(desc Descriptor, clientAddress common.Address, duration uint64) PricingRequest {
	end := toSeconds(desc.Timestamp)
	span := toSeconds(duration)
	wide := int64(math.MaxInt64)
	if span <= math.MaxInt64/volatilitySpan {
		wide = span * volatilitySpan
	}
	return PricingRequest{
		Identifiers: []string{desc.IdentifierHex()},
		Params: Params{
			Twap:         windowEndingAt(end, span),
			Volatility:   windowEndingAt(end, wide),
			ReservePrice: windowEndingAt(end, wide),
		},
		ClientInfo: ClientInfo{
			ClientAddress: HexAddress(clientAddress),
			VaultAddress:  HexAddress(desc.VaultAddress),
			Timestamp:     desc.Timestamp,
		},
	}
}
