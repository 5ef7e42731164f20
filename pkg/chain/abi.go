package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// The vault family exposes the same entrypoints on every chain it is deployed to. This is the
// EVM ABI of those entrypoints: names match the contract's, the round state is the enum's
// uint8 discriminant and a request descriptor is (vault, timestamp, identifier).

// vaultABIJSON covers the subset of the vault contract the keeper reads and drives.
const vaultABIJSON = `[
	{"type":"function","name":"get_current_round_id","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"get_round_address","stateMutability":"view",
	 "inputs":[{"name":"round_id","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"get_fossil_client_address","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"get_round_duration","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"uint64"}]},
	{"type":"function","name":"get_request_to_start_first_round","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"vault_address","type":"address"},{"name":"timestamp","type":"uint64"},
	            {"name":"identifier","type":"bytes32"}]},
	{"type":"function","name":"get_request_to_settle_round","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"vault_address","type":"address"},{"name":"timestamp","type":"uint64"},
	            {"name":"identifier","type":"bytes32"}]},
	{"type":"function","name":"start_auction","stateMutability":"nonpayable","inputs":[],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"end_auction","stateMutability":"nonpayable","inputs":[],
	 "outputs":[{"name":"","type":"uint256"},{"name":"","type":"uint256"}]}
]`

// roundABIJSON covers the option round contract getters.
const roundABIJSON = `[
	{"type":"function","name":"get_state","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"get_reserve_price","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"get_auction_start_date","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"uint64"}]},
	{"type":"function","name":"get_auction_end_date","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"uint64"}]},
	{"type":"function","name":"get_option_settlement_date","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"uint64"}]}
]`

// Method names, shared with tests that fake the contracts.
const (
	MethodCurrentRoundID           = "get_current_round_id"
	MethodRoundAddress             = "get_round_address"
	MethodFossilClientAddress      = "get_fossil_client_address"
	MethodRoundDuration            = "get_round_duration"
	MethodRequestToStartFirstRound = "get_request_to_start_first_round"
	MethodRequestToSettleRound     = "get_request_to_settle_round"
	MethodStartAuction             = "start_auction"
	MethodEndAuction               = "end_auction"

	MethodState            = "get_state"
	MethodReservePrice     = "get_reserve_price"
	MethodAuctionStartDate = "get_auction_start_date"
	MethodAuctionEndDate   = "get_auction_end_date"
	MethodSettlementDate   = "get_option_settlement_date"
)

var (
	VaultABI = mustParseABI(vaultABIJSON) //nolint:gochecknoglobals // parsed once
	RoundABI = mustParseABI(roundABIJSON) //nolint:gochecknoglobals // parsed once
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
