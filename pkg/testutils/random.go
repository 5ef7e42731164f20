package testutils

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var Seed uint64 //nolint:gochecknoglobals // intentionally global for test reproducibility

func init() { //nolint:gochecknoinits // intentionally using init to set seed
	Seed = uint64(time.Now().UnixNano()) //nolint:gosec // it's ok
	if envSeed := os.Getenv("TEST_SEED"); envSeed != "" {
		parsed, err := strconv.ParseUint(envSeed, 0, 64)
		if err == nil { // Only set using the env if it's valid
			Seed = parsed
		}
	}
	fmt.Printf("to reproduce: TEST_SEED=0x%x\n", Seed) //nolint:forbidigo // just for testing
}

func NewRand(t *testing.T) *rand.Rand {
	t.Helper()
	return rand.New(rand.NewPCG(Seed, Seed)) //nolint:gosec // weak RNG is fine for tests
}

// RandAddress returns a random 20-byte account or contract address.
func RandAddress(r *rand.Rand) common.Address {
	var addr common.Address
	for i := range addr {
		addr[i] = byte(r.IntN(256))
	}
	return addr
}

// RandAddresses returns n distinct random addresses.
func RandAddresses(r *rand.Rand, n int) []common.Address {
	seen := make(map[common.Address]struct{}, n)
	out := make([]common.Address, 0, n)
	for len(out) < n {
		addr := RandAddress(r)
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}

// RandTimestamp returns a unix timestamp in [lo, hi].
func RandTimestamp(r *rand.Rand, lo, hi uint64) uint64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Uint64N(hi-lo+1)
}
