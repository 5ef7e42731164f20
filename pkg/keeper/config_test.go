package keeper_test

import (
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-labs/world-engine/keeper/pkg/keeper"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	t.Setenv("RPC_URL", "http://localhost:8545")
	t.Setenv("PRIVATE_KEY", hexutil.Encode(crypto.FromECDSA(key)))
	t.Setenv("ACCOUNT_ADDRESS", crypto.PubkeyToAddress(key.PublicKey).Hex())
	t.Setenv("VAULT_ADDRESSES", "0x1111111111111111111111111111111111111111, 0x2222222222222222222222222222222222222222,")
	t.Setenv("FOSSIL_API_KEY", "key")
	t.Setenv("FOSSIL_API_URL", "https://fossil.example.com")
}

func TestLoadConfigDefaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := keeper.LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, keeper.DefaultCronSchedule, cfg.CronSchedule)
	assert.Equal(t, 30*time.Second, cfg.FossilHTTPTimeout)
	assert.InDelta(t, 5.0, cfg.FossilRequestsPerSec, 0)
	assert.Zero(t, cfg.TxConfirmTimeout)
	assert.Zero(t, cfg.HorizonStallWarnAfter)
	assert.Zero(t, cfg.ChainID)

	vaults, err := cfg.Vaults()
	require.NoError(t, err)
	require.Len(t, vaults, 2)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", vaults[0].Hex())
}

func TestLoadConfigFallsBackToStarknetNames(t *testing.T) {
	setValidEnv(t)
	key := os.Getenv("PRIVATE_KEY")
	account := os.Getenv("ACCOUNT_ADDRESS")
	t.Setenv("RPC_URL", "")
	t.Setenv("PRIVATE_KEY", "")
	t.Setenv("ACCOUNT_ADDRESS", "")
	t.Setenv("STARKNET_RPC", "http://legacy:8545")
	t.Setenv("STARKNET_PRIVATE_KEY", key)
	t.Setenv("STARKNET_ACCOUNT_ADDRESS", account)

	cfg, err := keeper.LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://legacy:8545", cfg.RPCURL)
	assert.Equal(t, key, cfg.PrivateKey)
	assert.Equal(t, account, cfg.AccountAddress)

	t.Setenv("RPC_URL", "http://current:8545")
	cfg, err = keeper.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://current:8545", cfg.RPCURL)
}

func TestConfigValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing rpc", "RPC_URL", ""},
		{"missing api key", "FOSSIL_API_KEY", " "},
		{"bad vault", "VAULT_ADDRESSES", "0x1234"},
		{"no vaults", "VAULT_ADDRESSES", ","},
		{"duplicate vault", "VAULT_ADDRESSES",
			"0x1111111111111111111111111111111111111111,0x1111111111111111111111111111111111111111"},
		{"account mismatch", "ACCOUNT_ADDRESS", "0x9999999999999999999999999999999999999999"},
		{"bad key", "PRIVATE_KEY", "0xzz"},
		{"bad cron", "CRON_SCHEDULE", "every five minutes"},
		{"zero timeout", "FOSSIL_HTTP_TIMEOUT", "0s"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setValidEnv(t)
			t.Setenv(tc.key, tc.val)

			cfg, err := keeper.LoadConfig()
			require.NoError(t, err)
			require.Error(t, cfg.Validate())
		})
	}
}
