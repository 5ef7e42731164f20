package main

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()

	runCmd, _, err := root.Find([]string{"run"})
	require.NoError(t, err)
	assert.Equal(t, "run", runCmd.Name())
	assert.NotNil(t, runCmd.Flags().Lookup("once"))
	assert.NotNil(t, runCmd.Flags().Lookup("schedule"))
}

func TestRunFailsFastOnMissingConfig(t *testing.T) {
	t.Setenv("RPC_URL", "")

	root := newRootCmd()
	root.SetArgs([]string{"run", "--once"})
	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPC_URL is required")
}

func TestScheduleFlagOverridesEnv(t *testing.T) {
	t.Setenv("RPC_URL", "http://localhost:8545")
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	t.Setenv("PRIVATE_KEY", hexutil.Encode(crypto.FromECDSA(key)))
	t.Setenv("ACCOUNT_ADDRESS", crypto.PubkeyToAddress(key.PublicKey).Hex())
	t.Setenv("VAULT_ADDRESSES", "0x1111111111111111111111111111111111111111")
	t.Setenv("FOSSIL_API_KEY", "key")
	t.Setenv("FOSSIL_API_URL", "https://fossil.example.com")
	t.Setenv("CRON_SCHEDULE", "not a schedule")

	_, err = loadConfig(runFlags{})
	require.Error(t, err)

	cfg, err := loadConfig(runFlags{schedule: "@every 1m"})
	require.NoError(t, err)
	assert.Equal(t, "@every 1m", cfg.CronSchedule)
}
