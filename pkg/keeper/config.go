package keeper

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"

	"github.com/argus-labs/world-engine/keeper/pkg/chain"
)

const DefaultCronSchedule = "*/5 * * * *"

// Config is the keeper's environment configuration.
type Config struct {
	// RPCURL is the chain JSON-RPC endpoint.
	RPCURL string `env:"RPC_URL"`

	// PrivateKey is the hex encoded key of the account that sends transactions.
	PrivateKey string `env:"PRIVATE_KEY"`

	// AccountAddress must match the address derived from PrivateKey.
	AccountAddress string `env:"ACCOUNT_ADDRESS"`

	// ChainID signs transactions for this chain. Zero queries the node.
	ChainID uint64 `env:"CHAIN_ID" envDefault:"0"`

	// VaultAddresses is the comma separated list of vaults to keep.
	VaultAddresses []string `env:"VAULT_ADDRESSES" envSeparator:","`

	FossilAPIKey string `env:"FOSSIL_API_KEY"`
	FossilAPIURL string `env:"FOSSIL_API_URL"`

	// FossilRequestsPerSec caps requests to the pricing service across all vaults.
	FossilRequestsPerSec float64 `env:"FOSSIL_REQUESTS_PER_SEC" envDefault:"5"`

	FossilHTTPTimeout time.Duration `env:"FOSSIL_HTTP_TIMEOUT" envDefault:"30s"`

	// CronSchedule is a standard five field cron expression.
	CronSchedule string `env:"CRON_SCHEDULE" envDefault:"*/5 * * * *"`

	// TxConfirmTimeout bounds the wait for a transaction receipt. Zero waits indefinitely.
	TxConfirmTimeout time.Duration `env:"TX_CONFIRM_TIMEOUT" envDefault:"0s"`

	// HorizonStallWarnAfter warns when the pricing horizon stays behind for this long.
	// Zero disables the warning.
	HorizonStallWarnAfter time.Duration `env:"HORIZON_STALL_WARN_AFTER" envDefault:"0s"`

	// StatsdAddress is the DataDog agent address. Metrics are off when empty.
	StatsdAddress string `env:"STATSD_ADDRESS"`

	// NATSURL is where check outcomes are published. Publishing is off when empty.
	NATSURL string `env:"NATS_URL"`
}

// LoadConfig parses the configuration from environment variables. Validation is left to the
// caller so command line flags can be applied first.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, eris.Wrap(err, "failed to parse keeper config")
	}
	fallback, err := env.ParseAs[fallbackConfig]()
	if err != nil {
		return Config{}, eris.Wrap(err, "failed to parse keeper config")
	}
	fallback.applyTo(&cfg)
	return cfg, nil
}

// fallbackConfig holds the STARKNET_* names earlier keeper deployments used for the chain
// connection. They are read only when the current name is unset.
type fallbackConfig struct {
	RPCURL         string `env:"STARKNET_RPC"`
	PrivateKey     string `env:"STARKNET_PRIVATE_KEY"`
	AccountAddress string `env:"STARKNET_ACCOUNT_ADDRESS"`
}

func (f fallbackConfig) applyTo(cfg *Config) {
	if cfg.RPCURL == "" {
		cfg.RPCURL = f.RPCURL
	}
	if cfg.PrivateKey == "" {
		cfg.PrivateKey = f.PrivateKey
	}
	if cfg.AccountAddress == "" {
		cfg.AccountAddress = f.AccountAddress
	}
}

// Validate checks that every required value is present and well formed.
func (cfg Config) Validate() error {
	for _, v := range []struct{ name, value string }{
		{"RPC_URL", cfg.RPCURL},
		{"PRIVATE_KEY", cfg.PrivateKey},
		{"ACCOUNT_ADDRESS", cfg.AccountAddress},
		{"FOSSIL_API_KEY", cfg.FossilAPIKey},
		{"FOSSIL_API_URL", cfg.FossilAPIURL},
	} {
		if strings.TrimSpace(v.value) == "" {
			return eris.Errorf("%s is required", v.name)
		}
	}

	if _, err := cfg.Vaults(); err != nil {
		return err
	}

	if !common.IsHexAddress(cfg.AccountAddress) {
		return eris.Errorf("ACCOUNT_ADDRESS %q is not a valid address", cfg.AccountAddress)
	}
	key, err := chain.ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return eris.Wrap(err, "PRIVATE_KEY")
	}
	if derived := crypto.PubkeyToAddress(key.PublicKey); derived != common.HexToAddress(cfg.AccountAddress) {
		return eris.Errorf("PRIVATE_KEY controls %s, not ACCOUNT_ADDRESS %s", derived.Hex(), cfg.AccountAddress)
	}

	if _, err := cron.ParseStandard(cfg.CronSchedule); err != nil {
		return eris.Wrapf(err, "invalid CRON_SCHEDULE %q", cfg.CronSchedule)
	}

	if cfg.FossilHTTPTimeout <= 0 {
		return eris.New("FOSSIL_HTTP_TIMEOUT must be positive")
	}
	if cfg.TxConfirmTimeout < 0 || cfg.HorizonStallWarnAfter < 0 {
		return eris.New("durations cannot be negative")
	}
	return nil
}

// Vaults parses VAULT_ADDRESSES. Empty entries are ignored and duplicates are rejected.
func (cfg Config) Vaults() ([]common.Address, error) {
	var vaults []common.Address
	seen := make(map[common.Address]struct{})
	for _, raw := range cfg.VaultAddresses {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !common.IsHexAddress(raw) {
			return nil, eris.Errorf("VAULT_ADDRESSES entry %q is not a valid address", raw)
		}
		addr := common.HexToAddress(raw)
		if _, dup := seen[addr]; dup {
			return nil, eris.Errorf("VAULT_ADDRESSES lists %s twice", addr.Hex())
		}
		seen[addr] = struct{}{}
		vaults = append(vaults, addr)
	}
	if len(vaults) == 0 {
		return nil, eris.New("VAULT_ADDRESSES must list at least one vault")
	}
	return vaults, nil
}
