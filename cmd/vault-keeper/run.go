package main

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/argus-labs/world-engine/keeper/pkg/chain"
	"github.com/argus-labs/world-engine/keeper/pkg/events"
	"github.com/argus-labs/world-engine/keeper/pkg/keeper"
	"github.com/argus-labs/world-engine/keeper/pkg/pricing"
	"github.com/argus-labs/world-engine/keeper/pkg/round"
	"github.com/argus-labs/world-engine/keeper/pkg/scheduler"
	"github.com/argus-labs/world-engine/keeper/pkg/statsd"
	"github.com/argus-labs/world-engine/keeper/pkg/telemetry"
	"github.com/argus-labs/world-engine/keeper/pkg/telemetry/sentry"
)

const (
	serviceName     = "vault-keeper"
	shutdownTimeout = 10 * time.Second
)

type runFlags struct {
	once     bool
	schedule string
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check every configured vault on a cron schedule and advance its current round",
		Long: "Check every configured vault on a cron schedule and advance its current round.\n\n" +
			"Configuration is read from the environment (RPC_URL, PRIVATE_KEY, ACCOUNT_ADDRESS,\n" +
			"VAULT_ADDRESSES, FOSSIL_API_KEY, FOSSIL_API_URL, CRON_SCHEDULE, ...). The chain\n" +
			"connection also accepts STARKNET_RPC, STARKNET_PRIVATE_KEY and STARKNET_ACCOUNT_ADDRESS.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), flags)
		},
	}
	cmd.Flags().BoolVar(&flags.once, "once", false, "run a single tick and exit non-zero if any vault failed")
	cmd.Flags().StringVar(&flags.schedule, "schedule", "",
		"cron schedule overriding CRON_SCHEDULE (default \""+keeper.DefaultCronSchedule+"\")")
	return cmd
}

func loadConfig(flags runFlags) (keeper.Config, error) {
	cfg, err := keeper.LoadConfig()
	if err != nil {
		return keeper.Config{}, err
	}
	if flags.schedule != "" {
		cfg.CronSchedule = flags.schedule
	}
	if err := cfg.Validate(); err != nil {
		return keeper.Config{}, eris.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func run(ctx context.Context, flags runFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	tel, err := telemetry.New(telemetry.Options{ServiceName: serviceName, ServiceVersion: version})
	if err != nil {
		return eris.Wrap(err, "failed to set up telemetry")
	}
	defer shutdownTelemetry(&tel)
	defer sentry.RecoverAndFlush(true)

	log := tel.GetLogger("manager")

	if cfg.StatsdAddress != "" {
		if err := statsd.Init(cfg.StatsdAddress, []string{"service:" + serviceName}); err != nil {
			return eris.Wrap(err, "failed to set up statsd")
		}
		defer func() {
			if err := statsd.Close(); err != nil {
				log.Warn().Err(err).Msg("statsd shutdown error")
			}
		}()
	}

	var sink events.Sink = events.NopSink{}
	if cfg.NATSURL != "" {
		natsSink, err := events.NewNATSSink(cfg.NATSURL, tel.GetLogger("events"))
		if err != nil {
			return err
		}
		sink = natsSink
		defer func() {
			if err := sink.Close(); err != nil {
				log.Warn().Err(err).Msg("event sink shutdown error")
			}
		}()
	}

	monitor, closeChain, err := buildMonitor(ctx, cfg, &tel, sink)
	if err != nil {
		return err
	}
	defer closeChain()

	vaults := make([]string, 0, len(monitor.Vaults()))
	for _, v := range monitor.Vaults() {
		vaults = append(vaults, v.Hex())
	}
	log.Info().Str("version", version).Msg("Starting state transition service")
	log.Info().Strs("vaults", vaults).Msgf("Monitoring %d vaults", len(vaults))

	if flags.once {
		_, err := scheduler.RunOnce(ctx, monitor)
		return err
	}

	log.Info().Str("schedule", cfg.CronSchedule).Msg("Cron schedule")
	s, err := scheduler.New(monitor, cfg.CronSchedule, tel.GetLogger("scheduler"))
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// buildMonitor dials the chain and binds one state machine per vault. All vaults share the
// RPC connection, the signer and the pricing client; none of them hold per vault state.
func buildMonitor(
	ctx context.Context, cfg keeper.Config, tel *telemetry.Telemetry, sink events.Sink,
) (*keeper.VaultMonitor, func(), error) {
	backend, chainID, err := chain.Dial(ctx, cfg.RPCURL, cfg.ChainID)
	if err != nil {
		return nil, nil, err
	}
	fail := func(err error) (*keeper.VaultMonitor, func(), error) {
		backend.Close()
		return nil, nil, err
	}

	key, err := chain.ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return fail(err)
	}
	signer, err := chain.NewSigner(key, chainID)
	if err != nil {
		return fail(err)
	}
	if err := signer.CheckAddress(common.HexToAddress(cfg.AccountAddress)); err != nil {
		return fail(err)
	}

	pricingLog := tel.GetLogger("pricing")
	fossil, err := pricing.NewClient(pricing.ClientOptions{
		BaseURL:           cfg.FossilAPIURL,
		APIKey:            cfg.FossilAPIKey,
		Timeout:           cfg.FossilHTTPTimeout,
		RequestsPerSecond: cfg.FossilRequestsPerSec,
		Logger:            &pricingLog,
	})
	if err != nil {
		return fail(err)
	}

	vaults, err := cfg.Vaults()
	if err != nil {
		return fail(err)
	}
	checkers := make([]keeper.Checker, 0, len(vaults))
	for _, vault := range vaults {
		vaultLog := tel.GetLogger("vault." + round.Label(vault))
		client, err := chain.NewEVMClient(backend, vault, signer,
			chain.WithConfirmTimeout(cfg.TxConfirmTimeout),
			chain.WithLogger(vaultLog),
		)
		if err != nil {
			return fail(err)
		}
		machine, err := keeper.NewRoundStateMachine(keeper.MachineOptions{
			Chain:          client,
			Pricing:        fossil,
			Logger:         &vaultLog,
			Tracer:         tel.Tracer,
			StallWarnAfter: cfg.HorizonStallWarnAfter,
		})
		if err != nil {
			return fail(err)
		}
		checkers = append(checkers, machine)
	}

	monitorLog := tel.GetLogger("manager")
	monitor, err := keeper.NewVaultMonitor(checkers, keeper.MonitorOptions{
		Sink:     sink,
		Reporter: tel,
		Logger:   &monitorLog,
		Tracer:   tel.Tracer,
	})
	if err != nil {
		return fail(err)
	}
	return monitor, backend.Close, nil
}

func shutdownTelemetry(tel *telemetry.Telemetry) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	tel.Logger.Info().Msg("Shutting down")
	if err := tel.Shutdown(ctx); err != nil {
		tel.Logger.Error().Err(err).Msg("telemetry shutdown error")
	}
}
