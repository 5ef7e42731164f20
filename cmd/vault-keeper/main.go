// Command vault-keeper advances the option rounds of a set of vaults: it starts and ends
// auctions when they are due and requests pricing data to open and settle rounds.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/argus-labs/world-engine/keeper/pkg/telemetry"
)

// Set with -ldflags "-X main.version=...".
var version = "dev" //nolint:gochecknoglobals // build metadata

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		log := telemetry.GetGlobalLogger("vault-keeper")
		log.Error().Err(err).Str("trace", eris.ToString(err, true)).Msg("vault-keeper exited with error")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vault-keeper",
		Short:         "Keeps vault option rounds moving through their lifecycle",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	return root
}
