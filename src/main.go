package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personal/discord_state/src/client"
	"personal/discord_state/src/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	envFile string
	logger  *zap.Logger
	cfg     config.Config

	definitionsPath string
	dryRun          bool
	enforceOrder    bool
)

var rootCmd = &cobra.Command{
	Use:           "discord_state",
	Short:         "Discord gateway client that keeps a local entity cache",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return err
		}

		zapConfig := zap.NewProductionConfig()
		if cfg.LogLevel == "debug" {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Connect to the gateway and keep the cache up to date",
	RunE:  runGateway,
}

var syncCommandsCmd = &cobra.Command{
	Use:   "sync-commands",
	Short: "Register the global commands described in a definitions file",
	Long: `Compares the definitions file with the registered global commands and
overwrites them when anything differs.

Example:
  discord_state sync-commands --file commands.yaml --dry-run`,
	RunE: runSyncCommands,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")

	syncCommandsCmd.Flags().StringVarP(&definitionsPath, "file", "f", "commands.yaml", "command definitions file")
	syncCommandsCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without registering anything")
	syncCommandsCmd.Flags().BoolVar(&enforceOrder, "enforce-order", false, "treat option and choice order as significant")

	rootCmd.AddCommand(gatewayCmd, syncCommandsCmd)
}

func newClient() *client.Client {
	return client.New(client.Options{
		Token:         cfg.Token,
		ApplicationID: client.Snowflake(cfg.ApplicationID),
		APIURL:        cfg.APIURL,
		Logger:        logger,
	})
}

func runGateway(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot := newClient()
	defer bot.Disconnect()

	for {
		err := bot.ConnectToGateway(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, client.ErrReconnectRequested),
			errors.Is(err, client.ErrInvalidSession),
			errors.Is(err, client.ErrHeartbeatNotAcked),
			errors.Is(err, client.ErrConnectionLost):
			logger.Info("reconnecting to gateway", zap.Error(err))
		default:
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Second):
		}
	}
}

func runSyncCommands(cmd *cobra.Command, args []string) error {
	f, err := os.Open(definitionsPath)
	if err != nil {
		return fmt.Errorf("could not open definitions: %w", err)
	}
	defer f.Close()

	defs, err := client.LoadCommandDefinitions(f)
	if err != nil {
		return err
	}

	plan, err := newClient().SyncCommands(cmd.Context(), defs, client.SyncOptions{
		DryRun:       dryRun,
		EnforceOrder: enforceOrder,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, group := range []struct {
		label string
		names []string
	}{
		{"create", plan.Create},
		{"update", plan.Update},
		{"delete", plan.Delete},
		{"unchanged", plan.Unchanged},
	} {
		for _, name := range group.names {
			fmt.Fprintf(out, "%-9s %s\n", group.label, name)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
