package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zatekoja/careassist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/careassist/backend/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// app carries configuration shared by all subcommands
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "hospitals",
		Short:        "Find nearby hospitals and driving times",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			observability.InitLoggerWithWriter(cmd.ErrOrStderr(), "careassist-cli", cfg.Environment)
			return nil
		},
	}
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a .env file")

	rootCmd.AddCommand(a.nearbyCmd())
	rootCmd.AddCommand(a.routeCmd())
	rootCmd.AddCommand(a.sessionsCmd())
	rootCmd.AddCommand(a.authCmd())

	return rootCmd
}
