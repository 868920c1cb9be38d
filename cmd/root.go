package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"parkfair/app"
	"parkfair/config"
	"parkfair/infra/logger"
)

var (
	cfgPath       string
	seedOverride  int64
	cycleOverride int
)

var rootCmd = &cobra.Command{
	Use:   "parkfair",
	Short: "Parking-lot emergency-preemption simulator",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.Flags().Int64Var(&seedOverride, "seed", 0, "override the random seed")
	rootCmd.Flags().IntVar(&cycleOverride, "cycles", 0, "override the cycle count")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if seedOverride != 0 {
		cfg.Sim.Seed = seedOverride
	}
	if cycleOverride != 0 {
		cfg.Sim.TotalCycles = cycleOverride
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
