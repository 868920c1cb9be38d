package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"parkfair/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration file and exit",
	RunE:  checkConfig,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cmd.Printf("config ok: %dx%d grid, %d cycles, liars=%v\n",
		cfg.Sim.GridWidth, cfg.Sim.GridHeight, cfg.Sim.TotalCycles, cfg.Sim.IncludeLiars)
	return nil
}
