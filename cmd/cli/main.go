package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nuriabp/ambulatori-rota/cmd/cli/commands"
	"github.com/nuriabp/ambulatori-rota/internal/config"
	"github.com/nuriabp/ambulatori-rota/pkg/utils/logging"
)

var (
	configPath string
	verbose    bool
	app        *commands.AppContext
)

func main() {
	app = &commands.AppContext{}

	rootCmd := &cobra.Command{
		Use:   "ambulatori-rota",
		Short: "Duty roster generator for the nursing team",
		Long:  "Generates daily duty rosters over a calendar range, balancing workload fairly while honoring part-time rules, manual overrides and weekly activity regimes.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the clinic config file (default: clinic_config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug output on the console")

	rootCmd.AddCommand(commands.GenerateCmd(app))
	rootCmd.AddCommand(commands.ValidateCmd(app))
	rootCmd.AddCommand(commands.HoursCmd(app))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func initApp() error {
	logger, err := logging.InitLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Cfg = cfg
	app.Logger = logger
	app.Ctx = context.Background()
	return nil
}
