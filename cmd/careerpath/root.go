package main

import (
	"fmt"
	"os"

	"github.com/aretw0/careerpath/internal/cli"
	"github.com/aretw0/careerpath/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careerpath",
	Short: "CareerPath plans career transitions with a team of AI agents",
	Long: `CareerPath routes a career question to specialist agents (skills, industry,
learning and resources) and assembles a personalized transition roadmap.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging of agent lifecycle events")
	rootCmd.PersistentFlags().Bool("offline", false, "Run without a language model; every agent uses its fallback")
}

// loadApp reads configuration honoring the persistent flags and bootstraps
// the application.
func loadApp(cmd *cobra.Command) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	offline, _ := cmd.Flags().GetBool("offline")

	getenv := os.Getenv
	if offline {
		getenv = func(key string) string {
			if key == "CAREERPATH_OFFLINE" {
				return "true"
			}
			return os.Getenv(key)
		}
	}

	cfg, err := config.LoadWithEnv(path, getenv)
	if err != nil {
		return nil, err
	}
	return cli.Bootstrap(cfg, cli.AppOptions{Debug: debug})
}
