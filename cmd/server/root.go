package main

import (
	"fmt"
	"os"

	"github.com/rpggio/shutterboard/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "shutterboard",
		Short: "Photography studio dashboard backed by a published Google Sheet",
		Long: `shutterboard serves a client dashboard built from a published Google Sheet
CSV export, relays chat messages to an automation webhook, and exposes the
same data to AI assistants over MCP.

Running without a subcommand is the same as "shutterboard serve".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return nil
			}
			if err := os.Setenv(config.PathEnv, configPath); err != nil {
				return fmt.Errorf("set config path: %w", err)
			}
			return nil
		},
		RunE: runServe,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides "+config.PathEnv+")")

	cmd.AddCommand(
		newServeCmd(),
		newMCPCmd(),
		newSnapshotCmd(),
		newExportCmd(),
		newAPIKeyCmd(),
	)
	return cmd
}
