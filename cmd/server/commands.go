package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/shutterboard/internal/config"
	"github.com/rpggio/shutterboard/internal/export"
	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch the sheet once and print the dashboard as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			snap, err := a.dashboard.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch the sheet once and write the dashboard as an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			snap, err := a.dashboard.Refresh(cmd.Context())
			if err != nil {
				return err
			}

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := export.WriteWorkbook(file, *snap); err != nil {
				_ = file.Close()
				return fmt.Errorf("write workbook: %w", err)
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d clients to %s\n", len(snap.Clients), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "shutterboard-clients.xlsx", "output file")
	return cmd
}

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys for the HTTP API and MCP endpoint",
	}
	cmd.AddCommand(newAPIKeyAddCmd())
	return cmd
}

func newAPIKeyAddCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an API key and print its token",
		Long: `Create an API key. The token is printed once; only its hash is stored.

Examples:
  shutterboard apikey add studio-laptop
  shutterboard apikey add claude-desktop --token "$(cat token.txt)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			if token == "" {
				token = newToken()
			}
			key, err := a.keys.Add(cmd.Context(), args[0], token)
			if err != nil {
				return fmt.Errorf("add api key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created key %q (%s)\ntoken: %s\n", key.Name, key.ID, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "use this token instead of generating one")
	return cmd
}

// loadApp wires services for one-shot commands. Logs go to stderr so stdout
// carries only command output.
func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return newApp(cfg, os.Stderr)
}

func newToken() string {
	return "sb_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
