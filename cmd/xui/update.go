package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/config"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/update"
)

var checkUpdate = update.Check

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.UpdateUse,
		Short: messages.UpdateShort,
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newUpdateStatusCmd())
	return cmd
}

func newUpdateStatusCmd() *cobra.Command {
	var (
		asJSON     bool
		configPath string
	)
	cmd := &cobra.Command{
		Use:   messages.UpdateStatusUse,
		Short: messages.UpdateStatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, "")
			if err != nil {
				return err
			}
			home, err := resolveHome(cmd, cfg)
			if err != nil {
				return err
			}
			status, err := updateStatus(cmd.Context(), cfg, home)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(status); err != nil {
					return err
				}
			} else if err := update.WriteText(out, status); err != nil {
				return err
			}
			if code := status.ExitCode(); code != 0 {
				return &SilentExitError{Code: code}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, messages.UpdateStatusFlagJSON)
	cmd.Flags().StringVar(&configPath, flagConfig, "", messages.UpdateFlagConfig)
	return cmd
}

// updateStatusOptions builds the check options. Branch and repo overrides come
// only from the environment so the channel record chosen at install time wins
// over config defaults.
func updateStatusOptions(cfg *config.Config, home manifest.Home) update.Options {
	return update.Options{
		DataDir:   home.Data(),
		Branch:    strings.TrimSpace(os.Getenv(config.EnvUpdateBranch)),
		Repo:      strings.TrimSpace(os.Getenv(config.EnvUpdateRepo)),
		NoNetwork: cfg.Update.NoNetwork,
		Timeout:   time.Duration(cfg.Update.TimeoutSeconds) * time.Second,
	}
}

func updateStatus(ctx context.Context, cfg *config.Config, home manifest.Home) (update.Status, error) {
	return checkUpdate(ctx, updateStatusOptions(cfg, home))
}
