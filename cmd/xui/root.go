package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/config"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

const (
	flagHome   = "home"
	flagConfig = "config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolP("version", "v", false, messages.RootVersionFlag)
	cmd.PersistentFlags().String(flagHome, "", messages.RootFlagHome)

	cmd.AddCommand(
		newInstallCmd(),
		newBundleCmd(),
		newExtractCmd(),
		newUpdateCmd(),
		newDoctorCmd(),
		newChannelCmd(),
	)
	return cmd
}

// loadConfig reads path when set. Otherwise fallback is read when it exists,
// and the defaults are used when it does not. Environment overrides are applied
// last.
func loadConfig(path string, fallback string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case path != "":
		expanded, expandErr := config.ExpandPath(path, "")
		if expandErr != nil {
			return nil, expandErr
		}
		cfg, err = config.Load(expanded)
	case fallback != "":
		cfg, _, err = config.LoadOptional(fallback)
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// resolveHome returns the application home from --home, falling back to the
// configured home.
func resolveHome(cmd *cobra.Command, cfg *config.Config) (manifest.Home, error) {
	root := cfg.Install.Home
	if v, err := cmd.Flags().GetString(flagHome); err == nil && v != "" {
		root = v
	}
	expanded, err := config.ExpandPath(root, "")
	if err != nil {
		return manifest.Home{}, err
	}
	return manifest.NewHome(expanded)
}
