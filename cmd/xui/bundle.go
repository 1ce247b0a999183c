package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/bundle"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/config"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/logging"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

var buildBundle = bundle.Build

// bundleLogLevel keeps routine progress off stderr unless asked for.
const bundleLogLevel = "warn"

func newBundleCmd() *cobra.Command {
	var source, output, name, logLevel string
	cmd := &cobra.Command{
		Use:   messages.BundleUse,
		Short: messages.BundleShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveSource(source)
			if err != nil {
				return err
			}
			outDir := filepath.Join(root, "dist")
			if output != "" {
				if outDir, err = config.ExpandPath(output, ""); err != nil {
					return err
				}
			}
			logger, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			if err := logger.AttachWriter(cmd.ErrOrStderr()); err != nil {
				return err
			}
			res, err := buildBundle(bundle.Options{
				SourceRoot: root,
				OutputDir:  outDir,
				Name:       name,
				Log:        logger.Run(),
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, messages.BundleCreatedFmt, res.Archive)
			_, _ = fmt.Fprintf(out, messages.BundleChecksumLineFmt, "blake3", res.Digest)
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", messages.BundleFlagSource)
	cmd.Flags().StringVar(&output, "output", "", messages.BundleFlagOutput)
	cmd.Flags().StringVar(&name, "name", bundle.DefaultName, messages.BundleFlagName)
	cmd.Flags().StringVar(&logLevel, "log-level", bundleLogLevel, messages.BundleFlagLogLevel)
	return cmd
}
