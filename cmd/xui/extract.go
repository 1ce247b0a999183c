package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/payload"
)

// newExtractCmd exposes the builtin extraction routine with the routine exit
// codes, so the binary itself can serve as the extractor script.
func newExtractCmd() *cobra.Command {
	var source, out string
	cmd := &cobra.Command{
		Use:   messages.ExtractUse,
		Short: messages.ExtractShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" || out == "" {
				return errors.New(messages.ExtractArgsMissing)
			}
			m, err := manifest.Load()
			if err != nil {
				return err
			}
			routine := payload.BuiltinRoutine{
				Targets: payload.TargetsFromManifest(m),
				Strict:  true,
				Stdout:  cmd.OutOrStdout(),
			}
			summary, err := routine.Extract(source, out)
			if err != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), err)
				return &SilentExitError{Code: payload.ExitCode(err)}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.ExtractSummaryFmt, summary.Count, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", messages.ExtractFlagSource)
	cmd.Flags().StringVar(&out, "out", "", messages.ExtractFlagOut)
	return cmd
}
