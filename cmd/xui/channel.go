package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/channel"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/updatewarn"
)

func newChannelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.ChannelUse,
		Short: messages.ChannelShort,
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newChannelShowCmd())
	return cmd
}

func newChannelShowCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   messages.ChannelShowUse,
		Short: messages.ChannelShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("", "")
			if err != nil {
				return err
			}
			home, err := resolveHome(cmd, cfg)
			if err != nil {
				return err
			}
			store := channel.NewStore(home.Data())
			rec, ok, err := store.Read()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				_, _ = fmt.Fprintf(out, messages.ChannelShowMissing, store.Path, channel.DefaultBranch)
			} else {
				_, _ = fmt.Fprintf(out, messages.ChannelShowPlatform, rec.Platform)
				_, _ = fmt.Fprintf(out, messages.ChannelShowBranch, rec.Branch)
				_, _ = fmt.Fprintf(out, messages.ChannelShowRepo, rec.Repo)
				_, _ = fmt.Fprintf(out, messages.ChannelShowSource, rec.SourceDir)
				_, _ = fmt.Fprintf(out, messages.ChannelShowUpdated, time.Unix(rec.UpdatedAtEpoch, 0).UTC().Format(time.RFC3339))
			}
			if check {
				updatewarn.WarnIfOutdated(cmd.Context(), updateStatusOptions(cfg, home), cmd.ErrOrStderr())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, messages.ChannelFlagCheck)
	return cmd
}
