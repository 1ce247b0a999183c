// Package updatewarn prints a best-effort notice when the install is behind
// its update channel.
package updatewarn

import (
	"context"
	"io"

	"github.com/fatih/color"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/update"
)

// CheckForUpdate is a seam for tests.
var CheckForUpdate = update.Check

// WarnIfOutdated emits update warnings to stderr when the channel branch has
// moved past the installed commit. It is a best-effort warning and never returns an error.
func WarnIfOutdated(ctx context.Context, opts update.Options, stderr io.Writer) {
	if opts.NoNetwork {
		return
	}
	if stderr == nil {
		stderr = io.Discard
	}

	warnColor := color.New(color.FgYellow)
	status, err := CheckForUpdate(ctx, opts)
	if err != nil {
		return
	}
	if status.RemoteErr != nil {
		if update.IsRateLimitError(status.RemoteErr) {
			return
		}
		_, _ = warnColor.Fprintf(stderr, messages.UpdateWarnCheckFailedFmt, status.RemoteErr)
		return
	}
	switch status.Reason {
	case update.ReasonOutdated:
		_, _ = warnColor.Fprintf(stderr, messages.UpdateWarnOutdatedFmt, status.Branch, status.LocalCommit, status.RemoteCommit)
	case update.ReasonMissingLocalVersion:
		_, _ = warnColor.Fprintf(stderr, messages.UpdateWarnUnknownLocalFmt, status.Branch, status.RemoteCommit)
	}
}
