package update

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/channel"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

// StateFileName holds the commit of the last applied update under the data directory.
const StateFileName = "update_state.json"

// ExitUpdateRequired is the process exit code for a required update.
const ExitUpdateRequired = 10

// Status reasons.
const (
	ReasonUpToDate            = "up-to-date"
	ReasonOutdated            = "outdated"
	ReasonMissingLocalVersion = "missing-local-version"
	reasonRemoteUnavailable   = "remote-unavailable:"
)

// State is the persisted update state. Only InstalledCommit is consulted.
type State struct {
	InstalledCommit  string `json:"installed_commit"`
	Branch           string `json:"branch,omitempty"`
	RemoteDate       string `json:"remote_date,omitempty"`
	InstalledAtEpoch int64  `json:"installed_at_epoch,omitempty"`
	SourceDir        string `json:"source_dir,omitempty"`
	Version          int    `json:"version,omitempty"`
}

// Status is the result of one status check. Its JSON form is printed by
// `xui update status --json`.
type Status struct {
	Checked        bool   `json:"checked"`
	Mandatory      bool   `json:"mandatory"`
	UpdateRequired bool   `json:"update_required"`
	Reason         string `json:"reason"`
	Repo           string `json:"repo"`
	Branch         string `json:"branch"`
	LocalCommit    string `json:"local_commit"`
	RemoteCommit   string `json:"remote_commit"`
	RemoteDate     string `json:"remote_date"`
	RemoteURL      string `json:"remote_url"`

	// RemoteErr is the remote lookup failure behind a remote-unavailable reason.
	RemoteErr error `json:"-"`
}

// ExitCode returns ExitUpdateRequired when an update is required and 0 otherwise.
func (s Status) ExitCode() int {
	if s.UpdateRequired {
		return ExitUpdateRequired
	}
	return 0
}

// RemoteUnavailable reports whether the remote head could not be determined.
func (s Status) RemoteUnavailable() bool {
	return strings.HasPrefix(s.Reason, reasonRemoteUnavailable)
}

// System provides the git lookup used when no update state is recorded.
type System interface {
	Stat(name string) (os.FileInfo, error)
	GitHead(ctx context.Context, dir string) (string, error)
}

// RealSystem implements System using the OS and the git binary on PATH.
type RealSystem struct{}

// Stat wraps os.Stat.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// GitHead returns `git -C dir rev-parse HEAD`.
func (RealSystem) GitHead(ctx context.Context, dir string) (string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return "", err
	}
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "HEAD")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

// Options configure a status check.
type Options struct {
	// DataDir is the application data directory holding the channel record and update state.
	DataDir string
	// Branch overrides the channel record branch when non-empty.
	Branch string
	// Repo overrides the channel record repository when non-empty.
	Repo string
	// NoNetwork skips the remote lookup and reports the remote as unavailable.
	NoNetwork bool
	// Timeout bounds the remote lookup. A timed out lookup is reported as
	// remote-unavailable. Zero means no bound beyond ctx.
	Timeout time.Duration
	System  System
}

// Check compares the locally installed commit with the head of the channel
// branch. Local read failures and remote failures are folded into the status;
// only context cancellation is returned as an error.
func Check(ctx context.Context, opts Options) (Status, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	sys := opts.System
	if sys == nil {
		sys = RealSystem{}
	}

	rec, _, _ := channel.NewStore(opts.DataDir).Read()
	status := Status{
		Mandatory: true,
		Repo:      firstNonEmpty(opts.Repo, rec.Repo, channel.DefaultRepo),
		Branch:    firstNonEmpty(opts.Branch, rec.Branch, channel.DefaultBranch),
	}

	status.LocalCommit = readInstalledCommit(filepath.Join(opts.DataDir, StateFileName))
	if status.LocalCommit == "" && rec.SourceDir != "" {
		if _, err := sys.Stat(filepath.Join(rec.SourceDir, ".git")); err == nil {
			if head, err := sys.GitHead(ctx, rec.SourceDir); err == nil {
				status.LocalCommit = head
			}
		}
	}

	if opts.NoNetwork {
		status.Reason = reasonRemoteUnavailable + messages.UpdateNetworkDisabled
		return status, nil
	}
	fetchCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	remote, err := FetchRemoteCommit(fetchCtx, status.Repo, status.Branch)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return status, ctxErr
			}
		}
		status.Reason = reasonRemoteUnavailable + err.Error()
		status.RemoteErr = err
		return status, nil
	}

	status.Checked = true
	status.RemoteCommit = remote.SHA
	status.RemoteDate = remote.Date
	status.RemoteURL = remote.URL
	switch {
	case status.LocalCommit == "":
		status.UpdateRequired = true
		status.Reason = ReasonMissingLocalVersion
	case status.LocalCommit != remote.SHA:
		status.UpdateRequired = true
		status.Reason = ReasonOutdated
	default:
		status.Reason = ReasonUpToDate
	}
	return status, nil
}

// readInstalledCommit returns the recorded commit, or "" when the state file
// is absent or unreadable.
func readInstalledCommit(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return ""
	}
	return strings.TrimSpace(state.InstalledCommit)
}

// WriteText prints the human-readable status report.
func WriteText(w io.Writer, s Status) error {
	lines := []string{
		fmt.Sprintf(messages.UpdateStatusRepoFmt, s.Repo),
		fmt.Sprintf(messages.UpdateStatusBranchFmt, s.Branch),
		fmt.Sprintf(messages.UpdateStatusCheckedFmt, yesNo(s.Checked)),
		fmt.Sprintf(messages.UpdateStatusMandatoryFmt, yesNo(s.Mandatory)),
		fmt.Sprintf(messages.UpdateStatusLocalCommitFmt, firstNonEmpty(s.LocalCommit, messages.UpdateStatusNone)),
		fmt.Sprintf(messages.UpdateStatusRemoteCommitFmt, firstNonEmpty(s.RemoteCommit, messages.UpdateStatusUnknown)),
	}
	if s.RemoteDate != "" {
		lines = append(lines, fmt.Sprintf(messages.UpdateStatusRemoteDateFmt, s.RemoteDate))
	}
	if s.RemoteURL != "" {
		lines = append(lines, fmt.Sprintf(messages.UpdateStatusRemoteURLFmt, s.RemoteURL))
	}
	lines = append(lines,
		fmt.Sprintf(messages.UpdateStatusRequiredFmt, yesNo(s.UpdateRequired)),
		fmt.Sprintf(messages.UpdateStatusReasonFmt, s.Reason),
	)
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
