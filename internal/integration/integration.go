// Package integration applies best-effort host integration: a desktop shortcut
// and an optional login autostart entry. Failures are reported, never raised.
package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/warnings"
)

// Hook names an integration point.
type Hook string

// Hooks applied by Apply, in order.
const (
	HookShortcut  Hook = "shortcut"
	HookAutostart Hook = "autostart"
)

// Status is the result class of one hook.
type Status string

// Hook statuses.
const (
	StatusApplied  Status = "applied"
	StatusSkipped  Status = "skipped"
	StatusDegraded Status = "degraded"
)

// Outcome reports one hook. Path is the created artifact, when any.
type Outcome struct {
	Hook   Hook
	Status Status
	Path   string
	Err    error
}

// DefaultName is the display name used for shortcuts and autostart entries.
const DefaultName = "XUI"

// Options describe what to integrate.
type Options struct {
	Home manifest.Home
	// Launcher is the native entry point the shortcut and autostart entry run.
	Launcher  string
	Autostart bool
	Name      string
	// DesktopDir and AutostartDir override the platform defaults.
	DesktopDir   string
	AutostartDir string
}

// System is the host surface integration needs.
type System interface {
	Run(ctx context.Context, argv []string) ([]byte, error)
	UserHomeDir() (string, error)
	Getenv(key string) string
}

// RealSystem implements System with the OS.
type RealSystem struct{}

// Run executes argv and returns its combined output.
func (RealSystem) Run(ctx context.Context, argv []string) ([]byte, error) {
	return exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
}

// UserHomeDir returns the current user's home directory.
func (RealSystem) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

// Getenv retrieves the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}

// Result is the outcome of Apply.
type Result struct {
	Outcomes []Outcome
	Warnings []warnings.Warning
}

// Hooks applies integration with the host.
type Hooks struct {
	System System
	Log    logrus.FieldLogger
}

// errSkipped marks a hook that found nothing to integrate with.
var errSkipped = errors.New(messages.IntegrationSkipped)

func (h Hooks) sys() System {
	if h.System != nil {
		return h.System
	}
	return RealSystem{}
}

func (h Hooks) log() logrus.FieldLogger {
	if h.Log != nil {
		return h.Log
	}
	return logrus.StandardLogger()
}

// Apply runs every hook and contains their failures into degraded outcomes.
func (h Hooks) Apply(ctx context.Context, opts Options) Result {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	var res Result

	path, err := h.createShortcut(ctx, opts)
	res.add(h.log(), HookShortcut, path, err, warnings.CodeIntegrationShortcutFailed, messages.IntegrationShortcutFailedFmt)

	if !opts.Autostart {
		res.Outcomes = append(res.Outcomes, Outcome{Hook: HookAutostart, Status: StatusSkipped})
		return res
	}
	path, err = h.enableAutostart(ctx, opts)
	res.add(h.log(), HookAutostart, path, err, warnings.CodeIntegrationAutostartFailed, messages.IntegrationAutostartFailedFmt)
	return res
}

func (r *Result) add(log logrus.FieldLogger, hook Hook, path string, err error, code string, format string) {
	entry := log.WithField("hook", string(hook))
	switch {
	case err == nil:
		entry.WithField("path", path).Info("integration applied")
		r.Outcomes = append(r.Outcomes, Outcome{Hook: hook, Status: StatusApplied, Path: path})
	case errors.Is(err, errSkipped):
		entry.WithField("reason", err.Error()).Info("integration skipped")
		r.Outcomes = append(r.Outcomes, Outcome{Hook: hook, Status: StatusSkipped, Path: path})
	default:
		entry.WithError(err).Warn("integration failed")
		r.Outcomes = append(r.Outcomes, Outcome{Hook: hook, Status: StatusDegraded, Path: path, Err: err})
		r.Warnings = append(r.Warnings, warnings.Warning{
			Code:              code,
			Subject:           string(hook),
			Message:           fmt.Sprintf(format, err),
			Fix:               messages.IntegrationFix,
			Source:            warnings.SourceHost,
			Severity:          warnings.SeverityWarning,
			NoiseSuppressible: true,
		})
	}
}

var iconCandidates = []string{"xui.ico", "xui.png", "logo.ico", "logo.png"}

// resolveIcon returns the first icon found in the home assets, or "".
func resolveIcon(home manifest.Home, preferred ...string) string {
	for _, name := range append(preferred, iconCandidates...) {
		p := filepath.Join(home.Assets(), name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// desktopDir returns the override or the user's Desktop directory. A missing
// directory skips the shortcut.
func (h Hooks) desktopDir(opts Options) (string, error) {
	dir := opts.DesktopDir
	if dir == "" {
		dir = h.sys().Getenv("XDG_DESKTOP_DIR")
	}
	if dir == "" {
		home, err := h.sys().UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, "Desktop")
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", errSkipped, fmt.Sprintf(messages.IntegrationNoDesktopFmt, dir))
	}
	return dir, nil
}
