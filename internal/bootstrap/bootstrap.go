// Package bootstrap installs the application's runtime dependencies with pip
// and reports the PATH augmentation later invocations need.
package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/interpreter"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/warnings"
)

// DefaultPackages are installed into the user site.
var DefaultPackages = []string{"PyQt5", "PyQtWebEngine", "requests", "psutil"}

// Result is the outcome of one bootstrap run.
type Result struct {
	// Env adds the user scripts directory to PATH for later invocations.
	Env      interpreter.Env
	Warnings []warnings.Warning
}

// Bootstrapper runs pip through a resolved runtime.
type Bootstrapper struct {
	System   interpreter.System
	Packages []string
	Stdout   io.Writer
	Stderr   io.Writer
	Log      logrus.FieldLogger
	// GOOS overrides runtime.GOOS when choosing the scripts directory layout.
	GOOS string
}

func (b Bootstrapper) log() logrus.FieldLogger {
	if b.Log != nil {
		return b.Log
	}
	return logrus.StandardLogger()
}

// Run upgrades pip, installs the packages, and queries the user scripts
// directory. Command failures are returned as warnings; the only error is
// context cancellation.
func (b Bootstrapper) Run(ctx context.Context, rt interpreter.Runtime, env interpreter.Env) (Result, error) {
	sys := b.System
	if sys == nil {
		sys = interpreter.RealSystem{}
	}
	packages := b.Packages
	if len(packages) == 0 {
		packages = DefaultPackages
	}
	var res Result

	steps := []struct {
		args    []string
		code    string
		message string
	}{
		{[]string{"-m", "pip", "install", "--upgrade", "pip"}, warnings.CodeDepsPipUpgradeFailed, messages.BootstrapPipUpgradeFailed},
		{append([]string{"-m", "pip", "install", "--user", "--upgrade"}, packages...), warnings.CodeDepsInstallFailed, fmt.Sprintf(messages.BootstrapInstallFailedFmt, strings.Join(packages, " "))},
	}
	for _, step := range steps {
		log := b.log().WithField("command", rt.String()+" "+strings.Join(step.args, " "))
		code, err := rt.Run(ctx, sys, step.args, env, b.Stdout, b.Stderr)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		if err == nil && code == 0 {
			log.Info("dependency step succeeded")
			continue
		}
		detail := fmt.Sprintf(messages.BootstrapExitCodeFmt, code)
		if err != nil {
			detail = err.Error()
		}
		log.WithField("detail", detail).Warn("dependency step failed")
		res.Warnings = append(res.Warnings, warnings.Warning{
			Code:     step.code,
			Subject:  rt.String(),
			Message:  step.message,
			Fix:      messages.BootstrapFix,
			Details:  []string{detail},
			Source:   warnings.SourceExternalDependency,
			Severity: warnings.SeverityWarning,
		})
	}

	dir, err := b.scriptsDir(ctx, sys, rt, env)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}
	if err != nil {
		b.log().WithError(err).Warn("user scripts directory unavailable")
		res.Warnings = append(res.Warnings, warnings.Warning{
			Code:              warnings.CodeDepsUserBaseUnavailable,
			Subject:           rt.String(),
			Message:           messages.BootstrapUserBaseUnavailable,
			Details:           []string{err.Error()},
			Source:            warnings.SourceExternalDependency,
			Severity:          warnings.SeverityWarning,
			NoiseSuppressible: true,
		})
		return res, nil
	}
	res.Env = interpreter.Env{PathPrepend: []string{dir}}
	return res, nil
}

// scriptsDir asks the runtime where user-installed console scripts live. On
// Windows they sit next to the user site-packages; elsewhere under the user base.
func (b Bootstrapper) scriptsDir(ctx context.Context, sys interpreter.System, rt interpreter.Runtime, env interpreter.Env) (string, error) {
	goos := b.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	flag := "--user-base"
	if goos == "windows" {
		flag = "--user-site"
	}
	var out bytes.Buffer
	code, err := rt.Run(ctx, sys, []string{"-m", "site", flag}, env, &out, io.Discard)
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", fmt.Errorf(messages.BootstrapExitCodeFmt, code)
	}
	value := strings.TrimSpace(out.String())
	if value == "" {
		return "", fmt.Errorf(messages.BootstrapEmptyOutputFmt, flag)
	}
	if goos == "windows" {
		site := strings.TrimRight(value, `\/`)
		if i := strings.LastIndexAny(site, `\/`); i >= 0 {
			site = site[:i]
		}
		return site + `\Scripts`, nil
	}
	return path.Join(value, "bin"), nil
}
