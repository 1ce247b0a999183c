package warnings

import (
	"fmt"
	"slices"
	"strings"
)

// Warning codes.
const (
	CodeDeployRequiredMissing      = "DEPLOY_REQUIRED_MISSING"
	CodeDeployCopyFailed           = "DEPLOY_COPY_FAILED"
	CodeAssetSyncFailed            = "ASSET_SYNC_FAILED"
	CodeDepsPipUpgradeFailed       = "DEPS_PIP_UPGRADE_FAILED"
	CodeDepsInstallFailed          = "DEPS_INSTALL_FAILED"
	CodeDepsUserBaseUnavailable    = "DEPS_USER_BASE_UNAVAILABLE"
	CodeIntegrationShortcutFailed  = "INTEGRATION_SHORTCUT_FAILED"
	CodeIntegrationAutostartFailed = "INTEGRATION_AUTOSTART_FAILED"
	CodeLaunchersWriteFailed       = "LAUNCHERS_WRITE_FAILED"
	CodeLauncherEnvWriteFailed     = "LAUNCHER_ENV_WRITE_FAILED"
	CodeWarningNoiseModeInvalid    = "WARNING_NOISE_MODE_INVALID"
)

// Source labels where a warning originates.
const (
	SourceInternal           = "internal"
	SourceHost               = "host"
	SourceExternalDependency = "external dependency"
)

// Severity labels whether a warning should be considered critical.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Warning represents a degraded-but-continuing condition reported by a stage.
type Warning struct {
	Code     string
	Subject  string
	Message  string
	Fix      string
	Details  []string
	Source   string
	Severity string
	// NoiseSuppressible lets reduce mode hide the warning unless it is critical.
	NoiseSuppressible bool
}

// String renders w as a block: a headline followed by indented fields.
func (w Warning) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "WARNING %s: %s\n", w.Code, w.Message)
	fmt.Fprintf(&b, "  source: %s\n  severity: %s\n  subject: %s", w.sourceOrDefault(), w.severityOrDefault(), w.Subject)
	if w.Fix != "" {
		fmt.Fprintf(&b, "\n  fix: %s", w.Fix)
	}
	for _, d := range w.Details {
		fmt.Fprintf(&b, "\n  details: %s", d)
	}
	return b.String()
}

func (w Warning) sourceOrDefault() string {
	if w.Source == "" {
		return SourceInternal
	}
	return w.Source
}

func (w Warning) severityOrDefault() string {
	if w.Severity == "" {
		return SeverityWarning
	}
	return w.Severity
}

// HasCode reports whether any warning in ws carries code.
func HasCode(ws []Warning, code string) bool {
	return slices.ContainsFunc(ws, func(w Warning) bool { return w.Code == code })
}
