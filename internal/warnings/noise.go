package warnings

import (
	"fmt"
	"slices"
	"strings"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

// Noise modes accepted by warnings.noise_mode.
const (
	NoiseModeDefault = "default"
	NoiseModeReduce  = "reduce"
)

// ApplyNoiseControl filters items for display under mode. Reduce mode drops
// suppressible warnings but never a critical one. An unknown mode keeps
// everything and reports itself as a critical warning.
func ApplyNoiseControl(items []Warning, mode string) []Warning {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", NoiseModeDefault:
		return slices.Clone(items)
	case NoiseModeReduce:
		return slices.DeleteFunc(slices.Clone(items), func(w Warning) bool {
			return w.NoiseSuppressible && w.severityOrDefault() != SeverityCritical
		})
	}
	return append(slices.Clone(items), Warning{
		Code:     CodeWarningNoiseModeInvalid,
		Subject:  "warnings.noise_mode",
		Message:  fmt.Sprintf(messages.WarningsNoiseModeInvalidFmt, mode, NoiseModeDefault, NoiseModeReduce),
		Fix:      messages.WarningsNoiseModeInvalidFix,
		Source:   SourceInternal,
		Severity: SeverityCritical,
	})
}
