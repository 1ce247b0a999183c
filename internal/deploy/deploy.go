// Package deploy copies staged payload entries into the application home
// according to the deployment manifest.
package deploy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/fsutil"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/payload"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/warnings"
)

// ErrNoCoreFiles is returned by the orchestrator when a deploy placed no core entry.
var ErrNoCoreFiles = errors.New(messages.DeployNoCoreFiles)

// Sources are the two roots a manifest entry can be read from.
type Sources struct {
	Staging    string
	SourceRoot string
}

// Deployed records one copied entry.
type Deployed struct {
	Entry manifest.Entry
	Path  string
}

// Report summarizes one Deploy call.
type Report struct {
	Deployed []Deployed
	// Missing holds required entries whose source was absent.
	Missing []manifest.Entry
	// Skipped holds optional entries whose source was absent.
	Skipped  []manifest.Entry
	Warnings []warnings.Warning
}

// CoreDeployed reports whether at least one core entry was deployed.
func (r Report) CoreDeployed() bool {
	for _, d := range r.Deployed {
		if d.Entry.Core {
			return true
		}
	}
	return false
}

// Deployer places manifest entries into a home.
type Deployer struct {
	Log logrus.FieldLogger
}

func (d Deployer) log() logrus.FieldLogger {
	if d.Log != nil {
		return d.Log
	}
	return logrus.StandardLogger()
}

// Deploy copies every present entry to its destination, overwriting. It refuses
// a staging directory still marked incomplete. Missing or failed entries never
// abort the deploy; they are reported.
func (d Deployer) Deploy(m *manifest.Manifest, home manifest.Home, src Sources) (Report, error) {
	if err := payload.Verify(src.Staging); err != nil {
		return Report{}, err
	}

	var report Report
	for _, e := range m.Resolve(home) {
		from := sourcePath(e.Entry, src)
		log := d.log().WithFields(logrus.Fields{"entry": e.Source, "destination": e.DestinationPath})

		info, err := os.Stat(from)
		if err != nil || !info.Mode().IsRegular() {
			if e.Required {
				log.Warn("required entry missing")
				report.Missing = append(report.Missing, e.Entry)
				report.Warnings = append(report.Warnings, warnings.Warning{
					Code:     warnings.CodeDeployRequiredMissing,
					Subject:  e.Source,
					Message:  fmt.Sprintf(messages.DeployRequiredMissingFmt, e.Source, from),
					Fix:      messages.DeployRequiredMissingFix,
					Source:   warnings.SourceInternal,
					Severity: warnings.SeverityWarning,
				})
			} else {
				log.Info("optional entry not present")
				report.Skipped = append(report.Skipped, e.Entry)
			}
			continue
		}

		if err := copyEntry(from, e); err != nil {
			log.WithError(err).Warn("copy failed")
			report.Warnings = append(report.Warnings, warnings.Warning{
				Code:     warnings.CodeDeployCopyFailed,
				Subject:  e.DestinationPath,
				Message:  fmt.Sprintf(messages.DeployCopyFailedFmt, e.Source, e.DestinationPath),
				Details:  []string{err.Error()},
				Source:   warnings.SourceHost,
				Severity: warnings.SeverityWarning,
			})
			continue
		}
		log.Info("deployed")
		report.Deployed = append(report.Deployed, Deployed{Entry: e.Entry, Path: e.DestinationPath})
	}
	return report, nil
}

func sourcePath(e manifest.Entry, src Sources) string {
	if e.Origin == manifest.OriginSource {
		return filepath.Join(src.SourceRoot, filepath.FromSlash(e.Source))
	}
	return filepath.Join(src.Staging, e.Source)
}

func copyEntry(from string, e manifest.ResolvedEntry) error {
	if err := os.MkdirAll(filepath.Dir(e.DestinationPath), 0o755); err != nil {
		return err
	}
	var perm os.FileMode
	if e.Executable {
		perm = 0o755
	}
	return fsutil.CopyFile(from, e.DestinationPath, perm)
}
