package deploy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/fsutil"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/warnings"
)

// CollisionPolicy decides which file wins when several asset directories hold
// the same file name.
type CollisionPolicy string

// Collision policies.
const (
	LastWins        CollisionPolicy = "last-wins"
	FirstWins       CollisionPolicy = "first-wins"
	FailOnCollision CollisionPolicy = "error"
)

// ErrAssetCollision is returned under the error policy when names collide.
var ErrAssetCollision = errors.New(messages.DeployAssetCollision)

// ParseCollisionPolicy accepts the policy names; empty selects LastWins.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.TrimSpace(s)) {
	case "", LastWins:
		return LastWins, nil
	case FirstWins:
		return FirstWins, nil
	case FailOnCollision:
		return FailOnCollision, nil
	default:
		return "", fmt.Errorf(messages.DeployInvalidCollisionPolicyFmt, s)
	}
}

var mediaExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".svg": {}, ".ico": {}, ".bmp": {}, ".webp": {},
	".mp3": {}, ".wav": {}, ".ogg": {}, ".mp4": {}, ".webm": {},
}

// IsMedia reports whether name has a recognized asset extension.
func IsMedia(name string) bool {
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Collision records one file name found in more than one source directory.
type Collision struct {
	Name    string
	Sources []string
	Winner  string
}

// AssetReport summarizes one SyncAssets call.
type AssetReport struct {
	Copied     []string
	Collisions []Collision
	Warnings   []warnings.Warning
}

// SyncAssets copies media files found directly inside each of sourceDirs into
// destDir, by file name. Directories are scanned in order; absent ones are
// skipped. Copy failures are collected into a single warning.
func (d Deployer) SyncAssets(sourceDirs []string, destDir string, policy CollisionPolicy) (AssetReport, error) {
	if policy == "" {
		policy = LastWins
	}
	chosen := map[string]string{}
	seen := map[string][]string{}
	for _, dir := range sourceDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			d.log().WithField("dir", dir).Debug("asset source not readable, skipping")
			continue
		}
		for _, e := range entries {
			if !e.Type().IsRegular() || !IsMedia(e.Name()) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			seen[e.Name()] = append(seen[e.Name()], path)
			if _, exists := chosen[e.Name()]; exists && policy == FirstWins {
				continue
			}
			chosen[e.Name()] = path
		}
	}

	names := make([]string, 0, len(chosen))
	for name := range chosen {
		names = append(names, name)
	}
	sort.Strings(names)

	var report AssetReport
	for _, name := range names {
		if len(seen[name]) > 1 {
			report.Collisions = append(report.Collisions, Collision{Name: name, Sources: seen[name], Winner: chosen[name]})
		}
	}
	if policy == FailOnCollision && len(report.Collisions) > 0 {
		collided := make([]string, 0, len(report.Collisions))
		for _, c := range report.Collisions {
			collided = append(collided, c.Name)
		}
		return report, fmt.Errorf("%w: %s", ErrAssetCollision, strings.Join(collided, ", "))
	}
	if len(names) == 0 {
		return report, nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return report, fmt.Errorf(messages.DeployCreateAssetDirFmt, destDir, err)
	}
	var errs *multierror.Error
	for _, name := range names {
		dst := filepath.Join(destDir, name)
		if err := fsutil.CopyFile(chosen[name], dst, 0); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		report.Copied = append(report.Copied, name)
	}
	for _, c := range report.Collisions {
		d.log().WithFields(logrus.Fields{"asset": c.Name, "winner": c.Winner, "policy": string(policy)}).Info("asset name collision")
	}
	if err := errs.ErrorOrNil(); err != nil {
		details := make([]string, 0, len(errs.Errors))
		for _, e := range errs.Errors {
			details = append(details, e.Error())
		}
		report.Warnings = append(report.Warnings, warnings.Warning{
			Code:              warnings.CodeAssetSyncFailed,
			Subject:           destDir,
			Message:           fmt.Sprintf(messages.DeployAssetSyncFailedFmt, len(errs.Errors)),
			Details:           details,
			Source:            warnings.SourceHost,
			Severity:          warnings.SeverityWarning,
			NoiseSuppressible: true,
		})
	}
	return report, nil
}
