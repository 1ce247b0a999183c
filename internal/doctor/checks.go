// Package doctor runs post-install health checks against an application home.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/channel"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/config"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/interpreter"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/launchers"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/payload"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/update"
)

// Status is the outcome of a single check.
type Status string

// Check statuses.
const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Result is one reported check line.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}

// HasFailure reports whether any result failed.
func HasFailure(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

var loadEnvFunc = config.LoadEnv

// CheckStructure verifies that the home subdirectories exist.
func CheckStructure(home manifest.Home) []Result {
	var results []Result
	for _, dir := range home.Dirs() {
		rel := relPathForDoctor(home.Root, dir)
		info, err := os.Stat(dir)
		if err != nil {
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameStructure,
				Message:        fmt.Sprintf(messages.DoctorMissingRequiredDirFmt, rel),
				Recommendation: messages.DoctorReinstallRecommend,
			})
			continue
		}
		if !info.IsDir() {
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameStructure,
				Message:        fmt.Sprintf(messages.DoctorPathNotDirFmt, rel),
				Recommendation: messages.DoctorPathNotDirRecommend,
			})
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameStructure,
			Message:   fmt.Sprintf(messages.DoctorDirExistsFmt, rel),
		})
	}
	return results
}

// CheckFiles verifies deployed manifest entries. A missing core entry fails;
// a missing required entry warns; optional entries are not reported.
func CheckFiles(m *manifest.Manifest, home manifest.Home) []Result {
	var results []Result
	present := 0
	for _, e := range m.Resolve(home) {
		if _, err := os.Stat(e.DestinationPath); err == nil {
			present++
			continue
		}
		rel := relPathForDoctor(home.Root, e.DestinationPath)
		switch {
		case e.Core:
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameFiles,
				Message:        fmt.Sprintf(messages.DoctorCoreFileMissingFmt, rel),
				Recommendation: messages.DoctorReinstallRecommend,
			})
		case e.Required:
			results = append(results, Result{
				Status:         StatusWarn,
				CheckName:      messages.DoctorCheckNameFiles,
				Message:        fmt.Sprintf(messages.DoctorRequiredFileMissingFmt, rel),
				Recommendation: messages.DoctorReinstallRecommend,
			})
		}
	}
	if len(results) == 0 {
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameFiles,
			Message:   fmt.Sprintf(messages.DoctorFilesPresentFmt, present),
		})
	}
	return results
}

// CheckLaunchers verifies that the native entry point exists.
func CheckLaunchers(home manifest.Home, goos string) Result {
	path := launchers.LauncherPaths(home).Native(goos)
	if _, err := os.Stat(path); err != nil {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameLaunchers,
			Message:        fmt.Sprintf(messages.DoctorLauncherMissingFmt, relPathForDoctor(home.Root, path)),
			Recommendation: messages.DoctorReinstallRecommend,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameLaunchers,
		Message:   fmt.Sprintf(messages.DoctorLauncherPresentFmt, relPathForDoctor(home.Root, path)),
	}
}

// CheckChannel verifies the channel record is present and readable.
func CheckChannel(home manifest.Home) Result {
	rec, ok, err := channel.NewStore(home.Data()).Read()
	switch {
	case err != nil:
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameChannel,
			Message:        fmt.Sprintf(messages.DoctorChannelUnreadableFmt, err),
			Recommendation: messages.DoctorReinstallRecommend,
		}
	case !ok:
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameChannel,
			Message:        messages.DoctorChannelMissing,
			Recommendation: messages.DoctorReinstallRecommend,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameChannel,
		Message:   fmt.Sprintf(messages.DoctorChannelOKFmt, rec.Branch, rec.Platform),
	}
}

// CheckRuntime resolves a runtime through r.
func CheckRuntime(ctx context.Context, r *interpreter.Resolver) Result {
	rt, err := r.Resolve(ctx)
	if err != nil {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameRuntime,
			Message:        err.Error(),
			Recommendation: messages.DoctorRuntimeRecommend,
		}
	}
	msg := fmt.Sprintf(messages.DoctorRuntimeFoundFmt, rt.String())
	if rt.Version != "" {
		msg = fmt.Sprintf(messages.DoctorRuntimeFoundVersionFmt, rt.String(), rt.Version)
	}
	return Result{Status: StatusOK, CheckName: messages.DoctorCheckNameRuntime, Message: msg}
}

// CheckEnvFile verifies that the launcher env file parses and points at home.
func CheckEnvFile(home manifest.Home) Result {
	path := launchers.EnvFilePath(home)
	env, err := loadEnvFunc(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{
				Status:         StatusWarn,
				CheckName:      messages.DoctorCheckNameEnv,
				Message:        fmt.Sprintf(messages.DoctorEnvMissingFmt, relPathForDoctor(home.Root, path)),
				Recommendation: messages.DoctorReinstallRecommend,
			}
		}
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameEnv,
			Message:        err.Error(),
			Recommendation: fmt.Sprintf(messages.DoctorEnvInvalidRecommendFmt, path),
		}
	}
	if got := env[launchers.EnvHome]; got != "" && filepath.Clean(got) != filepath.Clean(home.Root) {
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameEnv,
			Message:        fmt.Sprintf(messages.DoctorEnvHomeMismatchFmt, launchers.EnvHome, got, home.Root),
			Recommendation: fmt.Sprintf(messages.DoctorEnvInvalidRecommendFmt, path),
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameEnv,
		Message:   fmt.Sprintf(messages.DoctorEnvOKFmt, len(env)),
	}
}

// CheckUpdate summarizes an update status. noNetwork reports a skipped check.
func CheckUpdate(status update.Status, noNetwork bool) Result {
	r := Result{CheckName: messages.DoctorCheckNameUpdate, Status: StatusWarn}
	switch {
	case noNetwork:
		r.Message = fmt.Sprintf(messages.DoctorUpdateSkippedFmt, config.EnvNoNetwork)
	case status.RemoteErr != nil && update.IsRateLimitError(status.RemoteErr):
		r.Message = messages.DoctorUpdateRateLimited
	case status.RemoteErr != nil:
		r.Message = fmt.Sprintf(messages.DoctorUpdateFailedFmt, status.RemoteErr)
		r.Recommendation = messages.DoctorUpdateFailedRecommend
	case status.UpdateRequired:
		r.Message = fmt.Sprintf(messages.DoctorUpdateRequiredFmt, status.Branch, status.Reason)
		r.Recommendation = messages.DoctorUpdateRequiredRecommend
	default:
		r.Status = StatusOK
		r.Message = fmt.Sprintf(messages.DoctorUpToDateFmt, status.Branch)
	}
	return r
}

// CheckDrift compares deployed payload entries with the copies left in the
// staging directory by the last install. Entries edited since then warn;
// entries missing on either side are left to CheckFiles.
func CheckDrift(m *manifest.Manifest, home manifest.Home) []Result {
	staging := home.StagingDir()
	if _, err := os.Stat(staging); err != nil {
		return []Result{{Status: StatusOK, CheckName: messages.DoctorCheckNameDrift, Message: messages.DoctorDriftNoStaging}}
	}
	if err := payload.Verify(staging); err != nil {
		return []Result{{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameDrift,
			Message:        messages.DoctorDriftIncomplete,
			Recommendation: messages.DoctorReinstallRecommend,
		}}
	}

	var results []Result
	matched := 0
	for _, e := range m.Resolve(home) {
		if e.Origin != manifest.OriginPayload {
			continue
		}
		staged, err := os.ReadFile(filepath.Join(staging, e.Source))
		if err != nil {
			continue
		}
		deployed, err := os.ReadFile(e.DestinationPath)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		rel := relPathForDoctor(home.Root, e.DestinationPath)
		if err != nil {
			results = append(results, Result{
				Status:    StatusWarn,
				CheckName: messages.DoctorCheckNameDrift,
				Message:   fmt.Sprintf(messages.DoctorDriftReadFailedFmt, rel, err),
			})
			continue
		}
		diff := strings.TrimSpace(udiff.Unified(
			fmt.Sprintf(messages.DoctorDriftStagedLabelFmt, e.Source),
			fmt.Sprintf(messages.DoctorDriftDeployedLabelFmt, rel),
			string(staged),
			string(deployed),
		))
		if diff == "" {
			matched++
			continue
		}
		added, removed := countChanges(diff)
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameDrift,
			Message:        fmt.Sprintf(messages.DoctorDriftModifiedFmt, rel, added, removed),
			Recommendation: messages.DoctorDriftModifiedRecommend,
		})
	}
	if len(results) == 0 {
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameDrift,
			Message:   fmt.Sprintf(messages.DoctorDriftMatchFmt, matched),
		})
	}
	return results
}

// countChanges counts added and removed lines in a unified diff.
func countChanges(diff string) (added, removed int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}

func relPathForDoctor(root string, path string) string {
	if strings.TrimSpace(root) == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
