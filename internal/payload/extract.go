// Package payload extracts the embedded multi-file payload of the distribution
// artifact into a clean staging directory.
package payload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

// MarkerName is written into staging while extraction is in progress.
const MarkerName = ".incomplete"

// ErrArtifactNotFound is returned when the distribution artifact does not exist.
var ErrArtifactNotFound = errors.New(messages.PayloadArtifactNotFound)

// ErrStagingIncomplete is returned by Verify when the staging marker is present.
var ErrStagingIncomplete = errors.New(messages.PayloadStagingIncomplete)

// ExtractionFailedError reports a non-zero exit from the extraction routine.
type ExtractionFailedError struct {
	ExitCode int
	Err      error
}

func (e *ExtractionFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(messages.PayloadExtractionFailedErrFmt, e.ExitCode, e.Err)
	}
	return fmt.Sprintf(messages.PayloadExtractionFailedFmt, e.ExitCode)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Err
}

// Routine writes the payload of artifact into out and returns its exit status.
// A non-nil error means the routine could not be run at all.
type Routine interface {
	Run(ctx context.Context, artifact string, out string) (int, error)
}

// Extractor drives one extraction into a staging directory.
type Extractor struct {
	Routine Routine
}

// Extract wipes and recreates staging, runs the routine, and returns the names
// of the staged files. The staging directory is removed on any failure after it
// was created. Completeness of the staged set is not checked here.
func (x Extractor) Extract(ctx context.Context, artifact string, staging string) (names []string, err error) {
	if x.Routine == nil {
		return nil, errors.New(messages.PayloadRoutineRequired)
	}
	info, err := os.Stat(artifact)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, artifact)
		}
		return nil, fmt.Errorf(messages.PayloadStatArtifactFmt, artifact, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, artifact)
	}

	if err := os.RemoveAll(staging); err != nil {
		return nil, fmt.Errorf(messages.PayloadResetStagingFmt, staging, err)
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, fmt.Errorf(messages.PayloadResetStagingFmt, staging, err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(staging)
		}
	}()
	marker := filepath.Join(staging, MarkerName)
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		return nil, fmt.Errorf(messages.PayloadWriteMarkerFmt, marker, err)
	}

	code, runErr := x.Routine.Run(ctx, artifact, staging)
	if runErr != nil {
		return nil, &ExtractionFailedError{ExitCode: -1, Err: runErr}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if code != 0 {
		return nil, &ExtractionFailedError{ExitCode: code}
	}

	if err := os.Remove(marker); err != nil {
		return nil, fmt.Errorf(messages.PayloadRemoveMarkerFmt, marker, err)
	}
	return List(staging)
}

// List returns the regular file names directly inside staging, sorted.
func List(staging string) ([]string, error) {
	entries, err := os.ReadDir(staging)
	if err != nil {
		return nil, fmt.Errorf(messages.PayloadListStagingFmt, staging, err)
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || e.Name() == MarkerName {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Verify returns ErrStagingIncomplete if staging still carries the marker.
func Verify(staging string) error {
	_, err := os.Stat(filepath.Join(staging, MarkerName))
	if err == nil {
		return fmt.Errorf("%w: %s", ErrStagingIncomplete, staging)
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf(messages.PayloadStatMarkerFmt, staging, err)
}
