package payload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/fsutil"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

// Exit codes of the builtin routine, shared with `xui extract`.
const (
	ExitOK                     = 0
	ExitFailed                 = 1
	ExitSourceMissing          = 2
	ExitRequiredTargetsMissing = 3
)

// ManifestFileName is the extraction summary written next to the staged files.
const ManifestFileName = "manifest.json"

// ErrRequiredTargetsMissing is returned when required heredoc targets are absent.
var ErrRequiredTargetsMissing = errors.New(messages.PayloadRequiredTargetsMissing)

// ErrUnterminatedHeredoc is returned when a heredoc end marker is never found.
var ErrUnterminatedHeredoc = errors.New(messages.PayloadUnterminatedHeredoc)

// Target is one heredoc block to pull out of the artifact.
type Target struct {
	Heredoc  string
	Name     string
	Required bool
}

// TargetsFromManifest returns the heredoc targets named by m, in manifest order.
func TargetsFromManifest(m *manifest.Manifest) []Target {
	entries := m.HeredocEntries()
	out := make([]Target, 0, len(entries))
	for _, e := range entries {
		out = append(out, Target{Heredoc: e.HeredocTarget, Name: e.Source, Required: e.Required})
	}
	return out
}

// FileSummary describes one extracted file in manifest.json.
type FileSummary struct {
	SourceTarget string `json:"source_target"`
	Size         int    `json:"size"`
	Lines        int    `json:"lines"`
}

// Summary is the content of manifest.json.
type Summary struct {
	Source string                 `json:"source"`
	Files  map[string]FileSummary `json:"files"`
	Count  int                    `json:"count"`
}

// MissingTargetsError lists required heredoc targets that were not found.
type MissingTargetsError struct {
	Targets []string
}

func (e *MissingTargetsError) Error() string {
	return fmt.Sprintf(messages.PayloadMissingTargetsFmt, strings.Join(e.Targets, ", "))
}

func (e *MissingTargetsError) Unwrap() error {
	return ErrRequiredTargetsMissing
}

// BuiltinRoutine extracts heredoc blocks in-process.
type BuiltinRoutine struct {
	Targets []Target
	// Strict fails the extraction when a required target is absent. Without
	// it absent targets are skipped and completeness is left to the deployer.
	Strict bool
	// Stdout receives one progress line per extracted file. Nil discards.
	Stdout io.Writer
}

// Run implements Routine, mapping Extract failures to exit codes.
func (b BuiltinRoutine) Run(_ context.Context, artifact string, out string) (int, error) {
	_, err := b.Extract(artifact, out)
	return ExitCode(err), nil
}

// ExitCode maps an Extract error to the routine exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrArtifactNotFound):
		return ExitSourceMissing
	case errors.Is(err, ErrRequiredTargetsMissing):
		return ExitRequiredTargetsMissing
	default:
		return ExitFailed
	}
}

// Extract writes every found target into out and then writes manifest.json.
// Absent targets are skipped. In strict mode an absent required target means
// no manifest.json is written and a *MissingTargetsError is returned.
func (b BuiltinRoutine) Extract(artifact string, out string) (*Summary, error) {
	src, err := filepath.Abs(artifact)
	if err != nil {
		return nil, fmt.Errorf(messages.PayloadStatArtifactFmt, artifact, err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, src)
		}
		return nil, fmt.Errorf(messages.PayloadReadArtifactFmt, src, err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf(messages.PayloadCreateOutFmt, out, err)
	}

	text := strings.ToValidUTF8(string(data), "\uFFFD")
	summary := &Summary{Source: src, Files: map[string]FileSummary{}}
	var missing []string
	for _, t := range b.Targets {
		block, ok, err := LastHeredoc(text, t.Heredoc)
		if err != nil {
			return nil, err
		}
		if !ok {
			if b.Strict && t.Required {
				missing = append(missing, t.Heredoc)
			}
			continue
		}
		dst := filepath.Join(out, t.Name)
		if err := fsutil.WriteFileAtomic(dst, []byte(block), 0o644); err != nil {
			return nil, fmt.Errorf(messages.PayloadWriteEntryFmt, dst, err)
		}
		summary.Files[t.Name] = FileSummary{
			SourceTarget: t.Heredoc,
			Size:         len(block),
			Lines:        strings.Count(block, "\n"),
		}
		if b.Stdout != nil {
			_, _ = fmt.Fprintf(b.Stdout, messages.PayloadExtractedFmt, t.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingTargetsError{Targets: missing}
	}

	summary.Count = len(summary.Files)
	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf(messages.PayloadWriteSummaryFmt, err)
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(out, ManifestFileName), encoded, 0o644); err != nil {
		return nil, fmt.Errorf(messages.PayloadWriteSummaryFmt, err)
	}
	return summary, nil
}

// LastHeredoc returns the body of the last `cat > "<target>" <<'MARK'` block in
// text. The body is newline terminated. ok is false when no block names target.
func LastHeredoc(text string, target string) (body string, ok bool, err error) {
	pattern := regexp.MustCompile(`cat > "` + regexp.QuoteMeta(target) + `" <<'([^']+)'\n`)
	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return "", false, nil
	}
	m := matches[len(matches)-1]
	marker := text[m[2]:m[3]]
	start := m[1]
	end := strings.Index(text[start:], "\n"+marker+"\n")
	if end < 0 {
		return "", false, fmt.Errorf("%w: %s (%s)", ErrUnterminatedHeredoc, target, marker)
	}
	body = text[start : start+end]
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return body, true, nil
}
