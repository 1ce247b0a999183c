package payload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/interpreter"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/testutil"
)

const sampleArtifact = `#!/bin/bash
DASH_DIR="$HOME/.xui/dashboard"
cat > "$DASH_DIR/pyqt_dashboard_improved.py" <<'PY'
print("old dashboard")
PY
cat > "$BIN_DIR/xui_webhub.py" <<'WEBHUB'
print("webhub")
WEBHUB
cat > "$DASH_DIR/pyqt_dashboard_improved.py" <<'DASH'
print("new dashboard")
print("second line")
DASH
echo done
`

var sampleTargets = []Target{
	{Heredoc: "$DASH_DIR/pyqt_dashboard_improved.py", Name: "pyqt_dashboard_improved.py", Required: true},
	{Heredoc: "$BIN_DIR/xui_webhub.py", Name: "xui_webhub.py", Required: true},
	{Heredoc: "$BIN_DIR/xui_web_api.py", Name: "xui_web_api.py", Required: false},
}

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xui11.sh.fixed.sh")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

type routineFunc func(ctx context.Context, artifact string, out string) (int, error)

func (f routineFunc) Run(ctx context.Context, artifact string, out string) (int, error) {
	return f(ctx, artifact, out)
}

func TestLastHeredocTakesLastBlock(t *testing.T) {
	body, ok, err := LastHeredoc(sampleArtifact, "$DASH_DIR/pyqt_dashboard_improved.py")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "print(\"new dashboard\")\nprint(\"second line\")\n", body)

	_, ok, err = LastHeredoc(sampleArtifact, "$BIN_DIR/absent.py")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLastHeredocUnterminated(t *testing.T) {
	_, _, err := LastHeredoc("cat > \"$BIN_DIR/a.py\" <<'EOF'\nprint(1)\n", "$BIN_DIR/a.py")
	require.ErrorIs(t, err, ErrUnterminatedHeredoc)
}

func TestBuiltinExtractWritesFilesAndSummary(t *testing.T) {
	artifact := writeArtifact(t, sampleArtifact)
	out := filepath.Join(t.TempDir(), "out")
	var progress bytes.Buffer

	summary, err := BuiltinRoutine{Targets: sampleTargets, Stdout: &progress}.Extract(artifact, out)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Count)

	got, err := os.ReadFile(filepath.Join(out, "xui_webhub.py"))
	require.NoError(t, err)
	assert.Equal(t, "print(\"webhub\")\n", string(got))
	assert.NoFileExists(t, filepath.Join(out, "xui_web_api.py"))

	raw, err := os.ReadFile(filepath.Join(out, ManifestFileName))
	require.NoError(t, err)
	var decoded Summary
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 2, decoded.Count)
	assert.Equal(t, FileSummary{SourceTarget: "$DASH_DIR/pyqt_dashboard_improved.py", Size: 44, Lines: 2}, decoded.Files["pyqt_dashboard_improved.py"])
	assert.Contains(t, progress.String(), "xui_webhub.py")
}

func TestBuiltinExtractMissingRequiredIsSkipped(t *testing.T) {
	artifact := writeArtifact(t, "cat > \"$BIN_DIR/xui_webhub.py\" <<'W'\nx\nW\n")
	out := t.TempDir()

	summary, err := BuiltinRoutine{Targets: sampleTargets}.Extract(artifact, out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.FileExists(t, filepath.Join(out, "xui_webhub.py"))
	assert.NoFileExists(t, filepath.Join(out, "pyqt_dashboard_improved.py"))
	assert.FileExists(t, filepath.Join(out, ManifestFileName))

	code, err := BuiltinRoutine{Targets: sampleTargets}.Run(context.Background(), artifact, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ExitOK, code)
}

func TestBuiltinExtractStrictMissingRequired(t *testing.T) {
	artifact := writeArtifact(t, "cat > \"$BIN_DIR/xui_webhub.py\" <<'W'\nx\nW\n")
	out := t.TempDir()

	_, err := BuiltinRoutine{Targets: sampleTargets, Strict: true}.Extract(artifact, out)
	var missing *MissingTargetsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"$DASH_DIR/pyqt_dashboard_improved.py"}, missing.Targets)
	assert.Equal(t, ExitRequiredTargetsMissing, ExitCode(err))
	assert.NoFileExists(t, filepath.Join(out, ManifestFileName))
}

func TestBuiltinRunExitCodes(t *testing.T) {
	code, err := BuiltinRoutine{Targets: sampleTargets}.Run(context.Background(), filepath.Join(t.TempDir(), "nope.sh"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ExitSourceMissing, code)

	code, err = BuiltinRoutine{Targets: sampleTargets}.Run(context.Background(), writeArtifact(t, sampleArtifact), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ExitOK, code)
}

func TestTargetsFromManifest(t *testing.T) {
	m, err := manifest.Load()
	require.NoError(t, err)
	targets := TargetsFromManifest(m)
	require.NotEmpty(t, targets)
	assert.Equal(t, "$DASH_DIR/pyqt_dashboard_improved.py", targets[0].Heredoc)
	assert.Equal(t, "pyqt_dashboard_improved.py", targets[0].Name)
	assert.True(t, targets[0].Required)
}

func TestExtractMissingArtifactWritesNothing(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "staging")
	called := false
	x := Extractor{Routine: routineFunc(func(context.Context, string, string) (int, error) {
		called = true
		return 0, nil
	})}

	_, err := x.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.sh"), staging)
	require.ErrorIs(t, err, ErrArtifactNotFound)
	assert.False(t, called)
	assert.NoDirExists(t, staging)
}

func TestExtractFailureRemovesStaging(t *testing.T) {
	artifact := writeArtifact(t, sampleArtifact)
	staging := filepath.Join(t.TempDir(), "staging")
	x := Extractor{Routine: routineFunc(func(_ context.Context, _ string, out string) (int, error) {
		if _, err := os.Stat(filepath.Join(out, MarkerName)); err != nil {
			t.Errorf("marker missing during routine: %v", err)
		}
		_ = os.WriteFile(filepath.Join(out, "partial.py"), []byte("x"), 0o644)
		return 3, nil
	})}

	_, err := x.Extract(context.Background(), artifact, staging)
	var failed *ExtractionFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, 3, failed.ExitCode)
	assert.NoDirExists(t, staging)
}

func TestExtractWipesPreviousStaging(t *testing.T) {
	artifact := writeArtifact(t, sampleArtifact)
	staging := filepath.Join(t.TempDir(), "staging")
	require.NoError(t, os.MkdirAll(staging, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staging, "stale.py"), []byte("old"), 0o644))

	names, err := Extractor{Routine: BuiltinRoutine{Targets: sampleTargets}}.Extract(context.Background(), artifact, staging)
	require.NoError(t, err)
	assert.Equal(t, []string{ManifestFileName, "pyqt_dashboard_improved.py", "xui_webhub.py"}, names)
	assert.NoFileExists(t, filepath.Join(staging, "stale.py"))
	require.NoError(t, Verify(staging))
}

func TestExtractStartFailure(t *testing.T) {
	artifact := writeArtifact(t, sampleArtifact)
	staging := filepath.Join(t.TempDir(), "staging")
	x := Extractor{Routine: routineFunc(func(context.Context, string, string) (int, error) {
		return -1, errors.New("exec: not found")
	})}
	_, err := x.Extract(context.Background(), artifact, staging)
	var failed *ExtractionFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, -1, failed.ExitCode)
	assert.Contains(t, err.Error(), "exec: not found")
	assert.NoDirExists(t, staging)
}

func TestVerifyDetectsMarker(t *testing.T) {
	staging := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staging, MarkerName), nil, 0o644))
	require.ErrorIs(t, Verify(staging), ErrStagingIncomplete)
}

func TestExtractRequiresRoutine(t *testing.T) {
	_, err := Extractor{}.Extract(context.Background(), "a", "b")
	require.Error(t, err)
}

func TestRuntimeRoutinePassesContract(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	dir := t.TempDir()
	testutil.WriteStubExpectArg(t, dir, "python", "--out")
	routine := RuntimeRoutine{
		Runtime: interpreter.Runtime{Name: "python", Argv: []string{filepath.Join(dir, "python")}},
		Script:  "extract_xui_payload.py",
	}

	code, err := routine.Run(context.Background(), "artifact.sh", filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	testutil.WriteStubExpectArg(t, dir, "python", "--missing-flag")
	code, err = routine.Run(context.Background(), "artifact.sh", filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Equal(t, 1, code)
}
