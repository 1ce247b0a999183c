// Package testutil holds helpers shared by package tests: shell stubs for
// external commands and generated distribution artifacts.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteStub writes dir/name as a shell script that exits 0.
func WriteStub(t *testing.T, dir string, name string) {
	t.Helper()
	WriteStubWithExit(t, dir, name, 0)
}

// WriteStubWithExit writes dir/name as a shell script that exits with exitCode.
func WriteStubWithExit(t *testing.T, dir string, name string, exitCode int) {
	t.Helper()
	writeScript(t, filepath.Join(dir, name), fmt.Sprintf("exit %d\n", exitCode))
}

// WriteStubWithOutput writes an executable shell stub that prints stdout and
// exits with exitCode. Runtime version checks use it to fake `python3 --version`.
func WriteStubWithOutput(t *testing.T, dir string, name string, stdout string, exitCode int) {
	t.Helper()
	body := fmt.Sprintf("cat <<'STUB_OUT'\n%s\nSTUB_OUT\nexit %d\n", strings.TrimRight(stdout, "\n"), exitCode)
	writeScript(t, filepath.Join(dir, name), body)
}

// WriteStubExpectArg writes dir/name as a script that exits 0 only when one
// of its arguments equals expectedArg.
func WriteStubExpectArg(t *testing.T, dir string, name string, expectedArg string) {
	t.Helper()
	body := fmt.Sprintf("for arg in \"$@\"; do\n  if [ \"$arg\" = \"%s\" ]; then exit 0; fi\ndone\nexit 1\n", expectedArg)
	writeScript(t, filepath.Join(dir, name), body)
}

// WriteStubLogArgs writes an executable shell stub that appends its arguments,
// one invocation per line, to logPath and exits successfully.
func WriteStubLogArgs(t *testing.T, dir string, name string, logPath string) {
	t.Helper()
	writeScript(t, filepath.Join(dir, name), fmt.Sprintf("echo \"$*\" >> %q\nexit 0\n", logPath))
}

func writeScript(t *testing.T, path string, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

// PrependPath puts dir first on PATH for the duration of the test.
func PrependPath(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// HeredocFile is one payload block of a generated distribution artifact.
type HeredocFile struct {
	// Target is the quoted path after `cat >`, e.g. "$BIN_DIR/xui_webhub.py".
	Target string
	// Marker defaults to EOF.
	Marker string
	Body   string
}

// ArtifactScript renders a distribution script embedding files as heredoc blocks.
func ArtifactScript(files ...HeredocFile) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\nset -e\n")
	for _, f := range files {
		marker := f.Marker
		if marker == "" {
			marker = "EOF"
		}
		fmt.Fprintf(&b, "cat > %q <<'%s'\n%s\n%s\n", f.Target, marker, strings.TrimRight(f.Body, "\n"), marker)
	}
	b.WriteString("echo installed\n")
	return b.String()
}

// WriteArtifact writes ArtifactScript(files...) to path.
func WriteArtifact(t *testing.T, path string, files ...HeredocFile) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir artifact dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(ArtifactScript(files...)), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
}

// WithWorkingDir runs fn inside dir. Not safe for parallel tests.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}
