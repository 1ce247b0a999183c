package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New("chatty"); err == nil {
		t.Fatalf("expected invalid level error")
	}
}

func TestAttachFileFlushesPending(t *testing.T) {
	l, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Run().Info("before attach")
	if !strings.Contains(l.Pending(), "before attach") {
		t.Fatalf("expected pending entry, got %q", l.Pending())
	}

	path := filepath.Join(t.TempDir(), "logs", FileName)
	if err := l.AttachFile(path); err != nil {
		t.Fatalf("AttachFile: %v", err)
	}
	l.Run().Warn("after attach")
	l.Debug("filtered by level")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	for _, want := range []string{"before attach", "after attach", "run_id=" + l.RunID} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in log:\n%s", want, text)
		}
	}
	if strings.Contains(text, "filtered by level") {
		t.Fatalf("debug entry should be filtered at info level")
	}
	if l.Pending() != "" {
		t.Fatalf("expected pending buffer to be empty after attach")
	}
}

func TestRunIDsDiffer(t *testing.T) {
	a, _ := New("info")
	b, _ := New("info")
	if a.RunID == b.RunID || a.RunID == "" {
		t.Fatalf("expected distinct run ids, got %q and %q", a.RunID, b.RunID)
	}
}

func TestCloseWithoutFile(t *testing.T) {
	l, _ := New("warn")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestAttachWriterFlushesPending(t *testing.T) {
	l, err := New("info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Run().Info("bundle staged")

	var out strings.Builder
	if err := l.AttachWriter(&out); err != nil {
		t.Fatalf("AttachWriter: %v", err)
	}
	l.Run().Info("bundle written")
	l.Debug("filtered by level")

	text := out.String()
	for _, want := range []string{"bundle staged", "bundle written", "run_id=" + l.RunID} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
	if strings.Contains(text, "filtered by level") {
		t.Fatalf("debug entry should be filtered at info level")
	}
	if l.Pending() != "" {
		t.Fatalf("expected pending buffer to be empty after attach")
	}
}
