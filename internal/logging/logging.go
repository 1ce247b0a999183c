// Package logging configures the operational log: logrus with a rotating file
// sink under the application home, or a console writer.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

// FileName is the install log inside <home>/logs.
const FileName = "installer.log"

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// Logger buffers entries in memory until a file sink is attached, so the log
// file of a run also holds what happened before the home existed.
type Logger struct {
	*logrus.Logger
	RunID string

	mu      sync.Mutex
	pending *bytes.Buffer
	file    *lumberjack.Logger
	console io.Writer
}

// New returns a logger at level. An empty level selects DefaultLevel.
func New(level string) (*Logger, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf(messages.LoggingInvalidLevelFmt, level, err)
	}
	l := &Logger{Logger: logrus.New(), RunID: uuid.NewString(), pending: &bytes.Buffer{}}
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	l.SetOutput(sink{l})
	return l, nil
}

type sink struct {
	l *Logger
}

func (s sink) Write(p []byte) (int, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	switch {
	case s.l.file != nil:
		return s.l.file.Write(p)
	case s.l.console != nil:
		return s.l.console.Write(p)
	}
	return s.l.pending.Write(p)
}

// Run returns an entry tagged with this run's id.
func (l *Logger) Run() *logrus.Entry {
	return l.WithField("run_id", l.RunID)
}

// AttachFile starts writing to a rotating log file at path and flushes
// everything logged so far into it.
func (l *Logger) AttachFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf(messages.LoggingOpenFileFmt, path, err)
	}
	file := &lumberjack.Logger{
		Filename:   filepath.ToSlash(path),
		MaxSize:    5, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending.Len() > 0 {
		if _, err := file.Write(l.pending.Bytes()); err != nil {
			_ = file.Close()
			return fmt.Errorf(messages.LoggingOpenFileFmt, path, err)
		}
		l.pending.Reset()
	}
	if l.file != nil {
		_ = l.file.Close()
	}
	l.file = file
	return nil
}

// Pending returns the entries not yet written to a file.
func (l *Logger) Pending() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending.String()
}

// Close closes the file sink, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// AttachWriter sends entries to w, flushing everything logged so far. Commands
// that never create a home use it with stderr.
func (l *Logger) AttachWriter(w io.Writer) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending.Len() > 0 {
		if _, err := w.Write(l.pending.Bytes()); err != nil {
			return fmt.Errorf(messages.LoggingWriteFmt, err)
		}
		l.pending.Reset()
	}
	l.console = w
	return nil
}
