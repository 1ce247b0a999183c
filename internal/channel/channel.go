// Package channel persists the update channel record describing which branch
// and platform an install belongs to.
package channel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/fsutil"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

// Defaults for a new record.
const (
	DefaultBranch = "windows"
	DefaultRepo   = "afitler79-alt/XUI-X360-FRONTEND"
	FileName      = "update_channel.json"
)

// Record is the on-disk channel record. Field names are a fixed wire format
// read by the update checker.
type Record struct {
	Platform       string `json:"platform"`
	Branch         string `json:"branch"`
	Repo           string `json:"repo"`
	SourceDir      string `json:"source_dir"`
	UpdatedAtEpoch int64  `json:"updated_at_epoch"`
}

// Params are the install inputs that shape a record.
type Params struct {
	Branch    string
	Repo      string
	SourceDir string
}

// Build returns the record for an install performed at now.
func Build(p Params, now time.Time) (Record, error) {
	branch := strings.TrimSpace(p.Branch)
	if branch == "" {
		branch = DefaultBranch
	}
	repo := strings.TrimSpace(p.Repo)
	if repo == "" {
		repo = DefaultRepo
	}
	src := p.SourceDir
	if src != "" {
		abs, err := filepath.Abs(src)
		if err != nil {
			return Record{}, fmt.Errorf(messages.ChannelResolveSourceFmt, src, err)
		}
		src = abs
	}
	return Record{
		Platform:       runtime.GOOS,
		Branch:         branch,
		Repo:           repo,
		SourceDir:      src,
		UpdatedAtEpoch: now.UTC().Unix(),
	}, nil
}

// Store reads and writes the record at Path.
type Store struct {
	Path string
}

// NewStore returns the store for the given data directory.
func NewStore(dataDir string) Store {
	return Store{Path: filepath.Join(dataDir, FileName)}
}

// Read returns the current record. ok is false when none exists.
func (s Store) Read() (rec Record, ok bool, err error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf(messages.ChannelReadFmt, s.Path, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf(messages.ChannelDecodeFmt, s.Path, err)
	}
	return rec, true, nil
}

// Write replaces the record atomically. The epoch never moves backwards relative
// to an existing readable record; no other field is carried over.
func (s Store) Write(rec Record) (Record, error) {
	if prev, ok, err := s.Read(); err == nil && ok && prev.UpdatedAtEpoch > rec.UpdatedAtEpoch {
		rec.UpdatedAtEpoch = prev.UpdatedAtEpoch
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Record{}, fmt.Errorf(messages.ChannelEncodeFmt, err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return Record{}, fmt.Errorf(messages.ChannelWriteFmt, s.Path, err)
	}
	if err := fsutil.WriteFileAtomic(s.Path, data, 0o644); err != nil {
		return Record{}, fmt.Errorf(messages.ChannelWriteFmt, s.Path, err)
	}
	return rec, nil
}
