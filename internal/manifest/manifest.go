// Package manifest holds the static deployment manifest and the application
// home layout it deploys into.
package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

//go:embed manifest.yaml
var embedded []byte

// Origin names where an entry's source file is read from.
type Origin string

// Entry origins.
const (
	OriginPayload Origin = "payload"
	OriginSource  Origin = "source"
)

// Entry maps one source file to its destination under the home.
type Entry struct {
	Source        string `yaml:"source"`
	HeredocTarget string `yaml:"heredoc_target,omitempty"`
	Destination   string `yaml:"destination"`
	Required      bool   `yaml:"required,omitempty"`
	// Core entries are the launcher/UI files; an install with none of them deployed is fatal.
	Core       bool   `yaml:"core,omitempty"`
	Executable bool   `yaml:"executable,omitempty"`
	Origin     Origin `yaml:"origin,omitempty"`
}

// Manifest is the full deployment table.
type Manifest struct {
	Entries      []Entry  `yaml:"entries"`
	AssetSources []string `yaml:"asset_sources"`
}

// ResolvedEntry is an Entry with an absolute destination path.
type ResolvedEntry struct {
	Entry
	DestinationPath string
}

// Load parses the manifest compiled into the binary.
func Load() (*Manifest, error) {
	return Parse(embedded)
}

// Parse decodes and validates manifest YAML. Unknown keys are rejected.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf(messages.ManifestInvalidFmt, err)
	}
	for i := range m.Entries {
		if m.Entries[i].Origin == "" {
			m.Entries[i].Origin = OriginPayload
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks names, destinations, and origins.
func (m *Manifest) Validate() error {
	if len(m.Entries) == 0 {
		return fmt.Errorf(messages.ManifestNoEntries)
	}
	seen := make(map[string]int, len(m.Entries))
	for i, e := range m.Entries {
		if strings.TrimSpace(e.Source) == "" {
			return fmt.Errorf(messages.ManifestSourceRequiredFmt, i)
		}
		if prev, ok := seen[e.Source]; ok {
			return fmt.Errorf(messages.ManifestDuplicateSourceFmt, e.Source, i, prev)
		}
		seen[e.Source] = i
		if e.Origin != OriginPayload && e.Origin != OriginSource {
			return fmt.Errorf(messages.ManifestInvalidOriginFmt, i, e.Origin)
		}
		if e.Origin == OriginPayload && strings.ContainsAny(e.Source, `/\`) {
			return fmt.Errorf(messages.ManifestPayloadNameFmt, i, e.Source)
		}
		if err := validateDestination(e.Destination); err != nil {
			return fmt.Errorf(messages.ManifestInvalidDestinationFmt, i, e.Destination, err)
		}
	}
	return nil
}

func validateDestination(dest string) error {
	if dest == "" {
		return errors.New(messages.ManifestDestinationEmpty)
	}
	if path.IsAbs(dest) || filepath.IsAbs(dest) {
		return errors.New(messages.ManifestDestinationAbsolute)
	}
	clean := path.Clean(dest)
	if clean != dest || strings.HasPrefix(clean, "..") {
		return errors.New(messages.ManifestDestinationNotClean)
	}
	first, rest, ok := strings.Cut(clean, "/")
	if !ok || rest == "" {
		return errors.New(messages.ManifestDestinationNoFile)
	}
	if !isHomeDir(first) {
		return fmt.Errorf(messages.ManifestDestinationUnknownDirFmt, first)
	}
	return nil
}

// Resolve returns entries with absolute destinations under home.
func (m *Manifest) Resolve(home Home) []ResolvedEntry {
	out := make([]ResolvedEntry, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, ResolvedEntry{
			Entry:           e,
			DestinationPath: filepath.Join(home.Root, filepath.FromSlash(e.Destination)),
		})
	}
	return out
}

// HeredocEntries returns payload entries that name a heredoc target, in manifest order.
func (m *Manifest) HeredocEntries() []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Origin == OriginPayload && e.HeredocTarget != "" {
			out = append(out, e)
		}
	}
	return out
}

// CoreEntries returns the entries flagged core.
func (m *Manifest) CoreEntries() []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Core {
			out = append(out, e)
		}
	}
	return out
}
