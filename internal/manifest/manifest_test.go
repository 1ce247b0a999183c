package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	m, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, m.Entries)

	var required, optional int
	for _, e := range m.Entries {
		if e.Required {
			required++
		} else {
			optional++
		}
	}
	require.Greater(t, required, 0)
	require.Greater(t, optional, 0)

	core := m.CoreEntries()
	require.Len(t, core, 1)
	require.Equal(t, "pyqt_dashboard_improved.py", core[0].Source)

	heredocs := m.HeredocEntries()
	require.Len(t, heredocs, 8)
	for _, e := range heredocs {
		require.Equal(t, OriginPayload, e.Origin)
	}
	require.Equal(t, []string{"assets", "xui/assets", "win/assets"}, m.AssetSources)
}

func TestResolveAbsoluteDestinations(t *testing.T) {
	m, err := Load()
	require.NoError(t, err)
	home, err := NewHome(t.TempDir())
	require.NoError(t, err)

	for _, e := range m.Resolve(home) {
		require.True(t, filepath.IsAbs(e.DestinationPath), e.DestinationPath)
		rel, err := filepath.Rel(home.Root, e.DestinationPath)
		require.NoError(t, err)
		require.Equal(t, filepath.FromSlash(e.Destination), rel)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"unknown key", "entries:\n  - source: a.py\n    destination: bin/a.py\n    colour: red\n"},
		{"missing source", "entries:\n  - destination: bin/a.py\n"},
		{"duplicate source", "entries:\n  - source: a.py\n    destination: bin/a.py\n  - source: a.py\n    destination: bin/b.py\n"},
		{"bad origin", "entries:\n  - source: a.py\n    destination: bin/a.py\n    origin: network\n"},
		{"payload with slash", "entries:\n  - source: win/a.py\n    destination: bin/a.py\n"},
		{"absolute destination", "entries:\n  - source: a.py\n    destination: /etc/a.py\n"},
		{"escaping destination", "entries:\n  - source: a.py\n    destination: ../a.py\n"},
		{"unclean destination", "entries:\n  - source: a.py\n    destination: bin/../bin/a.py\n"},
		{"unknown home dir", "entries:\n  - source: a.py\n    destination: etc/a.py\n"},
		{"directory only", "entries:\n  - source: a.py\n    destination: bin\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestParseDefaultsOrigin(t *testing.T) {
	m, err := Parse([]byte("entries:\n  - source: a.py\n    destination: bin/a.py\n  - source: win/b.py\n    origin: source\n    destination: bin/b.py\n"))
	require.NoError(t, err)
	require.Equal(t, OriginPayload, m.Entries[0].Origin)
	require.Equal(t, OriginSource, m.Entries[1].Origin)
}

func TestHomeEnsureIdempotent(t *testing.T) {
	home, err := NewHome(filepath.Join(t.TempDir(), ".xui"))
	require.NoError(t, err)

	require.NoError(t, home.Ensure(RealSystem{}))
	require.NoError(t, home.Ensure(RealSystem{}))
	for _, dir := range []string{home.Assets(), home.Bin(), home.Dashboard(), home.Data(), home.Games(), home.Logs()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
	require.Len(t, home.Dirs(), 6)
}

type failingMkdir struct{}

func (failingMkdir) MkdirAll(string, os.FileMode) error { return errors.New("read-only filesystem") }

func TestHomeEnsureReportsFailure(t *testing.T) {
	home, err := NewHome(t.TempDir())
	require.NoError(t, err)
	err = home.Ensure(failingMkdir{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "read-only filesystem")
}

func TestNewHomeRequiresRoot(t *testing.T) {
	_, err := NewHome("")
	require.Error(t, err)
}
