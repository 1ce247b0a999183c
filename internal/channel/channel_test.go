package channel

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	for _, branch := range []string{"", "   "} {
		rec, err := Build(Params{Branch: branch, SourceDir: "."}, now)
		require.NoError(t, err)
		assert.Equal(t, DefaultBranch, rec.Branch)
		assert.Equal(t, DefaultRepo, rec.Repo)
		assert.Equal(t, runtime.GOOS, rec.Platform)
		assert.True(t, filepath.IsAbs(rec.SourceDir))
		assert.Equal(t, now.Unix(), rec.UpdatedAtEpoch)
	}

	rec, err := Build(Params{Branch: " main ", Repo: "me/fork"}, now)
	require.NoError(t, err)
	assert.Equal(t, "main", rec.Branch)
	assert.Equal(t, "me/fork", rec.Repo)
}

func TestStoreReadAbsent(t *testing.T) {
	_, ok, err := NewStore(t.TempDir()).Read()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreWriteHasExactFields(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "data"))
	rec, err := Build(Params{Branch: "windows", SourceDir: t.TempDir()}, time.Unix(1700000000, 0))
	require.NoError(t, err)
	_, err = store.Write(rec)
	require.NoError(t, err)

	raw, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"platform", "branch", "repo", "source_dir", "updated_at_epoch"}, keys)

	got, ok, err := store.Read()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestStoreWriteEpochIsMonotonic(t *testing.T) {
	store := NewStore(t.TempDir())
	later, err := Build(Params{Branch: "dev"}, time.Unix(2000, 0))
	require.NoError(t, err)
	_, err = store.Write(later)
	require.NoError(t, err)

	earlier, err := Build(Params{Branch: "windows"}, time.Unix(1000, 0))
	require.NoError(t, err)
	written, err := store.Write(earlier)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), written.UpdatedAtEpoch)
	assert.Equal(t, "windows", written.Branch)

	got, _, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, written, got)
}

func TestStoreWriteReplacesCorruptRecord(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path, []byte("{not json"), 0o644))
	_, _, err := store.Read()
	require.Error(t, err)

	rec, err := Build(Params{}, time.Unix(42, 0))
	require.NoError(t, err)
	_, err = store.Write(rec)
	require.NoError(t, err)
	got, ok, err := store.Read()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(42), got.UpdatedAtEpoch)
}
