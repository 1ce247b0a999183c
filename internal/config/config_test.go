package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil, "empty.toml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverrides(t *testing.T) {
	data := []byte(`
[install]
home = "~/apps/xui"
autostart = true
extractor = "runtime"

[runtime]
candidates = ["py -3.11", "python3"]
min_version = "3.9"

[dependencies]
packages = ["requests"]

[assets]
collision = "first-wins"

[update]
branch = "main"
timeout_seconds = 3

[logging]
level = "debug"
`)
	cfg, err := Parse(data, "xui-install.toml")
	require.NoError(t, err)
	assert.Equal(t, "~/apps/xui", cfg.Install.Home)
	assert.True(t, cfg.Install.Autostart)
	assert.Equal(t, ExtractorRuntime, cfg.Install.Extractor)
	assert.Equal(t, DefaultExtractorScript, cfg.Install.ExtractorScript)
	assert.Equal(t, []string{"py -3.11", "python3"}, cfg.Runtime.Candidates)
	assert.Equal(t, []string{"requests"}, cfg.Dependencies.Packages)
	assert.Equal(t, "first-wins", cfg.Assets.Collision)
	assert.Equal(t, "main", cfg.Update.Branch)
	assert.Equal(t, 3, cfg.Update.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[install]\nhome = \"x\"\ncolour = \"red\"\n"), "bad.toml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigValidation))
	assert.Contains(t, err.Error(), "colour")
}

func TestParseSyntaxErrorIsNotValidation(t *testing.T) {
	_, err := Parse([]byte("[install\n"), "bad.toml")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrConfigValidation))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"extractor", func(c *Config) { c.Install.Extractor = "magic" }, "extractor"},
		{"runtime script", func(c *Config) {
			c.Install.Extractor = ExtractorRuntime
			c.Install.ExtractorScript = " "
		}, "extractor_script"},
		{"empty candidate", func(c *Config) { c.Runtime.Candidates = []string{"  "} }, "candidates"},
		{"min version", func(c *Config) { c.Runtime.MinVersion = "three" }, "min_version"},
		{"package flag", func(c *Config) { c.Dependencies.Packages = []string{"--index-url"} }, "packages"},
		{"collision", func(c *Config) { c.Assets.Collision = "random" }, "collision"},
		{"timeout", func(c *Config) { c.Update.TimeoutSeconds = -1 }, "timeout_seconds"},
		{"repo", func(c *Config) { c.Update.Repo = "no-owner" }, "repo"},
		{"noise", func(c *Config) { c.Warnings.NoiseMode = "loud" }, "noise_mode"},
		{"level", func(c *Config) { c.Logging.Level = "chatty" }, "level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate("test.toml")
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	cfg, found, err := LoadOptional(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("[update]\nbranch = \"beta\"\n"), 0o644))
	cfg, found, err = LoadOptional(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "beta", cfg.Update.Branch)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvUpdateBranch: " dev ",
		EnvUpdateRepo:   "",
		EnvNoNetwork:    "TRUE",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "dev", cfg.Update.Branch)
	assert.Equal(t, Default().Update.Repo, cfg.Update.Repo)
	assert.True(t, cfg.Update.NoNetwork)
}

func TestExpandPath(t *testing.T) {
	base := t.TempDir()
	got, err := ExpandPath("sub/dir", base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "sub", "dir"), got)

	got, err = ExpandPath("~/x", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.False(t, strings.Contains(got, "~"))

	got, err = ExpandPath("", base)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadEnvKeepsOnlyInstallerKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xui.env")
	content := "# generated\nXUI_HOME=/h\nexport XUI_RUNTIME=\"py -3\"\nPATH=/bin\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	env, err := LoadEnv(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"XUI_HOME": "/h", "XUI_RUNTIME": "py -3"}, env)
}

func TestLoadEnvMissing(t *testing.T) {
	_, err := LoadEnv(filepath.Join(t.TempDir(), "xui.env"))
	require.Error(t, err)
}
