// Package config loads the optional installer configuration file and resolves
// the effective settings from defaults, the file, and the environment.
package config

import (
	"path/filepath"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/bootstrap"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/channel"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/deploy"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
)

// FileName is looked up in the source root when no --config is given.
const FileName = "xui-install.toml"

// Extractor names.
const (
	ExtractorBuiltin = "builtin"
	ExtractorRuntime = "runtime"
)

// DefaultExtractorScript is the runtime extraction routine, relative to the source root.
const DefaultExtractorScript = "win/extract_xui_payload.py"

// Config is the installer configuration file.
type Config struct {
	Install      InstallConfig      `toml:"install"`
	Runtime      RuntimeConfig      `toml:"runtime"`
	Dependencies DependenciesConfig `toml:"dependencies"`
	Assets       AssetsConfig       `toml:"assets"`
	Update       UpdateConfig       `toml:"update"`
	Warnings     WarningsConfig     `toml:"warnings"`
	Logging      LoggingConfig      `toml:"logging"`
}

// InstallConfig holds [install].
type InstallConfig struct {
	Home            string `toml:"home"`
	Artifact        string `toml:"artifact"`
	Autostart       bool   `toml:"autostart"`
	SkipDeps        bool   `toml:"skip_deps"`
	Extractor       string `toml:"extractor"`
	ExtractorScript string `toml:"extractor_script"`
}

// RuntimeConfig holds [runtime]. Each candidate is a command line split on spaces.
type RuntimeConfig struct {
	Candidates []string `toml:"candidates"`
	MinVersion string   `toml:"min_version"`
}

// DependenciesConfig holds [dependencies].
type DependenciesConfig struct {
	Packages []string `toml:"packages"`
}

// AssetsConfig holds [assets].
type AssetsConfig struct {
	Collision string   `toml:"collision"`
	Sources   []string `toml:"sources"`
}

// UpdateConfig holds [update].
type UpdateConfig struct {
	Branch         string `toml:"branch"`
	Repo           string `toml:"repo"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	NoNetwork      bool   `toml:"no_network"`
}

// WarningsConfig holds [warnings].
type WarningsConfig struct {
	NoiseMode string `toml:"noise_mode"`
}

// LoggingConfig holds [logging].
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Install: InstallConfig{
			Home:            filepath.Join("~", manifest.DefaultHomeName),
			Extractor:       ExtractorBuiltin,
			ExtractorScript: DefaultExtractorScript,
		},
		Dependencies: DependenciesConfig{Packages: append([]string{}, bootstrap.DefaultPackages...)},
		Assets:       AssetsConfig{Collision: string(deploy.LastWins)},
		Update: UpdateConfig{
			Branch:         channel.DefaultBranch,
			Repo:           channel.DefaultRepo,
			TimeoutSeconds: 10,
		},
		Warnings: WarningsConfig{NoiseMode: "default"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// fillDefaults replaces zero values with their defaults. A zero timeout selects
// the default timeout.
func (c *Config) fillDefaults() {
	d := Default()
	setString := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	setString(&c.Install.Home, d.Install.Home)
	setString(&c.Install.Extractor, d.Install.Extractor)
	setString(&c.Install.ExtractorScript, d.Install.ExtractorScript)
	setString(&c.Assets.Collision, d.Assets.Collision)
	setString(&c.Update.Branch, d.Update.Branch)
	setString(&c.Update.Repo, d.Update.Repo)
	setString(&c.Warnings.NoiseMode, d.Warnings.NoiseMode)
	setString(&c.Logging.Level, d.Logging.Level)
	if c.Dependencies.Packages == nil {
		c.Dependencies.Packages = d.Dependencies.Packages
	}
	if c.Update.TimeoutSeconds == 0 {
		c.Update.TimeoutSeconds = d.Update.TimeoutSeconds
	}
}
