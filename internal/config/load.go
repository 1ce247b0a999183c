package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/envfile"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

// ErrConfigValidation wraps validation failures (as opposed to TOML syntax or
// filesystem errors).
var ErrConfigValidation = errors.New(messages.ConfigValidationFailed)

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return Parse(data, path)
}

// LoadOptional loads path when it exists and returns the defaults otherwise.
// found reports whether a file was read.
func LoadOptional(path string) (cfg *Config, found bool, err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return Default(), false, nil
		}
		return nil, false, fmt.Errorf(messages.ConfigMissingFileFmt, path, statErr)
	}
	cfg, err = Load(path)
	return cfg, err == nil, err
}

// Parse decodes TOML data and fills unset values from Default. Unknown keys are
// rejected.
func Parse(data []byte, source string) (*Config, error) {
	cfg := &Config{}
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt, ErrConfigValidation, source, strict.String())
		}
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return cfg, nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Environment overrides.
const (
	EnvUpdateBranch = "XUI_UPDATE_BRANCH"
	EnvUpdateRepo   = "XUI_UPDATE_REPO"
	EnvNoNetwork    = "XUI_NO_NETWORK"
)

// ApplyEnv layers environment overrides onto c.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	if v, ok := lookup(EnvUpdateBranch); ok && strings.TrimSpace(v) != "" {
		c.Update.Branch = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvUpdateRepo); ok && strings.TrimSpace(v) != "" {
		c.Update.Repo = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvNoNetwork); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			c.Update.NoNetwork = true
		}
	}
}

// ExpandPath expands a leading ~ and makes p absolute. Relative paths resolve
// against base when base is non-empty.
func ExpandPath(p string, base string) (string, error) {
	if p == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigExpandPathFmt, p, err)
	}
	if !filepath.IsAbs(expanded) && base != "" {
		expanded = filepath.Join(base, expanded)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigExpandPathFmt, p, err)
	}
	return abs, nil
}

// EnvFilePrefix restricts launcher env file values to the installer namespace.
const EnvFilePrefix = "XUI_"

// LoadEnv reads a launcher env file into a map, keeping only XUI_ keys.
func LoadEnv(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingEnvFileFmt, path, err)
	}
	env, err := envfile.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidEnvFileFmt, path, err)
	}
	filtered := make(map[string]string, len(env))
	for key, value := range env {
		if strings.HasPrefix(key, EnvFilePrefix) {
			filtered[key] = value
		}
	}
	return filtered, nil
}
