package config

import (
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/sirupsen/logrus"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/deploy"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

var validExtractors = map[string]struct{}{
	ExtractorBuiltin: {},
	ExtractorRuntime: {},
}

var validWarningNoiseModes = map[string]struct{}{
	"":        {},
	"default": {},
	"reduce":  {},
}

// Validate ensures the config is consistent.
func (c *Config) Validate(path string) error {
	if _, ok := validExtractors[c.Install.Extractor]; !ok {
		return fmt.Errorf(messages.ConfigExtractorInvalidFmt, path, c.Install.Extractor)
	}
	if c.Install.Extractor == ExtractorRuntime && strings.TrimSpace(c.Install.ExtractorScript) == "" {
		return fmt.Errorf(messages.ConfigExtractorScriptRequiredFmt, path)
	}
	for i, candidate := range c.Runtime.Candidates {
		if len(strings.Fields(candidate)) == 0 {
			return fmt.Errorf(messages.ConfigRuntimeCandidateEmptyFmt, path, i)
		}
	}
	if v := strings.TrimSpace(c.Runtime.MinVersion); v != "" {
		if _, err := goversion.NewVersion(v); err != nil {
			return fmt.Errorf(messages.ConfigMinVersionInvalidFmt, path, v)
		}
	}
	for i, pkg := range c.Dependencies.Packages {
		if strings.TrimSpace(pkg) == "" || strings.HasPrefix(strings.TrimSpace(pkg), "-") {
			return fmt.Errorf(messages.ConfigPackageInvalidFmt, path, i, pkg)
		}
	}
	if _, err := deploy.ParseCollisionPolicy(c.Assets.Collision); err != nil {
		return fmt.Errorf(messages.ConfigAssetsCollisionInvalidFmt, path, err)
	}
	if c.Update.TimeoutSeconds < 0 {
		return fmt.Errorf(messages.ConfigUpdateTimeoutInvalidFmt, path)
	}
	if repo := strings.TrimSpace(c.Update.Repo); repo != "" && strings.Count(repo, "/") != 1 {
		return fmt.Errorf(messages.ConfigUpdateRepoInvalidFmt, path, repo)
	}
	if _, ok := validWarningNoiseModes[c.Warnings.NoiseMode]; !ok {
		return fmt.Errorf(messages.ConfigWarningNoiseModeInvalidFmt, path)
	}
	if c.Logging.Level != "" {
		if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf(messages.ConfigLoggingLevelInvalidFmt, path, c.Logging.Level)
		}
	}
	return nil
}
