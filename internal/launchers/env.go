package launchers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/envfile"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

// EnvFileName is read by both entry points from <home>/data.
const EnvFileName = "xui.env"

// Keys written to the env file.
const (
	EnvHome         = "XUI_HOME"
	EnvRuntime      = "XUI_RUNTIME"
	EnvUpdateBranch = "XUI_UPDATE_BRANCH"
	EnvPathPrepend  = "XUI_PATH_PREPEND"
)

// EnvFilePath returns <home>/data/xui.env.
func EnvFilePath(home manifest.Home) string {
	return filepath.Join(home.Data(), EnvFileName)
}

// WriteEnv merges values into the env file. Keys with empty values are left
// untouched, as are lines the installer does not own.
func WriteEnv(home manifest.Home, values map[string]string) (string, error) {
	path := EnvFilePath(home)
	if err := os.MkdirAll(home.Data(), 0o755); err != nil {
		return "", fmt.Errorf(messages.LaunchersCreateDirFailedFmt, home.Data(), err)
	}
	if err := envfile.PatchFile(path, values, messages.LaunchersEnvFileHeader); err != nil {
		return "", err
	}
	return path, nil
}
