package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

// Home subdirectory names.
const (
	DirAssets    = "assets"
	DirBin       = "bin"
	DirDashboard = "dashboard"
	DirData      = "data"
	DirGames     = "games"
	DirLogs      = "logs"
)

// DefaultHomeName is the directory created under the user's home.
const DefaultHomeName = ".xui"

var homeDirs = []string{DirAssets, DirBin, DirDashboard, DirData, DirGames, DirLogs}

// System is the filesystem surface Home needs.
type System interface {
	MkdirAll(path string, perm os.FileMode) error
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Home is the per-user application home directory tree.
type Home struct {
	Root string
}

// NewHome returns a Home rooted at the absolute form of root.
func NewHome(root string) (Home, error) {
	if root == "" {
		return Home{}, fmt.Errorf(messages.ManifestHomeRequired)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Home{}, fmt.Errorf(messages.ManifestResolveHomeFmt, root, err)
	}
	return Home{Root: abs}, nil
}

func (h Home) Assets() string    { return filepath.Join(h.Root, DirAssets) }
func (h Home) Bin() string       { return filepath.Join(h.Root, DirBin) }
func (h Home) Dashboard() string { return filepath.Join(h.Root, DirDashboard) }
func (h Home) Data() string      { return filepath.Join(h.Root, DirData) }
func (h Home) Games() string     { return filepath.Join(h.Root, DirGames) }
func (h Home) Logs() string      { return filepath.Join(h.Root, DirLogs) }

// Dirs lists every subdirectory of the home in creation order.
func (h Home) Dirs() []string {
	out := make([]string, 0, len(homeDirs))
	for _, d := range homeDirs {
		out = append(out, filepath.Join(h.Root, d))
	}
	return out
}

// Ensure creates the home tree. Existing directories are not an error.
func (h Home) Ensure(sys System) error {
	for _, dir := range h.Dirs() {
		if err := sys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf(messages.ManifestCreateDirFailedFmt, dir, err)
		}
	}
	return nil
}

// StagingDir is the extraction staging directory for this home.
func (h Home) StagingDir() string {
	return filepath.Join(h.Root, ".staging")
}

func isHomeDir(name string) bool {
	for _, d := range homeDirs {
		if d == name {
			return true
		}
	}
	return false
}
