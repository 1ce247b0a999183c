// Package launchers writes the application entry points into the home bin
// directory.
package launchers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/fsutil"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/templates"
)

// System is the minimal interface needed for launcher operations.
type System interface {
	MkdirAll(path string, perm os.FileMode) error
	WriteFileAtomic(filename string, data []byte, perm os.FileMode) error
}

// RealSystem implements System using actual system calls.
type RealSystem struct{}

// MkdirAll creates a directory and all parent directories.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// WriteFileAtomic writes data to path atomically.
func (RealSystem) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return fsutil.WriteFileAtomic(path, data, perm)
}

// Launcher file names inside <home>/bin.
const (
	ShellName = "xui.sh"
	CmdName   = "xui.cmd"
)

// Paths are the generated entry points.
type Paths struct {
	Shell string
	Cmd   string
}

// LauncherPaths returns the entry point paths for home.
func LauncherPaths(home manifest.Home) Paths {
	return Paths{
		Shell: filepath.Join(home.Bin(), ShellName),
		Cmd:   filepath.Join(home.Bin(), CmdName),
	}
}

// Native returns the entry point for goos.
func (p Paths) Native(goos string) string {
	if goos == "windows" {
		return p.Cmd
	}
	return p.Shell
}

type launcherData struct {
	Home      string
	Dashboard string
}

// Write generates both entry points. dashboard is the slash-separated path of
// the dashboard script relative to the home. Both files are always written so a
// home shared between systems keeps working.
// - <home>/bin/xui.sh (POSIX shell, 0755)
// - <home>/bin/xui.cmd (Windows batch, CRLF line endings)
func Write(sys System, home manifest.Home, dashboard string) (Paths, error) {
	paths := LauncherPaths(home)
	if err := sys.MkdirAll(home.Bin(), 0o755); err != nil {
		return Paths{}, fmt.Errorf(messages.LaunchersCreateDirFailedFmt, home.Bin(), err)
	}

	shell := launcherData{Home: filepath.ToSlash(home.Root), Dashboard: dashboard}
	if err := writeTemplateFile(sys, paths.Shell, templates.LauncherShell, shell, false); err != nil {
		return Paths{}, err
	}

	cmd := launcherData{
		Home:      strings.ReplaceAll(home.Root, "/", `\`),
		Dashboard: strings.ReplaceAll(dashboard, "/", `\`),
	}
	if err := writeTemplateFile(sys, paths.Cmd, templates.LauncherCmd, cmd, true); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

func writeTemplateFile(sys System, destinationPath string, templatePath string, data launcherData, crlf bool) error {
	out, err := templates.Render(templatePath, data)
	if err != nil {
		return fmt.Errorf(messages.LaunchersRenderFailedFmt, templatePath, err)
	}
	if crlf {
		out = []byte(strings.ReplaceAll(string(out), "\n", "\r\n"))
	}
	if err := sys.WriteFileAtomic(destinationPath, out, 0o755); err != nil {
		return fmt.Errorf(messages.LaunchersWriteFailedFmt, destinationPath, err)
	}
	return nil
}
