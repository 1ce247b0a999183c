// Package templates embeds the text templates the installer renders: launcher
// entry points, desktop entries, and bundle documents.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"text/template"
)

//go:embed launchers integration bundle
var files embed.FS

// Template paths.
const (
	LauncherShell   = "launchers/xui.sh.tmpl"
	LauncherCmd     = "launchers/xui.cmd.tmpl"
	DesktopEntry    = "integration/xui.desktop.tmpl"
	BundleInstaller = "bundle/INSTALL.cmd.tmpl"
	BundleReadme    = "bundle/README.txt.tmpl"
)

// Read returns the raw template at path.
func Read(path string) ([]byte, error) {
	return files.ReadFile(path)
}

// Walk walks the embedded tree rooted at root.
func Walk(root string, fn fs.WalkDirFunc) error {
	return fs.WalkDir(files, root, fn)
}

// Render executes the template at path with data. Missing keys are errors.
func Render(path string, data any) ([]byte, error) {
	raw, err := Read(path)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(path).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}
	return buf.Bytes(), nil
}
