//go:build windows

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows/registry"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// createShortcut creates a .lnk on the desktop through the WScript.Shell COM object.
func (h Hooks) createShortcut(ctx context.Context, opts Options) (string, error) {
	if opts.DesktopDir == "" {
		// Windows has no XDG variable; go straight to %USERPROFILE%\Desktop.
		home, err := h.sys().UserHomeDir()
		if err != nil {
			return "", err
		}
		opts.DesktopDir = filepath.Join(home, "Desktop")
	}
	dir, err := h.desktopDir(opts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, opts.Name+".lnk")
	script := fmt.Sprintf(
		"$s = (New-Object -ComObject WScript.Shell).CreateShortcut(%s); $s.TargetPath = %s; $s.WorkingDirectory = %s;",
		psQuote(path), psQuote(opts.Launcher), psQuote(opts.Home.Root),
	)
	if icon := resolveIcon(opts.Home, "xui.ico"); icon != "" {
		script += fmt.Sprintf(" $s.IconLocation = %s;", psQuote(icon))
	}
	script += " $s.Save()"
	out, err := h.sys().Run(ctx, []string{"powershell", "-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", script})
	if err != nil {
		return path, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return path, nil
}

// enableAutostart registers the launcher under HKCU Run.
func (h Hooks) enableAutostart(_ context.Context, opts Options) (string, error) {
	key, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return "", err
	}
	defer func() { _ = key.Close() }()
	if err := key.SetStringValue(opts.Name, `"`+opts.Launcher+`"`); err != nil {
		return "", err
	}
	return `HKCU\` + runKeyPath + `\` + opts.Name, nil
}

// psQuote renders s as a single-quoted PowerShell string literal.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
