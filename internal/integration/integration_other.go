//go:build !windows

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/fsutil"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/templates"
)

const desktopFileName = "xui.desktop"

type desktopEntry struct {
	Name      string
	Exec      string
	WorkDir   string
	Icon      string
	Autostart bool
}

// createShortcut writes an XDG desktop entry into the desktop directory.
func (h Hooks) createShortcut(_ context.Context, opts Options) (string, error) {
	dir, err := h.desktopDir(opts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, desktopFileName)
	return path, writeDesktopEntry(path, opts, false)
}

// enableAutostart writes an XDG autostart entry.
func (h Hooks) enableAutostart(_ context.Context, opts Options) (string, error) {
	dir := opts.AutostartDir
	if dir == "" {
		config := h.sys().Getenv("XDG_CONFIG_HOME")
		if config == "" {
			home, err := h.sys().UserHomeDir()
			if err != nil {
				return "", err
			}
			config = filepath.Join(home, ".config")
		}
		dir = filepath.Join(config, "autostart")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, desktopFileName)
	return path, writeDesktopEntry(path, opts, true)
}

func writeDesktopEntry(path string, opts Options, autostart bool) error {
	data, err := templates.Render(templates.DesktopEntry, desktopEntry{
		Name:      opts.Name,
		Exec:      opts.Launcher,
		WorkDir:   opts.Home.Root,
		Icon:      resolveIcon(opts.Home, "xui.png"),
		Autostart: autostart,
	})
	if err != nil {
		return fmt.Errorf("render desktop entry: %w", err)
	}
	return fsutil.WriteFileAtomic(path, data, 0o755)
}
