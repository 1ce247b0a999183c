package integration

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/warnings"
)

type testSystem struct {
	RunFunc         func(ctx context.Context, argv []string) ([]byte, error)
	UserHomeDirFunc func() (string, error)
	env             map[string]string
}

func (s testSystem) Run(ctx context.Context, argv []string) ([]byte, error) {
	if s.RunFunc == nil {
		return nil, errors.New("unexpected command")
	}
	return s.RunFunc(ctx, argv)
}

func (s testSystem) UserHomeDir() (string, error) {
	if s.UserHomeDirFunc == nil {
		return "", errors.New("no home")
	}
	return s.UserHomeDirFunc()
}

func (s testSystem) Getenv(key string) string {
	return s.env[key]
}

func quietHooks(sys System) Hooks {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return Hooks{System: sys, Log: l}
}

func testHome(t *testing.T) manifest.Home {
	t.Helper()
	home, err := manifest.NewHome(filepath.Join(t.TempDir(), ".xui"))
	require.NoError(t, err)
	require.NoError(t, home.Ensure(manifest.RealSystem{}))
	return home
}

func TestResultAddClassifies(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	var r Result
	r.add(l, HookShortcut, "/d/xui.desktop", nil, warnings.CodeIntegrationShortcutFailed, "shortcut failed: %v")
	r.add(l, HookShortcut, "", errSkipped, warnings.CodeIntegrationShortcutFailed, "shortcut failed: %v")
	r.add(l, HookAutostart, "", errors.New("access denied"), warnings.CodeIntegrationAutostartFailed, "autostart failed: %v")

	require.Len(t, r.Outcomes, 3)
	assert.Equal(t, StatusApplied, r.Outcomes[0].Status)
	assert.Equal(t, StatusSkipped, r.Outcomes[1].Status)
	assert.Equal(t, StatusDegraded, r.Outcomes[2].Status)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, warnings.CodeIntegrationAutostartFailed, r.Warnings[0].Code)
	assert.Contains(t, r.Warnings[0].Message, "access denied")
}

func TestApplyMissingDesktopSkips(t *testing.T) {
	home := testHome(t)
	res := quietHooks(testSystem{}).Apply(context.Background(), Options{
		Home:       home,
		Launcher:   filepath.Join(home.Bin(), "xui.sh"),
		DesktopDir: filepath.Join(t.TempDir(), "no-desktop"),
	})
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, HookShortcut, res.Outcomes[0].Hook)
	assert.Equal(t, StatusSkipped, res.Outcomes[0].Status)
	assert.Equal(t, HookAutostart, res.Outcomes[1].Hook)
	assert.Equal(t, StatusSkipped, res.Outcomes[1].Status)
	assert.Empty(t, res.Warnings)
}

func TestResolveIconSilentMiss(t *testing.T) {
	home := testHome(t)
	assert.Empty(t, resolveIcon(home))
	icon := filepath.Join(home.Assets(), "logo.png")
	require.NoError(t, os.WriteFile(icon, []byte("png"), 0o644))
	assert.Equal(t, icon, resolveIcon(home))
}
