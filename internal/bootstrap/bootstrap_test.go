package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/interpreter"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/testutil"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/warnings"
)

type testSystem struct {
	RunFunc func(cmd interpreter.Command) (int, string, error)
	calls   []interpreter.Command
}

func (s *testSystem) Run(_ context.Context, cmd interpreter.Command) (int, error) {
	s.calls = append(s.calls, cmd)
	code, out, err := s.RunFunc(cmd)
	if out != "" && cmd.Stdout != nil {
		_, _ = io.WriteString(cmd.Stdout, out)
	}
	return code, err
}

func (s *testSystem) Environ() []string {
	return []string{"PATH=/usr/bin"}
}

func (s *testSystem) commands() []string {
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, strings.Join(c.Argv, " "))
	}
	return out
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var py = interpreter.Runtime{Name: "python3", Argv: []string{"python3"}}

func TestRunSuccess(t *testing.T) {
	sys := &testSystem{RunFunc: func(cmd interpreter.Command) (int, string, error) {
		if strings.Contains(strings.Join(cmd.Argv, " "), "site --user-base") {
			return 0, "/home/u/.local\n", nil
		}
		return 0, "", nil
	}}
	b := Bootstrapper{System: sys, Log: quietLogger(), GOOS: "linux"}

	res, err := b.Run(context.Background(), py, interpreter.Env{})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, []string{"/home/u/.local/bin"}, res.Env.PathPrepend)
	assert.Equal(t, []string{
		"python3 -m pip install --upgrade pip",
		"python3 -m pip install --user --upgrade PyQt5 PyQtWebEngine requests psutil",
		"python3 -m site --user-base",
	}, sys.commands())
}

func TestRunFailuresAreWarnings(t *testing.T) {
	sys := &testSystem{RunFunc: func(cmd interpreter.Command) (int, string, error) {
		joined := strings.Join(cmd.Argv, " ")
		switch {
		case strings.HasSuffix(joined, "--upgrade pip"):
			return 1, "", nil
		case strings.Contains(joined, "--user --upgrade"):
			return -1, "", fmt.Errorf("network down")
		default:
			return 2, "", nil
		}
	}}
	b := Bootstrapper{System: sys, Log: quietLogger(), Packages: []string{"requests"}, GOOS: "linux"}

	res, err := b.Run(context.Background(), py, interpreter.Env{})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 3)
	assert.Equal(t, warnings.CodeDepsPipUpgradeFailed, res.Warnings[0].Code)
	assert.Equal(t, warnings.CodeDepsInstallFailed, res.Warnings[1].Code)
	assert.Equal(t, []string{"network down"}, res.Warnings[1].Details)
	assert.Equal(t, warnings.CodeDepsUserBaseUnavailable, res.Warnings[2].Code)
	assert.True(t, res.Env.IsZero())
}

func TestRunWindowsScriptsDir(t *testing.T) {
	sys := &testSystem{RunFunc: func(cmd interpreter.Command) (int, string, error) {
		if strings.Contains(strings.Join(cmd.Argv, " "), "site --user-site") {
			return 0, `C:\Users\u\AppData\Roaming\Python\Python311\site-packages` + "\r\n", nil
		}
		return 0, "", nil
	}}
	b := Bootstrapper{System: sys, Log: quietLogger(), GOOS: "windows"}
	rt := interpreter.Runtime{Name: "py", Argv: []string{"py", "-3"}}

	res, err := b.Run(context.Background(), rt, interpreter.Env{})
	require.NoError(t, err)
	assert.Equal(t, []string{`C:\Users\u\AppData\Roaming\Python\Python311\Scripts`}, res.Env.PathPrepend)
	assert.Equal(t, "py -3 -m pip install --upgrade pip", sys.commands()[0])
}

func TestRunPassesEnvAugmentation(t *testing.T) {
	var seen []string
	sys := &testSystem{RunFunc: func(cmd interpreter.Command) (int, string, error) {
		seen = cmd.Env
		return 0, "/base", nil
	}}
	b := Bootstrapper{System: sys, Log: quietLogger(), GOOS: "linux"}
	_, err := b.Run(context.Background(), py, interpreter.Env{Vars: map[string]string{"XUI_HOME": "/h"}})
	require.NoError(t, err)
	assert.Contains(t, seen, "XUI_HOME=/h")
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sys := &testSystem{RunFunc: func(interpreter.Command) (int, string, error) {
		cancel()
		return -1, "", context.Canceled
	}}
	_, err := Bootstrapper{System: sys, Log: quietLogger()}.Run(ctx, py, interpreter.Env{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, sys.calls, 1)
}

func TestRunRealSystem(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	dir := t.TempDir()
	logPath := filepath.Join(dir, "args.log")
	testutil.WriteStubLogArgs(t, dir, "python", logPath)
	rt := interpreter.Runtime{Name: "python", Argv: []string{filepath.Join(dir, "python")}}

	b := Bootstrapper{Packages: []string{"requests"}, Log: quietLogger(), GOOS: "linux", Stdout: io.Discard, Stderr: io.Discard}
	res, err := b.Run(context.Background(), rt, interpreter.Env{})
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "-m pip install --upgrade pip\n-m pip install --user --upgrade requests\n-m site --user-base\n", string(data))
	// The stub prints no user base, so PATH is left alone.
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, warnings.CodeDepsUserBaseUnavailable, res.Warnings[0].Code)
	assert.True(t, res.Env.IsZero())
}
