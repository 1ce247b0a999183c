package interpreter

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/testutil"
)

func windowsCandidates() []Candidate {
	return DefaultCandidates("windows")
}

func TestResolveFirstSuccessInOrder(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*testSystem)
		wantName string
		wantVer  string
		invoked  []string
	}{
		{
			name: "first candidate succeeds",
			setup: func(s *testSystem) {
				s.on("py -3 --version", 0, "Python 3.11.4\n")
				s.on("python --version", 0, "Python 3.10.0\n")
			},
			wantName: "py",
			wantVer:  "3.11.4",
			invoked:  []string{"py -3 --version"},
		},
		{
			name: "falls through failed exit",
			setup: func(s *testSystem) {
				s.on("py -3 --version", 1, "")
				s.on("python --version", 0, "Python 3.9.1\n")
				s.on("python3 --version", 0, "Python 3.12.0\n")
			},
			wantName: "python",
			wantVer:  "3.9.1",
			invoked:  []string{"py -3 --version", "python --version"},
		},
		{
			name: "falls through missing executables",
			setup: func(s *testSystem) {
				s.on("python3 --version", 0, "Python 3.12.2\n")
			},
			wantName: "python3",
			wantVer:  "3.12.2",
			invoked:  []string{"py -3 --version", "python --version", "python3 --version"},
		},
		{
			name: "unparseable version still accepted",
			setup: func(s *testSystem) {
				s.on("py -3 --version", 0, "Python (custom build)\n")
			},
			wantName: "py",
			wantVer:  "",
			invoked:  []string{"py -3 --version"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := newTestSystem()
			tt.setup(sys)
			r, err := NewResolver(sys, windowsCandidates(), "")
			require.NoError(t, err)

			rt, err := r.Resolve(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name)
			assert.Equal(t, tt.wantVer, rt.Version)
			assert.Equal(t, tt.invoked, sys.argvs())
			assert.Equal(t, StateResolved, r.State())
		})
	}
}

func TestResolveMemoizes(t *testing.T) {
	sys := newTestSystem().on("py -3 --version", 0, "Python 3.11.4")
	r, err := NewResolver(sys, windowsCandidates(), "")
	require.NoError(t, err)

	first, err := r.Resolve(context.Background())
	require.NoError(t, err)
	// Make the first candidate fail; the memoized choice must not change.
	sys.on("py -3 --version", 1, "")
	second, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Len(t, sys.calls, 1)
}

func TestResolveExhausted(t *testing.T) {
	sys := newTestSystem().on("py -3 --version", 9009, "")
	r, err := NewResolver(sys, windowsCandidates(), "")
	require.NoError(t, err)

	_, err = r.Resolve(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRuntimeNotFound))
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	require.Len(t, nf.Attempts, 3)
	require.Contains(t, err.Error(), "py -3")
	require.Contains(t, err.Error(), "python3")
	require.Equal(t, StateExhausted, r.State())

	// Exhaustion is memoized as well.
	calls := len(sys.calls)
	_, err2 := r.Resolve(context.Background())
	require.Same(t, err, err2)
	require.Len(t, sys.calls, calls)
}

func TestResolveNoCandidates(t *testing.T) {
	r, err := NewResolver(newTestSystem(), nil, "")
	require.NoError(t, err)
	_, err = r.Resolve(context.Background())
	require.ErrorIs(t, err, ErrRuntimeNotFound)
}

func TestResolveMinVersion(t *testing.T) {
	sys := newTestSystem().
		on("py -3 --version", 0, "Python 3.6.8").
		on("python --version", 0, "Python 3.10.2")
	r, err := NewResolver(sys, windowsCandidates(), "3.8")
	require.NoError(t, err)

	rt, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "python", rt.Name)
}

func TestNewResolverValidation(t *testing.T) {
	_, err := NewResolver(nil, windowsCandidates(), "")
	require.Error(t, err)

	_, err = NewResolver(newTestSystem(), windowsCandidates(), "not-a-version")
	require.Error(t, err)
}

func TestResolveCanceledContextIsRetryable(t *testing.T) {
	sys := newTestSystem()
	r, err := NewResolver(sys, windowsCandidates(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Resolve(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, StateUnresolved, r.State())
}

func TestRuntimeCommandAppliesEnv(t *testing.T) {
	rt := Runtime{Name: "py", Argv: []string{"py", "-3"}}
	cmd := rt.Command([]string{"-m", "pip"}, Env{Vars: map[string]string{"XUI_HOME": "/x"}}, []string{"PATH=/usr/bin"})
	require.Equal(t, []string{"py", "-3", "-m", "pip"}, cmd.Argv)
	require.Contains(t, cmd.Env, "XUI_HOME=/x")
	require.Equal(t, "py -3", rt.String())
}

func TestRealSystemVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	testutil.WriteStubWithExit(t, dir, "broken-python", 3)
	testutil.WriteStub(t, dir, "good-python")

	candidates := []Candidate{
		{Name: "broken", Argv: []string{filepath.Join(dir, "broken-python")}},
		{Name: "missing", Argv: []string{filepath.Join(dir, "does-not-exist")}},
		{Name: "good", Argv: []string{filepath.Join(dir, "good-python")}},
	}
	r, err := NewResolver(RealSystem{}, candidates, "")
	require.NoError(t, err)
	rt, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "good", rt.Name)
	require.Empty(t, rt.Version)

	code, err := rt.Run(context.Background(), RealSystem{}, nil, Env{}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, code)
}

func TestRealSystemRunEmptyCommand(t *testing.T) {
	code, err := RealSystem{}.Run(context.Background(), Command{})
	assert.Equal(t, -1, code)
	require.EqualError(t, err, messages.RuntimeEmptyCommand)
}

func TestRealSystemVersionOnPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	dir := t.TempDir()
	testutil.WriteStubWithOutput(t, dir, "xui-test-python", "Python 3.12.1", 0)
	testutil.PrependPath(t, dir)

	r, err := NewResolver(RealSystem{}, []Candidate{{Name: "xui-test-python", Argv: []string{"xui-test-python"}}}, "3.8")
	require.NoError(t, err)
	rt, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.12.1", rt.Version)
	assert.Equal(t, StateResolved, r.State())
}
