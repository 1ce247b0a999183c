// Package interpreter discovers the command runtime (a Python launcher) used by
// every later install stage.
package interpreter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

// ErrRuntimeNotFound is wrapped by NotFoundError when every candidate failed.
var ErrRuntimeNotFound = errors.New(messages.RuntimeErrNotFound)

// Candidate is one launcher invocation to try, e.g. {"py", ["py", "-3"]}.
type Candidate struct {
	Name string
	Argv []string
}

// DefaultCandidates returns the candidate order for the host OS.
func DefaultCandidates(goos string) []Candidate {
	if goos == "windows" {
		return []Candidate{
			{Name: "py", Argv: []string{"py", "-3"}},
			{Name: "python", Argv: []string{"python"}},
			{Name: "python3", Argv: []string{"python3"}},
		}
	}
	return []Candidate{
		{Name: "python3", Argv: []string{"python3"}},
		{Name: "python", Argv: []string{"python"}},
	}
}

// Runtime is a resolved, usable runtime invocation.
type Runtime struct {
	Name string
	Argv []string
	// Version is empty when the --version output did not contain a version.
	Version string
}

// String renders the invocation as a shell-like command line.
func (r Runtime) String() string {
	return strings.Join(r.Argv, " ")
}

// Command builds the invocation of args through the runtime.
func (r Runtime) Command(args []string, env Env, base []string) Command {
	argv := make([]string, 0, len(r.Argv)+len(args))
	argv = append(argv, r.Argv...)
	argv = append(argv, args...)
	return Command{Argv: argv, Env: env.Apply(base)}
}

// Run invokes args through the runtime and returns its exit code.
func (r Runtime) Run(ctx context.Context, sys System, args []string, env Env, stdout io.Writer, stderr io.Writer) (int, error) {
	cmd := r.Command(args, env, sys.Environ())
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return sys.Run(ctx, cmd)
}

// State is the resolver lifecycle.
type State int

// Resolver states.
const (
	StateUnresolved State = iota
	StateResolved
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolved:
		return "resolved"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Attempt records why a candidate was rejected.
type Attempt struct {
	Candidate Candidate
	Err       error
}

// NotFoundError reports every rejected candidate.
type NotFoundError struct {
	Attempts []Attempt
}

func (e *NotFoundError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s (%v)", strings.Join(a.Candidate.Argv, " "), a.Err))
	}
	if len(parts) == 0 {
		return messages.RuntimeNoCandidates
	}
	return fmt.Sprintf(messages.RuntimeNotFoundFmt, strings.Join(parts, "; "))
}

// Unwrap allows errors.Is(err, ErrRuntimeNotFound).
func (e *NotFoundError) Unwrap() error {
	return ErrRuntimeNotFound
}

type check struct {
	candidate Candidate
	run       func(ctx context.Context) (Runtime, error)
}

// Resolver walks candidates in order and memoizes the first usable runtime.
type Resolver struct {
	checks   []check
	state    State
	resolved Runtime
	err      error
}

var versionPattern = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// NewResolver builds a resolver over candidates. minVersion may be empty; when
// set, a candidate reporting a lower version is rejected.
func NewResolver(sys System, candidates []Candidate, minVersion string) (*Resolver, error) {
	if sys == nil {
		return nil, errors.New(messages.RuntimeSystemRequired)
	}
	var minimum *goversion.Version
	if strings.TrimSpace(minVersion) != "" {
		v, err := goversion.NewVersion(strings.TrimSpace(minVersion))
		if err != nil {
			return nil, fmt.Errorf(messages.RuntimeInvalidMinVersionFmt, minVersion, err)
		}
		minimum = v
	}
	r := &Resolver{}
	for _, c := range candidates {
		if len(c.Argv) == 0 {
			continue
		}
		c := c
		r.checks = append(r.checks, check{
			candidate: c,
			run: func(ctx context.Context) (Runtime, error) {
				return checkCandidate(ctx, sys, c, minimum)
			},
		})
	}
	return r, nil
}

// State reports the current resolver state.
func (r *Resolver) State() State {
	return r.state
}

// Resolve returns the first candidate whose version check succeeds. Subsequent calls
// return the memoized result, including a memoized exhaustion error.
func (r *Resolver) Resolve(ctx context.Context) (Runtime, error) {
	switch r.state {
	case StateResolved:
		return r.resolved, nil
	case StateExhausted:
		return Runtime{}, r.err
	}

	notFound := &NotFoundError{}
	for _, p := range r.checks {
		rt, err := p.run(ctx)
		if err == nil {
			r.state = StateResolved
			r.resolved = rt
			return rt, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Cancellation is not exhaustion; leave the resolver retryable.
			return Runtime{}, ctxErr
		}
		notFound.Attempts = append(notFound.Attempts, Attempt{Candidate: p.candidate, Err: err})
	}
	r.state = StateExhausted
	r.err = notFound
	return Runtime{}, r.err
}

func checkCandidate(ctx context.Context, sys System, c Candidate, minimum *goversion.Version) (Runtime, error) {
	var out bytes.Buffer
	argv := append(append([]string{}, c.Argv...), "--version")
	code, err := sys.Run(ctx, Command{Argv: argv, Env: sys.Environ(), Stdout: &out, Stderr: &out})
	if err != nil {
		return Runtime{}, err
	}
	if code != 0 {
		return Runtime{}, fmt.Errorf(messages.RuntimeVersionExitFmt, code)
	}
	rt := Runtime{Name: c.Name, Argv: append([]string{}, c.Argv...)}
	raw := versionPattern.FindString(out.String())
	if raw == "" {
		return rt, nil
	}
	v, err := goversion.NewVersion(raw)
	if err != nil {
		return rt, nil
	}
	rt.Version = v.String()
	if minimum != nil && v.LessThan(minimum) {
		return Runtime{}, fmt.Errorf(messages.RuntimeVersionTooOldFmt, v, minimum)
	}
	return rt, nil
}
