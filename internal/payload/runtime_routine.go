package payload

import (
	"context"
	"io"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/interpreter"
)

// RuntimeRoutine runs an external extraction script through the resolved runtime:
// <runtime> <script> --source <artifact> --out <dir>.
type RuntimeRoutine struct {
	Runtime interpreter.Runtime
	Script  string
	System  interpreter.System
	Env     interpreter.Env
	Stdout  io.Writer
	Stderr  io.Writer
}

// Run invokes the script and returns its exit code.
func (r RuntimeRoutine) Run(ctx context.Context, artifact string, out string) (int, error) {
	sys := r.System
	if sys == nil {
		sys = interpreter.RealSystem{}
	}
	args := []string{r.Script, "--source", artifact, "--out", out}
	return r.Runtime.Run(ctx, sys, args, r.Env, r.Stdout, r.Stderr)
}
