package interpreter

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// testSystem records every invocation and answers from a table keyed by the
// joined argv. Unknown commands fail to start.
type testSystem struct {
	responses map[string]testResponse
	calls     []Command
}

type testResponse struct {
	code   int
	output string
	err    error
}

func newTestSystem() *testSystem {
	return &testSystem{responses: map[string]testResponse{}}
}

func (s *testSystem) on(argv string, code int, output string) *testSystem {
	s.responses[argv] = testResponse{code: code, output: output}
	return s
}

func (s *testSystem) Run(_ context.Context, cmd Command) (int, error) {
	s.calls = append(s.calls, cmd)
	key := strings.Join(cmd.Argv, " ")
	resp, ok := s.responses[key]
	if !ok {
		return -1, fmt.Errorf("exec: %q: executable file not found in $PATH", cmd.Argv[0])
	}
	if resp.output != "" && cmd.Stdout != nil {
		_, _ = io.WriteString(cmd.Stdout, resp.output)
	}
	return resp.code, resp.err
}

func (s *testSystem) Environ() []string {
	return []string{"PATH=/usr/bin", "HOME=/home/test"}
}

func (s *testSystem) argvs() []string {
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, strings.Join(c.Argv, " "))
	}
	return out
}
