package interpreter

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
)

// Env is an explicit environment augmentation handed from one stage to the
// invocations that follow it. It is never applied to the installer's own process.
type Env struct {
	Vars        map[string]string
	PathPrepend []string
}

// IsZero reports whether the augmentation carries nothing.
func (e Env) IsZero() bool {
	return len(e.Vars) == 0 && len(e.PathPrepend) == 0
}

// Merge returns a new Env with other layered on top of e.
func (e Env) Merge(other Env) Env {
	out := Env{}
	if len(e.Vars)+len(other.Vars) > 0 {
		out.Vars = make(map[string]string, len(e.Vars)+len(other.Vars))
		for k, v := range e.Vars {
			out.Vars[k] = v
		}
		for k, v := range other.Vars {
			out.Vars[k] = v
		}
	}
	seen := make(map[string]struct{})
	for _, dir := range append(append([]string{}, other.PathPrepend...), e.PathPrepend...) {
		if dir == "" {
			continue
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		out.PathPrepend = append(out.PathPrepend, dir)
	}
	return out
}

// Apply returns base with the augmentation applied. base is not modified.
func (e Env) Apply(base []string) []string {
	env := append([]string(nil), base...)
	keys := make([]string, 0, len(e.Vars))
	for k := range e.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = SetEnv(env, k, e.Vars[k])
	}
	if len(e.PathPrepend) > 0 {
		current, _ := GetEnv(env, "PATH")
		parts := append([]string{}, e.PathPrepend...)
		if current != "" {
			parts = append(parts, current)
		}
		env = SetEnv(env, "PATH", strings.Join(parts, string(os.PathListSeparator)))
	}
	return env
}

// PathPrependValue joins PathPrepend with the host list separator.
func (e Env) PathPrependValue() string {
	return strings.Join(e.PathPrepend, string(os.PathListSeparator))
}

// GetEnv returns the value for the key from an env slice.
func GetEnv(env []string, key string) (string, bool) {
	for _, entry := range env {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) == 2 && keyEqual(parts[0], key) {
			return parts[1], true
		}
	}
	return "", false
}

// SetEnv sets or appends a key=value entry in an env slice.
func SetEnv(env []string, key string, value string) []string {
	entry := fmt.Sprintf("%s=%s", key, value)
	for i, existing := range env {
		parts := strings.SplitN(existing, "=", 2)
		if len(parts) == 2 && keyEqual(parts[0], key) {
			env[i] = entry
			return env
		}
	}
	return append(env, entry)
}

// keyEqual compares environment keys the way the host does. Windows keys are
// case-insensitive (Path vs PATH).
func keyEqual(a string, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
