// Package envfile reads and patches the KEY=VALUE file the launchers source.
// Comments, blank lines and lines it does not understand survive a patch.
package envfile

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/fsutil"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

// Parse returns the assignments in content. A later assignment of the same
// key wins.
func Parse(content string) (map[string]string, error) {
	env := make(map[string]string)
	for i, line := range splitLines(content) {
		key, value, ok, err := scanLine(line)
		if err != nil {
			return nil, fmt.Errorf(messages.EnvfileLineErrorFmt, i+1, err)
		}
		if ok {
			env[key] = value
		}
	}
	return env, nil
}

// Patch rewrites content so every non-empty entry of updates is assigned
// exactly once. Existing keys are replaced at their first occurrence and
// new keys are appended in sorted order.
func Patch(content string, updates map[string]string) string {
	keys := make([]string, 0, len(updates))
	for key, value := range updates {
		if value != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return content
	}
	sort.Strings(keys)

	lines := splitLines(content)
	out := make([]string, 0, len(lines)+len(keys)+1)
	written := make(map[string]bool, len(keys))
	for _, line := range lines {
		key, _, ok, err := scanLine(line)
		if err != nil || !ok || updates[key] == "" {
			out = append(out, line)
			continue
		}
		if written[key] {
			continue
		}
		out = append(out, assign(key, updates[key]))
		written[key] = true
	}

	separated := false
	for _, key := range keys {
		if written[key] {
			continue
		}
		if !separated && len(out) > 0 && out[len(out)-1] != "" {
			out = append(out, "")
		}
		separated = true
		out = append(out, assign(key, updates[key]))
	}
	return strings.Join(out, "\n")
}

// PatchFile applies Patch to the file at path. A missing or empty file is
// started with header rendered as comment lines.
func PatchFile(path string, updates map[string]string, header string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf(messages.EnvfileReadFileFmt, path, err)
	}
	content := string(data)
	if content == "" && header != "" {
		var b strings.Builder
		for _, line := range strings.Split(strings.TrimRight(header, "\n"), "\n") {
			fmt.Fprintf(&b, "# %s\n", line)
		}
		content = b.String()
	}

	patched := Patch(content, updates)
	if !strings.HasSuffix(patched, "\n") {
		patched += "\n"
	}
	if err := fsutil.WriteFileAtomic(path, []byte(patched), 0o644); err != nil {
		return fmt.Errorf(messages.EnvfileWriteFileFmt, path, err)
	}
	return nil
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// scanLine reports whether line is an assignment. Blank lines and comments
// are not; anything else without a key is an error.
func scanLine(line string) (key, value string, ok bool, err error) {
	s := strings.TrimSpace(line)
	if s == "" || s[0] == '#' {
		return "", "", false, nil
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "export "))

	name, rest, found := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return "", "", false, errors.New(messages.EnvfileExpectedKeyValue)
	}
	value, err = readValue(strings.TrimSpace(rest))
	if err != nil {
		return "", "", false, err
	}
	return name, value, true, nil
}

// readValue decodes the right-hand side of an assignment. Quoted values may
// be followed only by whitespace or a comment.
func readValue(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	var decoded string
	var tail string
	switch raw[0] {
	case '\'':
		end := strings.IndexByte(raw[1:], '\'')
		if end < 0 {
			return "", errors.New(messages.EnvfileUnterminatedQuotedValue)
		}
		decoded, tail = raw[1:end+1], raw[end+2:]
	case '"':
		var b strings.Builder
		closed := false
		i := 1
		for ; i < len(raw) && !closed; i++ {
			c := raw[i]
			switch {
			case c == '"':
				closed = true
			case c == '\\' && i+1 < len(raw):
				i++
				switch raw[i] {
				case 'n':
					b.WriteByte('\n')
				case 'r':
					b.WriteByte('\r')
				case '"', '\\':
					b.WriteByte(raw[i])
				default:
					b.WriteByte('\\')
					b.WriteByte(raw[i])
				}
			default:
				b.WriteByte(c)
			}
		}
		if !closed {
			return "", errors.New(messages.EnvfileUnterminatedQuotedValue)
		}
		decoded, tail = b.String(), raw[i:]
	default:
		return raw, nil
	}

	tail = strings.TrimSpace(tail)
	if tail != "" && tail[0] != '#' {
		return "", errors.New(messages.EnvfileInvalidQuotedSuffix)
	}
	return decoded, nil
}

func assign(key, value string) string {
	return key + "=" + quote(value)
}

// quote wraps value in double quotes when a shell or Parse would otherwise
// split, truncate or reinterpret it.
func quote(value string) string {
	if !strings.ContainsAny(value, " \t#\n\r\"") && !strings.HasPrefix(value, "'") {
		return value
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
	return `"` + r.Replace(value) + `"`
}
