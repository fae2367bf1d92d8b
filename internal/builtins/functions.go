package builtins

import (
	"bytes"
	"math/rand"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/yift/findit/internal/regexcache"
	"github.com/yift/findit/internal/value"
)

// Now returns the current instant as a Date. Call sites that need
// deterministic evaluation (§8 invariant 1) must avoid it.
func Now() value.Value { return value.Date(time.Now()) }

// Rand returns a pseudo-random Number in [0, 2^63).
func Rand() value.Value { return value.Number(uint64(rand.Int63())) }

// Env looks up an environment variable, returning Empty when unset.
func Env(name string) value.Value {
	v, ok := os.LookupEnv(name)
	if !ok {
		return value.Empty
	}
	return value.String(v)
}

// Replace implements replace(src, pattern, replacement): when pattern
// contains a regex metacharacter or replacement contains `$`, pattern
// goes through the regex cache (supporting `$1`..`$9` backreferences
// in replacement, the "replace(src pattern r to t)" form) and a
// pattern that fails to compile yields Empty; otherwise it does a
// literal substring replacement (the "replace(src from a to b)" form). Both
// forms share one function since findit's call-argument grammar has no
// dedicated FROM/PATTERN keyword-argument syntax at the call site.
func Replace(cache *regexcache.Cache, src, pattern, replacement string) value.Value {
	if looksLikeRegex(pattern) || strings.Contains(replacement, "$") {
		if re, ok := cache.Compile(pattern); ok {
			return value.String(re.ReplaceAllString(src, replacement))
		}
		return value.Empty
	}
	return value.String(strings.ReplaceAll(src, pattern, replacement))
}

func looksLikeRegex(pattern string) bool {
	return strings.ContainsAny(pattern, `.*+?()[]{}|^$\`)
}

// Format implements format(date AS fmt): fmt uses the same
// strftime-flavored directives parse() accepts.
func Format(date time.Time, format string) value.Value {
	layout, ok := strftimeToGoLayout(format)
	if !ok {
		return value.Empty
	}
	return value.String(date.Format(layout))
}

// Parse implements parse(str FROM fmt).
func Parse(str, format string) value.Value {
	layout, ok := strftimeToGoLayout(format)
	if !ok {
		return value.Empty
	}
	t, err := time.Parse(layout, str)
	if err != nil {
		return value.Empty
	}
	return value.Date(t)
}

var strftimeDirectives = map[byte]string{
	'Y': "2006", 'm': "01", 'd': "02",
	'H': "15", 'M': "04", 'S': "05",
	'y': "06", 'B': "January", 'b': "Jan",
}

// strftimeToGoLayout translates a small, documented subset of strftime
// directives (%Y %m %d %H %M %S %y %B %b) into a Go reference layout.
func strftimeToGoLayout(format string) (string, bool) {
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] == '%' && i+1 < len(format) {
			directive, ok := strftimeDirectives[format[i+1]]
			if !ok {
				return "", false
			}
			sb.WriteString(directive)
			i++
			continue
		}
		sb.WriteByte(format[i])
	}
	return sb.String(), true
}

// ExecOut runs path with args to completion and returns stdout as a
// String regardless of exit status; a spawn failure yields Empty.
func ExecOut(path string, args []string) value.Value {
	cmd := exec.Command(path, args...)
	out, err := cmd.Output()
	if err != nil {
		if _, isExit := err.(*exec.ExitError); !isExit {
			return value.Empty
		}
	}
	return value.String(string(out))
}

// Execute runs path with args to completion, optionally redirecting
// stdout to intoFile, and returns a Boolean success flag.
func Execute(path string, args []string, intoFile string) value.Value {
	cmd := exec.Command(path, args...)
	var buf bytes.Buffer
	if intoFile != "" {
		cmd.Stdout = &buf
	}
	err := cmd.Run()
	if intoFile != "" {
		_ = os.WriteFile(intoFile, buf.Bytes(), 0o644)
	}
	return value.Boolean(err == nil)
}

// Spawn starts path detached and returns its process ID as a Number;
// spawn failure yields Empty. The process is not waited on (§5).
func Spawn(path string, args []string, intoFile string) value.Value {
	cmd := exec.Command(path, args...)
	if intoFile != "" {
		f, err := os.Create(intoFile)
		if err == nil {
			cmd.Stdout = f
		}
	}
	if err := cmd.Start(); err != nil {
		return value.Empty
	}
	pid := cmd.Process.Pid
	go cmd.Wait()
	return value.Number(uint64(pid))
}
