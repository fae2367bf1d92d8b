// Package diag formats compile- and run-time problems for the CLI
// (§7's ParseError/RuntimeError, pretty-printed with a caret the way
// the teacher's errors package does) and implements the optional
// debug(...) sink a --debug-log flag installs.
package diag

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/renameio/v2"

	"github.com/yift/findit/internal/errors"
)

// FormatParse renders a ParseError with a caret under the offending
// span.
func FormatParse(err *errors.ParseError, color bool) string {
	return err.Format(color)
}

// FormatRuntime renders a RuntimeError for stderr.
func FormatRuntime(err *errors.RuntimeError) string {
	return err.Error()
}

// DebugLog collects debug(...) builtin output across an entire run and
// flushes it to path in one atomic, torn-write-free write via
// renameio.WriteFile (§ ambient Logging & diagnostics) — renameio
// replaces the destination file wholesale rather than truly
// appending, so findit buffers in memory for the run's duration and
// flushes once at exit instead of writing per call.
type DebugLog struct {
	path string

	mu sync.Mutex
	sb strings.Builder
}

// NewDebugLog prepares a DebugLog that will be flushed to path on Flush.
func NewDebugLog(path string) *DebugLog {
	return &DebugLog{path: path}
}

// WriteDebug implements eval.DebugSink.
func (d *DebugLog) WriteDebug(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sb.WriteString(s)
	d.sb.WriteString("\n")
}

// Flush atomically writes the buffered debug output to disk.
func (d *DebugLog) Flush() error {
	d.mu.Lock()
	data := []byte(d.sb.String())
	d.mu.Unlock()
	if err := renameio.WriteFile(d.path, data, 0o644); err != nil {
		return fmt.Errorf("flushing debug log %s: %w", d.path, err)
	}
	return nil
}
