package eval

import "github.com/yift/findit/internal/value"

// FileContext is the interface the evaluator consumes (§6); it is
// implemented by internal/fsctx against the real filesystem and can be
// faked in tests. Every accessor returns Empty rather than an error on
// failure, per the normative §4.4 rule that I/O problems never surface
// as RuntimeErrors.
type FileContext interface {
	// Property resolves one of the §4.5 path/file properties (already
	// alias-canonicalized by the caller) against the current file.
	Property(name string) value.Value
	// Child resolves name as a path relative to this context, backing
	// the `/` operator; it need not exist on disk.
	Child(name string) FileContext
	// DebugSink is the writer debug(...) appends to, or nil when no
	// --debug-log was configured.
	DebugSink() DebugSink
}

// DebugSink receives rendered debug(...) output.
type DebugSink interface {
	WriteDebug(s string)
}
