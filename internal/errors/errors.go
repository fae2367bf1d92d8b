// Package errors formats the two error kinds findit ever raises:
// ParseError for a malformed expression (reported before any file is
// visited) and RuntimeError for the handful of evaluation failures
// that are not allowed to silently become Empty. Both carry a source
// span so the CLI can print a caret pointing at the offending text.
package errors

import (
	"fmt"
	"strings"

	"github.com/yift/findit/internal/lexer"
)

// ParseError is an unrecoverable compile-time failure: a lexical or
// syntactic problem found while building the expression tree. Parsing
// does not attempt recovery past the first one reported by the caller.
type ParseError struct {
	Message string
	Code    string
	Pos     lexer.Position
	Length  int
	Source  string
}

func (e *ParseError) Error() string { return e.Format(false) }

// NewParseError builds a ParseError carrying the full source so Format
// can print the offending line.
func NewParseError(pos lexer.Position, length int, message, code, source string) *ParseError {
	return &ParseError{Message: message, Code: code, Pos: pos, Length: length, Source: source}
}

// Format renders the error with a source line and caret, the way a
// terminal-facing CLI would print it. With color set, the caret and
// message are wrapped in ANSI escapes.
func (e *ParseError) Format(color bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("parse error at %d:%d: %s\n", e.Pos.Line, e.Pos.Column, e.Message))
	line := sourceLine(e.Source, e.Pos.Line)
	if line == "" {
		return strings.TrimRight(sb.String(), "\n")
	}
	prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
	sb.WriteString(prefix)
	sb.WriteString(line)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString(strings.Repeat("^", max(1, e.Length)))
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// RuntimeErrorKind enumerates the only three situations §7 allows to
// surface as a RuntimeError rather than propagate as Empty.
type RuntimeErrorKind string

const (
	// KindLambdaArity is a lambda passed where no lambda is accepted:
	// it fires when a lambda argument is given to a method or function
	// that takes only plain (non-lambda) arguments.
	KindLambdaArity RuntimeErrorKind = "lambda-arity"
	// KindNonBooleanFilter is a --where expression that evaluated to
	// something other than Boolean or Empty.
	KindNonBooleanFilter RuntimeErrorKind = "non-boolean-filter"
	// KindUnorderableBetween is BETWEEN applied to non-Empty bounds
	// that cannot be compared to each other.
	KindUnorderableBetween RuntimeErrorKind = "unorderable-between"
)

// RuntimeError is raised during evaluation for the narrow set of
// failures the language treats as fatal rather than Empty-producing.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Message string
	Pos     lexer.Position
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// NewRuntimeError constructs a RuntimeError of the given kind.
func NewRuntimeError(kind RuntimeErrorKind, pos lexer.Position, message string) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: message, Pos: pos}
}
