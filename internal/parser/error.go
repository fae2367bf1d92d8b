package parser

import (
	"fmt"

	"github.com/yift/findit/internal/lexer"
)

// ParserError is a structured, position-carrying parse error. Scanning
// continues past each one so a single Parse call can report every
// problem in an expression, not just the first.
type ParserError struct {
	Message string
	Code    string
	Pos     lexer.Position
	Length  int
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

// NewParserError creates a new ParserError with the given parameters.
func NewParserError(pos lexer.Position, length int, message, code string) *ParserError {
	return &ParserError{Message: message, Pos: pos, Length: length, Code: code}
}

// Error code constants for programmatic error handling.
const (
	ErrUnexpectedToken    = "E_UNEXPECTED_TOKEN"
	ErrMissingEnd         = "E_MISSING_END"
	ErrMissingThen        = "E_MISSING_THEN"
	ErrMissingDo          = "E_MISSING_DO"
	ErrMissingOf          = "E_MISSING_OF"
	ErrMissingAnd         = "E_MISSING_AND"
	ErrMissingRParen      = "E_MISSING_RPAREN"
	ErrMissingRBracket    = "E_MISSING_RBRACKET"
	ErrMissingRBrace      = "E_MISSING_RBRACE"
	ErrMissingFieldKey    = "E_MISSING_FIELD_KEY"
	ErrMissingVarRef      = "E_MISSING_VARREF"
	ErrInvalidExpression  = "E_INVALID_EXPRESSION"
	ErrNoPrefixParse      = "E_NO_PREFIX_PARSE"
	ErrExpectedIdent      = "E_EXPECTED_IDENT"
	ErrExpectedType       = "E_EXPECTED_TYPE"
	ErrExpectedWhenOrElse = "E_EXPECTED_WHEN_OR_ELSE"
)
