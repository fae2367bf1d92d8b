package eval

import (
	"github.com/yift/findit/internal/ast"
	"github.com/yift/findit/internal/errors"
	"github.com/yift/findit/internal/lexer"
	"github.com/yift/findit/internal/parser"
	"github.com/yift/findit/internal/value"
)

// Compile parses source into an Expression, or a *errors.ParseError
// wrapping the first parser/lexer problem found (§6 core API). Only
// the first is surfaced, even when the parser collected more.
func Compile(source string) (ast.Expression, *errors.ParseError) {
	expr, perrs, lerrs := parser.Parse(source)
	if len(lerrs) > 0 {
		le := lerrs[0]
		return nil, errors.NewParseError(le.Pos, 1, le.Message, "E_LEX", source)
	}
	if len(perrs) > 0 {
		pe := perrs[0]
		return nil, errors.NewParseError(pe.Pos, pe.Length, pe.Message, pe.Code, source)
	}
	return expr, nil
}

// Evaluate runs expr against env (§6 core API: evaluate(expr, context)).
func (ev *Evaluator) Evaluate(expr ast.Expression, env *Environment) (value.Value, *errors.RuntimeError) {
	v, err := ev.Eval(expr, env)
	if err == nil {
		return v, nil
	}
	if re, ok := err.(*errors.RuntimeError); ok {
		return value.Empty, re
	}
	return value.Empty, errors.NewRuntimeError("", lexer.Position{}, err.Error())
}

// RequireBoolean implements §6's requireBoolean: Empty is treated as
// false; any other non-Boolean result is a RuntimeError.
func (ev *Evaluator) RequireBoolean(expr ast.Expression, env *Environment) (bool, *errors.RuntimeError) {
	v, rerr := ev.Evaluate(expr, env)
	if rerr != nil {
		return false, rerr
	}
	if v.IsEmpty() {
		return false, nil
	}
	if v.Kind() != value.KindBoolean {
		return false, errors.NewRuntimeError(errors.KindNonBooleanFilter, expr.Span().Start,
			"--where expression evaluated to a non-Boolean, non-Empty value")
	}
	return v.BoolValue(), nil
}
