// Package display implements §6's formatDisplay contract and its JSON
// sibling: rendering one line (or one JSON object) of output per
// matched path.
package display

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/yift/findit/internal/ast"
	"github.com/yift/findit/internal/errors"
	"github.com/yift/findit/internal/eval"
	"github.com/yift/findit/internal/lexer"
	"github.com/yift/findit/internal/value"
)

// Template is a compiled --display template: literal text interleaved
// with expressions between configurable delimiters (default backtick).
type Template struct {
	segments []segment
}

type segment struct {
	literal string
	expr    ast.Expression // nil for a literal-only segment
}

// Compile parses template, treating delim as both the opening and
// closing marker of an embedded expression (zero value defaults to
// backtick, matching §6's "default backticks").
func Compile(template string, delim rune) (*Template, *errors.ParseError) {
	if delim == 0 {
		delim = '`'
	}
	var segs []segment
	var lit strings.Builder
	runes := []rune(template)
	for i := 0; i < len(runes); {
		if runes[i] != delim {
			lit.WriteRune(runes[i])
			i++
			continue
		}
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String()})
			lit.Reset()
		}
		j := i + 1
		for j < len(runes) && runes[j] != delim {
			j++
		}
		if j >= len(runes) {
			return nil, errors.NewParseError(
				lexer.Position{Line: 1, Column: i + 1}, 1,
				"unterminated display expression", "E_DISPLAY", template)
		}
		expr, perr := eval.Compile(string(runes[i+1 : j]))
		if perr != nil {
			return nil, perr
		}
		segs = append(segs, segment{expr: expr})
		i = j + 1
	}
	if lit.Len() > 0 {
		segs = append(segs, segment{literal: lit.String()})
	}
	return &Template{segments: segs}, nil
}

// Render evaluates t against file, rendering each embedded expression
// via AS STRING (§6) and leaving literal text untouched.
func (t *Template) Render(ev *eval.Evaluator, file eval.FileContext) (string, *errors.RuntimeError) {
	env := eval.NewEnvironment(file)
	var sb strings.Builder
	for _, s := range t.segments {
		if s.expr == nil {
			sb.WriteString(s.literal)
			continue
		}
		v, rerr := ev.Evaluate(s.expr, env)
		if rerr != nil {
			return "", rerr
		}
		sb.WriteString(v.Display())
	}
	return sb.String(), nil
}

// Field is one `name=expr` pair of a --json display, in the order
// fields should appear in the rendered object.
type Field struct {
	Name string
	Expr string
}

// JSONTemplate renders one JSON object per match from a set of named
// expressions, built incrementally with tidwall/sjson so no
// intermediate Go struct needs to mirror the Value model.
type JSONTemplate struct {
	fields []jsonField
	pretty bool
}

type jsonField struct {
	name string
	expr ast.Expression
}

// CompileJSON compiles one expression per field; pretty controls
// whether Render runs the result through tidwall/pretty (--pretty).
func CompileJSON(fields []Field, prettyOut bool) (*JSONTemplate, *errors.ParseError) {
	compiled := make([]jsonField, len(fields))
	for i, f := range fields {
		expr, perr := eval.Compile(f.Expr)
		if perr != nil {
			return nil, perr
		}
		compiled[i] = jsonField{name: f.Name, expr: expr}
	}
	return &JSONTemplate{fields: compiled, pretty: prettyOut}, nil
}

// Render evaluates every field against file and returns the JSON
// object as text, pretty-printed when configured.
func (t *JSONTemplate) Render(ev *eval.Evaluator, file eval.FileContext) (string, *errors.RuntimeError) {
	env := eval.NewEnvironment(file)
	raw := "{}"
	for _, f := range t.fields {
		v, rerr := ev.Evaluate(f.expr, env)
		if rerr != nil {
			return "", rerr
		}
		next, err := sjson.Set(raw, f.name, toJSON(v))
		if err != nil {
			// A key that sjson can't address (e.g. invalid path syntax)
			// degrades to leaving the field absent (an Empty value, by
			// contrast, is written as JSON null).
			continue
		}
		raw = next
	}
	if t.pretty {
		return string(pretty.Pretty([]byte(raw))), nil
	}
	return raw, nil
}

// toJSON converts one Value into the plain Go data sjson.Set expects,
// recursing into lists and classes.
func toJSON(v value.Value) any {
	switch v.Kind() {
	case value.KindEmpty:
		return nil
	case value.KindNumber:
		return v.NumberValue()
	case value.KindString, value.KindPath:
		return v.StringValue()
	case value.KindBoolean:
		return v.BoolValue()
	case value.KindDate:
		return v.DateValue().Format(time.RFC3339)
	case value.KindList:
		elems := v.ListValue()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = toJSON(e)
		}
		return out
	case value.KindClass:
		out := make(map[string]any, len(v.ClassFields()))
		for _, f := range v.ClassFields() {
			out[f.Key] = toJSON(f.Value)
		}
		return out
	default:
		return nil
	}
}

// Query runs a gjson path against a JSON document, used by `findit
// lex --json-query` / `findit parse --json-query` to let
// a user pick fields out of a dumped token/AST document without
// writing Go.
func Query(document, path string) string {
	return gjson.Get(document, path).String()
}
