package cmd

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/yift/findit/internal/ast"
	"github.com/yift/findit/internal/display"
	"github.com/yift/findit/internal/lexer"
)

// tokensToJSON renders l's full token stream as a JSON array, consumed
// by `findit lex --json` and queryable via --json-query.
func tokensToJSON(l *lexer.Lexer) string {
	doc := "[]"
	i := 0
	for {
		tok := l.NextToken()
		entry := fmt.Sprintf(`{"index":%d,"type":%q,"literal":%q,"pos":%q}`, i, tok.Type.String(), tok.Literal, tok.Pos.String())
		doc, _ = sjson.SetRaw(doc, fmt.Sprintf("%d", i), entry)
		i++
		if tok.Type == lexer.EOF {
			break
		}
	}
	return doc
}

func queryJSON(doc, path string) string {
	return display.Query(doc, path)
}

// astToJSON renders node as a JSON document for `findit parse --json-query`,
// mirroring dumpNode's node coverage but as nested objects instead of
// indented text.
func astToJSON(node ast.Expression) string {
	doc := "{}"
	set := func(path string, v any) {
		doc, _ = sjson.Set(doc, path, v)
	}
	set("type", fmt.Sprintf("%T", node))
	switch n := node.(type) {
	case *ast.NumberLit:
		set("value", n.Value)
	case *ast.StringLit:
		set("value", n.Value)
	case *ast.BoolLit:
		set("value", n.Value)
	case *ast.PathLit:
		set("value", n.Value)
	case *ast.DateLit:
		set("raw", n.Raw)
	case *ast.ListLit:
		for i, e := range n.Elements {
			doc, _ = sjson.SetRaw(doc, fmt.Sprintf("elements.%d", i), astToJSON(e))
		}
	case *ast.ClassLit:
		for i, f := range n.Fields {
			set(fmt.Sprintf("fields.%d.key", i), f.Key)
			doc, _ = sjson.SetRaw(doc, fmt.Sprintf("fields.%d.value", i), astToJSON(f.Value))
		}
	case *ast.VarRef:
		set("name", n.Name)
	case *ast.Property:
		set("name", n.Name)
		if n.Receiver != nil {
			doc, _ = sjson.SetRaw(doc, "receiver", astToJSON(n.Receiver))
		}
	case *ast.MethodCall:
		set("name", n.Name)
		if n.Receiver != nil {
			doc, _ = sjson.SetRaw(doc, "receiver", astToJSON(n.Receiver))
		}
		for i, a := range n.Args {
			doc, _ = sjson.SetRaw(doc, fmt.Sprintf("args.%d", i), astToJSON(a))
		}
	case *ast.FuncCall:
		set("name", n.Name)
		for i, a := range n.Args {
			doc, _ = sjson.SetRaw(doc, fmt.Sprintf("args.%d", i), astToJSON(a))
		}
	case *ast.FieldAccess:
		set("name", n.Name)
		doc, _ = sjson.SetRaw(doc, "receiver", astToJSON(n.Receiver))
	case *ast.BinaryOp:
		set("op", n.Op.String())
		doc, _ = sjson.SetRaw(doc, "left", astToJSON(n.Left))
		doc, _ = sjson.SetRaw(doc, "right", astToJSON(n.Right))
	case *ast.UnaryOp:
		set("op", n.Op.String())
		doc, _ = sjson.SetRaw(doc, "operand", astToJSON(n.Operand))
	case *ast.IsPredicate:
		set("negate", n.Negate)
		set("want", n.Want.String())
		doc, _ = sjson.SetRaw(doc, "operand", astToJSON(n.Operand))
	case *ast.Cast:
		set("targetType", n.TargetTy.String())
		doc, _ = sjson.SetRaw(doc, "operand", astToJSON(n.Operand))
	case *ast.Between:
		doc, _ = sjson.SetRaw(doc, "operand", astToJSON(n.Operand))
		doc, _ = sjson.SetRaw(doc, "low", astToJSON(n.Low))
		doc, _ = sjson.SetRaw(doc, "high", astToJSON(n.High))
	case *ast.IfExpr:
		doc, _ = sjson.SetRaw(doc, "cond", astToJSON(n.Cond))
		doc, _ = sjson.SetRaw(doc, "then", astToJSON(n.Then))
		if n.Else != nil {
			doc, _ = sjson.SetRaw(doc, "else", astToJSON(n.Else))
		}
	case *ast.CaseExpr:
		for i, b := range n.Branches {
			doc, _ = sjson.SetRaw(doc, fmt.Sprintf("branches.%d.cond", i), astToJSON(b.Cond))
			doc, _ = sjson.SetRaw(doc, fmt.Sprintf("branches.%d.value", i), astToJSON(b.Value))
		}
		if n.Else != nil {
			doc, _ = sjson.SetRaw(doc, "else", astToJSON(n.Else))
		}
	case *ast.WithExpr:
		for i, b := range n.Bindings {
			set(fmt.Sprintf("bindings.%d.name", i), b.Name)
			doc, _ = sjson.SetRaw(doc, fmt.Sprintf("bindings.%d.expr", i), astToJSON(b.Expr))
		}
		doc, _ = sjson.SetRaw(doc, "body", astToJSON(n.Body))
	case *ast.Lambda:
		set("param", n.Param)
		doc, _ = sjson.SetRaw(doc, "body", astToJSON(n.Body))
	}
	return doc
}
