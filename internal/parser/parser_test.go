package parser

import (
	"testing"

	"github.com/yift/findit/internal/ast"
	"github.com/yift/findit/internal/lexer"
)

func parseOK(t *testing.T, src string) ast.Expression {
	t.Helper()
	expr, perrs, lerrs := Parse(src)
	if len(lerrs) != 0 {
		t.Fatalf("%q: unexpected lexer errors: %v", src, lerrs)
	}
	if len(perrs) != 0 {
		t.Fatalf("%q: unexpected parser errors: %v", src, perrs)
	}
	return expr
}

func TestParseBinaryPrecedence(t *testing.T) {
	expr := parseOK(t, `size > 1024 AND extension == "rs"`)
	and, ok := expr.(*ast.BinaryOp)
	if !ok || and.Op != lexer.AND {
		t.Fatalf("expected top-level AND, got %#v", expr)
	}
	if _, ok := and.Left.(*ast.BinaryOp); !ok {
		t.Fatalf("expected left of AND to be a comparison, got %#v", and.Left)
	}
}

func TestParseNotBindsBelowComparison(t *testing.T) {
	expr := parseOK(t, `NOT size > 10 AND extension == "rs"`)
	and, ok := expr.(*ast.BinaryOp)
	if !ok || and.Op != lexer.AND {
		t.Fatalf("expected top-level AND, got %#v", expr)
	}
	not, ok := and.Left.(*ast.UnaryOp)
	if !ok || not.Op != lexer.NOT {
		t.Fatalf("expected left of AND to be NOT, got %#v", and.Left)
	}
	if _, ok := not.Operand.(*ast.BinaryOp); !ok {
		t.Fatalf("expected NOT operand to absorb the comparison, got %#v", not.Operand)
	}
}

func TestParseIsPredicate(t *testing.T) {
	expr := parseOK(t, `content IS NOT NONE`)
	pred, ok := expr.(*ast.IsPredicate)
	if !ok {
		t.Fatalf("expected IsPredicate, got %#v", expr)
	}
	if !pred.Negate || pred.Want != lexer.NONE {
		t.Fatalf("expected IS NOT NONE, got negate=%v want=%s", pred.Negate, pred.Want)
	}
}

func TestParseCast(t *testing.T) {
	expr := parseOK(t, `"42" AS NUMBER`)
	cast, ok := expr.(*ast.Cast)
	if !ok || cast.TargetTy != lexer.NUMBERKW {
		t.Fatalf("expected Cast to NUMBER, got %#v", expr)
	}
}

func TestParseBetween(t *testing.T) {
	expr := parseOK(t, `size BETWEEN 1 AND 100`)
	between, ok := expr.(*ast.Between)
	if !ok {
		t.Fatalf("expected Between, got %#v", expr)
	}
	if _, ok := between.Low.(*ast.NumberLit); !ok {
		t.Fatalf("expected numeric low bound, got %#v", between.Low)
	}
}

func TestParseWith(t *testing.T) {
	expr := parseOK(t, `WITH $x AS 1, $y AS $x + $x DO $x + $y END`)
	with, ok := expr.(*ast.WithExpr)
	if !ok {
		t.Fatalf("expected WithExpr, got %#v", expr)
	}
	if len(with.Bindings) != 2 || with.Bindings[0].Name != "x" || with.Bindings[1].Name != "y" {
		t.Fatalf("unexpected bindings: %#v", with.Bindings)
	}
}

func TestParseCaseExpr(t *testing.T) {
	expr := parseOK(t, `CASE WHEN size > 0 THEN "big" ELSE "empty" END`)
	c, ok := expr.(*ast.CaseExpr)
	if !ok || len(c.Branches) != 1 || c.Else == nil {
		t.Fatalf("unexpected CaseExpr: %#v", expr)
	}
}

func TestParseIfExpr(t *testing.T) {
	expr := parseOK(t, `IF 1 > 2 THEN "a" END`)
	ifExpr, ok := expr.(*ast.IfExpr)
	if !ok || ifExpr.Else != nil {
		t.Fatalf("unexpected IfExpr: %#v", expr)
	}
}

func TestParseMethodChainAndFuncCall(t *testing.T) {
	expr := parseOK(t, `name.toUpper().contains("README")`)
	call, ok := expr.(*ast.MethodCall)
	if !ok || call.Name != "contains" || len(call.Args) != 1 {
		t.Fatalf("unexpected outer call: %#v", expr)
	}
	inner, ok := call.Receiver.(*ast.MethodCall)
	if !ok || inner.Name != "toupper" {
		t.Fatalf("unexpected receiver chain: %#v", call.Receiver)
	}
}

func TestParseLambdaArgument(t *testing.T) {
	expr := parseOK(t, `files.filter($f $f.extension == "rs")`)
	call, ok := expr.(*ast.MethodCall)
	if !ok || call.Name != "filter" || len(call.Args) != 1 {
		t.Fatalf("unexpected call: %#v", expr)
	}
	lambda, ok := call.Args[0].(*ast.Lambda)
	if !ok || lambda.Param != "f" {
		t.Fatalf("expected lambda over $f, got %#v", call.Args[0])
	}
}

func TestParseBareVarRefArgument(t *testing.T) {
	expr := parseOK(t, `WITH $n AS 5 DO max($n, 10) END`)
	with := expr.(*ast.WithExpr)
	call, ok := with.Body.(*ast.FuncCall)
	if !ok || call.Name != "max" || len(call.Args) != 2 {
		t.Fatalf("unexpected body: %#v", with.Body)
	}
	if _, ok := call.Args[0].(*ast.VarRef); !ok {
		t.Fatalf("expected bare VarRef argument, got %#v", call.Args[0])
	}
}

func TestParseClassLiteralAndFieldAccess(t *testing.T) {
	expr := parseOK(t, `{:key "rs", :count 3}::count`)
	fa, ok := expr.(*ast.FieldAccess)
	if !ok || fa.Name != "count" {
		t.Fatalf("expected FieldAccess, got %#v", expr)
	}
	lit, ok := fa.Receiver.(*ast.ClassLit)
	if !ok || len(lit.Fields) != 2 {
		t.Fatalf("expected ClassLit receiver, got %#v", fa.Receiver)
	}
}

func TestParseListLiteral(t *testing.T) {
	expr := parseOK(t, `[1, 2, 3].sum()`)
	call, ok := expr.(*ast.MethodCall)
	if !ok || call.Name != "sum" {
		t.Fatalf("unexpected expr: %#v", expr)
	}
	if _, ok := call.Receiver.(*ast.ListLit); !ok {
		t.Fatalf("expected ListLit receiver, got %#v", call.Receiver)
	}
}

func TestParseUnarySlashShorthand(t *testing.T) {
	expr := parseOK(t, `/"child.txt"`)
	u, ok := expr.(*ast.UnaryOp)
	if !ok || u.Op != lexer.SLASH {
		t.Fatalf("expected unary slash, got %#v", expr)
	}
}

func TestParseIsDirAlias(t *testing.T) {
	expr := parseOK(t, `is dir`)
	prop, ok := expr.(*ast.Property)
	if !ok || prop.Name != "isdir" || prop.Receiver != nil {
		t.Fatalf("expected bare isdir property, got %#v", expr)
	}
}

func TestParseIsNotFileAliasChained(t *testing.T) {
	expr := parseOK(t, `me.is not file`)
	prop, ok := expr.(*ast.Property)
	if !ok || prop.Name != "isnotfile" {
		t.Fatalf("expected isnotfile property, got %#v", expr)
	}
	if _, ok := prop.Receiver.(*ast.Me); !ok {
		t.Fatalf("expected Me receiver, got %#v", prop.Receiver)
	}
}

func TestParseErrorMissingEnd(t *testing.T) {
	_, perrs, _ := Parse(`IF 1 > 0 THEN "a"`)
	if len(perrs) == 0 {
		t.Fatalf("expected a parser error for missing END")
	}
}
