package display

import (
	"strings"
	"testing"

	"github.com/yift/findit/internal/eval"
	"github.com/yift/findit/internal/value"
)

type fakeContext struct {
	props map[string]value.Value
}

func (f fakeContext) Property(name string) value.Value {
	if v, ok := f.props[name]; ok {
		return v
	}
	return value.Empty
}
func (f fakeContext) Child(name string) eval.FileContext { return f }
func (f fakeContext) DebugSink() eval.DebugSink          { return nil }

func TestRenderInterleavesLiteralAndExpr(t *testing.T) {
	tpl, perr := Compile("name=`name` size=`size`", 0)
	if perr != nil {
		t.Fatalf("compile error: %v", perr)
	}
	ctx := fakeContext{props: map[string]value.Value{
		"name": value.String("a.txt"),
		"size": value.Number(42),
	}}
	ev := eval.New(nil)
	out, rerr := tpl.Render(ev, ctx)
	if rerr != nil {
		t.Fatalf("render error: %v", rerr)
	}
	if out != "name=a.txt size=42" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderUnterminatedExprIsParseError(t *testing.T) {
	_, perr := Compile("name=`name", 0)
	if perr == nil {
		t.Fatalf("expected a parse error for an unterminated expression")
	}
}

func TestJSONTemplateRendersNestedValues(t *testing.T) {
	tpl, perr := CompileJSON([]Field{
		{Name: "name", Expr: "name"},
		{Name: "tags", Expr: `["a", "b"]`},
	}, false)
	if perr != nil {
		t.Fatalf("compile error: %v", perr)
	}
	ctx := fakeContext{props: map[string]value.Value{"name": value.String("a.txt")}}
	ev := eval.New(nil)
	out, rerr := tpl.Render(ev, ctx)
	if rerr != nil {
		t.Fatalf("render error: %v", rerr)
	}
	if !strings.Contains(out, `"name":"a.txt"`) || !strings.Contains(out, `"tags":["a","b"]`) {
		t.Fatalf("got %q", out)
	}
}

func TestQueryExtractsField(t *testing.T) {
	doc := `{"name":"a.txt","size":42}`
	if got := Query(doc, "size"); got != "42" {
		t.Fatalf("got %q, want 42", got)
	}
}
