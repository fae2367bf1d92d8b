package eval

import (
	"testing"

	"github.com/yift/findit/internal/value"
)

// fakeContext is a minimal FileContext for evaluator tests that don't
// need real filesystem access.
type fakeContext struct {
	props map[string]value.Value
}

func newFakeContext(props map[string]value.Value) *fakeContext {
	if props["path"].IsEmpty() {
		props["path"] = value.String("/tmp/fake")
	}
	return &fakeContext{props: props}
}

func (f *fakeContext) Property(name string) value.Value {
	if v, ok := f.props[name]; ok {
		return v
	}
	return value.Empty
}

func (f *fakeContext) Child(name string) FileContext { return f }
func (f *fakeContext) DebugSink() DebugSink           { return nil }

func evalSrc(t *testing.T, src string, ctx FileContext) value.Value {
	t.Helper()
	expr, perr := Compile(src)
	if perr != nil {
		t.Fatalf("%q: compile error: %v", src, perr)
	}
	ev := New(nil)
	v, rerr := ev.Evaluate(expr, NewEnvironment(ctx))
	if rerr != nil {
		t.Fatalf("%q: runtime error: %v", src, rerr)
	}
	return v
}

func TestEvalSizeComparison(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{"size": value.Number(2048)})
	v := evalSrc(t, "size > 1024", ctx)
	if !v.IsTrue() {
		t.Fatalf("got %#v, want true", v)
	}
}

func TestEvalExtensionAndContent(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{
		"extension": value.String("rs"),
		"content":   value.String("hello"),
	})
	v := evalSrc(t, `extension == "rs" AND NOT content.contains("#[cfg(test)]")`, ctx)
	if !v.IsTrue() {
		t.Fatalf("got %#v, want true", v)
	}
}

func TestEvalContentOnDirectoryIsEmpty(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{})
	v := evalSrc(t, `content.contains("TODO")`, ctx)
	if !v.IsEmpty() {
		t.Fatalf("got %#v, want Empty", v)
	}
}

func TestEvalStringRepeatAndLength(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{})
	v := evalSrc(t, `("ab" * 3).length()`, ctx)
	if v.Kind() != value.KindNumber || v.NumberValue() != 6 {
		t.Fatalf("got %#v, want 6", v)
	}
}

func TestEvalUnderflowAndDivision(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{})
	if v := evalSrc(t, "1024 - 2048", ctx); !v.IsEmpty() {
		t.Fatalf("got %#v, want Empty", v)
	}
	if v := evalSrc(t, "20 / 3", ctx); v.NumberValue() != 6 {
		t.Fatalf("got %#v, want 6", v)
	}
	if v := evalSrc(t, "10 / 0", ctx); !v.IsEmpty() {
		t.Fatalf("got %#v, want Empty", v)
	}
}

func TestEvalDistinct(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{})
	v := evalSrc(t, "[10, 11, 10].distinct()", ctx)
	if v.Kind() != value.KindList || len(v.ListValue()) != 2 {
		t.Fatalf("got %#v, want [10, 11]", v)
	}
}

func TestEvalFieldAccess(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{})
	if v := evalSrc(t, "{:a 1, :b 2}::b", ctx); v.NumberValue() != 2 {
		t.Fatalf("got %#v, want 2", v)
	}
	if v := evalSrc(t, "{:a 1}::missing", ctx); !v.IsEmpty() {
		t.Fatalf("got %#v, want Empty", v)
	}
}

func TestEvalWithSequentialBindings(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{})
	v := evalSrc(t, "WITH $x AS 1, $y AS $x + $x DO $x + $y END", ctx)
	if v.NumberValue() != 3 {
		t.Fatalf("got %#v, want 3", v)
	}
}

func TestEvalIfElseEmpty(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{})
	v := evalSrc(t, `IF 1 > 2 THEN "a" END`, ctx)
	if !v.IsEmpty() {
		t.Fatalf("got %#v, want Empty", v)
	}
}

func TestEvalStringAsBoolean(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{})
	if v := evalSrc(t, `"yes" AS BOOLEAN`, ctx); !v.IsTrue() {
		t.Fatalf("got %#v, want true", v)
	}
	if v := evalSrc(t, `"maybe" AS BOOLEAN`, ctx); !v.IsEmpty() {
		t.Fatalf("got %#v, want Empty", v)
	}
}

func TestEvalFilterInvariant(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{})
	v := evalSrc(t, `[1, 2, 3, 4].filter($x $x > 2)`, ctx)
	if v.Kind() != value.KindList || len(v.ListValue()) != 2 {
		t.Fatalf("got %#v, want [3, 4]", v)
	}
}

func TestEvalShortCircuitAndOr(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{})
	if v := evalSrc(t, "FALSE AND NONE", ctx); !v.IsFalse() {
		t.Fatalf("got %#v, want false", v)
	}
	if v := evalSrc(t, "TRUE OR NONE", ctx); !v.IsTrue() {
		t.Fatalf("got %#v, want true", v)
	}
}

func TestEvalBetweenUnorderableIsRuntimeError(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{})
	expr, perr := Compile(`1 BETWEEN "a" AND "z"`)
	if perr != nil {
		t.Fatalf("compile error: %v", perr)
	}
	ev := New(nil)
	_, rerr := ev.Evaluate(expr, NewEnvironment(ctx))
	if rerr == nil {
		t.Fatalf("expected a RuntimeError for unorderable BETWEEN")
	}
}

func TestEvalCoalesce(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{})
	v := evalSrc(t, `coalesce(NONE, NONE, 5, 6)`, ctx)
	if v.NumberValue() != 5 {
		t.Fatalf("got %#v, want 5", v)
	}
}

func TestEvalIsSomeNoneComplementary(t *testing.T) {
	ctx := newFakeContext(map[string]value.Value{})
	if v := evalSrc(t, "5 IS SOME", ctx); !v.IsTrue() {
		t.Fatalf("got %#v, want true", v)
	}
	if v := evalSrc(t, "5 IS NONE", ctx); !v.IsFalse() {
		t.Fatalf("got %#v, want false", v)
	}
	if v := evalSrc(t, "NONE IS NONE", ctx); !v.IsTrue() {
		t.Fatalf("got %#v, want true", v)
	}
}
