package builtins

import (
	"testing"

	"github.com/yift/findit/internal/value"
)

func TestStringMethodScalars(t *testing.T) {
	tests := []struct {
		name   string
		method string
		args   []value.Value
		want   value.Value
	}{
		{"length", "length", nil, value.Number(5)},
		{"toupper", "toupper", nil, value.String("HELLO")},
		{"tolower", "tolower", nil, value.String("hello")},
		{"reverse", "reverse", nil, value.String("olleh")},
		{"take", "take", []value.Value{value.Number(3)}, value.String("hel")},
		{"skip", "skip", []value.Value{value.Number(3)}, value.String("lo")},
		{"hasprefix true", "hasprefix", []value.Value{value.String("he")}, value.Boolean(true)},
		{"hasprefix false", "hasprefix", []value.Value{value.String("xy")}, value.Boolean(false)},
		{"hassuffix true", "hassuffix", []value.Value{value.String("lo")}, value.Boolean(true)},
		{"contains true", "contains", []value.Value{value.String("ell")}, value.Boolean(true)},
		{"contains false", "contains", []value.Value{value.String("zz")}, value.Boolean(false)},
		{"indexof found", "indexof", []value.Value{value.String("l")}, value.Number(2)},
		{"removeprefix", "removeprefix", []value.Value{value.String("he")}, value.String("llo")},
		{"removesuffix", "removesuffix", []value.Value{value.String("lo")}, value.String("hel")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StringMethod("hello", tt.method, tt.args)
			if !ok {
				t.Fatalf("%s: ok = false, want true", tt.method)
			}
			if got.Kind() != tt.want.Kind() {
				t.Fatalf("%s(%q) kind = %v, want %v", tt.method, "hello", got.Kind(), tt.want.Kind())
			}
			switch got.Kind() {
			case value.KindNumber:
				if got.NumberValue() != tt.want.NumberValue() {
					t.Fatalf("%s = %d, want %d", tt.method, got.NumberValue(), tt.want.NumberValue())
				}
			case value.KindString:
				if got.StringValue() != tt.want.StringValue() {
					t.Fatalf("%s = %q, want %q", tt.method, got.StringValue(), tt.want.StringValue())
				}
			case value.KindBoolean:
				if got.BoolValue() != tt.want.BoolValue() {
					t.Fatalf("%s = %v, want %v", tt.method, got.BoolValue(), tt.want.BoolValue())
				}
			}
		})
	}
}

func TestStringMethodIndexOfMissingIsEmpty(t *testing.T) {
	got, ok := StringMethod("hello", "indexof", []value.Value{value.String("z")})
	if !ok || !got.IsEmpty() {
		t.Fatalf("indexof(missing) = %#v, want Empty", got)
	}
}

// TestStringMethodLinesPreservesEmptyLines guards the bug a maintainer
// review caught: a literal "\n" split must keep blank lines, unlike
// words()'s whitespace-field filtering.
func TestStringMethodLinesPreservesEmptyLines(t *testing.T) {
	got, ok := StringMethod("a\n\nb", "lines", nil)
	if !ok {
		t.Fatal("lines: ok = false, want true")
	}
	if got.Kind() != value.KindList {
		t.Fatalf("lines kind = %v, want List", got.Kind())
	}
	list := got.ListValue()
	if len(list) != 3 {
		t.Fatalf("lines(%q) = %d elements, want 3 (including the blank line)", "a\n\nb", len(list))
	}
	want := []string{"a", "", "b"}
	for i, w := range want {
		if list[i].StringValue() != w {
			t.Fatalf("lines[%d] = %q, want %q", i, list[i].StringValue(), w)
		}
	}
}

func TestStringMethodWordsDropsEmptyFields(t *testing.T) {
	got, ok := StringMethod("  a   b  c ", "words", nil)
	if !ok {
		t.Fatal("words: ok = false, want true")
	}
	list := got.ListValue()
	want := []string{"a", "b", "c"}
	if len(list) != len(want) {
		t.Fatalf("words = %d elements, want %d", len(list), len(want))
	}
	for i, w := range want {
		if list[i].StringValue() != w {
			t.Fatalf("words[%d] = %q, want %q", i, list[i].StringValue(), w)
		}
	}
}

func TestStringMethodSplitPreservesEmptyElements(t *testing.T) {
	got, ok := StringMethod("a,,b", "split", []value.Value{value.String(",")})
	if !ok {
		t.Fatal("split: ok = false, want true")
	}
	list := got.ListValue()
	if len(list) != 3 || list[1].StringValue() != "" {
		t.Fatalf("split(%q) = %v, want [\"a\" \"\" \"b\"]", "a,,b", list)
	}
}

func TestStringMethodPadLeftAndRight(t *testing.T) {
	got, ok := StringMethod("7", "padleft", []value.Value{value.Number(3), value.String("0")})
	if !ok || got.StringValue() != "007" {
		t.Fatalf("padleft(7, 3, \"0\") = %#v, want \"007\"", got)
	}
	got, ok = StringMethod("7", "padright", []value.Value{value.Number(3), value.String("0")})
	if !ok || got.StringValue() != "700" {
		t.Fatalf("padright(7, 3, \"0\") = %#v, want \"700\"", got)
	}
	got, ok = StringMethod("hello", "padleft", []value.Value{value.Number(2)})
	if !ok || got.StringValue() != "hello" {
		t.Fatalf("padleft shorter than current length should be a no-op, got %#v", got)
	}
	got, ok = StringMethod("a", "padleft", []value.Value{value.Number(3)})
	if !ok || got.StringValue() != "  a" {
		t.Fatalf("padleft default pad char should be a space, got %#v", got)
	}
}

func TestStringMethodPadRejectsMultiCharPad(t *testing.T) {
	got, ok := StringMethod("a", "padleft", []value.Value{value.Number(3), value.String("ab")})
	if !ok || !got.IsEmpty() {
		t.Fatalf("padleft with a multi-char pad arg = %#v, want Empty", got)
	}
}

func TestStringMethodUnknownName(t *testing.T) {
	if _, ok := StringMethod("hello", "nope", nil); ok {
		t.Fatal("ok = true for an unknown method name, want false")
	}
}

func TestStringMethodWrongArgKindIsEmpty(t *testing.T) {
	got, ok := StringMethod("hello", "take", []value.Value{value.String("x")})
	if !ok || !got.IsEmpty() {
		t.Fatalf("take(\"x\") = %#v, want Empty (argument must be a Number)", got)
	}
}
