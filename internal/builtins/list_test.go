package builtins

import (
	"testing"

	"github.com/yift/findit/internal/value"
)

func numbers(ns ...uint64) []value.Value {
	out := make([]value.Value, len(ns))
	for i, n := range ns {
		out[i] = value.Number(n)
	}
	return out
}

func TestListMethodLength(t *testing.T) {
	got, ok := ListMethod(numbers(1, 2, 3), "length", nil)
	if !ok || got.NumberValue() != 3 {
		t.Fatalf("length = %#v, want 3", got)
	}
}

func TestListMethodReverse(t *testing.T) {
	got, ok := ListMethod(numbers(1, 2, 3), "reverse", nil)
	if !ok {
		t.Fatal("reverse: ok = false, want true")
	}
	list := got.ListValue()
	want := []uint64{3, 2, 1}
	for i, w := range want {
		if list[i].NumberValue() != w {
			t.Fatalf("reverse[%d] = %d, want %d", i, list[i].NumberValue(), w)
		}
	}
}

func TestListMethodSumMaxMinAvg(t *testing.T) {
	list := numbers(4, 1, 7, 3)
	if got, ok := ListMethod(list, "sum", nil); !ok || got.NumberValue() != 15 {
		t.Fatalf("sum = %#v, want 15", got)
	}
	if got, ok := ListMethod(list, "max", nil); !ok || got.NumberValue() != 7 {
		t.Fatalf("max = %#v, want 7", got)
	}
	if got, ok := ListMethod(list, "min", nil); !ok || got.NumberValue() != 1 {
		t.Fatalf("min = %#v, want 1", got)
	}
	if got, ok := ListMethod(list, "avg", nil); !ok || got.NumberValue() != 3 {
		t.Fatalf("avg = %#v, want 3 (integer division)", got)
	}
}

func TestListMethodAvgEmptyIsEmpty(t *testing.T) {
	got, ok := ListMethod(nil, "avg", nil)
	if !ok || !got.IsEmpty() {
		t.Fatalf("avg([]) = %#v, want Empty", got)
	}
}

func TestListMethodMaxHeterogeneousIsEmpty(t *testing.T) {
	list := []value.Value{value.Number(1), value.String("a")}
	got, ok := ListMethod(list, "max", nil)
	if !ok || !got.IsEmpty() {
		t.Fatalf("max of mixed kinds = %#v, want Empty", got)
	}
}

func TestListMethodDistinct(t *testing.T) {
	list := numbers(1, 2, 2, 3, 1)
	got, ok := ListMethod(list, "distinct", nil)
	if !ok {
		t.Fatal("distinct: ok = false, want true")
	}
	out := got.ListValue()
	want := []uint64{1, 2, 3}
	if len(out) != len(want) {
		t.Fatalf("distinct = %d elements, want %d", len(out), len(want))
	}
	for i, w := range want {
		if out[i].NumberValue() != w {
			t.Fatalf("distinct[%d] = %d, want %d", i, out[i].NumberValue(), w)
		}
	}
}

func TestListMethodTakeAndSkip(t *testing.T) {
	list := numbers(1, 2, 3, 4, 5)
	got, ok := ListMethod(list, "take", []value.Value{value.Number(2)})
	if !ok || len(got.ListValue()) != 2 {
		t.Fatalf("take(2) = %#v, want 2 elements", got)
	}
	got, ok = ListMethod(list, "skip", []value.Value{value.Number(3)})
	if !ok || len(got.ListValue()) != 2 {
		t.Fatalf("skip(3) = %#v, want 2 elements", got)
	}
}

func TestListMethodJoin(t *testing.T) {
	list := []value.Value{value.String("a"), value.String("b"), value.String("c")}
	got, ok := ListMethod(list, "join", []value.Value{value.String("-")})
	if !ok || got.StringValue() != "a-b-c" {
		t.Fatalf("join(\"-\") = %#v, want \"a-b-c\"", got)
	}
	got, ok = ListMethod(list, "join", nil)
	if !ok || got.StringValue() != "a,b,c" {
		t.Fatalf("join() default separator = %#v, want \"a,b,c\"", got)
	}
}

func TestListMethodFirstLastEmpty(t *testing.T) {
	if got, ok := ListMethod(nil, "first", nil); !ok || !got.IsEmpty() {
		t.Fatalf("first([]) = %#v, want Empty", got)
	}
	if got, ok := ListMethod(nil, "last", nil); !ok || !got.IsEmpty() {
		t.Fatalf("last([]) = %#v, want Empty", got)
	}
	list := numbers(1, 2, 3)
	if got, ok := ListMethod(list, "first", nil); !ok || got.NumberValue() != 1 {
		t.Fatalf("first = %#v, want 1", got)
	}
	if got, ok := ListMethod(list, "last", nil); !ok || got.NumberValue() != 3 {
		t.Fatalf("last = %#v, want 3", got)
	}
}

func TestListMethodContainsAndIndexOf(t *testing.T) {
	list := numbers(10, 20, 30)
	got, ok := ListMethod(list, "contains", []value.Value{value.Number(20)})
	if !ok || !got.IsTrue() {
		t.Fatalf("contains(20) = %#v, want true", got)
	}
	got, ok = ListMethod(list, "contains", []value.Value{value.Number(99)})
	if !ok || !got.IsFalse() {
		t.Fatalf("contains(99) = %#v, want false", got)
	}
	got, ok = ListMethod(list, "indexof", []value.Value{value.Number(30)})
	if !ok || got.NumberValue() != 2 {
		t.Fatalf("indexof(30) = %#v, want 2", got)
	}
	got, ok = ListMethod(list, "indexof", []value.Value{value.Number(99)})
	if !ok || !got.IsEmpty() {
		t.Fatalf("indexof(99) = %#v, want Empty", got)
	}
}

func TestListMethodEnumerate(t *testing.T) {
	list := []value.Value{value.String("a"), value.String("b")}
	got, ok := ListMethod(list, "enumerate", nil)
	if !ok {
		t.Fatal("enumerate: ok = false, want true")
	}
	out := got.ListValue()
	if len(out) != 2 {
		t.Fatalf("enumerate = %d elements, want 2", len(out))
	}
	idx, _ := out[1].Field("index")
	item, _ := out[1].Field("item")
	if idx.NumberValue() != 1 || item.StringValue() != "b" {
		t.Fatalf("enumerate[1] = {index: %v, item: %v}, want {1, \"b\"}", idx, item)
	}
}

func TestListMethodChunk(t *testing.T) {
	list := numbers(1, 2, 3, 4, 5)
	got, ok := ListMethod(list, "chunk", []value.Value{value.Number(2)})
	if !ok {
		t.Fatal("chunk: ok = false, want true")
	}
	chunks := got.ListValue()
	if len(chunks) != 3 {
		t.Fatalf("chunk(2) of 5 elements = %d chunks, want 3", len(chunks))
	}
	if len(chunks[0].ListValue()) != 2 || len(chunks[2].ListValue()) != 1 {
		t.Fatalf("chunk sizes = %v, want [2 2 1]", chunks)
	}
	first := chunks[0].ListValue()
	if first[0].NumberValue() != 1 || first[1].NumberValue() != 2 {
		t.Fatalf("chunk[0] = %v, want [1 2]", first)
	}
}

func TestListMethodChunkZeroSizeIsEmpty(t *testing.T) {
	got, ok := ListMethod(numbers(1, 2), "chunk", []value.Value{value.Number(0)})
	if !ok || !got.IsEmpty() {
		t.Fatalf("chunk(0) = %#v, want Empty", got)
	}
}

func TestListMethodUnknownName(t *testing.T) {
	if _, ok := ListMethod(nil, "nope", nil); ok {
		t.Fatal("ok = true for an unknown method name, want false")
	}
}

func TestListMethodFnMapFilterAll(t *testing.T) {
	list := numbers(1, 2, 3, 4)
	double := func(v value.Value) value.Value { return value.Number(v.NumberValue() * 2) }
	got, ok := ListMethodFn(list, "map", double)
	if !ok {
		t.Fatal("map: ok = false, want true")
	}
	out := got.ListValue()
	if out[0].NumberValue() != 2 || out[3].NumberValue() != 8 {
		t.Fatalf("map(x*2) = %v, want [2 4 6 8]", out)
	}

	isEven := func(v value.Value) value.Value { return value.Boolean(v.NumberValue()%2 == 0) }
	got, ok = ListMethodFn(list, "filter", isEven)
	if !ok || len(got.ListValue()) != 2 {
		t.Fatalf("filter(even) = %#v, want 2 elements", got)
	}

	got, ok = ListMethodFn(list, "all", isEven)
	if !ok || !got.IsFalse() {
		t.Fatalf("all(even) over [1 2 3 4] = %#v, want false", got)
	}
	got, ok = ListMethodFn(list, "any", isEven)
	if !ok || !got.IsTrue() {
		t.Fatalf("any(even) over [1 2 3 4] = %#v, want true", got)
	}
}

func TestListMethodFnGroupBy(t *testing.T) {
	list := numbers(1, 2, 3, 4, 5, 6)
	parity := func(v value.Value) value.Value { return value.Number(v.NumberValue() % 2) }
	got, ok := ListMethodFn(list, "groupby", parity)
	if !ok {
		t.Fatal("groupby: ok = false, want true")
	}
	groups := got.ListValue()
	if len(groups) != 2 {
		t.Fatalf("groupby(parity) = %d groups, want 2", len(groups))
	}
	for _, g := range groups {
		key, _ := g.Field("key")
		values, _ := g.Field("values")
		if key.NumberValue() == 0 {
			if len(values.ListValue()) != 3 {
				t.Fatalf("even group = %d elements, want 3", len(values.ListValue()))
			}
		}
	}
}

func TestListMethodFnUnknownName(t *testing.T) {
	if _, ok := ListMethodFn(nil, "nope", func(value.Value) value.Value { return value.Empty }); ok {
		t.Fatal("ok = true for an unknown method name, want false")
	}
}
