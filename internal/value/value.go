// Package value implements findit's tagged-union runtime value: Empty,
// Number, String, Boolean, Date, Path, List, and Class. Every operation
// exposed here is total — given any combination of kinds it returns a
// Value, falling back to Empty rather than panicking or erroring, so
// the evaluator never needs to special-case an operand combination the
// language doesn't define.
package value

import (
	"fmt"
	"math/bits"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the variant held by a Value.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindNumber
	KindString
	KindBoolean
	KindDate
	KindPath
	KindList
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBoolean:
		return "Boolean"
	case KindDate:
		return "Date"
	case KindPath:
		return "Path"
	case KindList:
		return "List"
	case KindClass:
		return "Class"
	default:
		return "Unknown"
	}
}

// Field is one :key/value pair of a Class, in declaration order.
type Field struct {
	Key   string
	Value Value
}

// Value is the tagged union every expression evaluates to. Only the
// field matching Kind is meaningful; zero value is Empty.
type Value struct {
	kind   Kind
	number uint64
	str    string
	b      bool
	date   time.Time
	list   []Value
	fields []Field
}

// Empty is the zero Value and the result of every undefined operation.
var Empty = Value{}

func Number(n uint64) Value      { return Value{kind: KindNumber, number: n} }
func String(s string) Value      { return Value{kind: KindString, str: s} }
func Boolean(b bool) Value       { return Value{kind: KindBoolean, b: b} }
func Date(t time.Time) Value     { return Value{kind: KindDate, date: t} }
func Path(p string) Value        { return Value{kind: KindPath, str: p} }
func List(elems []Value) Value   { return Value{kind: KindList, list: elems} }
func Class(fields []Field) Value { return Value{kind: KindClass, fields: fields} }

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// IsTrue/IsFalse test for a definite Boolean, the native-bool escape
// hatch for code that would otherwise compare two Values directly —
// Value itself is not comparable with == since it embeds slices.
func (v Value) IsTrue() bool  { return v.kind == KindBoolean && v.b }
func (v Value) IsFalse() bool { return v.kind == KindBoolean && !v.b }

// Raw accessors. Callers must already know the Kind (via a type switch
// or prior Kind() check); they return the zero Go value when called on
// the wrong Kind, mirroring how the evaluator only calls them after
// dispatching on Kind.
func (v Value) NumberValue() uint64  { return v.number }
func (v Value) StringValue() string  { return v.str }
func (v Value) BoolValue() bool      { return v.b }
func (v Value) DateValue() time.Time { return v.date }
func (v Value) PathValue() string    { return v.str }
func (v Value) ListValue() []Value   { return v.list }
func (v Value) ClassFields() []Field { return v.fields }

// Field looks up a class key, reporting whether it was present.
func (v Value) Field(key string) (Value, bool) {
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Empty, false
}

// Display renders v the way debug() and formatDisplay() do: AS STRING,
// falling back to a bracketed placeholder for values the cast leaves
// undefined (lists and classes have no string cast).
func (v Value) Display() string {
	s := v.ToString()
	if s.kind == KindString {
		return s.str
	}
	switch v.kind {
	case KindEmpty:
		return ""
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.Display()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindClass:
		parts := make([]string, len(v.fields))
		for i, f := range v.fields {
			parts[i] = ":" + f.Key + " " + f.Value.Display()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}

// --- equality & ordering (§4.3) ---

// Equal implements `=`/`==`/`!=`/`<>`: Boolean when both operands share
// a variant (Number compares with Number regardless of how each was
// produced), Empty for any Empty operand or cross-variant comparison.
func Equal(a, b Value) Value {
	if a.kind == KindEmpty || b.kind == KindEmpty {
		return Empty
	}
	if a.kind != b.kind {
		return Empty
	}
	switch a.kind {
	case KindNumber:
		return Boolean(a.number == b.number)
	case KindString, KindPath:
		return Boolean(a.str == b.str)
	case KindBoolean:
		return Boolean(a.b == b.b)
	case KindDate:
		return Boolean(a.date.Equal(b.date))
	case KindList:
		return Boolean(listEqual(a.list, b.list))
	case KindClass:
		return Boolean(classEqual(a.fields, b.fields))
	default:
		return Empty
	}
}

func listEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]).IsTrue() {
			return false
		}
	}
	return true
}

// classEqual compares classes as unordered key-sets with equal values.
func classEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for _, fa := range a {
		fb, ok := fieldLookup(b, fa.Key)
		if !ok || !Equal(fa.Value, fb).IsTrue() {
			return false
		}
	}
	return true
}

func fieldLookup(fields []Field, key string) (Value, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Empty, false
}

// Compare implements `<`/`>`/`<=`/`>=`. Defined only for Number,
// String, Date, and Path (each against its own kind); ok is false for
// every other pairing, meaning the caller should yield Empty.
func Compare(a, b Value) (cmp int, ok bool) {
	if a.kind != b.kind {
		return 0, false
	}
	switch a.kind {
	case KindNumber:
		return compareUint64(a.number, b.number), true
	case KindString, KindPath:
		return strings.Compare(a.str, b.str), true
	case KindDate:
		switch {
		case a.date.Before(b.date):
			return -1, true
		case a.date.After(b.date):
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// --- three-valued boolean logic (§4.3) ---

func asBool(v Value) (b bool, ok bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

// And implements three-valued AND: true AND ? = ?; false AND ? = false; ? AND ? = ?.
func And(a, b Value) Value {
	av, aok := asBool(a)
	bv, bok := asBool(b)
	switch {
	case aok && !av:
		return Boolean(false)
	case bok && !bv:
		return Boolean(false)
	case aok && bok:
		return Boolean(av && bv)
	default:
		return Empty
	}
}

// Or implements three-valued OR: true OR ? = true; false OR ? = ?; ? OR ? = ?.
func Or(a, b Value) Value {
	av, aok := asBool(a)
	bv, bok := asBool(b)
	switch {
	case aok && av:
		return Boolean(true)
	case bok && bv:
		return Boolean(true)
	case aok && bok:
		return Boolean(av || bv)
	default:
		return Empty
	}
}

// Xor yields Empty if either operand is Empty, else the exclusive-or.
func Xor(a, b Value) Value {
	av, aok := asBool(a)
	bv, bok := asBool(b)
	if !aok || !bok {
		return Empty
	}
	return Boolean(av != bv)
}

// Not implements NOT; NOT Empty is Empty.
func Not(a Value) Value {
	av, ok := asBool(a)
	if !ok {
		return Empty
	}
	return Boolean(!av)
}

// --- arithmetic (§4.3: u64 saturating-to-Empty, no wrap) ---

func Add(a, b Value) Value {
	if a.kind == KindNumber && b.kind == KindNumber {
		sum, carry := bits.Add64(a.number, b.number, 0)
		if carry != 0 {
			return Empty
		}
		return Number(sum)
	}
	if a.kind == KindString && b.kind == KindString {
		return String(a.str + b.str)
	}
	return Empty
}

func Sub(a, b Value) Value {
	if a.kind != KindNumber || b.kind != KindNumber {
		return Empty
	}
	if a.number < b.number {
		return Empty
	}
	return Number(a.number - b.number)
}

func Mul(a, b Value) Value {
	if a.kind == KindNumber && b.kind == KindNumber {
		hi, lo := bits.Mul64(a.number, b.number)
		if hi != 0 {
			return Empty
		}
		return Number(lo)
	}
	if a.kind == KindString && b.kind == KindNumber {
		return String(strings.Repeat(a.str, int(b.number)))
	}
	if a.kind == KindNumber && b.kind == KindString {
		return String(strings.Repeat(b.str, int(a.number)))
	}
	return Empty
}

func Div(a, b Value) Value {
	if a.kind != KindNumber || b.kind != KindNumber || b.number == 0 {
		return Empty
	}
	return Number(a.number / b.number)
}

func Mod(a, b Value) Value {
	if a.kind != KindNumber || b.kind != KindNumber || b.number == 0 {
		return Empty
	}
	return Number(a.number % b.number)
}

func BitAnd(a, b Value) Value { return bitOp(a, b, func(x, y uint64) uint64 { return x & y }) }
func BitOr(a, b Value) Value  { return bitOp(a, b, func(x, y uint64) uint64 { return x | y }) }
func BitXor(a, b Value) Value { return bitOp(a, b, func(x, y uint64) uint64 { return x ^ y }) }

func bitOp(a, b Value, f func(x, y uint64) uint64) Value {
	if a.kind != KindNumber || b.kind != KindNumber {
		return Empty
	}
	return Number(f(a.number, b.number))
}

// JoinPath implements the overloaded `/`: Number/Number divides;
// (Path or String)/String produces a child path. The evaluator picks
// the branch purely from the left operand's Kind, per the grammar's
// single SLASH token serving both roles.
func JoinPath(a, b Value, join func(base, child string) string) Value {
	if a.kind == KindNumber && b.kind == KindNumber {
		return Div(a, b)
	}
	if (a.kind == KindPath || a.kind == KindString) && b.kind == KindString {
		return Path(join(a.str, b.str))
	}
	return Empty
}

// --- casts (§4.3) ---

// ToString is the AS STRING / AS TEXT / AS STR cast. Lists and classes
// have no defined string cast and yield Empty; use Display for a
// human-readable rendering of every Kind.
func (v Value) ToString() Value {
	switch v.kind {
	case KindEmpty:
		return Empty
	case KindString:
		return v
	case KindNumber:
		return String(strconv.FormatUint(v.number, 10))
	case KindBoolean:
		if v.b {
			return String("true")
		}
		return String("false")
	case KindDate:
		return String(v.date.Format(time.RFC3339))
	case KindPath:
		return String(v.str)
	default:
		return Empty
	}
}

// ToNumber is the AS NUMBER / AS NUM / AS INT / AS INTEGER cast. A
// String must fully decimal-parse; partial matches yield Empty, not a
// truncated number.
func (v Value) ToNumber() Value {
	switch v.kind {
	case KindEmpty:
		return Empty
	case KindNumber:
		return v
	case KindString:
		n, err := strconv.ParseUint(strings.TrimSpace(v.str), 10, 64)
		if err != nil {
			return Empty
		}
		return Number(n)
	case KindDate:
		return Number(uint64(v.date.Unix()))
	default:
		return Empty
	}
}

var trueWords = map[string]bool{"yes": true, "y": true, "true": true, "t": true}
var falseWords = map[string]bool{"no": true, "n": true, "false": true, "f": true}

// ToBoolean is the AS BOOL / AS BOOLEAN cast.
func (v Value) ToBoolean() Value {
	switch v.kind {
	case KindEmpty:
		return Empty
	case KindBoolean:
		return v
	case KindString:
		lower := strings.ToLower(v.str)
		if trueWords[lower] {
			return Boolean(true)
		}
		if falseWords[lower] {
			return Boolean(false)
		}
		return Empty
	default:
		return Empty
	}
}

// dateFormats lists the accepted @(...) literal and parse() input
// layouts from §6, tried in order; month names match case-insensitively
// because Go's time.Parse already compares them without regard to case.
var dateFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"02/Jan/2006",
	"02/Jan/2006 15:04",
	"02/Jan/2006 15:04:05",
	"02/Jan/2006 15:04:05.000",
	"02/Jan/2006 15:04 -0700",
	"02/Jan/2006 15:04:05 -0700",
	"02/Jan/2006 15:04:05.000 -0700",
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04 -0700",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05.000 -0700",
}

// ParseDate parses raw (the unparsed text of an @(...) literal, or the
// string operand of a STRING/DATE cast) against the accepted layouts.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToDate is the AS DATE / AS TIME / AS TIMESTAMP cast over Number and
// String. Casting a Path requires the file context's accessed time
// (§9 open question 1) and is handled by the evaluator, not here.
func (v Value) ToDate() Value {
	switch v.kind {
	case KindEmpty:
		return Empty
	case KindDate:
		return v
	case KindNumber:
		return Date(time.Unix(int64(v.number), 0).UTC())
	case KindString:
		t, ok := ParseDate(v.str)
		if !ok {
			return Empty
		}
		return Date(t)
	default:
		return Empty
	}
}

// ToPath is the AS PATH / AS FILE / AS DIR cast.
func (v Value) ToPath() Value {
	switch v.kind {
	case KindEmpty:
		return Empty
	case KindPath:
		return v
	case KindString:
		return Path(v.str)
	default:
		return Empty
	}
}

// NaturalOrderLess reports whether a sorts before b under the "natural
// order" list methods (max/min/sort) use: defined only within a single
// orderable Kind, matching Compare; heterogeneous pairs report false
// for both a<b and b<a, which sort.SliceStable treats as already equal
// so the original relative order is preserved for the undefined case.
func NaturalOrderLess(a, b Value) bool {
	cmp, ok := Compare(a, b)
	return ok && cmp < 0
}

// Homogeneous reports whether every element of list shares list[0]'s Kind.
func Homogeneous(list []Value) bool {
	if len(list) == 0 {
		return true
	}
	k := list[0].kind
	for _, v := range list[1:] {
		if v.kind != k {
			return false
		}
	}
	return true
}

// SortStable sorts list by natural order, leaving it unchanged (Empty
// result signaled by the caller) when the list is heterogeneous.
func SortStable(list []Value) ([]Value, bool) {
	if !Homogeneous(list) {
		return nil, false
	}
	out := make([]Value, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool { return NaturalOrderLess(out[i], out[j]) })
	return out, true
}

// GoString aids debugging/tests with a compact literal-like rendering.
func (v Value) GoString() string {
	return fmt.Sprintf("Value{%s %s}", v.kind, v.Display())
}
