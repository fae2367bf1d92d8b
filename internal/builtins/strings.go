// Package builtins implements the pure value-level portion of findit's
// built-in library (§4.5): string and list methods, and the free
// functions that don't need filesystem access. Path/file properties
// live in internal/fsctx since they need a FileContext; lambda-taking
// list methods (map/filter/...) are dispatched here but receive an
// already-built apply callback so this package never imports the
// evaluator.
package builtins

import (
	"strconv"
	"strings"

	"github.com/yift/findit/internal/value"
)

// StringMethod dispatches a zero-argument-or-scalar-argument method on
// a String receiver. ok is false for an unknown method name.
func StringMethod(s string, name string, args []value.Value) (value.Value, bool) {
	switch name {
	case "length":
		return value.Number(uint64(len([]rune(s)))), true
	case "toupper":
		return value.String(strings.ToUpper(s)), true
	case "tolower":
		return value.String(strings.ToLower(s)), true
	case "trim":
		return value.String(strings.TrimSpace(s)), true
	case "trimhead":
		return value.String(strings.TrimLeft(s, " \t\r\n")), true
	case "trimtail":
		return value.String(strings.TrimRight(s, " \t\r\n")), true
	case "reverse":
		return value.String(reverseString(s)), true
	case "take":
		n, ok := scalarNumber(args, 0)
		if !ok {
			return value.Empty, true
		}
		return value.String(takeRunes(s, int(n))), true
	case "skip":
		n, ok := scalarNumber(args, 0)
		if !ok {
			return value.Empty, true
		}
		return value.String(skipRunes(s, int(n))), true
	case "split":
		sep := ","
		if len(args) > 0 {
			if args[0].Kind() != value.KindString {
				return value.Empty, true
			}
			sep = args[0].StringValue()
		}
		parts := strings.Split(s, sep)
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.String(p)
		}
		return value.List(out), true
	case "lines":
		parts := strings.Split(s, "\n")
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.String(p)
		}
		return value.List(out), true
	case "words":
		fields := strings.Fields(s)
		return value.List(stringsToValues(fields)), true
	case "contains":
		sub, ok := scalarString(args, 0)
		if !ok {
			return value.Empty, true
		}
		return value.Boolean(strings.Contains(s, sub)), true
	case "indexof":
		sub, ok := scalarString(args, 0)
		if !ok {
			return value.Empty, true
		}
		idx := strings.Index(s, sub)
		if idx < 0 {
			return value.Empty, true
		}
		return value.Number(uint64(len([]rune(s[:idx])))), true
	case "hasprefix":
		p, ok := scalarString(args, 0)
		if !ok {
			return value.Empty, true
		}
		return value.Boolean(strings.HasPrefix(s, p)), true
	case "hassuffix":
		p, ok := scalarString(args, 0)
		if !ok {
			return value.Empty, true
		}
		return value.Boolean(strings.HasSuffix(s, p)), true
	case "removeprefix":
		p, ok := scalarString(args, 0)
		if !ok {
			return value.Empty, true
		}
		return value.String(strings.TrimPrefix(s, p)), true
	case "removesuffix":
		p, ok := scalarString(args, 0)
		if !ok {
			return value.Empty, true
		}
		return value.String(strings.TrimSuffix(s, p)), true
	case "padleft":
		return padMethod(s, args, true), true
	case "padright":
		return padMethod(s, args, false), true
	default:
		return value.Empty, false
	}
}

// padMethod implements the supplemented padLeft(n [, ch])/padRight(n
// [, ch]) methods (SPEC_FULL "Supplemented builtins").
func padMethod(s string, args []value.Value, left bool) value.Value {
	n, ok := scalarNumber(args, 0)
	if !ok {
		return value.Empty
	}
	ch := " "
	if len(args) > 1 {
		if args[1].Kind() != value.KindString || len([]rune(args[1].StringValue())) != 1 {
			return value.Empty
		}
		ch = args[1].StringValue()
	}
	cur := len([]rune(s))
	if cur >= int(n) {
		return value.String(s)
	}
	pad := strings.Repeat(ch, int(n)-cur)
	if left {
		return value.String(pad + s)
	}
	return value.String(s + pad)
}

func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func takeRunes(s string, n int) string {
	r := []rune(s)
	if n < 0 {
		n = 0
	}
	if n > len(r) {
		n = len(r)
	}
	return string(r[:n])
}

func skipRunes(s string, n int) string {
	r := []rune(s)
	if n < 0 {
		n = 0
	}
	if n > len(r) {
		n = len(r)
	}
	return string(r[n:])
}

// stringsToValues drops empty elements, the filtering spec.md documents
// for `words` specifically (a whitespace-split result has none anyway,
// since strings.Fields never yields empty fields) — `lines` and `split`
// must not use this: a literal separator split preserves blank elements.
func stringsToValues(ss []string) []value.Value {
	out := make([]value.Value, 0, len(ss))
	for _, s := range ss {
		if s == "" {
			continue
		}
		out = append(out, value.String(s))
	}
	return out
}

func scalarNumber(args []value.Value, i int) (uint64, bool) {
	if i >= len(args) || args[i].Kind() != value.KindNumber {
		return 0, false
	}
	return args[i].NumberValue(), true
}

func scalarString(args []value.Value, i int) (string, bool) {
	if i >= len(args) || args[i].Kind() != value.KindString {
		return "", false
	}
	return args[i].StringValue(), true
}

// parseUintArg is used by free functions that take a textual numeric
// argument (none currently do, kept for symmetry with scalarNumber).
func parseUintArg(s string) (uint64, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	return n, err == nil
}
