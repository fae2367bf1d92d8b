package builtins

import (
	"strings"

	"github.com/yift/findit/internal/value"
)

// ListMethod dispatches a List receiver method that needs no lambda
// argument. ok is false for a method name this function doesn't own
// (either unknown, or one of the lambda-taking methods ListMethodFn
// handles).
func ListMethod(list []value.Value, name string, args []value.Value) (value.Value, bool) {
	switch name {
	case "length":
		return value.Number(uint64(len(list))), true
	case "reverse":
		out := make([]value.Value, len(list))
		for i, v := range list {
			out[len(list)-1-i] = v
		}
		return value.List(out), true
	case "sum":
		return listSum(list), true
	case "max":
		return listExtreme(list, true), true
	case "min":
		return listExtreme(list, false), true
	case "avg":
		return listAvg(list), true
	case "sort":
		sorted, ok := value.SortStable(list)
		if !ok {
			return value.Empty, true
		}
		return value.List(sorted), true
	case "distinct":
		return value.List(distinct(list)), true
	case "take":
		n, ok := scalarNumber(args, 0)
		if !ok {
			return value.Empty, true
		}
		return value.List(takeList(list, int(n))), true
	case "skip":
		n, ok := scalarNumber(args, 0)
		if !ok {
			return value.Empty, true
		}
		return value.List(skipList(list, int(n))), true
	case "join":
		sep := ","
		if len(args) > 0 {
			if args[0].Kind() != value.KindString {
				return value.Empty, true
			}
			sep = args[0].StringValue()
		}
		return value.String(joinList(list, sep)), true
	case "first":
		if len(list) == 0 {
			return value.Empty, true
		}
		return list[0], true
	case "last":
		if len(list) == 0 {
			return value.Empty, true
		}
		return list[len(list)-1], true
	case "contains":
		if len(args) == 0 {
			return value.Empty, true
		}
		for _, v := range list {
			if value.Equal(v, args[0]).IsTrue() {
				return value.Boolean(true), true
			}
		}
		return value.Boolean(false), true
	case "indexof":
		if len(args) == 0 {
			return value.Empty, true
		}
		for i, v := range list {
			if value.Equal(v, args[0]).IsTrue() {
				return value.Number(uint64(i)), true
			}
		}
		return value.Empty, true
	case "enumerate":
		out := make([]value.Value, len(list))
		for i, v := range list {
			out[i] = value.Class([]value.Field{
				{Key: "index", Value: value.Number(uint64(i))},
				{Key: "item", Value: v},
			})
		}
		return value.List(out), true
	case "chunk":
		n, ok := scalarNumber(args, 0)
		if !ok || n == 0 {
			return value.Empty, true
		}
		return value.List(chunkList(list, int(n))), true
	default:
		return value.Empty, false
	}
}

// ListMethodFn dispatches the list methods that take a single-argument
// lambda, applied through apply. ok is false for an unknown method.
func ListMethodFn(list []value.Value, name string, apply func(value.Value) value.Value) (value.Value, bool) {
	switch name {
	case "map":
		out := make([]value.Value, len(list))
		for i, v := range list {
			out[i] = apply(v)
		}
		return value.List(out), true
	case "filter":
		var out []value.Value
		for _, v := range list {
			if apply(v).IsTrue() {
				out = append(out, v)
			}
		}
		return value.List(out), true
	case "flatmap":
		var out []value.Value
		for _, v := range list {
			r := apply(v)
			if r.Kind() == value.KindList {
				out = append(out, r.ListValue()...)
			}
		}
		return value.List(out), true
	case "all":
		for _, v := range list {
			if !apply(v).IsTrue() {
				return value.Boolean(false), true
			}
		}
		return value.Boolean(true), true
	case "any":
		for _, v := range list {
			if apply(v).IsTrue() {
				return value.Boolean(true), true
			}
		}
		return value.Boolean(false), true
	case "sortby":
		keys := make([]value.Value, len(list))
		for i, v := range list {
			keys[i] = apply(v)
		}
		return value.List(sortByKeys(list, keys)), true
	case "distinctby":
		return value.List(distinctBy(list, apply)), true
	case "groupby":
		return value.List(groupBy(list, apply)), true
	default:
		return value.Empty, false
	}
}

func listSum(list []value.Value) value.Value {
	var total uint64
	for _, v := range list {
		if v.Kind() != value.KindNumber {
			return value.Empty
		}
		sum := value.Add(value.Number(total), v)
		if sum.IsEmpty() {
			return value.Empty
		}
		total = sum.NumberValue()
	}
	return value.Number(total)
}

func listAvg(list []value.Value) value.Value {
	if len(list) == 0 {
		return value.Empty
	}
	sum := listSum(list)
	if sum.IsEmpty() {
		return value.Empty
	}
	return value.Number(sum.NumberValue() / uint64(len(list)))
}

func listExtreme(list []value.Value, wantMax bool) value.Value {
	if !value.Homogeneous(list) || len(list) == 0 {
		return value.Empty
	}
	best := list[0]
	for _, v := range list[1:] {
		cmp, ok := value.Compare(v, best)
		if !ok {
			return value.Empty
		}
		if (wantMax && cmp > 0) || (!wantMax && cmp < 0) {
			best = v
		}
	}
	return best
}

func distinct(list []value.Value) []value.Value {
	var out []value.Value
	for _, v := range list {
		seen := false
		for _, o := range out {
			if value.Equal(v, o).IsTrue() {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, v)
		}
	}
	return out
}

func distinctBy(list []value.Value, keyOf func(value.Value) value.Value) []value.Value {
	var out []value.Value
	var keys []value.Value
	for _, v := range list {
		k := keyOf(v)
		seen := false
		for _, ok := range keys {
			if value.Equal(k, ok).IsTrue() {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, v)
			keys = append(keys, k)
		}
	}
	return out
}

func takeList(list []value.Value, n int) []value.Value {
	if n < 0 {
		n = 0
	}
	if n > len(list) {
		n = len(list)
	}
	out := make([]value.Value, n)
	copy(out, list[:n])
	return out
}

func skipList(list []value.Value, n int) []value.Value {
	if n < 0 {
		n = 0
	}
	if n > len(list) {
		n = len(list)
	}
	out := make([]value.Value, len(list)-n)
	copy(out, list[n:])
	return out
}

func joinList(list []value.Value, sep string) string {
	parts := make([]string, len(list))
	for i, v := range list {
		s := v.ToString()
		if s.Kind() == value.KindString {
			parts[i] = s.StringValue()
		}
	}
	return strings.Join(parts, sep)
}

func chunkList(list []value.Value, n int) []value.Value {
	var out []value.Value
	for i := 0; i < len(list); i += n {
		end := i + n
		if end > len(list) {
			end = len(list)
		}
		chunk := make([]value.Value, end-i)
		copy(chunk, list[i:end])
		out = append(out, value.List(chunk))
	}
	return out
}

// sortByKeys stably sorts list by the parallel keys slice; when the
// keys aren't all of one kind it returns a copy of list in its
// original order.
func sortByKeys(list []value.Value, keys []value.Value) []value.Value {
	idx := make([]int, len(list))
	for i := range idx {
		idx[i] = i
	}
	if !value.Homogeneous(keys) {
		out := make([]value.Value, len(list))
		copy(out, list)
		return out
	}
	out := make([]value.Value, len(list))
	copy(out, list)
	// insertion sort: stable, and list sizes here are small (file trees).
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && value.NaturalOrderLess(keys[idx[j]], keys[idx[j-1]]) {
			idx[j], idx[j-1] = idx[j-1], idx[j]
			j--
		}
	}
	sorted := make([]value.Value, len(out))
	for i, k := range idx {
		sorted[i] = list[k]
	}
	return sorted
}

func groupBy(list []value.Value, keyOf func(value.Value) value.Value) []value.Value {
	var groupKeys []value.Value
	groups := make(map[int][]value.Value)
	for _, v := range list {
		k := keyOf(v)
		found := -1
		for i, gk := range groupKeys {
			if value.Equal(k, gk).IsTrue() {
				found = i
				break
			}
		}
		if found < 0 {
			found = len(groupKeys)
			groupKeys = append(groupKeys, k)
		}
		groups[found] = append(groups[found], v)
	}
	out := make([]value.Value, len(groupKeys))
	for i, k := range groupKeys {
		out[i] = value.Class([]value.Field{
			{Key: "key", Value: k},
			{Key: "values", Value: value.List(groups[i])},
		})
	}
	return out
}
