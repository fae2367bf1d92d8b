package lexer

import "strings"

// CanonicalizeIdent strips kebab-case/snake_case separators so that
// "indexOf", "index_of" and "index-of" all resolve to the same
// canonical identifier ("indexof"), letting the builtin dispatch
// tables key on a single spelling regardless of which casing
// convention the script author used. The keyword table is consulted
// on the upper-cased form of this canonical spelling.
func CanonicalizeIdent(s string) string {
	if !strings.ContainsAny(s, "_-") {
		return strings.ToLower(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
