package config

import (
	"testing"

	"github.com/yift/findit/internal/walker"
)

func TestApplyOnlySetsNonZeroFields(t *testing.T) {
	opts := walker.Options{Depth: -1}
	d := Defaults{Limit: 5}
	d.Apply(&opts)
	if opts.Limit != 5 {
		t.Fatalf("Limit = %d, want 5", opts.Limit)
	}
	if opts.Depth != -1 {
		t.Fatalf("Depth = %d, want unchanged -1 (absent key leaves Depth nil)", opts.Depth)
	}
}

func TestApplyCanSetDepthToZero(t *testing.T) {
	opts := walker.Options{Depth: -1}
	zero := 0
	d := Defaults{Depth: &zero}
	d.Apply(&opts)
	if opts.Depth != 0 {
		t.Fatalf("Depth = %d, want 0 (explicit depth = 0 in config must reach Options)", opts.Depth)
	}
}

func TestRegexCacheSizeOrFallsBack(t *testing.T) {
	var d Defaults
	if got := d.RegexCacheSizeOr(256); got != 256 {
		t.Fatalf("got %d, want 256", got)
	}
	d.RegexCacheSize = 64
	if got := d.RegexCacheSizeOr(256); got != 64 {
		t.Fatalf("got %d, want 64", got)
	}
}

func TestDelimiterOrFallsBack(t *testing.T) {
	var d Defaults
	if got := d.DelimiterOr('`'); got != '`' {
		t.Fatalf("got %q, want backtick", got)
	}
	d.Delimiter = "|"
	if got := d.DelimiterOr('`'); got != '|' {
		t.Fatalf("got %q, want |", got)
	}
}
