package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yift/findit/internal/eval"
)

func buildTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	must(os.WriteFile(filepath.Join(dir, "b.rs"), []byte("fn main() {}"), 0o644))
	must(os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	must(os.WriteFile(filepath.Join(dir, "sub", "c.rs"), []byte("// todo"), 0o644))
	return dir
}

func collect(t *testing.T, dir string, opts Options) ([]Entry, error) {
	t.Helper()
	ev := eval.New(nil)
	var entries []Entry
	for e, rerr := range Walk(context.Background(), []string{dir}, ev, opts) {
		if rerr != nil {
			return entries, rerr
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func TestWalkAllFilesNoFilter(t *testing.T) {
	dir := buildTree(t)
	entries, err := collect(t, dir, Options{Depth: -1})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}
	var files int
	for _, e := range entries {
		if !e.IsDir {
			files++
		}
	}
	if files != 3 {
		t.Fatalf("got %d files, want 3", files)
	}
}

func TestWalkWhereFiltersByExtension(t *testing.T) {
	dir := buildTree(t)
	expr, perr := eval.Compile(`extension == "rs"`)
	if perr != nil {
		t.Fatalf("compile error: %v", perr)
	}
	entries, err := collect(t, dir, Options{Depth: -1, Where: expr})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}
	for _, e := range entries {
		if e.IsDir {
			t.Fatalf("directory %s matched extension filter", e.Path)
		}
		if filepath.Ext(e.Path) != ".rs" {
			t.Fatalf("entry %s does not end in .rs", e.Path)
		}
	}
	if len(entries) != 2 {
		t.Fatalf("got %d matches, want 2", len(entries))
	}
}

func TestWalkDepthZeroIsRootOnly(t *testing.T) {
	dir := buildTree(t)
	entries, err := collect(t, dir, Options{Depth: 0})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != dir {
		t.Fatalf("got %v, want just the root", entries)
	}
}

func TestWalkLimitStopsEarly(t *testing.T) {
	dir := buildTree(t)
	entries, err := collect(t, dir, Options{Depth: -1, Limit: 2})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (limit)", len(entries))
	}
}

func TestWalkOrderByNameAscending(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "m.txt", "z.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	expr, perr := eval.Compile(`name`)
	if perr != nil {
		t.Fatalf("compile error: %v", perr)
	}
	entries, err := collect(t, dir, Options{Depth: -1, OrderBy: expr})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir {
			names = append(names, filepath.Base(e.Path))
		}
	}
	want := []string{"a.txt", "m.txt", "z.txt"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestWalkNodeFirstEmitsMatchingDirectories(t *testing.T) {
	dir := buildTree(t)
	expr, perr := eval.Compile(`isdir`)
	if perr != nil {
		t.Fatalf("compile error: %v", perr)
	}
	entries, err := collect(t, dir, Options{Depth: -1, Where: expr, NodeFirst: true})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d directories, want 2 (root + sub)", len(entries))
	}
}
