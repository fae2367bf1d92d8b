// Package walker performs the directory traversal the core expression
// language keeps external (§6's FileContext/walk() contract). It
// evaluates a compiled --where expression per path and an optional
// --order-by key per directory's children, honoring --depth,
// --node-first/--node-last, and --limit, and evaluates each
// directory's children concurrently through a bounded worker pool
// (§5: "safely usable from multiple threads").
package walker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/maruel/natural"

	"github.com/yift/findit/internal/ast"
	"github.com/yift/findit/internal/errors"
	"github.com/yift/findit/internal/eval"
	"github.com/yift/findit/internal/fsctx"
	"github.com/yift/findit/internal/value"
)

// Entry is one path the walker decided to emit after applying --where.
type Entry struct {
	Path    string
	Context eval.FileContext
	IsDir   bool
	Depth   int
}

// Options configures one traversal.
type Options struct {
	// Depth is the max recursion depth below each root; negative means
	// unlimited. 0 visits only the root path itself.
	Depth int
	// Limit stops the walk after this many matches are yielded; 0 means
	// unlimited. Once reached, in-flight and not-yet-started evaluation
	// is dropped via context cancellation rather than run to completion.
	Limit int
	// NodeFirst emits a matching directory before its children
	// (pre-order); otherwise it is emitted after (post-order).
	NodeFirst bool
	// Where is the compiled --where expression; nil matches everything.
	Where ast.Expression
	// OrderBy is the compiled --order-by expression evaluated per
	// sibling; nil leaves siblings in natural name order.
	OrderBy ast.Expression
	// Workers bounds the per-directory evaluation pool; <=0 defaults to
	// runtime.NumCPU().
	Workers int
	// DebugSink receives debug(...) builtin output, if configured.
	DebugSink eval.DebugSink
}

// candidate is one path discovered during traversal, awaiting
// evaluation.
type candidate struct {
	path  string
	isDir bool
	depth int
}

// evalResult is a candidate's evaluation outcome.
type evalResult struct {
	matched bool
	key     value.Value
	err     *errors.RuntimeError
}

type walker struct {
	ctx    context.Context
	cancel context.CancelFunc
	ev     *eval.Evaluator
	opts   Options
	yield  func(Entry, *errors.RuntimeError) bool
	count  int
}

// Walk traverses roots and yields every Entry whose --where expression
// evaluated true, in traversal order (§5: order across files is
// walker-defined, shaped by --order-by/--node-first/--depth). Returning
// false from the range-over-func loop, or --limit being reached,
// cancels the walk's context so outstanding work in the evaluation
// pool is abandoned rather than finished.
//
// A non-nil error in a yielded pair is a RuntimeError surfaced by §7's
// requireBoolean (a malformed --where result) or by --order-by
// evaluation failing the same way; it always ends the walk.
func Walk(ctx context.Context, roots []string, ev *eval.Evaluator, opts Options) func(func(Entry, *errors.RuntimeError) bool) {
	return func(yield func(Entry, *errors.RuntimeError) bool) {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()
		w := &walker{ctx: cctx, cancel: cancel, ev: ev, opts: opts, yield: yield}
		for _, root := range roots {
			if cctx.Err() != nil {
				return
			}
			if !w.visitRoot(root) {
				return
			}
		}
	}
}

func (w *walker) withinDepth(depth int) bool {
	return w.opts.Depth < 0 || depth < w.opts.Depth
}

func (w *walker) visitRoot(path string) bool {
	fc := fsctx.New(path, w.opts.DebugSink)
	matched, rerr := evalWhere(w.ev, w.opts.Where, fc)
	if rerr != nil {
		w.fatal(rerr)
		return false
	}
	info, statErr := os.Lstat(path)
	isDir := statErr == nil && info.IsDir()
	return w.handleNode(candidate{path: path, isDir: isDir, depth: 0}, matched)
}

// handleNode emits c (respecting --node-first/--node-last) and, if c is
// a directory within --depth, recurses into its children.
func (w *walker) handleNode(c candidate, matched bool) bool {
	if w.ctx.Err() != nil {
		return false
	}
	if c.isDir && w.opts.NodeFirst && matched {
		if !w.emit(c) {
			return false
		}
	}
	if c.isDir && w.withinDepth(c.depth) {
		if !w.visitChildren(c.path, c.depth) {
			return false
		}
	}
	if c.isDir {
		if !w.opts.NodeFirst && matched {
			if !w.emit(c) {
				return false
			}
		}
	} else if matched {
		if !w.emit(c) {
			return false
		}
	}
	return true
}

func (w *walker) visitChildren(dir string, depth int) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable directory yields no entries, per §4.4's normative
		// "failure becomes Empty/absence, not an error" rule.
		return true
	}
	sort.Slice(entries, func(i, j int) bool { return natural.Less(entries[i].Name(), entries[j].Name()) })

	children := make([]candidate, len(entries))
	for i, e := range entries {
		children[i] = candidate{path: filepath.Join(dir, e.Name()), isDir: e.IsDir(), depth: depth + 1}
	}

	results := w.evalBatch(children)
	if w.ctx.Err() != nil {
		return false
	}
	if w.opts.OrderBy != nil {
		stableSortByKey(children, results)
	}

	for i, c := range children {
		r := results[i]
		if r.err != nil {
			w.fatal(r.err)
			return false
		}
		if !w.handleNode(c, r.matched) {
			return false
		}
	}
	return true
}

// evalBatch evaluates --where (and --order-by, when configured) for
// every child concurrently across a bounded worker pool; each worker
// builds its own fsctx.Context per path so content memoization stays
// scoped to one file, while the compiled expression trees and regex
// cache are shared read-only state (§5).
func (w *walker) evalBatch(children []candidate) []evalResult {
	results := make([]evalResult, len(children))
	if len(children) == 0 {
		return results
	}
	workers := w.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(children) {
		workers = len(children)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if w.ctx.Err() != nil {
					continue
				}
				results[idx] = w.evalOne(children[idx])
			}
		}()
	}
	for i := range children {
		select {
		case jobs <- i:
		case <-w.ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

func (w *walker) evalOne(c candidate) evalResult {
	fc := fsctx.New(c.path, w.opts.DebugSink)
	matched, rerr := evalWhere(w.ev, w.opts.Where, fc)
	if rerr != nil {
		return evalResult{err: rerr}
	}
	var key value.Value
	if w.opts.OrderBy != nil {
		key, rerr = w.ev.Evaluate(w.opts.OrderBy, eval.NewEnvironment(fc))
		if rerr != nil {
			return evalResult{err: rerr}
		}
	}
	return evalResult{matched: matched, key: key}
}

func evalWhere(ev *eval.Evaluator, where ast.Expression, fc eval.FileContext) (bool, *errors.RuntimeError) {
	if where == nil {
		return true, nil
	}
	return ev.RequireBoolean(where, eval.NewEnvironment(fc))
}

// stableSortByKey reorders children/results in lockstep by order-by
// key, natural-order comparison within a Kind (mirrors
// internal/builtins/list.go's sortByKeys). A heterogeneous key set
// leaves sibling order untouched rather than yielding an arbitrary
// order.
func stableSortByKey(children []candidate, results []evalResult) {
	keys := make([]value.Value, len(children))
	for i, r := range results {
		keys[i] = r.key
	}
	if !value.Homogeneous(keys) {
		return
	}
	idx := make([]int, len(children))
	for i := range idx {
		idx[i] = i
	}
	for i := 1; i < len(idx); i++ {
		j := i
		for j > 0 && value.NaturalOrderLess(keys[idx[j]], keys[idx[j-1]]) {
			idx[j], idx[j-1] = idx[j-1], idx[j]
			j--
		}
	}
	sortedChildren := make([]candidate, len(children))
	sortedResults := make([]evalResult, len(results))
	for i, k := range idx {
		sortedChildren[i] = children[k]
		sortedResults[i] = results[k]
	}
	copy(children, sortedChildren)
	copy(results, sortedResults)
}

func (w *walker) emit(c candidate) bool {
	if w.opts.Limit > 0 && w.count >= w.opts.Limit {
		w.cancel()
		return false
	}
	fc := fsctx.New(c.path, w.opts.DebugSink)
	if !w.yield(Entry{Path: c.path, Context: fc, IsDir: c.isDir, Depth: c.depth}, nil) {
		w.cancel()
		return false
	}
	w.count++
	if w.opts.Limit > 0 && w.count >= w.opts.Limit {
		w.cancel()
		return false
	}
	return true
}

func (w *walker) fatal(err *errors.RuntimeError) {
	w.yield(Entry{}, err)
	w.cancel()
}
