// Package fsctx implements the eval.FileContext interface against the
// native filesystem (os/io/fs), per SPEC_FULL.md's Walker section.
// Every accessor returns value.Empty on any I/O failure rather than an
// error, matching §4.4's normative rule; content is memoized per
// Context instance so a single evaluation reads a file at most once
// (§5 Resources).
package fsctx

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/yift/findit/internal/eval"
	"github.com/yift/findit/internal/value"
)

// propertyAliases canonicalizes every §4.5 alias spelling (already
// lower-cased/separator-stripped by the lexer's CanonicalizeIdent) to
// the primitive name Context.Property switches on.
var propertyAliases = map[string]string{
	"me": "path", "this": "path", "self": "path",
	"permissions": "permission",
}

// Context is a FileContext rooted at one filesystem path.
type Context struct {
	path string

	mu      sync.Mutex
	info    fs.FileInfo
	statErr error
	statted bool
	content *string

	sink eval.DebugSink
}

// New builds a Context for path. sink may be nil when no --debug-log
// was configured.
func New(path string, sink eval.DebugSink) *Context {
	return &Context{path: path, sink: sink}
}

func (c *Context) DebugSink() eval.DebugSink { return c.sink }

func (c *Context) Child(name string) eval.FileContext {
	if filepath.IsAbs(name) {
		return New(filepath.Clean(name), c.sink)
	}
	return New(filepath.Join(c.path, name), c.sink)
}

func (c *Context) stat() (fs.FileInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.statted {
		c.info, c.statErr = os.Lstat(c.path)
		c.statted = true
	}
	return c.info, c.statErr
}

func (c *Context) readContent() (string, bool) {
	c.mu.Lock()
	if c.content != nil {
		v := *c.content
		c.mu.Unlock()
		return v, true
	}
	c.mu.Unlock()

	raw, err := os.ReadFile(c.path)
	if err != nil || !utf8.Valid(raw) {
		return "", false
	}
	s := string(raw)
	c.mu.Lock()
	c.content = &s
	c.mu.Unlock()
	return s, true
}

// Property resolves one §4.5 path/file property against this context.
func (c *Context) Property(name string) value.Value {
	if canon, ok := propertyAliases[name]; ok {
		name = canon
	}
	switch name {
	case "path", "absolute":
		abs, err := filepath.Abs(c.path)
		if err != nil {
			return value.Empty
		}
		return value.String(abs)
	case "parent":
		return value.String(filepath.Dir(c.path))
	case "name":
		return value.String(filepath.Base(c.path))
	case "stem":
		base := filepath.Base(c.path)
		return value.String(strings.TrimSuffix(base, filepath.Ext(base)))
	case "extension":
		ext := filepath.Ext(c.path)
		return value.String(strings.TrimPrefix(ext, "."))
	case "depth":
		abs, err := filepath.Abs(c.path)
		if err != nil {
			return value.Empty
		}
		return value.Number(uint64(strings.Count(filepath.ToSlash(abs), "/")))
	case "content":
		s, ok := c.readContent()
		if !ok {
			return value.Empty
		}
		return value.String(s)
	case "size":
		info, err := c.stat()
		if err != nil || info.IsDir() {
			return value.Empty
		}
		return value.Number(uint64(info.Size()))
	case "count":
		entries, err := os.ReadDir(c.path)
		if err != nil {
			return value.Empty
		}
		return value.Number(uint64(len(entries)))
	case "exists":
		_, err := c.stat()
		return value.Boolean(err == nil)
	case "created":
		return c.timeProperty(birthTime)
	case "modified":
		return c.timeProperty(modTime)
	case "accessed":
		return c.timeProperty(accessTime)
	case "owner":
		return c.ownerGroup(true)
	case "group":
		return c.ownerGroup(false)
	case "permission":
		info, err := c.stat()
		if err != nil {
			return value.Empty
		}
		return value.Number(uint64(info.Mode().Perm()) | permissionExtraBits(info))
	case "files":
		return c.listDir()
	case "walk":
		return c.walkAll()
	case "isdir":
		info, err := c.stat()
		return value.Boolean(err == nil && info.IsDir())
	case "isnotdir":
		info, err := c.stat()
		return value.Boolean(err != nil || !info.IsDir())
	case "isfile":
		info, err := c.stat()
		return value.Boolean(err == nil && info.Mode().IsRegular())
	case "isnotfile":
		info, err := c.stat()
		return value.Boolean(err != nil || !info.Mode().IsRegular())
	case "islink":
		info, err := c.stat()
		return value.Boolean(err == nil && info.Mode()&fs.ModeSymlink != 0)
	case "isnotlink":
		info, err := c.stat()
		return value.Boolean(err != nil || info.Mode()&fs.ModeSymlink == 0)
	default:
		return value.Empty
	}
}

type timeKind int

const (
	modTime timeKind = iota
	birthTime
	accessTime
)

func (c *Context) listDir() value.Value {
	entries, err := os.ReadDir(c.path)
	if err != nil {
		return value.Empty
	}
	out := make([]value.Value, len(entries))
	for i, e := range entries {
		out[i] = value.Path(filepath.Join(c.path, e.Name()))
	}
	return value.List(out)
}

func (c *Context) walkAll() value.Value {
	var out []value.Value
	_ = filepath.WalkDir(c.path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if p != c.path {
			out = append(out, value.Path(p))
		}
		return nil
	})
	return value.List(out)
}
