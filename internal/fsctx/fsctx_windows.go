//go:build windows

package fsctx

import (
	"io/fs"

	"github.com/yift/findit/internal/value"
)

// timeProperty on Windows only has ModTime available through the
// standard fs.FileInfo; accessed/created fall back to Empty rather
// than reaching for platform-specific syscalls this module doesn't
// otherwise depend on.
func (c *Context) timeProperty(kind timeKind) value.Value {
	if kind != modTime {
		return value.Empty
	}
	info, err := c.stat()
	if err != nil {
		return value.Empty
	}
	return value.Date(info.ModTime())
}

func (c *Context) ownerGroup(owner bool) value.Value { return value.Empty }

func permissionExtraBits(info fs.FileInfo) uint64 { return 0 }
