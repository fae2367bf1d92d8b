//go:build !windows

package fsctx

import (
	"fmt"
	"io/fs"
	"os/user"
	"strconv"
	"syscall"
	"time"

	"github.com/yift/findit/internal/value"
)

func (c *Context) timeProperty(kind timeKind) value.Value {
	info, err := c.stat()
	if err != nil {
		return value.Empty
	}
	switch kind {
	case modTime:
		return value.Date(info.ModTime())
	case accessTime, birthTime:
		st, ok := info.Sys().(*syscall.Stat_t)
		if !ok {
			return value.Empty
		}
		if kind == accessTime {
			return value.Date(time.Unix(st.Atim.Sec, st.Atim.Nsec))
		}
		return value.Date(time.Unix(st.Ctim.Sec, st.Ctim.Nsec))
	default:
		return value.Empty
	}
}

func (c *Context) ownerGroup(owner bool) value.Value {
	info, err := c.stat()
	if err != nil {
		return value.Empty
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return value.Empty
	}
	if owner {
		u, err := user.LookupId(fmt.Sprint(st.Uid))
		if err != nil {
			return value.String(strconv.FormatUint(uint64(st.Uid), 10))
		}
		return value.String(u.Username)
	}
	g, err := user.LookupGroupId(fmt.Sprint(st.Gid))
	if err != nil {
		return value.String(strconv.FormatUint(uint64(st.Gid), 10))
	}
	return value.String(g.Name)
}

// permissionExtraBits returns the setuid/setgid/sticky bits of info's
// mode as 0o4000/0o2000/0o1000, which `permission` adds to the 9
// rwxrwxrwx bits Go's fs.FileMode.Perm returns. File-type bits are not
// part of `permission`.
func permissionExtraBits(info fs.FileInfo) uint64 {
	var extra uint64
	mode := info.Mode()
	if mode&fs.ModeSetuid != 0 {
		extra |= 0o4000
	}
	if mode&fs.ModeSetgid != 0 {
		extra |= 0o2000
	}
	if mode&fs.ModeSticky != 0 {
		extra |= 0o1000
	}
	return extra
}
