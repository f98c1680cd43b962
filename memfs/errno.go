package memfs

import (
	"errors"
	"os"

	"github.com/wasivm/wasihost"
	"github.com/wasivm/wasihost/volume"
)

// errno translates a volume sentinel error (or a generic I/O error) into the
// WASI errno value a syscall handler should return. This generalizes the
// GOOS-specific syscall.Errno switches used elsewhere in this module to the
// error vocabulary the in-memory volume produces.
func errnoFor(err error) wasi.Errno {
	switch {
	case err == nil:
		return wasi.ESUCCESS
	case errors.Is(err, volume.ErrNotExist):
		return wasi.ENOENT
	case errors.Is(err, volume.ErrExist):
		return wasi.EEXIST
	case errors.Is(err, volume.ErrNotDir):
		return wasi.ENOTDIR
	case errors.Is(err, volume.ErrIsDir):
		return wasi.EISDIR
	case errors.Is(err, volume.ErrNotEmpty):
		return wasi.ENOTEMPTY
	case errors.Is(err, os.ErrClosed):
		return wasi.EBADF
	default:
		return wasi.EIO
	}
}

func statOf(e volume.Entry) wasi.FileStat {
	fileType := wasi.RegularFileType
	if e.IsDir {
		fileType = wasi.DirectoryType
	}
	ts := wasi.Timestamp(e.ModTime.UnixNano())
	return wasi.FileStat{
		Device:     1,
		INode:      wasi.INode(e.INode),
		FileType:   fileType,
		NLink:      1,
		Size:       wasi.FileSize(e.Size),
		AccessTime: ts,
		ModifyTime: ts,
		ChangeTime: ts,
	}
}
