package memfs

import (
	"context"
	"path/filepath"

	"github.com/wasivm/wasihost"
	"github.com/wasivm/wasihost/volume"
)

// direntHeaderSize is the size in bytes of a wasi dirent's fixed header,
// not counting the variable-length name that follows it: next (8) + inode
// (8) + namelen (4) + filetype (4).
const direntHeaderSize = 24

// Dir is a directory stream. It snapshots the directory's contents at
// FDOpenDir time, so entries added or removed by other descriptors after
// that point are not observed by this stream; this keeps cookies stable
// across a single iteration regardless of concurrent mutation elsewhere.
type Dir struct {
	sys     *System
	entries []wasi.DirEntry
}

func (sys *System) readDirEntries(path string) ([]wasi.DirEntry, wasi.Errno) {
	children, err := sys.vol.ReadDir(path)
	if err != nil {
		return nil, errnoFor(err)
	}

	self, err := sys.vol.Stat(path)
	if err != nil {
		return nil, errnoFor(err)
	}
	parent := self
	if parentPath := filepath.Dir(path); parentPath != path {
		if e, err := sys.vol.Stat(parentPath); err == nil {
			parent = e
		}
	}

	entries := make([]wasi.DirEntry, 0, len(children)+2)
	entries = append(entries,
		wasi.DirEntry{INode: wasi.INode(self.INode), Type: wasi.DirectoryType, Name: []byte(".")},
		wasi.DirEntry{INode: wasi.INode(parent.INode), Type: wasi.DirectoryType, Name: []byte("..")},
	)
	for _, c := range children {
		entries = append(entries, direntOf(c))
	}
	for i := range entries {
		entries[i].Next = wasi.DirCookie(i + 1)
		entries[i].NameLength = wasi.DirNameLength(len(entries[i].Name))
	}
	return entries, wasi.ESUCCESS
}

func direntOf(e volume.Entry) wasi.DirEntry {
	fileType := wasi.RegularFileType
	if e.IsDir {
		fileType = wasi.DirectoryType
	}
	return wasi.DirEntry{
		INode: wasi.INode(e.INode),
		Type:  fileType,
		Name:  []byte(e.Name),
	}
}

func (d *Dir) FDReadDir(ctx context.Context, entries []wasi.DirEntry, cookie wasi.DirCookie, bufferSizeBytes int) (int, wasi.Errno) {
	start := int(cookie)
	if start > len(d.entries) {
		return 0, wasi.ESUCCESS
	}

	n := 0
	for i := start; i < len(d.entries) && n < len(entries); i++ {
		e := d.entries[i]
		size := direntHeaderSize + len(e.Name)
		if n > 0 && size > bufferSizeBytes {
			break
		}
		bufferSizeBytes -= size
		entries[n] = e
		n++
		if bufferSizeBytes <= 0 {
			break
		}
	}
	return n, wasi.ESUCCESS
}

func (d *Dir) FDCloseDir(ctx context.Context) wasi.Errno {
	d.sys.openDirCount--
	return wasi.ESUCCESS
}
