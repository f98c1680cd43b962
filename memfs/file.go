// Package memfs adapts an in-memory volume.MemVolume to the wasi.System and
// wasi.File interfaces, so a WebAssembly guest using WASI preview 1 can be
// given a file system that exists only in host memory.
package memfs

import (
	"context"
	"io"
	"path/filepath"

	"github.com/wasivm/wasihost"
	"github.com/wasivm/wasihost/volume"
)

// stdioStream identifies which of the System's character-device streams a
// File refers to, in place of a volume path.
type stdioStream int

const (
	notStdio stdioStream = iota
	stdin
	stdout
	stderr
)

// File is a single open file descriptor's state: a regular file (optionally
// backed by a buffered, atomically-published WritableStream), a directory,
// or one of the embedder's stdio streams.
type File struct {
	sys    *System
	path   string
	isDir  bool
	cursor int64
	stream *volume.WritableStream
	stdio  stdioStream
}

func newFile(sys *System, path string, isDir bool) *File {
	return &File{sys: sys, path: path, isDir: isDir}
}

func newStdioFile(sys *System, which stdioStream) *File {
	return &File{sys: sys, stdio: which}
}

func (f *File) join(rel string) string {
	return filepath.Join(f.path, rel)
}

func (f *File) FDAdvise(ctx context.Context, offset, length wasi.FileSize, advice wasi.Advice) wasi.Errno {
	return wasi.ESUCCESS
}

func (f *File) FDAllocate(ctx context.Context, offset, length wasi.FileSize) wasi.Errno {
	return wasi.ESUCCESS
}

func (f *File) FDClose(ctx context.Context) wasi.Errno {
	if f.stream != nil {
		if err := f.stream.Close(); err != nil {
			return errnoFor(err)
		}
	}
	return wasi.ESUCCESS
}

func (f *File) FDDataSync(ctx context.Context) wasi.Errno {
	return wasi.ESUCCESS
}

func (f *File) FDStatSetFlags(ctx context.Context, flags wasi.FDFlags) wasi.Errno {
	return wasi.ESUCCESS
}

func (f *File) FDFileStatGet(ctx context.Context) (wasi.FileStat, wasi.Errno) {
	if f.stdio != notStdio {
		return wasi.FileStat{FileType: wasi.CharacterDeviceType}, wasi.ESUCCESS
	}
	e, err := f.sys.vol.Stat(f.path)
	if err != nil {
		return wasi.FileStat{}, errnoFor(err)
	}
	return statOf(e), wasi.ESUCCESS
}

func (f *File) FDFileStatSetSize(ctx context.Context, size wasi.FileSize) wasi.Errno {
	if f.stream != nil {
		if err := f.stream.Truncate(int64(size)); err != nil {
			return errnoFor(err)
		}
		return wasi.ESUCCESS
	}
	return errnoFor(f.sys.vol.Truncate(f.path, int64(size)))
}

func (f *File) FDFileStatSetTimes(ctx context.Context, accessTime, modifyTime wasi.Timestamp, flags wasi.FSTFlags) wasi.Errno {
	return wasi.ESUCCESS
}

func (f *File) readAt(p []byte, off int64) (int, error) {
	if f.stream != nil {
		return f.stream.ReadAt(p, off)
	}
	data, err := f.sys.vol.ReadFile(f.path)
	if err != nil {
		return 0, err
	}
	if off >= int64(len(data)) {
		return 0, nil
	}
	return copy(p, data[off:]), nil
}

func (f *File) FDPread(ctx context.Context, iovecs []wasi.IOVec, offset wasi.FileSize) (wasi.Size, wasi.Errno) {
	if f.stdio != notStdio {
		return 0, wasi.ESPIPE
	}
	var total int
	off := int64(offset)
	for _, iov := range iovecs {
		n, err := f.readAt(iov, off)
		total += n
		off += int64(n)
		if n < len(iov) || err != nil {
			break
		}
	}
	return wasi.Size(total), wasi.ESUCCESS
}

func (f *File) FDRead(ctx context.Context, iovecs []wasi.IOVec) (wasi.Size, wasi.Errno) {
	if f.stdio != notStdio {
		if f.stdio != stdin {
			return 0, wasi.EBADF
		}
		if ctx.Err() != nil {
			return 0, wasi.EINTR
		}
		r := f.sys.Stdin
		if r == nil {
			return 0, wasi.ESUCCESS
		}
		var total int
		for _, iov := range iovecs {
			n, err := r.Read(iov)
			total += n
			if n < len(iov) || err != nil {
				break
			}
		}
		return wasi.Size(total), wasi.ESUCCESS
	}
	n, errno := f.FDPread(ctx, iovecs, wasi.FileSize(f.cursor))
	f.cursor += int64(n)
	return n, errno
}

func (f *File) ensureStream() wasi.Errno {
	if f.stream != nil {
		return wasi.ESUCCESS
	}
	s, err := f.sys.vol.CreateWritable(f.path, true)
	if err != nil {
		return errnoFor(err)
	}
	f.stream = s
	return wasi.ESUCCESS
}

func (f *File) FDPwrite(ctx context.Context, iovecs []wasi.IOVec, offset wasi.FileSize) (wasi.Size, wasi.Errno) {
	if f.stdio != notStdio {
		return 0, wasi.ESPIPE
	}
	if errno := f.ensureStream(); errno != wasi.ESUCCESS {
		return 0, errno
	}
	var total int
	off := int64(offset)
	for _, iov := range iovecs {
		n, err := f.stream.Write(iov, off)
		total += n
		off += int64(n)
		if err != nil {
			return wasi.Size(total), errnoFor(err)
		}
	}
	return wasi.Size(total), wasi.ESUCCESS
}

func (f *File) FDWrite(ctx context.Context, iovecs []wasi.IOVec) (wasi.Size, wasi.Errno) {
	if f.stdio != notStdio {
		var w io.Writer
		switch f.stdio {
		case stdout:
			w = f.sys.Stdout
		case stderr:
			w = f.sys.Stderr
		default:
			return 0, wasi.EBADF
		}
		if w == nil {
			w = io.Discard
		}
		var total int
		for _, iov := range iovecs {
			n, err := w.Write(iov)
			total += n
			if err != nil {
				return wasi.Size(total), wasi.EIO
			}
		}
		return wasi.Size(total), wasi.ESUCCESS
	}
	n, errno := f.FDPwrite(ctx, iovecs, wasi.FileSize(f.cursor))
	f.cursor += int64(n)
	return n, errno
}

func (f *File) FDSync(ctx context.Context) wasi.Errno {
	return wasi.ESUCCESS
}

func (f *File) size() int64 {
	if f.stream != nil {
		return f.stream.Size()
	}
	e, err := f.sys.vol.Stat(f.path)
	if err != nil {
		return 0
	}
	return e.Size
}

func (f *File) FDSeek(ctx context.Context, delta wasi.FileDelta, whence wasi.Whence) (wasi.FileSize, wasi.Errno) {
	if f.stdio != notStdio {
		return 0, wasi.ESPIPE
	}
	var base int64
	switch whence {
	case wasi.WhenceStart:
		base = 0
	case wasi.WhenceCurrent:
		base = f.cursor
	case wasi.WhenceEnd:
		base = f.size()
	default:
		return 0, wasi.EINVAL
	}
	pos := base + int64(delta)
	if pos < 0 {
		return 0, wasi.EINVAL
	}
	f.cursor = pos
	return wasi.FileSize(pos), wasi.ESUCCESS
}

func (f *File) FDOpenDir(ctx context.Context) (wasi.Dir, wasi.Errno) {
	if f.sys.MaxOpenDirs > 0 && f.sys.openDirCount >= f.sys.MaxOpenDirs {
		return nil, wasi.ENFILE
	}
	entries, errno := f.sys.readDirEntries(f.path)
	if errno != wasi.ESUCCESS {
		return nil, errno
	}
	f.sys.openDirCount++
	return &Dir{sys: f.sys, entries: entries}, wasi.ESUCCESS
}

func (f *File) PathCreateDirectory(ctx context.Context, path string) wasi.Errno {
	return errnoFor(f.sys.vol.Mkdir(f.join(path)))
}

func (f *File) PathFileStatGet(ctx context.Context, flags wasi.LookupFlags, path string) (wasi.FileStat, wasi.Errno) {
	e, err := f.sys.vol.Stat(f.join(path))
	if err != nil {
		return wasi.FileStat{}, errnoFor(err)
	}
	return statOf(e), wasi.ESUCCESS
}

func (f *File) PathFileStatSetTimes(ctx context.Context, lookupFlags wasi.LookupFlags, path string, accessTime, modifyTime wasi.Timestamp, flags wasi.FSTFlags) wasi.Errno {
	if !f.sys.vol.Exists(f.join(path)) {
		return wasi.ENOENT
	}
	return wasi.ESUCCESS
}

func (f *File) PathLink(ctx context.Context, flags wasi.LookupFlags, oldPath string, newFile *File, newPath string) wasi.Errno {
	return wasi.ENOSYS
}

func (f *File) PathOpen(ctx context.Context, lookupFlags wasi.LookupFlags, path string, openFlags wasi.OpenFlags, rightsBase, rightsInheriting wasi.Rights, fdFlags wasi.FDFlags) (*File, wasi.Errno) {
	target := f.join(path)

	e, err := f.sys.vol.Stat(target)
	exists := err == nil
	if err != nil && err != volume.ErrNotExist {
		return nil, errnoFor(err)
	}

	if exists && openFlags.Has(wasi.OpenExclusive) && openFlags.Has(wasi.OpenCreate) {
		return nil, wasi.EEXIST
	}
	if !exists && !openFlags.Has(wasi.OpenCreate) {
		return nil, wasi.ENOENT
	}
	if exists && openFlags.Has(wasi.OpenDirectory) && !e.IsDir {
		return nil, wasi.ENOTDIR
	}
	if exists && e.IsDir && (rightsBase.Has(wasi.FDWriteRight) || openFlags.Has(wasi.OpenTruncate)) {
		return nil, wasi.EISDIR
	}

	isDir := openFlags.Has(wasi.OpenDirectory) || (exists && e.IsDir)
	newFile := newFile(f.sys, target, isDir)

	if !isDir {
		wantsWrite := rightsBase.Has(wasi.FDWriteRight) || openFlags.Has(wasi.OpenCreate) || openFlags.Has(wasi.OpenTruncate)
		if wantsWrite {
			keepExisting := exists && !openFlags.Has(wasi.OpenTruncate)
			s, err := f.sys.vol.CreateWritable(target, keepExisting)
			if err != nil {
				return nil, errnoFor(err)
			}
			newFile.stream = s
			if !exists {
				// An O_CREAT file with no writes yet must still exist for a
				// subsequent stat or an fd opened for reading; publish the
				// (possibly empty) contents immediately.
				if err := s.Close(); err != nil {
					return nil, errnoFor(err)
				}
				newFile.stream = nil
				s2, err := f.sys.vol.CreateWritable(target, true)
				if err != nil {
					return nil, errnoFor(err)
				}
				newFile.stream = s2
			}
		}
	}

	return newFile, wasi.ESUCCESS
}

func (f *File) PathReadLink(ctx context.Context, path string, buffer []byte) (int, wasi.Errno) {
	return 0, wasi.ENOTSUP
}

func (f *File) PathRemoveDirectory(ctx context.Context, path string) wasi.Errno {
	return errnoFor(f.sys.vol.RemoveDir(f.join(path)))
}

func (f *File) PathRename(ctx context.Context, oldPath string, newFile *File, newPath string) wasi.Errno {
	if f.sys.vol != newFile.sys.vol {
		return wasi.EXDEV
	}
	return errnoFor(f.sys.vol.Rename(f.join(oldPath), newFile.join(newPath)))
}

func (f *File) PathSymlink(ctx context.Context, oldPath string, newPath string) wasi.Errno {
	return wasi.ENOTSUP
}

func (f *File) PathUnlinkFile(ctx context.Context, path string) wasi.Errno {
	return errnoFor(f.sys.vol.Remove(f.join(path)))
}
