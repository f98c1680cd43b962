// Package volume implements an in-memory POSIX-style virtual file system
// used to back WASI preview 1 guests that have no access to a real
// operating system file system.
package volume

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// Sentinel errors returned by MemVolume operations. Callers translate these
// into WASI errno values at the System boundary.
var (
	ErrNotExist = errors.New("volume: no such file or directory")
	ErrExist    = errors.New("volume: file already exists")
	ErrNotDir   = errors.New("volume: not a directory")
	ErrIsDir    = errors.New("volume: is a directory")
	ErrNotEmpty = errors.New("volume: directory not empty")
)

// Entry describes a file or directory stored in a MemVolume.
type Entry struct {
	Name    string
	INode   uint64
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// MemVolume is an in-memory file system rooted at "/". It wraps an
// afero.MemMapFs, adding the bits of state WASI requires that afero does
// not track natively: stable per-path inode numbers and, per path, the
// volume clock's reading at the last mutating call, used as its
// modification time.
type MemVolume struct {
	fs afero.Afero

	mu        sync.Mutex
	inodes    map[string]uint64
	nextInode uint64
	mtimes    map[string]time.Time
	clock     func() time.Time
}

// New creates an empty MemVolume. clock is used to stamp file modification
// times; if nil, time.Now is used.
func New(clock func() time.Time) *MemVolume {
	if clock == nil {
		clock = time.Now
	}
	return &MemVolume{
		fs:        afero.Afero{Fs: afero.NewMemMapFs()},
		inodes:    make(map[string]uint64),
		nextInode: 1,
		mtimes:    make(map[string]time.Time),
		clock:     clock,
	}
}

func clean(path string) string {
	path = filepath.ToSlash(path)
	if !filepath.IsAbs(path) {
		path = "/" + path
	}
	return filepath.Clean(path)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, afero.ErrFileNotFound), os.IsNotExist(err):
		return ErrNotExist
	case errors.Is(err, afero.ErrFileExists), errors.Is(err, afero.ErrDestinationExists), os.IsExist(err):
		return ErrExist
	}
	return err
}

// inode returns the stable inode number for path, allocating one the first
// time it's observed. The caller must hold mu.
func (v *MemVolume) inode(path string) uint64 {
	if ino, ok := v.inodes[path]; ok {
		return ino
	}
	ino := v.nextInode
	v.nextInode++
	v.inodes[path] = ino
	return ino
}

func (v *MemVolume) touch(path string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mtimes[path] = v.clock()
}

func (v *MemVolume) modTime(path string) time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	if t, ok := v.mtimes[path]; ok {
		return t
	}
	return time.Time{}
}

// Mkdir creates a directory at path.
func (v *MemVolume) Mkdir(path string) error {
	path = clean(path)
	if ok, _ := v.fs.DirExists(path); ok {
		return ErrExist
	}
	if ok, _ := v.fs.Exists(path); ok {
		return ErrExist
	}
	if err := v.fs.Mkdir(path, 0777); err != nil {
		return translate(err)
	}
	v.touch(path)
	v.touch(filepath.Dir(path))
	return nil
}

// Remove removes the file at path. It refuses to remove directories; use
// RemoveDir for that.
func (v *MemVolume) Remove(path string) error {
	path = clean(path)
	info, err := v.fs.Stat(path)
	if err != nil {
		return translate(err)
	}
	if info.IsDir() {
		return ErrIsDir
	}
	if err := v.fs.Remove(path); err != nil {
		return translate(err)
	}
	v.touch(filepath.Dir(path))
	return nil
}

// RemoveDir removes the empty directory at path.
func (v *MemVolume) RemoveDir(path string) error {
	path = clean(path)
	info, err := v.fs.Stat(path)
	if err != nil {
		return translate(err)
	}
	if !info.IsDir() {
		return ErrNotDir
	}
	entries, err := v.fs.ReadDir(path)
	if err != nil {
		return translate(err)
	}
	if len(entries) > 0 {
		return ErrNotEmpty
	}
	if err := v.fs.Remove(path); err != nil {
		return translate(err)
	}
	v.touch(filepath.Dir(path))
	return nil
}

// Rename moves oldPath to newPath, overwriting newPath if it names an
// existing regular file.
func (v *MemVolume) Rename(oldPath, newPath string) error {
	oldPath, newPath = clean(oldPath), clean(newPath)
	if _, err := v.fs.Stat(oldPath); err != nil {
		return translate(err)
	}
	if err := v.fs.Rename(oldPath, newPath); err != nil {
		return translate(err)
	}
	v.mu.Lock()
	if ino, ok := v.inodes[oldPath]; ok {
		v.inodes[newPath] = ino
		delete(v.inodes, oldPath)
	}
	v.mu.Unlock()
	v.touch(filepath.Dir(oldPath))
	v.touch(filepath.Dir(newPath))
	return nil
}

// Stat returns file attributes for path.
func (v *MemVolume) Stat(path string) (Entry, error) {
	path = clean(path)
	info, err := v.fs.Stat(path)
	if err != nil {
		return Entry{}, translate(err)
	}
	return v.entry(path, info), nil
}

func (v *MemVolume) entry(path string, info os.FileInfo) Entry {
	v.mu.Lock()
	ino := v.inode(path)
	v.mu.Unlock()
	modTime := info.ModTime()
	if t := v.modTime(path); !t.IsZero() {
		modTime = t
	}
	return Entry{
		Name:    info.Name(),
		INode:   ino,
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: modTime,
	}
}

// ReadDir lists the contents of the directory at path in the order afero
// reports them, which is sorted by name; insertion order is not kept.
func (v *MemVolume) ReadDir(path string) ([]Entry, error) {
	path = clean(path)
	infos, err := v.fs.ReadDir(path)
	if err != nil {
		return nil, translate(err)
	}
	entries := make([]Entry, len(infos))
	for i, info := range infos {
		child := filepath.Join(path, info.Name())
		entries[i] = v.entry(child, info)
	}
	return entries, nil
}

// ReadFile returns the full contents of the file at path.
func (v *MemVolume) ReadFile(path string) ([]byte, error) {
	path = clean(path)
	info, err := v.fs.Stat(path)
	if err != nil {
		return nil, translate(err)
	}
	if info.IsDir() {
		return nil, ErrIsDir
	}
	data, err := v.fs.ReadFile(path)
	if err != nil {
		return nil, translate(err)
	}
	return data, nil
}

// Truncate changes the size of the file at path.
func (v *MemVolume) Truncate(path string, size int64) error {
	path = clean(path)
	f, err := v.fs.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return translate(err)
	}
	defer f.Close()
	if err := f.Truncate(size); err != nil {
		return translate(err)
	}
	v.touch(path)
	return nil
}

// Exists reports whether path names an existing file or directory.
func (v *MemVolume) Exists(path string) bool {
	ok, _ := v.fs.Exists(clean(path))
	return ok
}

// Root returns the entry describing the volume's root directory.
func (v *MemVolume) Root() Entry {
	e, _ := v.Stat("/")
	return e
}

// LoadHostDir copies the contents of the host directory at hostPath into the
// volume rooted at guestPath, recursively. It is the one place this package
// touches a real operating system file system: a guest preopen backed by
// host content has to originate from somewhere, and every other MemVolume
// operation after this call stays purely in-memory.
func (v *MemVolume) LoadHostDir(hostPath, guestPath string) error {
	guestPath = clean(guestPath)
	if err := v.fs.MkdirAll(guestPath, 0777); err != nil {
		return err
	}
	return filepath.WalkDir(hostPath, func(hostChild string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(hostPath, hostChild)
		if err != nil {
			return err
		}
		guestChild := guestPath
		if rel != "." {
			guestChild = filepath.Join(guestPath, filepath.ToSlash(rel))
		}
		if d.IsDir() {
			if guestChild == guestPath {
				return nil
			}
			return v.fs.MkdirAll(guestChild, 0777)
		}
		data, err := os.ReadFile(hostChild)
		if err != nil {
			return err
		}
		return v.fs.WriteFile(guestChild, data, 0666)
	})
}
