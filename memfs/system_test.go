package memfs_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasivm/wasihost"
	"github.com/wasivm/wasihost/memfs"
	"github.com/wasivm/wasihost/volume"
)

func newSystem() *memfs.System {
	return memfs.NewSystem(volume.New(nil))
}

func TestPathOpenCreateWriteRead(t *testing.T) {
	ctx := context.Background()
	sys := newSystem()

	fd, errno := sys.PathOpen(ctx, 3, 0, "greeting.txt", wasi.OpenCreate, wasi.AllRights, wasi.AllRights, 0)
	require.Equal(t, wasi.ESUCCESS, errno)

	n, errno := sys.FDWrite(ctx, fd, []wasi.IOVec{[]byte("hello")})
	require.Equal(t, wasi.ESUCCESS, errno)
	assert.EqualValues(t, 5, n)

	require.Equal(t, wasi.ESUCCESS, sys.FDClose(ctx, fd))

	fd2, errno := sys.PathOpen(ctx, 3, 0, "greeting.txt", 0, wasi.AllRights, wasi.AllRights, 0)
	require.Equal(t, wasi.ESUCCESS, errno)

	buf := make([]byte, 16)
	n, errno = sys.FDRead(ctx, fd2, []wasi.IOVec{buf})
	require.Equal(t, wasi.ESUCCESS, errno)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestWriterSeesOwnWritesBeforeClose(t *testing.T) {
	ctx := context.Background()
	sys := newSystem()

	fd, errno := sys.PathOpen(ctx, 3, 0, "draft.txt", wasi.OpenCreate, wasi.AllRights, wasi.AllRights, 0)
	require.Equal(t, wasi.ESUCCESS, errno)

	_, errno = sys.FDWrite(ctx, fd, []wasi.IOVec{[]byte("draft")})
	require.Equal(t, wasi.ESUCCESS, errno)

	// Another descriptor opened before Close must not see the unpublished
	// write: the file was just created, so it reads back empty.
	other, errno := sys.PathOpen(ctx, 3, 0, "draft.txt", 0, wasi.AllRights, wasi.AllRights, 0)
	require.Equal(t, wasi.ESUCCESS, errno)
	buf := make([]byte, 16)
	n, errno := sys.FDRead(ctx, other, []wasi.IOVec{buf})
	require.Equal(t, wasi.ESUCCESS, errno)
	assert.EqualValues(t, 0, n)

	// The writer itself reads back its own buffered content.
	_, errno = sys.FDSeek(ctx, fd, 0, wasi.WhenceStart)
	require.Equal(t, wasi.ESUCCESS, errno)
	n, errno = sys.FDRead(ctx, fd, []wasi.IOVec{buf})
	require.Equal(t, wasi.ESUCCESS, errno)
	assert.Equal(t, "draft", string(buf[:n]))

	require.Equal(t, wasi.ESUCCESS, sys.FDClose(ctx, fd))

	n, errno = sys.FDRead(ctx, other, []wasi.IOVec{buf})
	require.Equal(t, wasi.ESUCCESS, errno)
	assert.EqualValues(t, 0, n, "the other descriptor still reads the private copy it took when opened")
}

func TestPathOpenExclusiveExists(t *testing.T) {
	ctx := context.Background()
	sys := newSystem()

	fd, errno := sys.PathOpen(ctx, 3, 0, "f", wasi.OpenCreate, wasi.AllRights, wasi.AllRights, 0)
	require.Equal(t, wasi.ESUCCESS, errno)
	require.Equal(t, wasi.ESUCCESS, sys.FDClose(ctx, fd))

	_, errno = sys.PathOpen(ctx, 3, 0, "f", wasi.OpenCreate|wasi.OpenExclusive, wasi.AllRights, wasi.AllRights, 0)
	assert.Equal(t, wasi.EEXIST, errno)
}

func TestPathOpenMissingWithoutCreate(t *testing.T) {
	ctx := context.Background()
	sys := newSystem()

	_, errno := sys.PathOpen(ctx, 3, 0, "missing", 0, wasi.AllRights, wasi.AllRights, 0)
	assert.Equal(t, wasi.ENOENT, errno)
}

func TestPathOpenDirectoryOnRegularFile(t *testing.T) {
	ctx := context.Background()
	sys := newSystem()

	fd, errno := sys.PathOpen(ctx, 3, 0, "f", wasi.OpenCreate, wasi.AllRights, wasi.AllRights, 0)
	require.Equal(t, wasi.ESUCCESS, errno)
	require.Equal(t, wasi.ESUCCESS, sys.FDClose(ctx, fd))

	_, errno = sys.PathOpen(ctx, 3, 0, "f", wasi.OpenDirectory, wasi.AllRights, wasi.AllRights, 0)
	assert.Equal(t, wasi.ENOTDIR, errno)
}

func TestFDReadDirListsEntries(t *testing.T) {
	ctx := context.Background()
	sys := newSystem()

	for _, name := range []string{"a", "b", "c"} {
		fd, errno := sys.PathOpen(ctx, 3, 0, name, wasi.OpenCreate, wasi.AllRights, wasi.AllRights, 0)
		require.Equal(t, wasi.ESUCCESS, errno)
		require.Equal(t, wasi.ESUCCESS, sys.FDClose(ctx, fd))
	}

	dirFD, errno := sys.PathOpen(ctx, 3, 0, ".", wasi.OpenDirectory, wasi.AllRights, wasi.AllRights, 0)
	require.Equal(t, wasi.ESUCCESS, errno)

	entries := make([]wasi.DirEntry, 16)
	n, errno := sys.FDReadDir(ctx, dirFD, entries, 0, 4096)
	require.Equal(t, wasi.ESUCCESS, errno)

	names := make(map[string]bool, n)
	for _, e := range entries[:n] {
		names[string(e.Name)] = true
	}
	assert.True(t, names["."])
	assert.True(t, names[".."])
	assert.True(t, names["a"])
	assert.True(t, names["b"])
	assert.True(t, names["c"])
}

func TestPathRenameWithinSameSystem(t *testing.T) {
	ctx := context.Background()
	sys := newSystem()

	fd, errno := sys.PathOpen(ctx, 3, 0, "f", wasi.OpenCreate, wasi.AllRights, wasi.AllRights, 0)
	require.Equal(t, wasi.ESUCCESS, errno)
	require.Equal(t, wasi.ESUCCESS, sys.FDClose(ctx, fd))

	errno = sys.PathRename(ctx, 3, "f", 3, "g")
	require.Equal(t, wasi.ESUCCESS, errno, "rename within the same volume must succeed")

	fd, errno = sys.PathOpen(ctx, 3, 0, "g", wasi.OpenCreate, wasi.AllRights, wasi.AllRights, 0)
	require.Equal(t, wasi.ESUCCESS, errno)
	require.Equal(t, wasi.ESUCCESS, sys.FDClose(ctx, fd))
}

func TestStdioFDsAreReservedBeforeRoot(t *testing.T) {
	ctx := context.Background()
	sys := newSystem()
	sys.Stdin = strings.NewReader("ping")
	var out bytes.Buffer
	sys.Stdout = &out

	n, errno := sys.FDRead(ctx, 0, []wasi.IOVec{make([]byte, 16)})
	require.Equal(t, wasi.ESUCCESS, errno)
	assert.EqualValues(t, 4, n)

	n, errno = sys.FDWrite(ctx, 1, []wasi.IOVec{[]byte("pong")})
	require.Equal(t, wasi.ESUCCESS, errno)
	assert.EqualValues(t, 4, n)
	assert.Equal(t, "pong", out.String())

	// fd 3 is the first fd PathOpen can target as a base directory: it
	// must resolve to the preopened root, not a stdio stream.
	fd, errno := sys.PathOpen(ctx, 3, 0, "greeting.txt", wasi.OpenCreate, wasi.AllRights, wasi.AllRights, 0)
	require.Equal(t, wasi.ESUCCESS, errno)
	require.Equal(t, wasi.ESUCCESS, sys.FDClose(ctx, fd))
}

func TestStdioRejectsSeekAndPositionedIO(t *testing.T) {
	ctx := context.Background()
	sys := newSystem()

	_, errno := sys.FDSeek(ctx, 1, 0, wasi.WhenceStart)
	assert.Equal(t, wasi.ESPIPE, errno)

	_, errno = sys.FDPwrite(ctx, 1, []wasi.IOVec{[]byte("x")}, 0)
	assert.Equal(t, wasi.ESPIPE, errno)
}

func TestMaxOpenFiles(t *testing.T) {
	ctx := context.Background()
	sys := memfs.NewSystem(volume.New(nil))
	sys.MaxOpenFiles = 3

	opened := 0
	for i := 0; i < 10; i++ {
		_, errno := sys.PathOpen(ctx, 3, 0, ".", wasi.OpenDirectory, wasi.AllRights, wasi.AllRights, 0)
		if errno == wasi.ENFILE {
			break
		}
		require.Equal(t, wasi.ESUCCESS, errno)
		opened++
	}
	// The preopened root at fd 3 doesn't count against the cap, but every
	// PathOpen call does.
	assert.Equal(t, 3, opened)

	_, errno := sys.PathOpen(ctx, 3, 0, ".", wasi.OpenDirectory, wasi.AllRights, wasi.AllRights, 0)
	assert.Equal(t, wasi.ENFILE, errno)
}

func TestMaxOpenDirs(t *testing.T) {
	ctx := context.Background()
	sys := memfs.NewSystem(volume.New(nil))
	sys.MaxOpenDirs = 2

	fd, errno := sys.PathOpen(ctx, 3, 0, "f", wasi.OpenCreate, wasi.AllRights, wasi.AllRights, 0)
	require.Equal(t, wasi.ESUCCESS, errno)
	require.Equal(t, wasi.ESUCCESS, sys.FDClose(ctx, fd))

	opened := []wasi.FD{}
	for i := 0; i < 2; i++ {
		d, errno := sys.PathOpen(ctx, 3, 0, ".", wasi.OpenDirectory, wasi.AllRights, wasi.AllRights, 0)
		require.Equal(t, wasi.ESUCCESS, errno)

		entries := [1]wasi.DirEntry{}
		n, errno := sys.FDReadDir(ctx, d, entries[:], 0, 1024)
		require.Equal(t, wasi.ESUCCESS, errno)
		require.Equal(t, 1, n)
		opened = append(opened, d)
	}

	d, errno := sys.PathOpen(ctx, 3, 0, ".", wasi.OpenDirectory, wasi.AllRights, wasi.AllRights, 0)
	require.Equal(t, wasi.ESUCCESS, errno)
	entries := [1]wasi.DirEntry{}
	_, errno = sys.FDReadDir(ctx, d, entries[:], 0, 1024)
	assert.Equal(t, wasi.ENFILE, errno)

	for _, fd := range opened {
		require.Equal(t, wasi.ESUCCESS, sys.FDClose(ctx, fd))
	}
}
