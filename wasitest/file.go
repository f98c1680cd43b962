package wasitest

import (
	"context"
	"testing"

	"github.com/wasivm/wasihost"
)

var file = testSuite{
	"exceeding the limit of open files":       testMaxOpenFiles,
	"exceeding the limit of open directories": testMaxOpenDirs,
}

func testMaxOpenFiles(t *testing.T, ctx context.Context, newSystem newSystem) {
	sys := newSystem(TestConfig{
		MaxOpenFiles: 10,
	})

	for i := 0; i < 10; i++ {
		_, errno := sys.PathOpen(ctx, 3, 0, ".", wasi.OpenDirectory, wasi.AllRights, wasi.AllRights, 0)
		if errno == wasi.ENFILE {
			break
		}
		assertEqual(t, errno, wasi.ESUCCESS)
	}

	for i := 0; i < 10; i++ {
		_, errno := sys.PathOpen(ctx, 3, 0, ".", wasi.OpenDirectory, wasi.AllRights, wasi.AllRights, 0)
		assertEqual(t, errno, wasi.ENFILE)
	}
}

func testMaxOpenDirs(t *testing.T, ctx context.Context, newSystem newSystem) {
	sys := newSystem(TestConfig{
		MaxOpenDirs: 10,
	})

	for _, name := range []string{"file-1", "file-2", "file-3"} {
		fd, errno := sys.PathOpen(ctx, 3, 0, name, wasi.OpenCreate, wasi.AllRights, wasi.AllRights, 0)
		assertEqual(t, errno, wasi.ESUCCESS)
		_, errno = sys.FDWrite(ctx, fd, []wasi.IOVec{[]byte(name)})
		assertEqual(t, errno, wasi.ESUCCESS)
		assertEqual(t, sys.FDClose(ctx, fd), wasi.ESUCCESS)
	}

	for i := 0; i < 10; i++ {
		d, errno := sys.PathOpen(ctx, 3, 0, ".", wasi.OpenDirectory, wasi.AllRights, wasi.AllRights, 0)
		assertEqual(t, errno, wasi.ESUCCESS)

		dirEntry := [1]wasi.DirEntry{}
		n, errno := sys.FDReadDir(ctx, d, dirEntry[:], 0, 1024)
		assertEqual(t, n, 1)
		assertEqual(t, errno, wasi.ESUCCESS)
	}

	for i := 0; i < 10; i++ {
		d, errno := sys.PathOpen(ctx, 3, 0, ".", wasi.OpenDirectory, wasi.AllRights, wasi.AllRights, 0)
		assertEqual(t, errno, wasi.ESUCCESS)

		dirEntry := [1]wasi.DirEntry{}
		n, errno := sys.FDReadDir(ctx, d, dirEntry[:], 0, 1024)
		assertEqual(t, n, 0)
		assertEqual(t, errno, wasi.ENFILE)
		assertEqual(t, sys.FDClose(ctx, d), wasi.ESUCCESS)
	}
}
