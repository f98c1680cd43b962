package memfs_test

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero/sys"

	"github.com/wasivm/wasihost"
	"github.com/wasivm/wasihost/memfs"
	"github.com/wasivm/wasihost/volume"
	"github.com/wasivm/wasihost/wasitest"
)

// exitPanics mirrors what the wazergo dispatch layer (imports/
// wasi_snapshot_preview1.Module.ProcExit) does at the real call boundary: it
// converts a process exit into a panic carrying a *sys.ExitError, which
// wazero's runtime recovers at the top of the call stack.
func exitPanics(ctx context.Context, code int) error {
	panic(sys.NewExitError(uint32(code)))
}

func raisePanics(ctx context.Context, signal int) error {
	panic(sys.NewExitError(uint32(127 + signal)))
}

func makeSystem(c wasitest.TestConfig) (wasi.System, error) {
	sys := memfs.NewSystem(volume.New(c.Now))
	sys.Args = c.Args
	sys.Environ = c.Environ
	sys.MaxOpenFiles = c.MaxOpenFiles
	sys.MaxOpenDirs = c.MaxOpenDirs
	sys.Exit = exitPanics
	sys.Raise = raisePanics
	if c.Now != nil {
		epoch := c.Now()
		sys.Realtime = func(context.Context) (uint64, error) {
			return uint64(c.Now().UnixNano()), nil
		}
		sys.Monotonic = func(context.Context) (uint64, error) {
			return uint64(c.Now().Sub(epoch)), nil
		}
	}
	return sys, nil
}

func TestConformance(t *testing.T) {
	wasitest.TestSystem(t, makeSystem)
}
