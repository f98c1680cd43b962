// Package wasicore is the reusable run loop behind cmd/wasirun: it wires a
// memfs.System to a compiled WASI preview-1 module and drives its _start
// export to completion, translating the guest's exit into a return value
// instead of a process-wide os.Exit.
package wasicore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stealthrocket/wazergo"
	"github.com/tetratelabs/wazero"
	wazerosys "github.com/tetratelabs/wazero/sys"

	"github.com/wasivm/wasihost"
	"github.com/wasivm/wasihost/imports/wasi_snapshot_preview1"
	"github.com/wasivm/wasihost/memfs"
	"github.com/wasivm/wasihost/volume"
)

// Preopen describes one directory the guest can see, with its contents
// staged from a host directory before the guest starts.
type Preopen struct {
	// GuestPath is where the directory appears inside the guest's file
	// system namespace.
	GuestPath string
	// HostDir, if non-empty, seeds GuestPath with a recursive copy of this
	// host directory's contents. Leave empty for an empty mount.
	HostDir string
}

// Config describes one run of a compiled WASI preview-1 module.
type Config struct {
	Args []string
	Env  map[string]string

	Preopens []Preopen

	Stdin          io.Reader
	Stdout, Stderr io.Writer

	// Trace logs the guest's WASI calls through Log, using wasi.Tracer,
	// which logs the System methods it overrides.
	Trace bool
	Log   *logrus.Logger

	// Runtime and Module are the wazero runtime and the guest module
	// compiled against it. Compilation is the embedder's responsibility:
	// it's the one step whose lifetime the embedder may want to control
	// independently of a single Run call (e.g. to run the same compiled
	// module more than once).
	Runtime wazero.Runtime
	Module  wazero.CompiledModule
}

func (c Config) environ() []string {
	env := make([]string, 0, len(c.Env))
	for k, v := range c.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// Run instantiates cfg.Module against a fresh in-memory file system and
// drives it to completion, returning the guest's process exit code.
func Run(ctx context.Context, cfg Config) (exitCode int, err error) {
	log := cfg.Log
	if log == nil {
		log = logrus.New()
	}

	vol := volume.New(nil)
	sys := memfs.NewSystem(vol)
	sys.Args = cfg.Args
	sys.Environ = cfg.environ()
	sys.Stdin = cfg.Stdin
	sys.Stdout = cfg.Stdout
	sys.Stderr = cfg.Stderr
	sys.Yield = func(context.Context) error {
		runtime.Gosched()
		return nil
	}
	sys.Raise = func(ctx context.Context, signal int) error {
		panic(wazerosys.NewExitError(uint32(127 + signal)))
	}

	for _, p := range cfg.Preopens {
		if p.HostDir != "" {
			if err := vol.LoadHostDir(p.HostDir, p.GuestPath); err != nil {
				return 1, fmt.Errorf("mounting %s: %w", p.GuestPath, err)
			}
		}
		sys.Preopen(p.GuestPath)
	}

	var system wasi.System = sys
	if cfg.Trace {
		system = wasi.NewTracer(system, log.WithField("component", "wasicore"))
	}

	module := wazergo.MustInstantiate(ctx, cfg.Runtime,
		wasi_snapshot_preview1.HostModule,
		wasi_snapshot_preview1.WithWASI(system),
	)
	ctx = wazergo.WithModuleInstance(ctx, module)

	return instantiateAndRun(ctx, cfg.Runtime, cfg.Module)
}

// interruptedExitCode is returned when ctx is canceled while the guest is
// still running, matching the shell convention for a process killed by
// SIGINT (128 + signal 2).
const interruptedExitCode = 130

func instantiateAndRun(ctx context.Context, rt wazero.Runtime, compiled wazero.CompiledModule) (exitCode int, err error) {
	defer func() {
		if r := recover(); r != nil {
			if exitErr, ok := r.(*wazerosys.ExitError); ok {
				exitCode = int(exitErr.ExitCode())
				return
			}
			panic(r)
		}
	}()

	start := time.Now()
	// _start is left uncalled here so the ctx watcher below is armed before
	// the guest's entry point runs: InstantiateModule normally runs _start
	// synchronously as part of instantiation, which would be too late to
	// race a cancellation against.
	instance, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithStartFunctions())
	if err != nil {
		return 1, err
	}
	defer instance.Close(ctx)

	// ctx cancellation doesn't interrupt a stdin FDRead already blocked in
	// the embedder's reader; it only surfaces the next time a host call
	// checks ctx (stdin FDRead before reading, PollOneOff while it waits)
	// and returns EINTR to the guest. A
	// guest that ignores the errno and loops forever would hang the host, so
	// this watches ctx independently and force-closes the module, which
	// unblocks any in-flight host call with a CloseWithExitCode error.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			instance.CloseWithExitCode(context.Background(), interruptedExitCode)
		case <-done:
		}
	}()

	_, err = instance.ExportedFunction("_start").Call(ctx)
	if err != nil {
		var exitErr *wazerosys.ExitError
		if errors.As(err, &exitErr) {
			return int(exitErr.ExitCode()), nil
		}
		return 1, err
	}

	logrus.WithField("dur", time.Since(start)).Debug("module finished")
	return 0, nil
}
