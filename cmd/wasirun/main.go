// Command wasirun loads a WebAssembly module compiled against WASI
// preview 1 and runs it against an in-memory virtual file system: the guest
// never touches the host's real files except through directories explicitly
// mounted with --dir.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero"

	"github.com/wasivm/wasihost/wasicore"
)

const version = "devel"

var (
	envs    []string
	dirs    []string
	trace   bool
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:          "wasirun <module.wasm> [-- args...]",
		Short:        "Run a WebAssembly module against an in-memory WASI host",
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args)
		},
	}
	root.Flags().StringArrayVar(&dirs, "dir", nil, "mount a host directory into the guest, as guest=host or a bare path for both sides")
	root.Flags().StringArrayVar(&envs, "env", nil, "environment variable to pass to the module, as NAME=VALUE")
	root.Flags().BoolVar(&trace, "trace", false, "log the module's file, clock, poll, process and random WASI calls")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	wasmPath := args[0]
	wasmName := filepath.Base(wasmPath)
	wasmCode, err := os.ReadFile(wasmPath)
	if err != nil {
		return fmt.Errorf("reading module %q: %w", wasmPath, err)
	}
	guestArgs := args[1:]

	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	env := make(map[string]string, len(envs))
	for _, kv := range envs {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}

	var preopens []wasicore.Preopen
	for _, spec := range dirs {
		guestPath, hostPath, found := strings.Cut(spec, "=")
		if !found {
			guestPath, hostPath = spec, spec
		}
		preopens = append(preopens, wasicore.Preopen{GuestPath: guestPath, HostDir: hostPath})
		log.WithField("guest", guestPath).WithField("host", hostPath).Debug("mounting directory")
	}

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, wasmCode)
	if err != nil {
		return fmt.Errorf("compiling %q: %w", wasmPath, err)
	}
	defer compiled.Close(ctx)

	exitCode, err := wasicore.Run(ctx, wasicore.Config{
		Args:     append([]string{wasmName}, guestArgs...),
		Env:      env,
		Preopens: preopens,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Trace:    trace,
		Log:      log,
		Runtime:  rt,
		Module:   compiled,
	})
	if err != nil {
		return err
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}
