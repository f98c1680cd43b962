package wasitest

import (
	"time"

	"github.com/wasivm/wasihost"
)

// TestConfig carries the parameters used to construct a wasi.System for a
// single test case. Implementation packages provide a MakeSystem function
// that turns a TestConfig into a concrete wasi.System.
type TestConfig struct {
	// Args are the command line arguments exposed via ArgsGet/ArgsSizesGet.
	Args []string

	// Environ are the environment variables exposed via EnvironGet/
	// EnvironSizesGet.
	Environ []string

	// Now, when set, is used as the realtime/monotonic clock source.
	Now func() time.Time

	// MaxOpenFiles bounds the number of file descriptors the implementation
	// will allow to be open simultaneously. Zero means unbounded.
	MaxOpenFiles int

	// MaxOpenDirs bounds the number of open directory streams. Zero means
	// unbounded.
	MaxOpenDirs int
}

// MakeSystem constructs a wasi.System from a TestConfig. Implementations of
// the System interface provide one of these to exercise TestSystem against
// their own backing store.
type MakeSystem func(TestConfig) (wasi.System, error)
