//go:build linux

package wasi

import "golang.org/x/sys/unix"

// systemRandom fills b using the kernel CSPRNG directly, avoiding the
// /dev/urandom open-and-read indirection crypto/rand falls back to on some
// constrained environments.
func systemRandom(b []byte) error {
	_, err := unix.Getrandom(b, 0)
	return err
}
