//go:build !linux

package wasi

import "crypto/rand"

// systemRandom fills b using the platform's CSPRNG. crypto/rand already
// picks the right source (getentropy on Darwin, CryptGenRandom on Windows,
// /dev/urandom elsewhere), so there's nothing Linux-specific to shortcut
// here the way unix.Getrandom does in random_linux.go.
func systemRandom(b []byte) error {
	_, err := rand.Read(b)
	return err
}
