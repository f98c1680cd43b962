package wasi

// SystemRandom is an io.Reader backed by the host's CSPRNG, platform-
// selected by random_linux.go/random_other.go. Embedders use it as the
// default wasi.System RandomGet source.
var SystemRandom systemRandomReader

type systemRandomReader struct{}

func (systemRandomReader) Read(b []byte) (int, error) {
	if err := systemRandom(b); err != nil {
		return 0, err
	}
	return len(b), nil
}
