package volume

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// WritableStream is a per-open buffered writer. Bytes accumulate in memory
// until Close, at which point the full contents are published to the
// volume atomically: a reader that opens the path after Close returns sees
// the complete content, never a partial write.
type WritableStream struct {
	v      *MemVolume
	path   string
	mu     sync.Mutex
	buf    []byte
	cursor int64
	closed bool
}

// CreateWritable returns a WritableStream targeting path. If keepExisting is
// true and path already names a file, its current contents seed the buffer
// (so a caller that only appends doesn't lose prior data); otherwise the
// stream starts empty.
func (v *MemVolume) CreateWritable(path string, keepExisting bool) (*WritableStream, error) {
	path = clean(path)
	var buf []byte
	if keepExisting {
		if data, err := v.fs.ReadFile(path); err == nil {
			buf = append([]byte(nil), data...)
		}
	}
	return &WritableStream{v: v, path: path, buf: buf}, nil
}

// Write stores p at position at, or at the stream's cursor if at is
// negative. Writing past the end of the buffer zero-fills the gap.
func (s *WritableStream) Write(p []byte, at int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, os.ErrClosed
	}
	pos := at
	if pos < 0 {
		pos = s.cursor
	}
	end := pos + int64(len(p))
	if end > int64(len(s.buf)) {
		grown := make([]byte, end)
		copy(grown, s.buf)
		s.buf = grown
	}
	copy(s.buf[pos:end], p)
	s.cursor = end
	return len(p), nil
}

// Seek moves the stream's cursor. Seeking past the current size is legal;
// the gap is filled with zeros by the next write.
func (s *WritableStream) Seek(pos int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return os.ErrClosed
	}
	s.cursor = pos
	return nil
}

// Truncate resizes the buffer, zero-filling on growth.
func (s *WritableStream) Truncate(size int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return os.ErrClosed
	}
	switch {
	case size <= int64(len(s.buf)):
		s.buf = s.buf[:size]
	default:
		grown := make([]byte, size)
		copy(grown, s.buf)
		s.buf = grown
	}
	return nil
}

// ReadAt reads from the stream's private buffer, independent of whatever is
// published in the volume. This is what gives a writer "read your own
// writes" semantics while other file descriptors keep seeing the
// last-published content.
func (s *WritableStream) ReadAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if off >= int64(len(s.buf)) {
		return 0, io.EOF
	}
	n := copy(p, s.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the current length of the stream's buffer.
func (s *WritableStream) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.buf))
}

// Close publishes the buffered content to the volume and is idempotent: a
// second call is a no-op. The parent directory is created if missing, which
// models O_CREAT semantics for a path under a preopen root.
func (s *WritableStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	dir := filepath.Dir(s.path)
	if ok, _ := s.v.fs.DirExists(dir); !ok {
		if err := s.v.fs.MkdirAll(dir, 0777); err != nil {
			return err
		}
	}

	staged := filepath.Join(dir, "."+uuid.NewString()+".wasi-tmp")
	if err := s.v.fs.WriteFile(staged, s.buf, 0666); err != nil {
		return err
	}
	if err := s.v.fs.Rename(staged, s.path); err != nil {
		return err
	}
	s.v.touch(s.path)
	s.v.touch(dir)
	return nil
}
