package wasi

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Tracer wraps a System and logs, through a structured logger, the calls it
// overrides: args_get, environ_get, clock_time_get, fd close/read/write/seek/readdir,
// path open/filestat/unlink/rmdir/rename, poll_oneoff, proc_exit,
// random_get and Close. Every other System method passes through to the
// wrapped System without being logged.
type Tracer struct {
	Log *logrus.Entry
	System
}

// NewTracer wraps sys so that each syscall Tracer overrides is logged through log as a
// structured entry carrying the syscall name, the file descriptor involved
// (when applicable), the resulting errno, and the call duration.
func NewTracer(sys System, log *logrus.Entry) System {
	return &Tracer{Log: log, System: sys}
}

func (t *Tracer) entry(syscall string, start time.Time, fd ...FD) *logrus.Entry {
	e := t.Log.WithField("syscall", syscall).WithField("dur", time.Since(start))
	if len(fd) > 0 {
		e = e.WithField("fd", fd[0])
	}
	return e
}

func (t *Tracer) ArgsGet(ctx context.Context) ([]string, Errno) {
	start := time.Now()
	args, errno := t.System.ArgsGet(ctx)
	t.entry("args_get", start).WithField("errno", errno).Debug()
	return args, errno
}

func (t *Tracer) EnvironGet(ctx context.Context) ([]string, Errno) {
	start := time.Now()
	environ, errno := t.System.EnvironGet(ctx)
	t.entry("environ_get", start).WithField("errno", errno).Debug()
	return environ, errno
}

func (t *Tracer) ClockTimeGet(ctx context.Context, id ClockID, precision Timestamp) (Timestamp, Errno) {
	start := time.Now()
	timestamp, errno := t.System.ClockTimeGet(ctx, id, precision)
	t.entry("clock_time_get", start).WithField("clock", id).WithField("errno", errno).Debug()
	return timestamp, errno
}

func (t *Tracer) FDClose(ctx context.Context, fd FD) Errno {
	start := time.Now()
	errno := t.System.FDClose(ctx, fd)
	t.entry("fd_close", start, fd).WithField("errno", errno).Debug()
	return errno
}

func (t *Tracer) FDRead(ctx context.Context, fd FD, iovecs []IOVec) (Size, Errno) {
	start := time.Now()
	n, errno := t.System.FDRead(ctx, fd, iovecs)
	t.entry("fd_read", start, fd).WithField("n", n).WithField("errno", errno).Debug()
	return n, errno
}

func (t *Tracer) FDWrite(ctx context.Context, fd FD, iovecs []IOVec) (Size, Errno) {
	start := time.Now()
	n, errno := t.System.FDWrite(ctx, fd, iovecs)
	t.entry("fd_write", start, fd).WithField("n", n).WithField("errno", errno).Debug()
	return n, errno
}

func (t *Tracer) FDSeek(ctx context.Context, fd FD, offset FileDelta, whence Whence) (FileSize, Errno) {
	start := time.Now()
	result, errno := t.System.FDSeek(ctx, fd, offset, whence)
	t.entry("fd_seek", start, fd).WithField("offset", offset).WithField("errno", errno).Debug()
	return result, errno
}

func (t *Tracer) FDReadDir(ctx context.Context, fd FD, entries []DirEntry, cookie DirCookie, bufferSizeBytes int) (int, Errno) {
	start := time.Now()
	n, errno := t.System.FDReadDir(ctx, fd, entries, cookie, bufferSizeBytes)
	t.entry("fd_readdir", start, fd).WithField("cookie", cookie).WithField("n", n).WithField("errno", errno).Debug()
	return n, errno
}

func (t *Tracer) PathOpen(ctx context.Context, fd FD, dirFlags LookupFlags, path string, openFlags OpenFlags, rightsBase, rightsInheriting Rights, fdFlags FDFlags) (FD, Errno) {
	start := time.Now()
	newfd, errno := t.System.PathOpen(ctx, fd, dirFlags, path, openFlags, rightsBase, rightsInheriting, fdFlags)
	t.entry("path_open", start, fd).WithField("path", path).WithField("newfd", newfd).WithField("errno", errno).Debug()
	return newfd, errno
}

func (t *Tracer) PathFileStatGet(ctx context.Context, fd FD, lookupFlags LookupFlags, path string) (FileStat, Errno) {
	start := time.Now()
	filestat, errno := t.System.PathFileStatGet(ctx, fd, lookupFlags, path)
	t.entry("path_filestat_get", start, fd).WithField("path", path).WithField("errno", errno).Debug()
	return filestat, errno
}

func (t *Tracer) PathUnlinkFile(ctx context.Context, fd FD, path string) Errno {
	start := time.Now()
	errno := t.System.PathUnlinkFile(ctx, fd, path)
	t.entry("path_unlink_file", start, fd).WithField("path", path).WithField("errno", errno).Debug()
	return errno
}

func (t *Tracer) PathRemoveDirectory(ctx context.Context, fd FD, path string) Errno {
	start := time.Now()
	errno := t.System.PathRemoveDirectory(ctx, fd, path)
	t.entry("path_remove_directory", start, fd).WithField("path", path).WithField("errno", errno).Debug()
	return errno
}

func (t *Tracer) PathRename(ctx context.Context, fd FD, oldPath string, newFD FD, newPath string) Errno {
	start := time.Now()
	errno := t.System.PathRename(ctx, fd, oldPath, newFD, newPath)
	t.entry("path_rename", start, fd).WithField("old", oldPath).WithField("new", newPath).WithField("errno", errno).Debug()
	return errno
}

func (t *Tracer) PollOneOff(ctx context.Context, subscriptions []Subscription, events []Event) (int, Errno) {
	start := time.Now()
	n, errno := t.System.PollOneOff(ctx, subscriptions, events)
	t.entry("poll_oneoff", start).WithField("subscriptions", len(subscriptions)).WithField("n", n).WithField("errno", errno).Debug()
	return n, errno
}

func (t *Tracer) ProcExit(ctx context.Context, exitCode ExitCode) Errno {
	t.Log.WithField("syscall", "proc_exit").WithField("code", exitCode).Info()
	return t.System.ProcExit(ctx, exitCode)
}

func (t *Tracer) RandomGet(ctx context.Context, b []byte) Errno {
	start := time.Now()
	errno := t.System.RandomGet(ctx, b)
	t.entry("random_get", start).WithField("n", len(b)).WithField("errno", errno).Debug()
	return errno
}

func (t *Tracer) Close(ctx context.Context) error {
	err := t.System.Close(ctx)
	if err != nil {
		t.Log.WithField("syscall", "close").WithError(err).Warn()
	} else {
		t.Log.WithField("syscall", "close").Debug()
	}
	return err
}
