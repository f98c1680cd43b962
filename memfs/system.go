package memfs

import (
	"context"
	"io"
	"time"

	"github.com/wasivm/wasihost"
	"github.com/wasivm/wasihost/volume"
)

var defaultRand io.Reader = wasi.SystemRandom

var epoch = time.Now()

func defaultRealtime(ctx context.Context) (uint64, error) {
	return uint64(time.Now().UnixNano()), nil
}

func defaultMonotonic(ctx context.Context) (uint64, error) {
	return uint64(time.Since(epoch)), nil
}

// System implements wasi.System over an in-memory volume.MemVolume. It
// carries no dependency on a real operating system: clocks, randomness and
// process control are all supplied by the embedder through optional fields.
// NewSystem sets Realtime, Monotonic and Rand to host-process defaults, and a
// nil Rand also reads from the default. A nil Yield makes SchedYield a no-op;
// a nil Exit or Raise makes ProcExit or ProcRaise return ENOSYS, and a nil
// Realtime or Monotonic makes ClockTimeGet return ENOTSUP for that clock.
type System struct {
	wasi.FileTable[*File]

	Args    []string
	Environ []string

	Realtime           func(context.Context) (uint64, error)
	RealtimePrecision  time.Duration
	Monotonic          func(context.Context) (uint64, error)
	MonotonicPrecision time.Duration

	Rand io.Reader

	// Stdin, Stdout and Stderr back the guest's preopened fds 0-2. A nil
	// Stdin reads as an immediate EOF; a nil Stdout/Stderr discards writes.
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	Yield func(context.Context) error
	Raise func(context.Context, int) error
	Exit  func(context.Context, int) error

	// MaxOpenFiles bounds the number of simultaneously open file
	// descriptors. Zero means unbounded.
	MaxOpenFiles int

	// MaxOpenDirs bounds the number of simultaneously open directory
	// streams. Zero means unbounded.
	MaxOpenDirs int

	vol           *volume.MemVolume
	openFileCount int
	openDirCount  int
}

// NewSystem creates a System backed by vol. Fds 0-2 are preopened as the
// character-device stdio streams under "/dev/stdin", "/dev/stdout" and
// "/dev/stderr"; fd 3 preopens "/" under guest path "/".
func NewSystem(vol *volume.MemVolume) *System {
	sys := &System{
		Realtime:           defaultRealtime,
		RealtimePrecision:  time.Microsecond,
		Monotonic:          defaultMonotonic,
		MonotonicPrecision: time.Nanosecond,
		Rand:               defaultRand,
		vol:                vol,
	}

	charDevStat := wasi.FDStat{
		FileType:         wasi.CharacterDeviceType,
		RightsBase:       wasi.AllRights,
		RightsInheriting: wasi.AllRights,
	}
	sys.FileTable.Preopen(newStdioFile(sys, stdin), "/dev/stdin", charDevStat)
	sys.FileTable.Preopen(newStdioFile(sys, stdout), "/dev/stdout", charDevStat)
	sys.FileTable.Preopen(newStdioFile(sys, stderr), "/dev/stderr", charDevStat)

	root := newFile(sys, "/", true)
	sys.FileTable.Preopen(root, "/", wasi.FDStat{
		FileType:         wasi.DirectoryType,
		RightsBase:       wasi.DirectoryRights,
		RightsInheriting: wasi.AllRights,
	})
	return sys
}

// Preopen exposes an additional directory of vol to the guest under the
// given guest-visible path.
func (sys *System) Preopen(path string) wasi.FD {
	f := newFile(sys, path, true)
	return sys.FileTable.Preopen(f, path, wasi.FDStat{
		FileType:         wasi.DirectoryType,
		RightsBase:       wasi.DirectoryRights,
		RightsInheriting: wasi.AllRights,
	})
}

func (sys *System) ArgsSizesGet(ctx context.Context) (int, int, wasi.Errno) {
	count, size := wasi.SizesGet(sys.Args)
	return count, size, wasi.ESUCCESS
}

func (sys *System) ArgsGet(ctx context.Context) ([]string, wasi.Errno) {
	return sys.Args, wasi.ESUCCESS
}

func (sys *System) EnvironSizesGet(ctx context.Context) (int, int, wasi.Errno) {
	count, size := wasi.SizesGet(sys.Environ)
	return count, size, wasi.ESUCCESS
}

func (sys *System) EnvironGet(ctx context.Context) ([]string, wasi.Errno) {
	return sys.Environ, wasi.ESUCCESS
}

func (sys *System) ClockResGet(ctx context.Context, id wasi.ClockID) (wasi.Timestamp, wasi.Errno) {
	switch id {
	case wasi.Realtime:
		return wasi.Timestamp(sys.RealtimePrecision), wasi.ESUCCESS
	case wasi.Monotonic:
		return wasi.Timestamp(sys.MonotonicPrecision), wasi.ESUCCESS
	case wasi.ProcessCPUTimeID, wasi.ThreadCPUTimeID:
		return 0, wasi.ENOTSUP
	default:
		return 0, wasi.EINVAL
	}
}

func (sys *System) ClockTimeGet(ctx context.Context, id wasi.ClockID, precision wasi.Timestamp) (wasi.Timestamp, wasi.Errno) {
	switch id {
	case wasi.Realtime:
		if sys.Realtime == nil {
			return 0, wasi.ENOTSUP
		}
		t, err := sys.Realtime(ctx)
		if err != nil {
			return 0, wasi.EIO
		}
		return wasi.Timestamp(t), wasi.ESUCCESS
	case wasi.Monotonic:
		if sys.Monotonic == nil {
			return 0, wasi.ENOTSUP
		}
		t, err := sys.Monotonic(ctx)
		if err != nil {
			return 0, wasi.EIO
		}
		return wasi.Timestamp(t), wasi.ESUCCESS
	case wasi.ProcessCPUTimeID, wasi.ThreadCPUTimeID:
		return 0, wasi.ENOTSUP
	default:
		return 0, wasi.EINVAL
	}
}

// PathOpen enforces MaxOpenFiles before delegating to the embedded
// wasi.FileTable, which has no notion of a capacity limit on its own.
func (sys *System) PathOpen(ctx context.Context, fd wasi.FD, lookupFlags wasi.LookupFlags, path string, openFlags wasi.OpenFlags, rightsBase, rightsInheriting wasi.Rights, fdFlags wasi.FDFlags) (wasi.FD, wasi.Errno) {
	if sys.MaxOpenFiles > 0 && sys.openFileCount >= sys.MaxOpenFiles {
		return -1, wasi.ENFILE
	}
	newFD, errno := sys.FileTable.PathOpen(ctx, fd, lookupFlags, path, openFlags, rightsBase, rightsInheriting, fdFlags)
	if errno == wasi.ESUCCESS {
		sys.openFileCount++
	}
	return newFD, errno
}

// FDClose keeps the open file descriptor count in sync with PathOpen's.
func (sys *System) FDClose(ctx context.Context, fd wasi.FD) wasi.Errno {
	errno := sys.FileTable.FDClose(ctx, fd)
	if errno == wasi.ESUCCESS {
		sys.openFileCount--
	}
	return errno
}

func (sys *System) PollOneOff(ctx context.Context, subscriptions []wasi.Subscription, events []wasi.Event) (int, wasi.Errno) {
	if len(subscriptions) == 0 || len(events) < len(subscriptions) {
		return 0, wasi.EINVAL
	}

	timeout := time.Duration(-1)
	for i := range subscriptions {
		sub := &subscriptions[i]
		switch sub.EventType {
		case wasi.ClockEvent:
			c := sub.GetClock()
			t := c.Timeout.Duration()
			if timeout < 0 || t < timeout {
				timeout = t
			}
		case wasi.FDReadEvent, wasi.FDWriteEvent:
			if _, _, errno := sys.FileTable.LookupFD(sub.GetFDReadWrite().FD, wasi.PollFDReadWriteRight); errno != wasi.ESUCCESS {
				events[0] = wasi.Event{UserData: sub.UserData, EventType: sub.EventType, Errno: errno}
				return 1, wasi.ESUCCESS
			}
		}
	}

	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return 0, wasi.EINTR
		}
	}

	n := 0
	for i := range subscriptions {
		sub := &subscriptions[i]
		events[n] = wasi.Event{UserData: sub.UserData, EventType: sub.EventType, Errno: wasi.ESUCCESS}
		if sub.EventType == wasi.FDReadEvent || sub.EventType == wasi.FDWriteEvent {
			events[n].FDReadWrite.NBytes = 1
		}
		n++
	}
	return n, wasi.ESUCCESS
}

func (sys *System) ProcExit(ctx context.Context, code wasi.ExitCode) wasi.Errno {
	if sys.Exit != nil {
		if err := sys.Exit(ctx, int(code)); err != nil {
			return wasi.EIO
		}
		return wasi.ESUCCESS
	}
	return wasi.ENOSYS
}

func (sys *System) ProcRaise(ctx context.Context, signal wasi.Signal) wasi.Errno {
	if sys.Raise != nil {
		if err := sys.Raise(ctx, int(signal)); err != nil {
			return wasi.EIO
		}
		return wasi.ESUCCESS
	}
	return wasi.ENOSYS
}

func (sys *System) SchedYield(ctx context.Context) wasi.Errno {
	if sys.Yield != nil {
		if err := sys.Yield(ctx); err != nil {
			return wasi.EIO
		}
	}
	return wasi.ESUCCESS
}

func (sys *System) RandomGet(ctx context.Context, b []byte) wasi.Errno {
	r := sys.Rand
	if r == nil {
		r = defaultRand
	}
	if _, err := io.ReadFull(r, b); err != nil {
		return wasi.EIO
	}
	return wasi.ESUCCESS
}

func (sys *System) SockOpen(ctx context.Context, family wasi.ProtocolFamily, socketType wasi.SocketType, protocol wasi.Protocol, rightsBase, rightsInheriting wasi.Rights) (wasi.FD, wasi.Errno) {
	return -1, wasi.ENOTSUP
}

func (sys *System) SockBind(ctx context.Context, fd wasi.FD, addr wasi.SocketAddress) (wasi.SocketAddress, wasi.Errno) {
	return nil, wasi.ENOTSUP
}

func (sys *System) SockConnect(ctx context.Context, fd wasi.FD, addr wasi.SocketAddress) (wasi.SocketAddress, wasi.Errno) {
	return nil, wasi.ENOTSUP
}

func (sys *System) SockListen(ctx context.Context, fd wasi.FD, backlog int) wasi.Errno {
	return wasi.ENOTSUP
}

func (sys *System) SockAccept(ctx context.Context, fd wasi.FD, flags wasi.FDFlags) (wasi.FD, wasi.SocketAddress, wasi.SocketAddress, wasi.Errno) {
	return -1, nil, nil, wasi.ENOTSUP
}

func (sys *System) SockRecv(ctx context.Context, fd wasi.FD, iovecs []wasi.IOVec, flags wasi.RIFlags) (wasi.Size, wasi.ROFlags, wasi.Errno) {
	return 0, 0, wasi.ENOTSUP
}

func (sys *System) SockSend(ctx context.Context, fd wasi.FD, iovecs []wasi.IOVec, flags wasi.SIFlags) (wasi.Size, wasi.Errno) {
	return 0, wasi.ENOTSUP
}

func (sys *System) SockSendTo(ctx context.Context, fd wasi.FD, iovecs []wasi.IOVec, flags wasi.SIFlags, addr wasi.SocketAddress) (wasi.Size, wasi.Errno) {
	return 0, wasi.ENOTSUP
}

func (sys *System) SockRecvFrom(ctx context.Context, fd wasi.FD, iovecs []wasi.IOVec, flags wasi.RIFlags) (wasi.Size, wasi.ROFlags, wasi.SocketAddress, wasi.Errno) {
	return 0, 0, nil, wasi.ENOTSUP
}

func (sys *System) SockGetOpt(ctx context.Context, fd wasi.FD, option wasi.SocketOption) (wasi.SocketOptionValue, wasi.Errno) {
	return nil, wasi.ENOTSUP
}

func (sys *System) SockSetOpt(ctx context.Context, fd wasi.FD, option wasi.SocketOption, value wasi.SocketOptionValue) wasi.Errno {
	return wasi.ENOTSUP
}

func (sys *System) SockLocalAddress(ctx context.Context, fd wasi.FD) (wasi.SocketAddress, wasi.Errno) {
	return nil, wasi.ENOTSUP
}

func (sys *System) SockRemoteAddress(ctx context.Context, fd wasi.FD) (wasi.SocketAddress, wasi.Errno) {
	return nil, wasi.ENOTSUP
}

func (sys *System) SockAddressInfo(ctx context.Context, name, service string, hints wasi.AddressInfo, results []wasi.AddressInfo) (int, wasi.Errno) {
	return 0, wasi.ENOTSUP
}

func (sys *System) SockShutdown(ctx context.Context, fd wasi.FD, flags wasi.SDFlags) wasi.Errno {
	return wasi.ENOTSUP
}
