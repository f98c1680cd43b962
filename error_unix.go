package wasi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"syscall"
)

func MakeErrno(err error) Errno {
	if err == nil {
		return ESUCCESS
	}
	if err == syscall.EAGAIN {
		return EAGAIN
	}
	return makeErrnoSlow(err)
}

func makeErrnoSlow(err error) Errno {
	if err == context.Canceled {
		return ECANCELED
	}
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, fs.ErrClosed),
		errors.Is(err, net.ErrClosed):
		return EIO
	}
	var sysErrno syscall.Errno
	if errors.As(err, &sysErrno) {
		if sysErrno == 0 {
			return ESUCCESS
		}
		return syscallErrnoToWASI(sysErrno)
	}
	var wasiErrno Errno
	if errors.As(err, &wasiErrno) {
		return wasiErrno
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) {
		if timeout.Timeout() {
			return ETIMEDOUT
		}
	}
	panic(fmt.Errorf("unexpected error: %v", err))
}
