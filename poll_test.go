package wasi_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/wasivm/wasihost"
)

func TestSubscriptionLayout(t *testing.T) {
	assert.Equal(t, uintptr(48), unsafe.Sizeof(wasi.Subscription{}))
	assert.Equal(t, uintptr(4), unsafe.Sizeof(wasi.SubscriptionFDReadWrite{}))
	assert.Equal(t, uintptr(32), unsafe.Sizeof(wasi.SubscriptionClock{}))
}

func TestEventLayout(t *testing.T) {
	assert.Equal(t, uintptr(32), unsafe.Sizeof(wasi.Event{}))
	assert.Equal(t, uintptr(16), unsafe.Sizeof(wasi.EventFDReadWrite{}))
}

func TestMakeSubscriptionClock(t *testing.T) {
	s := wasi.MakeSubscriptionClock(7, wasi.SubscriptionClock{
		ID:      wasi.Monotonic,
		Timeout: 1000,
	})
	assert.Equal(t, wasi.ClockEvent, s.EventType)
	assert.Equal(t, wasi.UserData(7), s.UserData)
	assert.Equal(t, wasi.Monotonic, s.GetClock().ID)
	assert.Equal(t, wasi.Timestamp(1000), s.GetClock().Timeout)
}

func TestMakeSubscriptionFDReadWrite(t *testing.T) {
	s := wasi.MakeSubscriptionFDReadWrite(9, wasi.FDReadEvent, wasi.SubscriptionFDReadWrite{FD: 3})
	assert.Equal(t, wasi.FDReadEvent, s.EventType)
	assert.Equal(t, wasi.FD(3), s.GetFDReadWrite().FD)
}
