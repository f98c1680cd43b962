package wasitest

import (
	"context"
	"testing"
	"time"

	"github.com/wasivm/wasihost"
)

var poll = testSuite{
	"PollOneOff with no subscriptions returns EINVAL": func(t *testing.T, ctx context.Context, newSystem newSystem) {
		s := newSystem(TestConfig{})
		_, errno := s.PollOneOff(ctx, nil, nil)
		assertEqual(t, errno, wasi.EINVAL)
	},

	"PollOneOff with a clock subscription returns after the timeout elapses": func(t *testing.T, ctx context.Context, newSystem newSystem) {
		s := newSystem(TestConfig{Now: time.Now})

		subscriptions := []wasi.Subscription{
			wasi.MakeSubscriptionClock(42, wasi.SubscriptionClock{
				ID:      wasi.Monotonic,
				Timeout: wasi.Timestamp(time.Millisecond.Nanoseconds()),
			}),
		}
		events := make([]wasi.Event, len(subscriptions))

		n, errno := s.PollOneOff(ctx, subscriptions, events)
		assertEqual(t, errno, wasi.ESUCCESS)
		assertEqual(t, n, 1)
		assertEqual(t, events[0].EventType, wasi.ClockEvent)
		assertEqual(t, events[0].UserData, wasi.UserData(42))
		assertEqual(t, events[0].Errno, wasi.ESUCCESS)
	},
}
