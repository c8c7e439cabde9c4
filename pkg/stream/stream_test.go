package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
		panic("unreachable")
	}
}

func TestSubscribeReplaysLatest(t *testing.T) {
	v := New(42)

	ch, cancel := v.Subscribe()
	defer cancel()

	assert.Equal(t, 42, recv(t, ch))
}

func TestSetDeliversToAllSubscribers(t *testing.T) {
	v := New("initial")

	ch1, cancel1 := v.Subscribe()
	defer cancel1()
	ch2, cancel2 := v.Subscribe()
	defer cancel2()

	require.Equal(t, "initial", recv(t, ch1))
	require.Equal(t, "initial", recv(t, ch2))

	v.Set("updated")
	assert.Equal(t, "updated", recv(t, ch1))
	assert.Equal(t, "updated", recv(t, ch2))
	assert.Equal(t, "updated", v.Get())
}

func TestLateSubscriberSeesCurrentValue(t *testing.T) {
	v := New(0)
	v.Set(1)
	v.Set(2)

	ch, cancel := v.Subscribe()
	defer cancel()

	assert.Equal(t, 2, recv(t, ch))
}

func TestSlowSubscriberKeepsLatest(t *testing.T) {
	v := New(0)
	ch, cancel := v.Subscribe()
	defer cancel()

	// Overflow the buffer without draining; the newest value must survive.
	for i := 1; i <= 100; i++ {
		v.Set(i)
	}

	var last int
	for {
		select {
		case got := <-ch:
			last = got
			continue
		default:
		}
		break
	}
	assert.Equal(t, 100, last)
}

func TestCancelStopsDelivery(t *testing.T) {
	v := New(0)
	ch, cancel := v.Subscribe()
	require.Equal(t, 0, recv(t, ch))

	cancel()
	v.Set(5)

	_, open := <-ch
	assert.False(t, open, "channel should be closed after cancel")
}
