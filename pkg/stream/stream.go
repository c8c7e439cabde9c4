package stream

import "sync"

// Value is a single-slot broadcast: it caches the most recent value and
// replays it to every new subscriber before delivering subsequent updates.
// Late-joining consumers therefore see current state without an extra fetch.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[int]chan T
	nextID  int
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{current: initial, subs: make(map[int]chan T)}
}

// Get returns the most recently published value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set publishes a new value to all subscribers. A subscriber that is not
// draining its channel has its oldest pending value dropped so that the
// latest value is always deliverable.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = val
	for _, ch := range v.subs {
		send(ch, val)
	}
}

// Subscribe registers a new subscriber. The returned channel immediately
// carries the current value. The cancel func must be called when the
// subscriber is done; the channel is closed by it.
func (v *Value[T]) Subscribe() (<-chan T, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextID
	v.nextID++
	ch := make(chan T, 8)
	ch <- v.current
	v.subs[id] = ch
	cancel := func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if c, ok := v.subs[id]; ok {
			delete(v.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func send[T any](ch chan T, val T) {
	for {
		select {
		case ch <- val:
			return
		default:
		}
		select {
		case <-ch: // drop oldest
		default:
		}
	}
}
