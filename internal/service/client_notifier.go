package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

type changeNotifier struct {
	throttle time.Duration
	now      func() time.Time

	mu        sync.Mutex
	windows   map[string]*rate.Sometimes
	listeners map[uint64]func(models.ChangeEvent)
	nextID    uint64
}

// NewChangeNotifier returns a notifier that fires at most once per throttle
// window per collection. A non-positive throttle disables coalescing.
func NewChangeNotifier(throttle time.Duration) ChangeNotifier {
	return &changeNotifier{
		throttle:  throttle,
		now:       time.Now,
		windows:   make(map[string]*rate.Sometimes),
		listeners: make(map[uint64]func(models.ChangeEvent)),
	}
}

func (n *changeNotifier) Notify(collection string) bool {
	if !n.admit(collection) {
		return false
	}

	event := models.ChangeEvent{Collection: collection, At: n.now()}
	for _, fn := range n.snapshot() {
		fn(event)
	}

	return true
}

func (n *changeNotifier) Listen(fn func(models.ChangeEvent)) (stop func()) {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.listeners[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}
}

// admit runs the per-collection throttle. Listeners are never called from
// inside Sometimes.Do, which holds its own lock.
func (n *changeNotifier) admit(collection string) bool {
	if n.throttle <= 0 {
		return true
	}

	n.mu.Lock()
	window, ok := n.windows[collection]
	if !ok {
		window = &rate.Sometimes{Interval: n.throttle}
		n.windows[collection] = window
	}
	n.mu.Unlock()

	fired := false
	window.Do(func() { fired = true })
	return fired
}

func (n *changeNotifier) snapshot() []func(models.ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]func(models.ChangeEvent), 0, len(n.listeners))
	for _, fn := range n.listeners {
		out = append(out, fn)
	}
	return out
}
