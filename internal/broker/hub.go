// Package broker fans out "collection changed" signals on the remote store
// server. Topics are (principal, collection) pairs; signals carry no payload
// because every subscriber re-reads the full snapshot.
package broker

import "sync"

type topic struct {
	principal  string
	collection string
}

// Hub is an in-process publish/subscribe hub. The zero value is not usable;
// construct with NewHub.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[topic]map[uint64]chan struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[topic]map[uint64]chan struct{})}
}

// Subscribe registers interest in (principal, collection). The returned
// channel has capacity one: signals published while one is pending coalesce
// into it. cancel removes the subscription and closes the channel; it is
// safe to call more than once.
func (h *Hub) Subscribe(principal, collection string) (<-chan struct{}, func()) {
	key := topic{principal: principal, collection: collection}
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.subs[key] == nil {
		h.subs[key] = make(map[uint64]chan struct{})
	}
	h.subs[key][id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			delete(h.subs[key], id)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
			close(ch)
		})
	}

	return ch, cancel
}

// Publish signals every subscriber of (principal, collection). It never
// blocks.
func (h *Hub) Publish(principal, collection string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[topic{principal: principal, collection: collection}] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions on a topic.
func (h *Hub) Subscribers(principal, collection string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[topic{principal: principal, collection: collection}])
}
