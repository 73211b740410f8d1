package store

import "sync"

// Notifier is a multicast change signal without payload.
//
// Subscribers run synchronously inside Publish, in no particular order.
// Subscribing and unsubscribing are safe from any goroutine, including from
// within a running subscriber.
type Notifier struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]func()
}

// NewNotifier creates a notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[uint64]func())}
}

// Subscribe registers fn and returns a function that removes it.
// The returned function is idempotent.
func (n *Notifier) Subscribe(fn func()) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Publish calls every current subscriber.
func (n *Notifier) Publish() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Len returns the number of subscribers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
