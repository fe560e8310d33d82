package app

import (
	"context"
	"sync"
)

// ChangeKind identifies what a Change is about.
type ChangeKind int

const (
	ProjectCreated ChangeKind = iota
	ProjectUpdated
	ProjectDeleted
	ItemCreated
	ItemUpdated
	ItemDeleted
	StoreReset
	// RemoteChange means another writer touched the database.
	RemoteChange
)

func (k ChangeKind) String() string {
	switch k {
	case ProjectCreated:
		return "project_created"
	case ProjectUpdated:
		return "project_updated"
	case ProjectDeleted:
		return "project_deleted"
	case ItemCreated:
		return "item_created"
	case ItemUpdated:
		return "item_updated"
	case ItemDeleted:
		return "item_deleted"
	case StoreReset:
		return "store_reset"
	case RemoteChange:
		return "remote_change"
	default:
		return "unknown"
	}
}

// Change is published after every mutation the controller makes.
type Change struct {
	Kind ChangeKind
	ID   string
}

// subscriberBuffer is the per-subscriber queue length. Slow subscribers
// lose changes rather than stall the controller.
const subscriberBuffer = 32

// bus fans changes out to subscribers.
type bus struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Change
}

func newBus() *bus {
	return &bus{subs: make(map[int]chan Change)}
}

func (b *bus) subscribe() (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Change, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (b *bus) publish(c Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- c:
		default:
			// Drop if the subscriber is full.
		}
	}
}

// Subscribe returns a channel of changes and a function that ends the
// subscription and closes the channel.
func (c *Controller) Subscribe() (<-chan Change, func()) {
	return c.bus.subscribe()
}

// Follow republishes signals from an external change source, such as a
// store.Watcher, as RemoteChange until ctx is done or signals closes.
func (c *Controller) Follow(ctx context.Context, signals <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			c.bus.publish(Change{Kind: RemoteChange})
		}
	}
}
