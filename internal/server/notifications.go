package server

import (
	"sync"

	"github.com/jonathan/cv-generator/internal/form"
)

// subscriberBuffer is how many notifications a slow subscriber may lag
// behind before further ones are dropped for it
const subscriberBuffer = 16

// Broadcaster fans notifications out to every connected stream and the log
type Broadcaster struct {
	log form.Notifier

	mu   sync.Mutex
	subs map[chan form.Notification]struct{}
}

// NewBroadcaster returns a broadcaster that also logs every notification
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		log:  form.LogNotifier{},
		subs: make(map[chan form.Notification]struct{}),
	}
}

// Notify delivers n to every subscriber without blocking
func (b *Broadcaster) Notify(n form.Notification) {
	b.log.Notify(n)

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Subscribe returns a channel of notifications and a function that ends
// the subscription
func (b *Broadcaster) Subscribe() (<-chan form.Notification, func()) {
	ch := make(chan form.Notification, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Broadcaster) subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
