package notify

import (
	"context"
	"sync"
)

// MemoryBroker fans events out to in-process subscribers. Slow subscribers
// miss events instead of blocking the publisher.
type MemoryBroker struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

// NewMemoryBroker creates an empty MemoryBroker.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[chan Event]struct{})}
}

// Publish delivers e to every current subscriber of e.StudentID.
func (b *MemoryBroker) Publish(_ context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[e.StudentID] {
		select {
		case ch <- e:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber for studentID.
func (b *MemoryBroker) Subscribe(ctx context.Context, studentID string) (<-chan Event, func(), error) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.subs[studentID] == nil {
		b.subs[studentID] = make(map[chan Event]struct{})
	}
	b.subs[studentID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[studentID], ch)
			if len(b.subs[studentID]) == 0 {
				delete(b.subs, studentID)
			}
			close(ch)
			b.mu.Unlock()
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return ch, cancel, nil
}
