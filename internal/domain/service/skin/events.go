package skin

import (
	"context"
	"sync"

	"skinvault/internal/domain/entity"
)

type broker struct {
	mu          sync.Mutex
	nextID      int
	subscribers map[int]func(context.Context, entity.SkinEvent)
}

func newBroker() *broker {
	return &broker{
		subscribers: make(map[int]func(context.Context, entity.SkinEvent)),
	}
}

func (b *broker) subscribe(fn func(context.Context, entity.SkinEvent)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subscribers[id] = fn

	var once sync.Once

	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			delete(b.subscribers, id)
		})
	}
}

// publish calls the subscribers outside the lock so that they may subscribe or
// unsubscribe themselves.
func (b *broker) publish(ctx context.Context, event entity.SkinEvent) {
	b.mu.Lock()
	fns := make([]func(context.Context, entity.SkinEvent), 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ctx, event)
	}
}
