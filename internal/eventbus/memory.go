package eventbus

import (
	"context"
	"sync"
)

// MemoryBus is an in-process Publisher/Subscriber used in tests and local
// development in place of Kafka. Published messages are fanned out
// synchronously to every handler currently subscribed to the topic.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	closed   bool
	published []Message
}

// NewMemoryBus constructs an empty bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[string][]Handler)}
}

// Publish invokes every handler registered for msg.Topic, in registration
// order, stopping at (and returning) the first handler error.
func (b *MemoryBus) Publish(ctx context.Context, msg Message) error {
	b.mu.Lock()
	b.published = append(b.published, msg)
	handlers := append([]Handler(nil), b.handlers[msg.Topic]...)
	b.mu.Unlock()

	for _, h := range handlers {
		if err := h(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe registers handler for topic and blocks until ctx is done.
func (b *MemoryBus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	b.mu.Lock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	b.mu.Unlock()
	<-ctx.Done()
	return nil
}

// Published returns every message handed to Publish so far, for assertions.
func (b *MemoryBus) Published() []Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Message(nil), b.published...)
}

// Close marks the bus closed; it does not reject subsequent calls since
// tests frequently outlive their subscriber goroutines.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
