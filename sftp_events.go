package main

import (
	"sync"
)

// ProgressBufferSize bounds each subscriber channel; slow consumers drop
// events rather than stall a transfer.
const ProgressBufferSize = 64

// progressBroker fans transfer progress out to any number of subscribers
// (UI, logging, tests) without the transfer code knowing about them.
type progressBroker struct {
	mu   sync.Mutex
	subs map[int]chan ProgressEvent
	next int
}

func newProgressBroker() *progressBroker {
	return &progressBroker{subs: make(map[int]chan ProgressEvent)}
}

// Subscribe registers a new consumer. The returned cancel func unregisters
// it and closes the channel.
func (b *progressBroker) Subscribe() (<-chan ProgressEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan ProgressEvent, ProgressBufferSize)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber, never blocking the sender.
func (b *progressBroker) Publish(ev ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber is behind; drop the sample for it.
		}
	}
}

// Close unregisters and closes all subscriber channels.
func (b *progressBroker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
