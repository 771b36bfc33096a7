// Package events is an in-process publish/subscribe bus. Handlers run on a
// single dispatcher goroutine, one event at a time, in registration order.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Topic names a kind of event.
type Topic string

const (
	// TopicOutcome is published once per source per refresh.
	TopicOutcome Topic = "stats.outcome"
	// TopicRefreshed is published once every source of a refresh has reported.
	TopicRefreshed Topic = "stats.refreshed"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("event bus closed")

// Event is a published message.
type Event struct {
	ID      string
	Topic   Topic
	Time    time.Time
	Payload any
}

// Handler receives events for a topic.
type Handler func(ctx context.Context, ev Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus dispatches published events to subscribed handlers.
type Bus struct {
	hmu      sync.RWMutex
	handlers map[Topic][]subscription
	nextID   uint64

	// mu guards closed and started. The dispatcher never takes it.
	mu      sync.RWMutex
	closed  bool
	started bool

	queue     chan Event
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
	logger    *slog.Logger
}

// NewBus creates a bus whose queue holds up to buffer pending events.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{
		handlers: make(map[Topic][]subscription),
		queue:    make(chan Event, buffer),
		done:     make(chan struct{}),
		logger:   slog.Default(),
	}
}

// Subscribe registers h for topic and returns a function that removes it.
func (b *Bus) Subscribe(topic Topic, h Handler) func() {
	b.hmu.Lock()
	defer b.hmu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[topic] = append(b.handlers[topic], subscription{id: id, handler: h})

	return func() {
		b.hmu.Lock()
		defer b.hmu.Unlock()
		subs := b.handlers[topic]
		for i, s := range subs {
			if s.id == id {
				b.handlers[topic] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// On registers a handler that only receives payloads of type T. Events on
// topic carrying another payload type are skipped.
func On[T any](b *Bus, topic Topic, fn func(ctx context.Context, payload T)) func() {
	return b.Subscribe(topic, func(ctx context.Context, ev Event) {
		if p, ok := ev.Payload.(T); ok {
			fn(ctx, p)
		}
	})
}

// Publish enqueues payload on topic. It blocks while the queue is full,
// until ctx is done. A done ctx does not stop an event that fits.
func (b *Bus) Publish(ctx context.Context, topic Topic, payload any) error {
	ev := Event{
		ID:      uuid.New().String(),
		Topic:   topic,
		Time:    time.Now(),
		Payload: payload,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	// Queue space wins over a done ctx.
	select {
	case b.queue <- ev:
		return nil
	default:
	}

	select {
	case b.queue <- ev:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publishing %s: %w", topic, ctx.Err())
	}
}

// Run dispatches events until Close drains the queue or ctx is done.
// It must be called at most once.
func (b *Bus) Run(ctx context.Context) error {
	started := false
	b.startOnce.Do(func() {
		b.mu.Lock()
		b.started = true
		b.mu.Unlock()
		started = true
	})
	if !started {
		return errors.New("event bus already running")
	}
	defer close(b.done)

	for {
		select {
		case ev, ok := <-b.queue:
			if !ok {
				return nil
			}
			b.dispatch(ctx, ev)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops accepting events and waits for Run to dispatch the ones
// already queued.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		close(b.queue)
		started := b.started
		b.mu.Unlock()

		if started {
			<-b.done
		}
	})
}

func (b *Bus) dispatch(ctx context.Context, ev Event) {
	b.hmu.RLock()
	subs := append([]subscription(nil), b.handlers[ev.Topic]...)
	b.hmu.RUnlock()

	for _, s := range subs {
		b.call(ctx, s.handler, ev)
	}
}

func (b *Bus) call(ctx context.Context, h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "event handler panicked",
				"topic", ev.Topic,
				"event", ev.ID,
				"panic", r,
			)
		}
	}()
	h(ctx, ev)
}
