package events

import "sync"

const (
	defaultSubscriberCapacity = 256
)

// Logger records drop diagnostics. It matches logbook.Logbook's Printf
// signature so a logbook can be plugged in directly.
type Logger interface {
	Printf(format string, args ...any)
}

// RouterOption customizes Router construction.
type RouterOption func(*Router)

// RouterWithLogger injects a logger for drop diagnostics.
func RouterWithLogger(logger Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// RouterWithSubscriberCapacity overrides the buffered channel size per
// subscriber.
func RouterWithSubscriberCapacity(capacity int) RouterOption {
	return func(r *Router) {
		if capacity > 0 {
			r.channelSize = capacity
		}
	}
}

// Router is a Sink that fans events out to channel subscribers. The
// simulation emits synchronously; subscribers (the TUI, tooling) read
// at their own pace from bounded buffers. When a buffer is full the
// oldest event is dropped, so a stalled consumer can never stall a run.
type Router struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	channelSize int
	logger      Logger
}

// NewRouter constructs a router with default buffering.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		subscribers: map[*subscriber]struct{}{},
		channelSize: defaultSubscriberCapacity,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Subscription is one active event stream.
type Subscription struct {
	Events <-chan Event
	cancel func()
}

// Close terminates the subscription and releases its buffer.
func (s Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Subscribe registers a consumer for every subsequent event.
func (r *Router) Subscribe() Subscription {
	sub := newSubscriber(r.channelSize, r.logger)
	r.mu.Lock()
	r.subscribers[sub] = struct{}{}
	r.mu.Unlock()
	return Subscription{
		Events: sub.channel(),
		cancel: func() { r.remove(sub) },
	}
}

// Emit implements Sink.
func (r *Router) Emit(e Event) {
	r.mu.Lock()
	subs := make([]*subscriber, 0, len(r.subscribers))
	for sub := range r.subscribers {
		subs = append(subs, sub)
	}
	r.mu.Unlock()
	for _, sub := range subs {
		sub.deliver(e)
	}
}

func (r *Router) remove(sub *subscriber) {
	r.mu.Lock()
	delete(r.subscribers, sub)
	r.mu.Unlock()
	sub.close()
}

type subscriber struct {
	ch      chan Event
	logger  Logger
	closeMu sync.Mutex
	closed  bool
}

func newSubscriber(capacity int, logger Logger) *subscriber {
	if capacity <= 0 {
		capacity = defaultSubscriberCapacity
	}
	return &subscriber{ch: make(chan Event, capacity), logger: logger}
}

func (s *subscriber) channel() <-chan Event {
	return s.ch
}

func (s *subscriber) deliver(e Event) {
	if s.isClosed() {
		return
	}
	select {
	case s.ch <- e:
	default:
		oldest := <-s.ch
		if s.logger != nil {
			s.logger.Printf("events: dropped %s (queue overflow)", oldest.Name)
		}
		s.ch <- e
	}
}

func (s *subscriber) close() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

func (s *subscriber) isClosed() bool {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	return s.closed
}
