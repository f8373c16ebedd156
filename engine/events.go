package engine

import (
	"sync"

	"clobcore/book"
	"clobcore/domain"

	"go.uber.org/zap"
)

// BookSnapshot is the post-mutation market-data view published after every
// Submit/Cancel call.
type BookSnapshot struct {
	Symbol   string
	Bids     []book.Level
	Asks     []book.Level
	Sequence int64
}

// EventSink receives the trades and book snapshots a submission produces.
// Implementations must not block: a slow sink is isolated behind its own
// bounded outbox (see subscriber below), never the matching path itself.
type EventSink interface {
	OnTrade(domain.Trade)
	OnBookSnapshot(BookSnapshot)
}

type outboxEvent struct {
	trade    *domain.Trade
	snapshot *BookSnapshot
}

// outboxCapacity is the per-subscriber bounded queue size, kept a power of
// two to keep the modular ring-buffer arithmetic cheap.
const outboxCapacity = 1024

// subscriber pairs an EventSink with a bounded, drop-oldest outbox drained
// by a dedicated goroutine: a fixed-capacity ring buffer whose overflow
// evicts the oldest queued event (tracked by a counter) instead of blocking
// the producer, so one slow sink can never backpressure order submission.
type subscriber struct {
	sink EventSink
	log  *zap.Logger
	// onFailure is invoked (at most once) if the sink panics while handling
	// an event, so the registry can detach it and the engine keeps running.
	onFailure func()

	mu      sync.Mutex
	cond    *sync.Cond
	buf     []outboxEvent
	head    int
	count   int
	closed  bool
	dropped uint64
}

func newSubscriber(sink EventSink, log *zap.Logger, onFailure func()) *subscriber {
	s := &subscriber{
		sink:      sink,
		log:       log,
		onFailure: onFailure,
		buf:       make([]outboxEvent, outboxCapacity),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.drain()
	return s
}

// push enqueues ev, evicting the oldest queued event if the outbox is full.
// Never blocks.
func (s *subscriber) push(ev outboxEvent) {
	s.mu.Lock()
	if s.count == len(s.buf) {
		// drop-oldest: advance head, making room for the newest event.
		s.head = (s.head + 1) % len(s.buf)
		s.count--
		s.dropped++
	}
	tail := (s.head + s.count) % len(s.buf)
	s.buf[tail] = ev
	s.count++
	s.mu.Unlock()
	s.cond.Signal()
}

func (s *subscriber) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cond.Signal()
}

// drain delivers queued events to the sink strictly in enqueue order, one
// subscriber goroutine at a time, so events from a single submission stay
// contiguous.
func (s *subscriber) drain() {
	for {
		s.mu.Lock()
		for s.count == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.count == 0 && s.closed {
			s.mu.Unlock()
			return
		}
		ev := s.buf[s.head]
		s.head = (s.head + 1) % len(s.buf)
		s.count--
		s.mu.Unlock()

		if !s.deliver(ev) {
			return
		}
	}
}

// deliver invokes the sink for one event, recovering from and reporting a
// panic instead of letting it escape the subscriber goroutine. Returns
// false when the sink has failed and the subscriber should stop draining.
func (s *subscriber) deliver(ev outboxEvent) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("event sink panicked, detaching subscriber", zap.Any("panic", r))
			ok = false
			if s.onFailure != nil {
				s.onFailure()
			}
		}
	}()

	if ev.trade != nil {
		s.sink.OnTrade(*ev.trade)
	}
	if ev.snapshot != nil {
		s.sink.OnBookSnapshot(*ev.snapshot)
	}
	return true
}

// subscriberRegistry tracks the live subscriber set and fans out events. A
// failing sink (one that panics while handling an event in deliver) is
// detached and never allowed to take down the engine; Subscribe/Unsubscribe
// are safe concurrently with publish.
type subscriberRegistry struct {
	mu   sync.RWMutex
	subs map[EventSink]*subscriber
	log  *zap.Logger
}

func newSubscriberRegistry(log *zap.Logger) *subscriberRegistry {
	return &subscriberRegistry{subs: make(map[EventSink]*subscriber), log: log}
}

func (r *subscriberRegistry) add(sink EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sink]; ok {
		return
	}
	r.subs[sink] = newSubscriber(sink, r.log, func() { r.remove(sink) })
}

func (r *subscriberRegistry) remove(sink EventSink) {
	r.mu.Lock()
	sub, ok := r.subs[sink]
	if ok {
		delete(r.subs, sink)
	}
	r.mu.Unlock()
	if ok {
		sub.close()
	}
}

// publish fans trades (in execution order) followed by one snapshot out to
// every subscriber, contiguous per call: a subscriber never sees another
// submission's events interleaved between a batch of trades and its
// snapshot.
func (r *subscriberRegistry) publish(trades []domain.Trade, snap BookSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.subs {
		for i := range trades {
			sub.push(outboxEvent{trade: &trades[i]})
		}
		snapCopy := snap
		sub.push(outboxEvent{snapshot: &snapCopy})
	}
}
