// Package notify fans order events out to the admin feed, an outbound
// webhook and the confirmation mailer.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/Kariqs/storefront-api/models"
	"go.uber.org/zap"
)

const (
	EventOrderPlaced  = "order.placed"
	EventOrderUpdated = "order.updated"

	queueSize          = 256
	defaultSinkTimeout = 10 * time.Second
)

type Event struct {
	Type  string       `json:"type"`
	Order models.Order `json:"order"`
	At    time.Time    `json:"at"`
}

// Sink receives every published event. A sink that does not care about an
// event type returns nil.
type Sink interface {
	Name() string
	Send(ctx context.Context, event Event) error
}

// Fanout queues events and delivers them to each sink from a single worker
// started with Run. Publishing never blocks: when the queue is full or the
// fanout is closed the event is dropped and logged. Sink failures are logged
// and never reach the caller.
type Fanout struct {
	sinks   []Sink
	log     *zap.Logger
	now     func() time.Time
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

func NewFanout(log *zap.Logger, sinks ...Sink) *Fanout {
	return &Fanout{
		sinks:   sinks,
		log:     log,
		now:     time.Now,
		timeout: defaultSinkTimeout,
		queue:   make(chan Event, queueSize),
		done:    make(chan struct{}),
	}
}

// SetSinkTimeout bounds each sink delivery.
func (f *Fanout) SetSinkTimeout(d time.Duration) { f.timeout = d }

// OrderPlaced and OrderUpdated ignore the request context; delivery happens
// after the request has returned.
func (f *Fanout) OrderPlaced(_ context.Context, order models.Order) {
	f.publish(Event{Type: EventOrderPlaced, Order: order, At: f.now().UTC()})
}

func (f *Fanout) OrderUpdated(_ context.Context, order models.Order) {
	f.publish(Event{Type: EventOrderUpdated, Order: order, At: f.now().UTC()})
}

func (f *Fanout) publish(event Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		f.drop(event, "closed")
		return
	}
	select {
	case f.queue <- event:
	default:
		f.drop(event, "queue full")
	}
}

func (f *Fanout) drop(event Event, reason string) {
	f.log.Warn("order notification dropped",
		zap.String("reason", reason),
		zap.String("event", event.Type),
		zap.String("order_number", event.Order.OrderNumber))
}

// Run delivers queued events until Close is called and the queue is empty.
func (f *Fanout) Run() {
	defer close(f.done)
	for event := range f.queue {
		f.deliver(event)
	}
}

func (f *Fanout) deliver(event Event) {
	for _, sink := range f.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		err := sink.Send(ctx, event)
		cancel()
		if err != nil {
			f.log.Warn("order notification failed",
				zap.String("sink", sink.Name()),
				zap.String("event", event.Type),
				zap.String("order_number", event.Order.OrderNumber),
				zap.Error(err))
		}
	}
}

// Close stops accepting events and waits until Run has drained the queue or
// ctx is done.
func (f *Fanout) Close(ctx context.Context) error {
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		close(f.queue)
	}
	f.mu.Unlock()

	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
