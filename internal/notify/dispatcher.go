package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/aklinic/internal/metrics"
)

// Notifier is the fire-and-forget surface used by the workflow.
type Notifier interface {
	Notify(text string)
}

type Dispatcher struct {
	sender  Sender
	log     zerolog.Logger
	metrics *metrics.Metrics
	timeout time.Duration
	queue   chan string

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sender Sender, log zerolog.Logger, m *metrics.Metrics) *Dispatcher {
	d := &Dispatcher{
		sender:  sender,
		log:     log.With().Str("component", "notify").Logger(),
		metrics: m,
		timeout: 10 * time.Second,
		queue:   make(chan string, 100),
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for text := range d.queue {
		d.deliver(text)
	}
}

func (d *Dispatcher) deliver(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sender.Send(ctx, text); err != nil {
		d.metrics.NotificationFailed()
		d.log.Error().Err(err).Int("length", len(text)).Msg("notification delivery failed")
		return
	}
	d.metrics.NotificationSent()
}

// Notify never blocks and never reports delivery errors to the caller.
// Messages sent after Close are dropped.
func (d *Dispatcher) Notify(text string) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.metrics.NotificationDropped()
		d.log.Warn().Msg("notifier closed, dropping message")
		return
	}

	select {
	case d.queue <- text:
	default:
		d.metrics.NotificationDropped()
		d.log.Warn().Msg("notification queue full, dropping message")
	}
}

// Close waits for queued messages to be attempted.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

// Discard drops every message.
type Discard struct{}

func (Discard) Notify(string) {}
