package bot

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/logger"
	"github.com/kbukum/voicy/telegram"
)

// Update dispositions recorded by the dispatcher.
const (
	DispositionDispatched = "dispatched"
	DispositionSkipped    = "skipped"
	DispositionRejected   = "rejected"
)

// UpdateRecorder counts updates and in-flight requests.
type UpdateRecorder interface {
	RecordUpdate(ctx context.Context, source, disposition string)
	InFlight(ctx context.Context, delta int64)
}

// MediaHandler processes one qualifying message; it must not panic.
type MediaHandler func(ctx context.Context, in chat.Incoming)

// Dispatcher filters updates down to qualifying media and runs one
// goroutine per message. Updates of one chat are not ordered with respect
// to each other.
type Dispatcher struct {
	source   string
	handle   MediaHandler
	recorder UpdateRecorder
	now      func() time.Time
	log      *logger.Logger

	mu       sync.Mutex
	wg       sync.WaitGroup
	closed   bool
	inFlight int
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithRecorder records update dispositions and in-flight counts.
func WithRecorder(r UpdateRecorder) DispatcherOption {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithDispatcherClock replaces time.Now for received-at stamps.
func WithDispatcherClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.now = now }
}

// NewDispatcher creates a Dispatcher. source labels the update metrics,
// "polling" or "webhook".
func NewDispatcher(source string, handle MediaHandler, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		source: source,
		handle: handle,
		now:    time.Now,
		log:    logger.Get("bot"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch is a telegram.Handler. It returns immediately; the message is
// processed in its own goroutine. Updates arriving after Drain are rejected.
func (d *Dispatcher) Dispatch(ctx context.Context, u telegram.Update) {
	msg := u.Msg()
	if msg == nil {
		d.record(ctx, DispositionSkipped)
		return
	}
	in, ok := msg.Incoming(d.now())
	if !ok || !in.Attachment.Qualifies() {
		d.record(ctx, DispositionSkipped)
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.record(ctx, DispositionRejected)
		d.log.Warn("update rejected during shutdown", logger.Fields(
			logger.FieldChatID, in.ChatID,
			logger.FieldMessageID, in.MessageID,
		))
		return
	}
	d.wg.Add(1)
	d.inFlight++
	d.mu.Unlock()

	d.record(ctx, DispositionDispatched)
	if d.recorder != nil {
		d.recorder.InFlight(ctx, 1)
	}

	// Stopping the update source must not cancel messages already accepted.
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer d.done(ctx)
		d.handle(ctx, in)
	}()
}

func (d *Dispatcher) done(ctx context.Context) {
	if d.recorder != nil {
		d.recorder.InFlight(ctx, -1)
	}
	d.mu.Lock()
	d.inFlight--
	d.mu.Unlock()
	d.wg.Done()
}

func (d *Dispatcher) record(ctx context.Context, disposition string) {
	if d.recorder != nil {
		d.recorder.RecordUpdate(ctx, d.source, disposition)
	}
}

// InFlight returns the number of messages being processed.
func (d *Dispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight
}

// Drain stops accepting updates and waits for in-flight messages until ctx
// ends. It returns ctx.Err() when messages were still running.
func (d *Dispatcher) Drain(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	pending := d.inFlight
	d.mu.Unlock()

	if pending > 0 {
		d.log.Info("draining in-flight messages", logger.Fields("count", pending))
	}

	finished := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		d.log.Warn("drain deadline reached", logger.Fields("count", d.InFlight()))
		return ctx.Err()
	}
}
