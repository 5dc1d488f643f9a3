package telegram

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/voicy/component"
	"github.com/kbukum/voicy/logger"
)

// Handler consumes one update. It must not block for long; the poller
// fetches the next batch only after every handler call returns.
type Handler func(ctx context.Context, u Update)

// UpdateSource is what a Poller reads.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int) ([]Update, error)
	DeleteWebhook(ctx context.Context) error
}

var _ component.Component = (*Poller)(nil)

// Poller is the long-polling update source.
type Poller struct {
	source  UpdateSource
	handle  Handler
	backoff time.Duration
	log     *logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	lastErr error
	offset  int
}

// NewPoller creates a Poller feeding handle.
func NewPoller(source UpdateSource, handle Handler) *Poller {
	return &Poller{
		source:  source,
		handle:  handle,
		backoff: 3 * time.Second,
		log:     logger.Get("telegram.poller"),
	}
}

// Name implements component.Component.
func (p *Poller) Name() string { return "telegram-poller" }

// Start removes any webhook and begins polling in the background.
func (p *Poller) Start(ctx context.Context) error {
	if err := p.source.DeleteWebhook(ctx); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.mu.Lock()
	p.cancel = cancel
	p.done = make(chan struct{})
	p.mu.Unlock()

	go p.run(runCtx)
	p.log.Info("polling for updates")
	return nil
}

// Stop ends the loop and waits for the in-flight poll to return.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Health reports the last poll result.
func (p *Poller) Health(context.Context) component.Health {
	p.mu.Lock()
	defer p.mu.Unlock()
	h := component.Health{Name: p.Name(), Status: component.StatusHealthy}
	if p.lastErr != nil {
		h.Status = component.StatusDegraded
		h.Message = p.lastErr.Error()
	}
	return h
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	for ctx.Err() == nil {
		updates, err := p.source.GetUpdates(ctx, p.offset)
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.log.WithError(err).Warn("getUpdates failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.backoff):
			}
			continue
		}
		for _, u := range updates {
			p.offset = u.UpdateID + 1
			p.handle(ctx, u)
		}
	}
}
