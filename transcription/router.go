package transcription

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/errors"
	"github.com/kbukum/voicy/logger"
	"github.com/kbukum/voicy/observability"
	"github.com/kbukum/voicy/provider"
)

// Observer receives one call per engine invocation.
type Observer interface {
	ObserveEngine(ctx context.Context, engine, status string, elapsed time.Duration)
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithTimeout bounds every engine call.
func WithTimeout(d time.Duration) RouterOption {
	return func(r *Router) { r.timeout = d }
}

// WithObserver records engine latency and status.
func WithObserver(o Observer) RouterOption {
	return func(r *Router) { r.observer = o }
}

// Router picks the chat's engine and runs it.
type Router struct {
	engines  *provider.Manager[Engine]
	timeout  time.Duration
	observer Observer
	log      *logger.Logger
}

// NewRouter creates a Router over the initialized engines in m.
func NewRouter(m *provider.Manager[Engine], opts ...RouterOption) *Router {
	r := &Router{engines: m, log: logger.Get("transcription")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Transcribe runs the engine selected in snap on media.
func (r *Router) Transcribe(ctx context.Context, media chat.Media, snap chat.Snapshot) (chat.Transcription, error) {
	name := snap.Engine.String()
	engine, err := r.engines.GetByName(name)
	if err != nil {
		return chat.Transcription{}, errors.ServiceUnavailable(name + " engine").WithCause(err)
	}
	if snap.Engine.Capabilities().RequiresCredential && snap.Credential() == "" {
		return chat.Transcription{}, errors.MissingCredentials(name)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	ctx, span := observability.StartSpan(ctx, "transcription."+name, trace.WithAttributes(
		attribute.String("engine", name),
		attribute.String("language", snap.EngineLanguage()),
		attribute.String("audio.format", string(media.Format)),
	))
	defer span.End()

	start := time.Now()
	result, err := engine.Execute(ctx, Request{
		URL:        media.URL,
		Format:     media.Format,
		Language:   snap.EngineLanguage(),
		Credential: snap.Credential(),
	})
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		err = normalize(name, err)
		status = string(errors.CodeOf(err))
		observability.SetSpanError(ctx, err)
	}
	if r.observer != nil {
		r.observer.ObserveEngine(ctx, name, status, elapsed)
	}
	r.log.WithContext(ctx).Debug("engine call finished", logger.MergeWithDuration(logger.Fields(
		logger.FieldEngine, name,
		logger.FieldLanguage, snap.EngineLanguage(),
		logger.FieldOutcome, status,
	), elapsed))
	if err != nil {
		return chat.Transcription{}, err
	}
	span.SetAttributes(attribute.Int("segments", len(result.Segments)))
	return result, nil
}
