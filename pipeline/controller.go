package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/errors"
	"github.com/kbukum/voicy/logger"
	"github.com/kbukum/voicy/observability"
	"github.com/kbukum/voicy/transcript"
)

// Deps are the collaborators a Controller drives. Observer may be nil.
type Deps struct {
	Messenger   Messenger
	Files       FileResolver
	Chats       ChatFinder
	Transcriber Transcriber
	Voices      VoiceRecorder
	Translator  Translator
	Reporter    Reporter
	Formatter   *transcript.Formatter
	Observer    Observer
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxFileSize overrides the attachment size limit.
func WithMaxFileSize(n int64) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxFileSize = n
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller runs the transcription pipeline. It holds no per-request state
// and is safe for concurrent use.
type Controller struct {
	Deps
	maxFileSize int64
	log         *logger.Logger
	now         func() time.Time
}

// NewController creates a Controller.
func NewController(deps Deps, opts ...Option) *Controller {
	c := &Controller{
		Deps:        deps,
		maxFileSize: chat.MaxFileSize,
		log:         logger.Get("pipeline"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleIncomingMedia is the entry point for one qualifying message. It
// loads the chat, skips banned chats (and documents where files are
// banned) and runs Process. Nothing escapes:
// errors and panics are reported under handleMessage.
func (c *Controller) HandleIncomingMedia(ctx context.Context, in chat.Incoming) {
	ctx = logger.ContextWithMessage(ctx, in.ChatID, in.MessageID)
	defer func() {
		if r := recover(); r != nil {
			err := errors.Internal(fmt.Errorf("panic: %v", r)).WithDetail("stack", string(debug.Stack()))
			c.reportFault(ctx, in, PhaseHandleMessage, err)
		}
	}()

	snap, err := c.Chats.FindChat(ctx, in.ChatID)
	if err != nil {
		c.reportFault(ctx, in, PhaseHandleMessage, err)
		return
	}
	if snap.Banned {
		c.log.WithContext(ctx).Debug("chat is banned, ignoring message")
		return
	}
	if snap.FilesBanned && in.Attachment.Kind == chat.KindDocument {
		c.log.WithContext(ctx).Debug("files are off for this chat, ignoring document")
		return
	}
	c.Process(ctx, in, snap)
}

// Process runs the pipeline for one attachment and returns its outcome.
func (c *Controller) Process(ctx context.Context, in chat.Incoming, snap chat.Snapshot) Outcome {
	start := in.ReceivedAt
	if start.IsZero() {
		start = c.now()
	}
	ctx, span := observability.StartSpan(ctx, "pipeline.process", trace.WithAttributes(
		attribute.Int64("chat.id", in.ChatID),
		attribute.String("engine", snap.Engine.String()),
		attribute.Bool("chat.silent", snap.Silent),
	))

	outcome := c.process(ctx, in, snap)

	elapsed := c.now().Sub(start)
	span.SetAttributes(attribute.String("outcome", string(outcome)))
	if outcome == OutcomeFailed {
		span.SetStatus(codes.Error, "pipeline failed")
	}
	span.End()
	if c.Observer != nil {
		c.Observer.ObservePipeline(ctx, snap.Engine.String(), string(outcome), elapsed)
	}
	c.log.WithContext(ctx).Info("voice processed", logger.MergeWithDuration(logger.Fields(
		logger.FieldOutcome, string(outcome),
		logger.FieldEngine, snap.Engine.String(),
	), elapsed))
	return outcome
}

func (c *Controller) process(ctx context.Context, in chat.Incoming, snap chat.Snapshot) Outcome {
	st := newStrategy(delivery{
		messenger: c.Messenger,
		i18n:      c.Translator,
		report:    func(ctx context.Context, phase Phase, err error) { c.reportFault(ctx, in, phase, err) },
		in:        in,
		snap:      snap,
	})

	if in.Attachment.TooLarge(c.maxFileSize) {
		st.rejectTooLarge(ctx)
		return OutcomeTooLarge
	}

	if !snap.HasCredential() {
		st.rejectMissingCredentials(ctx)
		return OutcomeMissingCredentials
	}

	if err := st.announce(ctx); err != nil {
		c.reportFault(ctx, in, PhaseAnnounce, errors.DeliveryFailed("reply", err))
		return OutcomeFailed
	}

	url, result, err := c.transcribe(ctx, in, snap)
	if err != nil {
		c.reportFault(ctx, in, PhaseTranscription, err)
		st.fail(ctx, err)
		return OutcomeFailed
	}

	if err := st.deliver(ctx, c.Formatter.Display(result.Segments, snap)); err != nil {
		c.reportFault(ctx, in, PhaseTranscription, err)
		return OutcomeFailed
	}

	// The chat already holds the text, so a failed write is only reported.
	if err := c.Voices.RecordVoice(ctx, c.voiceRecord(in, snap, url, result)); err != nil {
		c.reportFault(ctx, in, PhaseTranscription, err)
	}
	return OutcomeDelivered
}

// transcribe resolves the file and runs the engine. It returns the file URL
// with the result.
func (c *Controller) transcribe(ctx context.Context, in chat.Incoming, snap chat.Snapshot) (string, chat.Transcription, error) {
	url, err := c.Files.FileURL(ctx, in.Attachment.FileID)
	if err != nil {
		return "", chat.Transcription{}, err
	}
	result, err := c.Transcriber.Transcribe(ctx, chat.Media{URL: url, Format: in.Attachment.Format()}, snap)
	if err != nil {
		return "", chat.Transcription{}, err
	}
	return url, result, nil
}

func (c *Controller) voiceRecord(in chat.Incoming, snap chat.Snapshot, url string, result chat.Transcription) chat.VoiceRecord {
	duration := result.Duration
	if duration == 0 {
		duration = in.Attachment.Duration
	}
	return chat.VoiceRecord{
		URL:      url,
		Text:     c.Formatter.Aggregate(result.Segments),
		ChatID:   in.ChatID,
		Duration: duration,
		Segments: result.Segments,
		FileID:   in.Attachment.FileID,
		Engine:   snap.Engine,
		Language: snap.EngineLanguage(),
	}
}

func (c *Controller) reportFault(ctx context.Context, in chat.Incoming, phase Phase, err error) {
	c.log.WithContext(ctx).WithError(err).Warn("pipeline fault", logger.Fields(logger.FieldPhase, string(phase)))
	observability.SetSpanError(ctx, err)
	c.Reporter.Report(ctx, Fault{ChatID: in.ChatID, MessageID: in.MessageID, Phase: phase, Err: err})
}
