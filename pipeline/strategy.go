package pipeline

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/errors"
	"github.com/kbukum/voicy/transcript"
)

// strategy is the per-request delivery behavior. Exactly two implementations
// exist and one is picked per request from Snapshot.Silent.
type strategy interface {
	// announce gives immediate feedback. A non-nil error ends the request.
	announce(ctx context.Context) error
	rejectTooLarge(ctx context.Context)
	rejectMissingCredentials(ctx context.Context)
	// deliver sends the display text; the returned error is already a DELIVERY_FAILED AppError.
	deliver(ctx context.Context, text string) error
	// fail shows the user whatever the mode allows for err.
	fail(ctx context.Context, err error)
}

// resultOptions renders results as Markdown without link previews.
var resultOptions = SendOptions{Markdown: true, DisablePreview: true}

type delivery struct {
	messenger Messenger
	i18n      Translator
	report    func(ctx context.Context, phase Phase, err error)
	in        chat.Incoming
	snap      chat.Snapshot
}

func (d *delivery) t(key string) string {
	return d.i18n.Translate(d.snap.Language, key)
}

func newStrategy(d delivery) strategy {
	if d.snap.Silent {
		return &silent{delivery: d}
	}
	return &interactive{delivery: d}
}

// interactive replies with a placeholder and edits it in place.
type interactive struct {
	delivery
	placeholder int
}

func (s *interactive) announce(ctx context.Context) error {
	msg, err := s.messenger.Reply(ctx, s.in.ChatID, s.t(KeyInitiated), SendOptions{ReplyTo: s.in.MessageID, Markdown: true})
	if err != nil {
		return err
	}
	s.placeholder = msg.MessageID
	return nil
}

func (s *interactive) rejectTooLarge(ctx context.Context) {
	_, err := s.messenger.Reply(ctx, s.in.ChatID, s.t(KeyFileTooLarge), SendOptions{ReplyTo: s.in.MessageID})
	if err != nil {
		s.report(ctx, PhaseLargeFileNotice, errors.DeliveryFailed("reply", err))
	}
}

// rejectMissingCredentials posts the placeholder, then turns it into the
// credential notice.
func (s *interactive) rejectMissingCredentials(ctx context.Context) {
	if err := s.announce(ctx); err != nil {
		s.report(ctx, PhaseAnnounce, errors.DeliveryFailed("reply", err))
		return
	}
	err := s.messenger.EditMessage(ctx, s.in.ChatID, s.placeholder, s.t(KeyGoogleCredential), SendOptions{})
	if err != nil {
		s.report(ctx, PhaseCredentialsNotice, errors.DeliveryFailed("edit", err))
	}
}

func (s *interactive) deliver(ctx context.Context, text string) error {
	if text == "" {
		text = s.t(KeySpeakClearly)
	}
	chunks := transcript.Split(text, transcript.MaxMessageLength)
	if err := s.messenger.EditMessage(ctx, s.in.ChatID, s.placeholder, chunks[0], resultOptions); err != nil {
		return errors.DeliveryFailed("edit", err)
	}
	opts := resultOptions
	opts.ReplyTo = s.placeholder
	for _, chunk := range chunks[1:] {
		if _, err := s.messenger.Reply(ctx, s.in.ChatID, chunk, opts); err != nil {
			return errors.DeliveryFailed("reply", err)
		}
	}
	return nil
}

func (s *interactive) fail(ctx context.Context, cause error) {
	text, opts := s.t(KeyError), SendOptions{}
	if s.snap.Engine.Capabilities().ExposesRawError {
		text += "\n\n```\n" + rawEngineMessage(cause) + "\n```"
		opts = resultOptions
	}
	if err := s.messenger.EditMessage(ctx, s.in.ChatID, s.placeholder, text, opts); err != nil {
		s.report(ctx, PhaseErrorNotice, errors.DeliveryFailed("edit", err))
	}
}

// silent never shows progress or errors; only results reach the chat.
type silent struct {
	delivery
}

func (s *silent) announce(ctx context.Context) error {
	// Typing failures are reported and processing continues.
	if err := s.messenger.ShowTyping(ctx, s.in.ChatID); err != nil {
		s.report(ctx, PhaseAnnounce, errors.DeliveryFailed("typing", err))
	}
	return nil
}

func (s *silent) rejectTooLarge(context.Context) {}

func (s *silent) rejectMissingCredentials(context.Context) {}

func (s *silent) deliver(ctx context.Context, text string) error {
	chunks := transcript.Split(text, transcript.MaxMessageLength)
	if len(chunks) == 0 {
		return nil
	}
	opts := resultOptions
	opts.ReplyTo = s.in.MessageID
	head, err := s.messenger.Reply(ctx, s.in.ChatID, chunks[0], opts)
	if err != nil {
		return errors.DeliveryFailed("reply", err)
	}
	opts.ReplyTo = head.MessageID
	for _, chunk := range chunks[1:] {
		if _, err := s.messenger.Reply(ctx, s.in.ChatID, chunk, opts); err != nil {
			return errors.DeliveryFailed("reply", err)
		}
	}
	return nil
}

func (s *silent) fail(context.Context, error) {}

// unknownEngineError is shown when the engine gave no message of its own.
const unknownEngineError = "Unknown error"

func rawEngineMessage(err error) string {
	var em EngineMessenger
	if !stderrors.As(err, &em) {
		return unknownEngineError
	}
	msg := strings.TrimSpace(strings.ReplaceAll(em.EngineMessage(), "`", ""))
	if msg == "" {
		return unknownEngineError
	}
	return msg
}
