package pipeline

import (
	"context"
	"time"

	"github.com/kbukum/voicy/chat"
)

// SendOptions shape an outgoing or edited message.
type SendOptions struct {
	// ReplyTo threads the message under another one; zero sends unthreaded.
	ReplyTo        int
	Markdown       bool
	DisablePreview bool
}

// Message identifies a message the bot sent.
type Message struct {
	ChatID    int64
	MessageID int
}

// Messenger is the chat platform.
type Messenger interface {
	Reply(ctx context.Context, chatID int64, text string, opts SendOptions) (Message, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, opts SendOptions) error
	ShowTyping(ctx context.Context, chatID int64) error
}

// FileResolver turns a platform file id into a downloadable URL.
type FileResolver interface {
	FileURL(ctx context.Context, fileID string) (string, error)
}

// ChatFinder loads the configuration snapshot of a chat, creating it on first contact.
type ChatFinder interface {
	FindChat(ctx context.Context, chatID int64) (chat.Snapshot, error)
}

// Transcriber runs speech-to-text for the chat's selected engine.
type Transcriber interface {
	Transcribe(ctx context.Context, media chat.Media, s chat.Snapshot) (chat.Transcription, error)
}

// VoiceRecorder persists finished transcriptions.
type VoiceRecorder interface {
	RecordVoice(ctx context.Context, rec chat.VoiceRecord) error
}

// Translator looks up localized notices.
type Translator interface {
	Translate(language, key string) string
}

// Fault is one failure forwarded to the Reporter.
type Fault struct {
	ChatID    int64
	MessageID int
	Phase     Phase
	Err       error
}

// Reporter receives faults. Implementations must not block for long and
// must not panic.
type Reporter interface {
	Report(ctx context.Context, f Fault)
}

// Observer records per-request timing.
type Observer interface {
	ObservePipeline(ctx context.Context, engine, outcome string, elapsed time.Duration)
}

// EngineMessenger is implemented by engine errors that carry the provider's
// own error text.
type EngineMessenger interface {
	EngineMessage() string
}

// Translation keys.
const (
	KeySpeakClearly     = "speak_clearly"
	KeyError            = "error"
	KeyFileTooLarge     = "error_twenty"
	KeyInitiated        = "initiated"
	KeyGoogleCredential = "google_error_creds"
)
