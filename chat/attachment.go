package chat

import (
	"strings"
	"time"
)

// Kind is the platform content kind of an attachment.
type Kind string

const (
	KindVoice     Kind = "voice"
	KindAudio     Kind = "audio"
	KindDocument  Kind = "document"
	KindVideoNote Kind = "video_note"
)

// MaxFileSize is the largest attachment the pipeline downloads (19 MiB).
const MaxFileSize int64 = 19 * 1024 * 1024

// Attachment is the media file carried by an incoming message.
type Attachment struct {
	FileID       string
	FileUniqueID string
	// FileSize is only meaningful when SizeKnown is set.
	FileSize  int64
	SizeKnown bool
	Kind      Kind
	MimeType  string
	// Duration in seconds as reported by the platform.
	Duration int
}

// TooLarge reports whether the attachment is known to be at or above limit.
func (a Attachment) TooLarge(limit int64) bool {
	return a.SizeKnown && a.FileSize >= limit
}

// Format is an audio container every recognition engine accepts.
type Format string

const (
	FormatUnknown Format = ""
	FormatOgg     Format = "ogg"
	FormatMP3     Format = "mp3"
	FormatWAV     Format = "wav"
)

var formats = map[string]Format{
	"audio/ogg":   FormatOgg,
	"audio/opus":  FormatOgg,
	"audio/x-ogg": FormatOgg,
	"audio/mpeg":  FormatMP3,
	"audio/mp3":   FormatMP3,
	"audio/mpeg3": FormatMP3,
	"audio/wav":   FormatWAV,
	"audio/wave":  FormatWAV,
	"audio/x-wav": FormatWAV,
}

// Format resolves the container from the MIME type. Voice messages are
// always OGG/Opus, even when the platform omits the type.
func (a Attachment) Format() Format {
	mime, _, _ := strings.Cut(strings.ToLower(a.MimeType), ";")
	if f, ok := formats[strings.TrimSpace(mime)]; ok {
		return f
	}
	if a.Kind == KindVoice {
		return FormatOgg
	}
	return FormatUnknown
}

// Qualifies reports whether the attachment is speech the pipeline accepts:
// a voice message, audio file or document in a supported format. Video
// notes are MP4, which no engine decodes.
func (a Attachment) Qualifies() bool {
	switch a.Kind {
	case KindVoice, KindAudio, KindDocument:
		return a.Format() != FormatUnknown
	}
	return false
}

// ChatType is the platform chat kind.
type ChatType string

const (
	ChatPrivate    ChatType = "private"
	ChatGroup      ChatType = "group"
	ChatSupergroup ChatType = "supergroup"
	ChatChannel    ChatType = "channel"
)

// Incoming is one qualifying message handed to the pipeline.
type Incoming struct {
	ChatID     int64
	ChatType   ChatType
	MessageID  int
	Attachment Attachment
	ReceivedAt time.Time
}
