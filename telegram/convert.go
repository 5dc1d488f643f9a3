package telegram

import (
	"time"

	"github.com/kbukum/voicy/chat"
)

// Attachment returns the media carried by m, if any. Voice wins over audio,
// audio over video notes, video notes over documents.
func (m *Message) Attachment() (chat.Attachment, bool) {
	switch {
	case m.Voice != nil:
		v := m.Voice
		return chat.Attachment{
			FileID: v.FileID, FileUniqueID: v.FileUniqueID,
			FileSize: v.FileSize, SizeKnown: v.FileSize > 0,
			Kind: chat.KindVoice, MimeType: v.MimeType, Duration: v.Duration,
		}, true
	case m.Audio != nil:
		a := m.Audio
		return chat.Attachment{
			FileID: a.FileID, FileUniqueID: a.FileUniqueID,
			FileSize: a.FileSize, SizeKnown: a.FileSize > 0,
			Kind: chat.KindAudio, MimeType: a.MimeType, Duration: a.Duration,
		}, true
	case m.VideoNote != nil:
		v := m.VideoNote
		return chat.Attachment{
			FileID: v.FileID, FileUniqueID: v.FileUniqueID,
			FileSize: v.FileSize, SizeKnown: v.FileSize > 0,
			Kind: chat.KindVideoNote, MimeType: "video/mp4", Duration: v.Duration,
		}, true
	case m.Document != nil:
		d := m.Document
		return chat.Attachment{
			FileID: d.FileID, FileUniqueID: d.FileUniqueID,
			FileSize: d.FileSize, SizeKnown: d.FileSize > 0,
			Kind: chat.KindDocument, MimeType: d.MimeType,
		}, true
	}
	return chat.Attachment{}, false
}

// Incoming builds the pipeline request for m. received falls back to the
// message date when zero.
func (m *Message) Incoming(received time.Time) (chat.Incoming, bool) {
	att, ok := m.Attachment()
	if !ok {
		return chat.Incoming{}, false
	}
	if received.IsZero() {
		received = time.Unix(m.Date, 0)
	}
	return chat.Incoming{
		ChatID:     m.Chat.ID,
		ChatType:   chat.ChatType(m.Chat.Type),
		MessageID:  m.MessageID,
		Attachment: att,
		ReceivedAt: received,
	}, true
}

// Msg returns the message an update carries: a regular message or a channel post.
func (u Update) Msg() *Message {
	if u.Message != nil {
		return u.Message
	}
	return u.ChannelPost
}
