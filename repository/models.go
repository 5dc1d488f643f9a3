package repository

import (
	"time"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/database"
)

// ChatModel is one row per chat, keyed by the platform chat id.
type ChatModel struct {
	ID                   int64  `gorm:"primaryKey;autoIncrement:false"`
	Engine               string `gorm:"size:16;not null;default:wit"`
	WitLanguage          string `gorm:"size:16;not null;default:en"`
	GoogleLanguage       string `gorm:"size:16;not null;default:en-US"`
	Language             string `gorm:"size:8;not null;default:en"`
	AdminLocked          bool
	FilesBanned          bool
	Silent               bool
	Banned               bool `gorm:"index"`
	Timecodes            bool
	GoogleSetupMessageID int
	GoogleKey            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName implements gorm's tabler.
func (ChatModel) TableName() string { return "chats" }

// VoiceModel is one finished transcription.
type VoiceModel struct {
	database.Record
	ChatID   int64 `gorm:"index;not null"`
	URL      string
	Text     string
	Duration int
	FileID   string `gorm:"index"`
	Engine   string `gorm:"size:16"`
	Language string `gorm:"size:16"`
	Segments []chat.Segment `gorm:"serializer:json"`
}

// TableName implements gorm's tabler.
func (VoiceModel) TableName() string { return "voices" }

// Models lists every table for auto-migration.
func Models() []any {
	return []any{&ChatModel{}, &VoiceModel{}}
}

func newChatModel(s chat.Snapshot) ChatModel {
	return ChatModel{
		ID:                   s.ID,
		Engine:               s.Engine.String(),
		WitLanguage:          s.WitLanguage,
		GoogleLanguage:       s.GoogleLanguage,
		Language:             s.Language,
		AdminLocked:          s.AdminLocked,
		FilesBanned:          s.FilesBanned,
		Silent:               s.Silent,
		Banned:               s.Banned,
		Timecodes:            s.Timecodes,
		GoogleSetupMessageID: s.GoogleSetupMessageID,
		GoogleKey:            s.GoogleKey,
	}
}

// Snapshot projects the row onto the pipeline's read model. Unknown
// engines and empty languages fall back to the new-chat defaults.
func (m ChatModel) Snapshot() chat.Snapshot {
	s := chat.NewDefaultSnapshot(m.ID)
	if e, err := chat.ParseEngine(m.Engine); err == nil {
		s.Engine = e
	}
	if m.WitLanguage != "" {
		s.WitLanguage = m.WitLanguage
	}
	if m.GoogleLanguage != "" {
		s.GoogleLanguage = m.GoogleLanguage
	}
	if m.Language != "" {
		s.Language = m.Language
	}
	s.AdminLocked = m.AdminLocked
	s.FilesBanned = m.FilesBanned
	s.Silent = m.Silent
	s.Banned = m.Banned
	s.Timecodes = m.Timecodes
	s.GoogleSetupMessageID = m.GoogleSetupMessageID
	s.GoogleKey = m.GoogleKey
	return s
}

func newVoiceModel(rec chat.VoiceRecord) VoiceModel {
	return VoiceModel{
		ChatID:   rec.ChatID,
		URL:      rec.URL,
		Text:     rec.Text,
		Duration: rec.Duration,
		FileID:   rec.FileID,
		Engine:   rec.Engine.String(),
		Language: rec.Language,
		Segments: rec.Segments,
	}
}
