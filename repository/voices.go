package repository

import (
	"context"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/database"
	"github.com/kbukum/voicy/pipeline"
)

var _ pipeline.VoiceRecorder = (*Voices)(nil)

// Voices stores finished transcriptions.
type Voices struct {
	db *database.DB
}

// NewVoices creates a Voices repository.
func NewVoices(db *database.DB) *Voices {
	return &Voices{db: db}
}

// RecordVoice inserts rec.
func (r *Voices) RecordVoice(ctx context.Context, rec chat.VoiceRecord) error {
	m := newVoiceModel(rec)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return database.FromDatabase(err, "voice")
	}
	return nil
}
