package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/database"
	"github.com/kbukum/voicy/pipeline"
)

var _ pipeline.ChatFinder = (*Chats)(nil)

// Chats reads and creates chat rows.
type Chats struct {
	db *database.DB
}

// NewChats creates a Chats repository.
func NewChats(db *database.DB) *Chats {
	return &Chats{db: db}
}

// FindChat returns the chat's snapshot, inserting a default row on first
// contact. Concurrent first contacts for one chat insert once.
func (r *Chats) FindChat(ctx context.Context, chatID int64) (chat.Snapshot, error) {
	var m ChatModel
	err := r.db.Transact(ctx, func(tx *gorm.DB) error {
		row := newChatModel(chat.NewDefaultSnapshot(chatID))
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
		return tx.First(&m, "id = ?", chatID).Error
	})
	if err != nil {
		return chat.Snapshot{}, database.FromDatabase(err, "chat")
	}
	return m.Snapshot(), nil
}
