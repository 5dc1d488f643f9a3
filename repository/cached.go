package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/logger"
	"github.com/kbukum/voicy/pipeline"
	"github.com/kbukum/voicy/redis"
)

var _ pipeline.ChatFinder = (*CachedChats)(nil)

// CachedChats serves snapshots from Redis and falls through to the
// database on a miss. Cache failures never fail a lookup. Chats holding a
// Google key are never cached, so credentials only live in the database.
type CachedChats struct {
	next  pipeline.ChatFinder
	store *redis.TypedStore[chat.Snapshot]
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedChats wraps next with a snapshot cache.
func NewCachedChats(next pipeline.ChatFinder, client *redis.Client, prefix string, ttl time.Duration) *CachedChats {
	return &CachedChats{
		next:  next,
		store: redis.NewTypedStore[chat.Snapshot](client, prefix+":chat"),
		ttl:   ttl,
		log:   logger.Get("repository"),
	}
}

// FindChat implements pipeline.ChatFinder.
func (c *CachedChats) FindChat(ctx context.Context, chatID int64) (chat.Snapshot, error) {
	key := strconv.FormatInt(chatID, 10)
	cached, err := c.store.Load(ctx, key)
	if err != nil {
		c.log.WithContext(ctx).WithError(err).Warn("chat cache read failed", logger.Fields(logger.FieldChatID, chatID))
	}
	if cached != nil && cached.GoogleKey == "" {
		return *cached, nil
	}

	s, err := c.next.FindChat(ctx, chatID)
	if err != nil {
		return chat.Snapshot{}, err
	}
	if s.GoogleKey != "" {
		return s, nil
	}
	if err := c.store.Save(ctx, key, &s, c.ttl); err != nil {
		c.log.WithContext(ctx).WithError(err).Warn("chat cache write failed", logger.Fields(logger.FieldChatID, chatID))
	}
	return s, nil
}
