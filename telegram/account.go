package telegram

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/voicy/component"
	"github.com/kbukum/voicy/logger"
)

// Identity is the part of the client an Account needs.
type Identity interface {
	GetMe(ctx context.Context) (User, error)
}

var (
	_ component.Component   = (*Account)(nil)
	_ component.Describable = (*Account)(nil)
)

// Account checks the bot token on start and reports whether the Bot API
// still accepts it.
type Account struct {
	api Identity
	log *logger.Logger

	mu  sync.RWMutex
	bot *User
}

// NewAccount creates an Account over api.
func NewAccount(api Identity) *Account {
	return &Account{api: api, log: logger.Get("telegram")}
}

// Name implements component.Component.
func (a *Account) Name() string { return "telegram" }

// Start fails when the token is rejected.
func (a *Account) Start(ctx context.Context) error {
	me, err := a.api.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram getMe: %w", err)
	}
	if !me.IsBot {
		return fmt.Errorf("telegram getMe: account %d is not a bot", me.ID)
	}
	a.mu.Lock()
	a.bot = &me
	a.mu.Unlock()
	a.log.Info("bot account verified", logger.Fields("username", me.Username, "bot_id", me.ID))
	return nil
}

// Stop implements component.Component.
func (a *Account) Stop(context.Context) error { return nil }

// Health calls getMe.
func (a *Account) Health(ctx context.Context) component.Health {
	a.mu.RLock()
	started := a.bot != nil
	a.mu.RUnlock()
	if !started {
		return component.Check(ctx, a.Name(), nil)
	}
	return component.Check(ctx, a.Name(), func(ctx context.Context) error {
		_, err := a.api.GetMe(ctx)
		return err
	})
}

// Describe implements component.Describable.
func (a *Account) Describe() component.Description {
	a.mu.RLock()
	defer a.mu.RUnlock()
	details := "not verified"
	if a.bot != nil {
		details = "@" + a.bot.Username
	}
	return component.Description{Name: "Telegram", Type: "bot api", Details: details}
}
