// Package telegram is a small Bot API client covering what the bot needs:
// replies, edits, chat actions, file resolution and update intake through
// long polling or a webhook.
package telegram
