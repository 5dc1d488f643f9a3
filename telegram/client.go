package telegram

import (
	"context"
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/voicy/errors"
	"github.com/kbukum/voicy/httpclient"
	"github.com/kbukum/voicy/httpclient/rest"
	"github.com/kbukum/voicy/logger"
	"github.com/kbukum/voicy/observability"
	"github.com/kbukum/voicy/pipeline"
	"github.com/kbukum/voicy/resilience"
	"github.com/kbukum/voicy/version"
)

var (
	_ pipeline.Messenger    = (*Client)(nil)
	_ pipeline.FileResolver = (*Client)(nil)
)

// Client talks to the Bot API. Sends are paced globally and per chat.
type Client struct {
	cfg     Config
	rest    *rest.Client
	limiter *resilience.KeyedRateLimiter
	log     *logger.Logger
}

// NewClient creates a Client.
func NewClient(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	rc, err := rest.New(httpclient.Config{
		Name:    "telegram",
		BaseURL: cfg.APIURL,
		// getUpdates holds the connection for the poll timeout.
		Timeout: cfg.Timeout + cfg.PollTimeout,
		Retry:   httpclient.DefaultRetryConfig(),
		Headers: map[string]string{"User-Agent": version.UserAgent("voicy")},
	})
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg:  cfg,
		rest: rc,
		limiter: resilience.NewKeyedRateLimiter(
			resilience.RateLimiterConfig{Rate: cfg.RatePerSecond, Burst: int(cfg.RatePerSecond)},
			resilience.RateLimiterConfig{Rate: cfg.ChatRate, Burst: 3},
			time.Minute,
		),
		log: logger.Get("telegram"),
	}, nil
}

// call posts params to method and decodes the result.
func call[T any](ctx context.Context, c *Client, method string, params any) (T, error) {
	ctx, span := observability.StartSpan(ctx, "telegram."+method, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var zero T
	resp, err := rest.Post[envelope[T]](ctx, c.rest, "/bot"+c.cfg.Token+"/"+method, params)
	if resp != nil && !resp.Data.OK {
		apiErr := &APIError{
			Method:      method,
			Code:        resp.Data.ErrorCode,
			Description: resp.Data.Description,
			Cause:       err,
		}
		if p := resp.Data.Parameters; p != nil {
			apiErr.RetryAfter = p.RetryAfter
		}
		span.SetAttributes(attribute.Int("telegram.error_code", apiErr.Code))
		observability.SetSpanError(ctx, apiErr)
		return zero, apiErr
	}
	if err != nil {
		err = httpclient.ToAppError("telegram", err)
		observability.SetSpanError(ctx, err)
		return zero, err
	}
	return resp.Data.Result, nil
}

func (c *Client) pace(ctx context.Context, chatID int64) error {
	if err := c.limiter.Wait(ctx, strconv.FormatInt(chatID, 10)); err != nil {
		return errors.Timeout("telegram send").WithCause(err)
	}
	return nil
}

func parseMode(opts pipeline.SendOptions) string {
	if opts.Markdown {
		return "Markdown"
	}
	return ""
}

// Reply sends text to the chat. Markdown the server rejects is resent as plain text.
func (c *Client) Reply(ctx context.Context, chatID int64, text string, opts pipeline.SendOptions) (pipeline.Message, error) {
	if err := c.pace(ctx, chatID); err != nil {
		return pipeline.Message{}, err
	}
	params := sendMessageParams{
		ChatID:                   chatID,
		Text:                     text,
		ParseMode:                parseMode(opts),
		DisableWebPagePreview:    opts.DisablePreview,
		ReplyToMessageID:         opts.ReplyTo,
		AllowSendingWithoutReply: true,
	}
	msg, err := call[Message](ctx, c, "sendMessage", params)
	if apiErr := asAPIError(err); apiErr != nil && apiErr.badMarkup() && params.ParseMode != "" {
		c.log.WithContext(ctx).Debug("markdown rejected, resending as plain text", logger.Fields(logger.FieldChatID, chatID))
		params.ParseMode = ""
		msg, err = call[Message](ctx, c, "sendMessage", params)
	}
	if err != nil {
		return pipeline.Message{}, err
	}
	return pipeline.Message{ChatID: msg.Chat.ID, MessageID: msg.MessageID}, nil
}

// EditMessage replaces the text of a sent message. Edits that change nothing succeed.
func (c *Client) EditMessage(ctx context.Context, chatID int64, messageID int, text string, opts pipeline.SendOptions) error {
	if err := c.pace(ctx, chatID); err != nil {
		return err
	}
	params := editMessageTextParams{
		ChatID:                chatID,
		MessageID:             messageID,
		Text:                  text,
		ParseMode:             parseMode(opts),
		DisableWebPagePreview: opts.DisablePreview,
	}
	// the result is a Message or true for inline messages
	_, err := call[any](ctx, c, "editMessageText", params)
	if apiErr := asAPIError(err); apiErr != nil && apiErr.badMarkup() && params.ParseMode != "" {
		params.ParseMode = ""
		_, err = call[any](ctx, c, "editMessageText", params)
	}
	if apiErr := asAPIError(err); apiErr != nil && apiErr.notModified() {
		return nil
	}
	return err
}

// ShowTyping sends the "typing" chat action.
func (c *Client) ShowTyping(ctx context.Context, chatID int64) error {
	_, err := call[bool](ctx, c, "sendChatAction", chatActionParams{ChatID: chatID, Action: "typing"})
	return err
}

// FileURL resolves a file id to a download URL. The URL embeds the bot token.
func (c *Client) FileURL(ctx context.Context, fileID string) (string, error) {
	f, err := call[File](ctx, c, "getFile", map[string]string{"file_id": fileID})
	if err != nil {
		return "", err
	}
	if f.FilePath == "" {
		return "", errors.NotFound("file", fileID)
	}
	return strings.TrimRight(c.cfg.APIURL, "/") + "/file/bot" + c.cfg.Token + "/" + f.FilePath, nil
}

// allowedUpdates limits delivery to what the dispatcher handles.
var allowedUpdates = []string{"message", "channel_post"}

// GetUpdates long-polls for updates after offset.
func (c *Client) GetUpdates(ctx context.Context, offset int) ([]Update, error) {
	return call[[]Update](ctx, c, "getUpdates", getUpdatesParams{
		Offset:         offset,
		Timeout:        int(c.cfg.PollTimeout / time.Second),
		AllowedUpdates: allowedUpdates,
	})
}

// SetWebhook points the Bot API at url, signing deliveries with secret.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	_, err := call[bool](ctx, c, "setWebhook", setWebhookParams{URL: url, SecretToken: secret, AllowedUpdates: allowedUpdates})
	return err
}

// DeleteWebhook switches the bot back to getUpdates.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	_, err := call[bool](ctx, c, "deleteWebhook", map[string]bool{"drop_pending_updates": false})
	return err
}

// GetMe returns the bot account.
func (c *Client) GetMe(ctx context.Context) (User, error) {
	return call[User](ctx, c, "getMe", nil)
}

func asAPIError(err error) *APIError {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
