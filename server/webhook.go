package server

import (
	"context"
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voicy/errors"
	"github.com/kbukum/voicy/logger"
	"github.com/kbukum/voicy/telegram"
)

// SecretHeader carries the secret_token registered with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookRoute matches telegram.Config.WebhookPath. The secret stays out of
// the route template so request logs never contain it.
const WebhookRoute = "/telegram/:secret"

// Webhook returns the handler for Bot API webhook deliveries. Both the path
// segment and the secret header must match secret. The update is
// handed to handle with a context that outlives the request, and the
// response is sent as soon as handle returns, so handle must not block on
// the transcription itself.
func Webhook(secret string, handle telegram.Handler, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !matches(c.Param("secret"), secret) || !matches(c.GetHeader(SecretHeader), secret) {
			log.Warn("webhook secret mismatch", logger.Fields("client", c.ClientIP()))
			RespondWithError(c, apperrors.Unauthorized("invalid webhook secret"))
			return
		}

		var u telegram.Update
		if err := c.ShouldBindJSON(&u); err != nil {
			log.WithError(err).Warn("webhook body rejected")
			RespondWithError(c, apperrors.InvalidInput("body", "malformed update"))
			return
		}

		handle(context.WithoutCancel(c.Request.Context()), u)
		RespondOK(c)
	}
}

func matches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// RegisterWebhook mounts Webhook at WebhookRoute.
func (s *Server) RegisterWebhook(secret string, handle telegram.Handler) {
	s.engine.POST(WebhookRoute, Webhook(secret, handle, s.log))
	s.log.Debug("webhook mounted", logger.Fields("route", WebhookRoute))
}
