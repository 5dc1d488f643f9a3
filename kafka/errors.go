package kafka

import (
	"errors"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
)

// IsNonRetryableError reports failures a retry cannot fix. Broker error
// codes decide when present; otherwise the message is matched.
func IsNonRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var code kafkago.Error
	if errors.As(err, &code) {
		return !code.Temporary()
	}
	msg := strings.ToLower(err.Error())
	for _, p := range []string{"message too large", "unknown topic", "invalid topic", "authorization failed", "sasl authentication failed"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
