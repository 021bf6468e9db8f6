package mail

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogSender writes messages to the log instead of delivering them. Used in development.
type LogSender struct{}

var _ Sender = LogSender{}

func (LogSender) Send(_ context.Context, msg Message) error {
	// bodies carry single-use links
	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("email not delivered, MAIL_DRIVER=log")
	return nil
}
