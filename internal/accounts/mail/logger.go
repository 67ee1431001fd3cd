package mail

import (
	"context"

	"github.com/meridianapps/accounts/pkg/slogx"
)

// Logger is a Mailer that only logs. Used in dev environments where no SMTP
// relay is configured, so verification links land in the service log.
type Logger struct{}

func (Logger) Send(ctx context.Context, msg Message) error {
	slogx.FromContext(ctx).Info("mail_send_skipped",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.HTML,
	)
	return nil
}
