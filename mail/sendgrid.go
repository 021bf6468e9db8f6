package mail

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridSender struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

var _ Sender = (*SendGridSender)(nil)

func NewSendGridSender(apiKey, fromName, fromAddress string) (*SendGridSender, error) {
	if apiKey == "" {
		return nil, errors.New("[NewSendGridSender] api key is required")
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromAddress),
	}, nil
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(s.from, msg.Subject, to, msg.Text, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return errors.Wrapf(err, "sendgrid send to %s", msg.To)
	}
	if response.StatusCode >= 400 {
		return errors.Errorf("sendgrid send to %s: status %d: %s", msg.To, response.StatusCode, response.Body)
	}
	return nil
}
