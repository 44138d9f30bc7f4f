package notifications

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/angelmondragon/medmart-backend/pkg/config"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendgridSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendgridMailer delivers email through the SendGrid v3 API.
type SendgridMailer struct {
	sender sendgridSender
	from   *mail.Email
}

func NewSendgridMailer(cfg config.SendgridConfig, siteName string) (*SendgridMailer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("sendgrid api key is required")
	}
	if cfg.DefaultFrom == "" {
		return nil, errors.New("sendgrid from address is required")
	}
	return &SendgridMailer{
		sender: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(siteName, cfg.DefaultFrom),
	}, nil
}

func (m *SendgridMailer) Send(ctx context.Context, email Email) error {
	message := mail.NewSingleEmail(m.from, email.Subject, mail.NewEmail("", email.To), plainText(email.HTML), email.HTML)
	resp, err := m.sender.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp != nil && resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
