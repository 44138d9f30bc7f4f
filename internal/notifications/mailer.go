package notifications

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/angelmondragon/medmart-backend/pkg/config"
	"github.com/angelmondragon/medmart-backend/pkg/logger"
)

const (
	MailProviderSendgrid = "sendgrid"
	MailProviderSMTP     = "smtp"
	MailProviderLog      = "log"
)

// Mailer performs the actual delivery inside the worker.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// NewMailer selects the delivery backend named by the notifier config.
func NewMailer(cfg *config.Config, logg *logger.Logger) (Mailer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Notifier.MailProvider)) {
	case MailProviderSendgrid:
		return NewSendgridMailer(cfg.Sendgrid, cfg.App.SiteName)
	case MailProviderSMTP:
		return NewSMTPMailer(cfg.SMTP)
	case MailProviderLog, "":
		return NewLogMailer(logg), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider %q", cfg.Notifier.MailProvider)
	}
}

// LogMailer writes emails to the structured log instead of sending them.
type LogMailer struct {
	logg *logger.Logger
}

func NewLogMailer(logg *logger.Logger) *LogMailer {
	return &LogMailer{logg: logg}
}

func (m *LogMailer) Send(ctx context.Context, email Email) error {
	if m.logg == nil {
		return nil
	}
	ctx = m.logg.WithFields(ctx, map[string]any{
		"to":      email.To,
		"subject": email.Subject,
		"kind":    string(email.Kind),
	})
	m.logg.Info(ctx, "email.logged")
	return nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func plainText(html string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(html, ""))
}
