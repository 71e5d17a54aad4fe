package mail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/fireplay/fireplay-backend/pkg/config"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a single plain-text email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// Sender delivers transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type sendFunc func(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	fromName  string
	fromEmail string
	send      sendFunc
	logg      *logger.Logger
}

func NewSendGridSender(cfg config.SendgridConfig, logg *logger.Logger) (*SendGridSender, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("sendgrid api key is required")
	}
	if strings.TrimSpace(cfg.DefaultFrom) == "" {
		return nil, errors.New("sendgrid from address is required")
	}
	client := sendgrid.NewSendClient(cfg.APIKey)
	return &SendGridSender{
		fromName:  cfg.FromName,
		fromEmail: cfg.DefaultFrom,
		send:      client.SendWithContext,
		logg:      logg,
	}, nil
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return errors.New("recipient address is empty")
	}

	email := sgmail.NewSingleEmail(
		sgmail.NewEmail(s.fromName, s.fromEmail),
		msg.Subject,
		sgmail.NewEmail(msg.ToName, msg.ToEmail),
		msg.Body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(msg.Body)),
	)

	resp, err := s.send(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", resp.StatusCode, resp.Body)
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"status":  resp.StatusCode,
			"subject": msg.Subject,
		}), "email sent")
	}
	return nil
}
