package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/fastygo/tasktimer/internal/config"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email mails each notice to a single recipient over SMTP.
type Email struct {
	dialer sender
	from   string
	to     string
}

func NewEmail(cfg config.SMTPConfig, to string) *Email {
	return &Email{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		to:     to,
	}
}

func (n *Email) Notify(ctx context.Context, title, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.dialer.DialAndSend(n.message(title, body)); err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}
	return nil
}

func (n *Email) message(title, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", "[tasktimer] "+title)
	m.SetBody("text/plain", body)
	return m
}
