package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"hotpicks/internal/lines"
)

// SMTPConfig configures the relay. Port 587 with mandatory STARTTLS is the
// default.
type SMTPConfig struct {
	Host     string
	Port     int
	Sender   string
	Username string
	Password string
	Timeout  time.Duration
}

type dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPMailer sends plain-text emails through an authenticated relay.
type SMTPMailer struct {
	client  dialer
	sender  string
	timeout time.Duration
}

// NewSMTP builds an SMTPMailer. No connection is made until the first send.
func NewSMTP(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.Sender == "" {
		return nil, errors.New("sender address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPMailer{client: client, sender: cfg.Sender, timeout: cfg.Timeout}, nil
}

// SendLines renders and sends the predictions email.
func (m *SMTPMailer) SendLines(ctx context.Context, recipient string, batch []lines.Line) error {
	msg, err := m.buildMessage(recipient, batch)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) buildMessage(recipient string, batch []lines.Line) (*mail.Msg, error) {
	rendered := Compose(recipient, batch)
	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(rendered.Subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, rendered.Body)
	return msg, nil
}
