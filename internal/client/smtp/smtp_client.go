package smtp

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/TWRT/teamwork-tasks/internal/client"
)

// SMTPClient sends plain-text mail over implicit TLS with PLAIN auth.
type SMTPClient struct {
	host    string
	port    int
	timeout time.Duration
}

func NewSMTPClient(host string, port int, timeout time.Duration) *SMTPClient {
	return &SMTPClient{
		host:    host,
		port:    port,
		timeout: timeout,
	}
}

func (c *SMTPClient) Send(ctx context.Context, creds client.Credentials, msg client.Message) error {
	m, err := buildMessage(creds.Address, msg)
	if err != nil {
		return err
	}

	mc, err := mail.NewClient(c.host,
		mail.WithPort(c.port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(creds.Address),
		mail.WithPassword(creds.Secret),
		mail.WithTimeout(c.timeout),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := mc.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send to %s: %w", msg.To, err)
	}
	return nil
}

func buildMessage(from string, msg client.Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	if msg.ID != "" {
		m.SetMessageIDWithValue(msg.ID)
	}
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}
