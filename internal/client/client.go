package client

import "context"

// Credentials identify the sending account.
type Credentials struct {
	Address string
	Secret  string
}

type Message struct {
	ID      string
	To      string
	Subject string
	Body    string
}

// MailTransport delivers a single message. Implementations make one attempt
// and do not retry.
type MailTransport interface {
	Send(ctx context.Context, creds Credentials, msg Message) error
}
