// Package mail delivers outbound account email through SMTP, SendGrid or the log.
package mail

import "context"

// Message is a single outbound email with plain text and HTML bodies.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
