// Package events publishes account lifecycle notifications.
package events

import (
	"context"
	"time"
)

const (
	SubjectUserRegistered = "users.registered"
	SubjectUserVerified   = "users.verified"
	SubjectUserDeleted    = "users.deleted"
)

// Event is the payload published for an account change. It never carries credentials.
type Event struct {
	UserID     string    `json:"userId"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, event Event) error
	Close()
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }
func (NopPublisher) Close()                                       {}
