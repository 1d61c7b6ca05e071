package slack

import "context"

// Service provides the Slack operations the notification layer depends on.
type Service interface {
	// PostMessage posts a plain text message to a channel. The channel may be
	// a channel ID or a configured channel name.
	PostMessage(ctx context.Context, channel string, text string) error

	// LookupUserByEmail resolves a workspace user from an email address
	// (with caching). Used to address approver messages directly.
	LookupUserByEmail(ctx context.Context, email string) (*User, error)
}

// User represents a Slack user
type User struct {
	ID       string
	Name     string
	RealName string
	Email    string
}
