package slack

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// DefaultCacheTTL is the default TTL for the user lookup cache
const DefaultCacheTTL = 5 * time.Minute

// cacheEntry holds a cached user with expiration
type cacheEntry struct {
	user      *User
	expiresAt time.Time
}

// client implements Service interface
type client struct {
	api      *slack.Client
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// Option is a functional option for client configuration
type Option func(*client)

// WithCacheTTL sets the TTL for the user lookup cache
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *client) {
		c.cacheTTL = ttl
	}
}

// New creates a new Slack service with the provided bot token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	c := &client{
		api:      slack.New(token),
		cacheTTL: DefaultCacheTTL,
		cache:    make(map[string]cacheEntry),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// PostMessage posts a plain text message to a channel. A channel given by
// name (leading "#") is normalized; channel IDs are passed through as-is.
func (c *client) PostMessage(ctx context.Context, channel string, text string) error {
	if len(channel) > 0 && channel[0] == '#' {
		channel = "#" + NormalizeChannelName(channel[1:])
	}

	_, _, err := c.api.PostMessageContext(ctx, channel,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack message", goerr.V("channel", channel))
	}
	return nil
}

// LookupUserByEmail resolves a workspace user from an email address with caching
func (c *client) LookupUserByEmail(ctx context.Context, email string) (*User, error) {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.cache[email]
	c.mu.RUnlock()
	if ok && entry.expiresAt.After(now) {
		return entry.user, nil
	}

	u, err := c.api.GetUserByEmailContext(ctx, email)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up Slack user", goerr.V("email", email))
	}

	user := &User{
		ID:       u.ID,
		Name:     u.Name,
		RealName: u.RealName,
		Email:    u.Profile.Email,
	}

	c.mu.Lock()
	c.cache[email] = cacheEntry{
		user:      user,
		expiresAt: now.Add(c.cacheTTL),
	}
	c.mu.Unlock()

	return user, nil
}
