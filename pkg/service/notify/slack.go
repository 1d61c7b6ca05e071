package notify

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/careops-lab/panacea/pkg/service/slack"
)

// SlackSender posts formatted messages to Slack. Broadcast messages go to the
// configured channel; approver messages go to the approver's DM when the
// recipient resolves to a workspace user, otherwise to the broadcast channel.
type SlackSender struct {
	svc     slack.Service
	channel string
}

func NewSlackSender(svc slack.Service, channel string) *SlackSender {
	return &SlackSender{
		svc:     svc,
		channel: channel,
	}
}

func (s *SlackSender) Send(ctx context.Context, ev Event, msg Message) error {
	channel := s.channel

	if msg.Audience == AudienceApprover && msg.Recipient != "" {
		if user, err := s.svc.LookupUserByEmail(ctx, msg.Recipient); err == nil {
			channel = user.ID
		}
	}

	if channel == "" {
		return goerr.New("no Slack channel configured", goerr.V("kind", ev.Kind))
	}

	return s.svc.PostMessage(ctx, channel, msg.Text)
}

var _ Sender = (*SlackSender)(nil)
