package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/utils/safe"
)

// webhookPayload is the JSON body POSTed to the workflow-automation endpoint.
type webhookPayload struct {
	Kind       Kind                 `json:"kind"`
	Protocol   types.Protocol       `json:"protocol"`
	Type       types.OccurrenceType `json:"type"`
	Actor      string               `json:"actor"`
	OccurredAt time.Time            `json:"occurred_at"`
	Audience   Audience             `json:"audience"`
	Recipient  string               `json:"recipient,omitempty"`
	Message    string               `json:"message"`
}

// WebhookSender POSTs events to a fixed webhook URL per occurrence type.
// The response body is ignored; only the status code matters.
type WebhookSender struct {
	client     *http.Client
	urlByType  map[types.OccurrenceType]string
	defaultURL string
}

type WebhookOption func(*WebhookSender)

// WithTypeURL routes events of the given occurrence type to a dedicated URL.
func WithTypeURL(typ types.OccurrenceType, url string) WebhookOption {
	return func(s *WebhookSender) {
		s.urlByType[typ] = url
	}
}

func WithHTTPClient(client *http.Client) WebhookOption {
	return func(s *WebhookSender) {
		s.client = client
	}
}

func NewWebhookSender(defaultURL string, opts ...WebhookOption) *WebhookSender {
	s := &WebhookSender{
		client:     &http.Client{Timeout: 10 * time.Second},
		urlByType:  map[types.OccurrenceType]string{},
		defaultURL: defaultURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WebhookSender) endpoint(typ types.OccurrenceType) string {
	if url, ok := s.urlByType[typ]; ok {
		return url
	}
	return s.defaultURL
}

func (s *WebhookSender) Send(ctx context.Context, ev Event, msg Message) error {
	endpoint := s.endpoint(ev.Type)
	if endpoint == "" {
		return goerr.New("no webhook URL configured", goerr.V("type", ev.Type))
	}

	raw, err := json.Marshal(webhookPayload{
		Kind:       ev.Kind,
		Protocol:   ev.Protocol,
		Type:       ev.Type,
		Actor:      ev.Actor,
		OccurredAt: ev.OccurredAt,
		Audience:   msg.Audience,
		Recipient:  msg.Recipient,
		Message:    msg.Text,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to marshal webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return goerr.Wrap(err, "failed to build webhook request", goerr.V("url", endpoint))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call webhook", goerr.V("url", endpoint))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return goerr.New("webhook returned non-2xx status",
			goerr.V("url", endpoint),
			goerr.V("status", resp.StatusCode),
		)
	}

	return nil
}

var _ Sender = (*WebhookSender)(nil)
