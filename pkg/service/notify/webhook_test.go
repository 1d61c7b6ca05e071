package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/service/notify"
)

type capturedRequest struct {
	path string
	body map[string]any
}

func newCaptureServer(t *testing.T, status int) (*httptest.Server, func() []capturedRequest) {
	t.Helper()

	var mu sync.Mutex
	var captured []capturedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		mu.Lock()
		captured = append(captured, capturedRequest{path: r.URL.Path, body: body})
		mu.Unlock()

		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest{}, captured...)
	}
}

func TestWebhookSender(t *testing.T) {
	ctx := context.Background()
	srv, captured := newCaptureServer(t, http.StatusOK)

	sender := notify.NewWebhookSender(srv.URL + "/hooks/default")

	ev := testEvent()
	msgs := notify.BuildMessages(ev)
	gt.NoError(t, sender.Send(ctx, ev, msgs[0]))

	reqs := captured()
	gt.A(t, reqs).Length(1)
	gt.V(t, reqs[0].path).Equal("/hooks/default")
	gt.V(t, reqs[0].body["protocol"]).Equal("OC-2026-000007")
	gt.V(t, reqs[0].body["kind"]).Equal("occurrence.created")
	gt.V(t, reqs[0].body["audience"]).Equal("broadcast")
	gt.V(t, reqs[0].body["actor"]).Equal("alice@hospital.example")
}

func TestWebhookSenderTypeRouting(t *testing.T) {
	ctx := context.Background()
	srv, captured := newCaptureServer(t, http.StatusOK)

	sender := notify.NewWebhookSender(srv.URL+"/hooks/default",
		notify.WithTypeURL(types.TypeNursing, srv.URL+"/hooks/nursing"),
	)

	nursing := testEvent()
	exam := testEvent()
	exam.Type = types.TypeExamReview

	gt.NoError(t, sender.Send(ctx, nursing, notify.BuildMessages(nursing)[0]))
	gt.NoError(t, sender.Send(ctx, exam, notify.BuildMessages(exam)[0]))

	reqs := captured()
	gt.A(t, reqs).Length(2)
	gt.V(t, reqs[0].path).Equal("/hooks/nursing")
	gt.V(t, reqs[1].path).Equal("/hooks/default")
}

func TestWebhookSenderErrors(t *testing.T) {
	ctx := context.Background()
	ev := testEvent()
	msg := notify.BuildMessages(ev)[0]

	t.Run("non-2xx status", func(t *testing.T) {
		srv, _ := newCaptureServer(t, http.StatusBadGateway)
		sender := notify.NewWebhookSender(srv.URL)
		gt.Error(t, sender.Send(ctx, ev, msg))
	})

	t.Run("no URL configured", func(t *testing.T) {
		sender := notify.NewWebhookSender("")
		gt.Error(t, sender.Send(ctx, ev, msg))
	})
}
