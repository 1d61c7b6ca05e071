package notify_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/service/notify"
)

func testEvent() notify.Event {
	return notify.Event{
		Kind:        notify.KindOccurrenceCreated,
		Protocol:    "OC-2026-000007",
		Type:        types.TypeNursing,
		Actor:       "alice@hospital.example",
		OccurredAt:  time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
		Description: "patient fall in ward 3",
	}
}

func TestBuildMessagesRoutine(t *testing.T) {
	msgs := notify.BuildMessages(testEvent())

	gt.A(t, msgs).Length(1)
	gt.V(t, msgs[0].Audience).Equal(notify.AudienceBroadcast)
	gt.V(t, msgs[0].Recipient).Equal("")
	gt.S(t, msgs[0].Text).Contains("OC-2026-000007")
	gt.S(t, msgs[0].Text).Contains("registered")
	gt.S(t, msgs[0].Text).Contains("patient fall in ward 3")
}

func TestBuildMessagesPendingRequest(t *testing.T) {
	ev := testEvent()
	ev.PendingRequest = true
	ev.Approver = "bob@hospital.example"

	msgs := notify.BuildMessages(ev)
	gt.A(t, msgs).Length(2)

	gt.V(t, msgs[0].Audience).Equal(notify.AudienceApprover)
	gt.V(t, msgs[0].Recipient).Equal("bob@hospital.example")
	gt.S(t, msgs[0].Text).Contains("awaiting your approval")

	gt.V(t, msgs[1].Audience).Equal(notify.AudienceBroadcast)
	gt.V(t, msgs[1].Recipient).Equal("")
	gt.S(t, msgs[1].Text).Contains("bob@hospital.example")

	// Two differently addressed bodies, not copies
	gt.False(t, msgs[0].Text == msgs[1].Text)
}

func TestBuildMessagesVerbs(t *testing.T) {
	cases := []struct {
		kind notify.Kind
		want string
	}{
		{notify.KindOccurrenceForwarded, "forwarded for medical review"},
		{notify.KindOccurrenceConcluded, "concluded"},
		{notify.KindConfirmationCompleted, "confirmed"},
		{notify.KindOpinionSubmitted, "medical opinion"},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			ev := testEvent()
			ev.Kind = tc.kind
			msgs := notify.BuildMessages(ev)
			gt.A(t, msgs).Length(1)
			gt.S(t, msgs[0].Text).Contains(tc.want)
		})
	}
}
