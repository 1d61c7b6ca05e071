package notify

import "fmt"

const timeLayout = "2006-01-02 15:04"

func verb(kind Kind) string {
	switch kind {
	case KindOccurrenceCreated:
		return "registered"
	case KindOccurrenceForwarded:
		return "forwarded for medical review"
	case KindOccurrenceConcluded:
		return "concluded"
	case KindConfirmationCompleted:
		return "confirmed"
	case KindOpinionSubmitted:
		return "annotated with a medical opinion"
	default:
		return "updated"
	}
}

// BuildMessages formats an event into its addressed message bodies. An event
// with a pending request yields two bodies, one for the named approver and one
// for the broadcast group. Anything else yields a single status message.
func BuildMessages(ev Event) []Message {
	when := ev.OccurredAt.Format(timeLayout)

	if ev.PendingRequest {
		return []Message{
			{
				Audience:  AudienceApprover,
				Recipient: ev.Approver,
				Text: fmt.Sprintf(
					"[%s] Occurrence %s has a request from %s awaiting your approval.\n%s",
					ev.Type, ev.Protocol, ev.Actor, ev.Description,
				),
			},
			{
				Audience: AudienceBroadcast,
				Text: fmt.Sprintf(
					"[%s] Occurrence %s was %s by %s at %s. A request is pending approval by %s.",
					ev.Type, ev.Protocol, verb(ev.Kind), ev.Actor, when, ev.Approver,
				),
			},
		}
	}

	text := fmt.Sprintf("[%s] Occurrence %s was %s by %s at %s.",
		ev.Type, ev.Protocol, verb(ev.Kind), ev.Actor, when)
	if ev.Description != "" {
		text += "\n" + ev.Description
	}

	return []Message{
		{
			Audience: AudienceBroadcast,
			Text:     text,
		},
	}
}
