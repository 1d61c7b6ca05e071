package http

import (
	"time"

	"github.com/careops-lab/panacea/pkg/domain/model"
)

type occurrenceResponse struct {
	ID       string `json:"id"`
	Protocol string `json:"protocol"`

	Type        string `json:"type"`
	Subtype     string `json:"subtype,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	Status string `json:"status"`
	Triage string `json:"triage,omitempty"`

	OutcomeTags          []string `json:"outcome_tags,omitempty"`
	OutcomePrimary       string   `json:"outcome_primary,omitempty"`
	OutcomeJustification string   `json:"outcome_justification,omitempty"`

	ExternalNotification *externalNotificationResponse `json:"external_notification,omitempty"`
	CorrectiveActions    []correctiveActionResponse    `json:"corrective_actions,omitempty"`
	Attachments          []attachmentResponse          `json:"attachments,omitempty"`

	CoordinatorSignatureURL string     `json:"coordinator_signature_url,omitempty"`
	EmployeeSignatureURL    string     `json:"employee_signature_url,omitempty"`
	SignedAt                *time.Time `json:"signed_at,omitempty"`

	RequestedItem string `json:"requested_item,omitempty"`
	ApproverEmail string `json:"approver_email,omitempty"`

	ConfirmationExpiresAt *time.Time `json:"confirmation_expires_at,omitempty"`
	ConfirmedAt           *time.Time `json:"confirmed_at,omitempty"`
	ConfirmedBy           string     `json:"confirmed_by,omitempty"`

	DoctorOpinion string     `json:"doctor_opinion,omitempty"`
	OpinionBy     string     `json:"opinion_by,omitempty"`
	OpinionAt     *time.Time `json:"opinion_at,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StatusHistory []statusChangeResponse `json:"status_history,omitempty"`
}

type externalNotificationResponse struct {
	NotifiedParty     string    `json:"notified_party"`
	NotifiedAt        time.Time `json:"notified_at"`
	ResponsiblePerson string    `json:"responsible_person"`
}

type correctiveActionResponse struct {
	Description string    `json:"description"`
	Responsible string    `json:"responsible"`
	DueAt       time.Time `json:"due_at"`
}

type attachmentResponse struct {
	Name        string    `json:"name"`
	StoragePath string    `json:"storage_path"`
	ContentType string    `json:"content_type"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type statusChangeResponse struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedBy string    `json:"changed_by,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
	Reason    string    `json:"reason,omitempty"`
}

// toOccurrenceResponse converts the domain entity into its API shape. The
// confirmation token itself is never serialized; only the public flow state.
func toOccurrenceResponse(o *model.Occurrence) occurrenceResponse {
	resp := occurrenceResponse{
		ID:                      o.ID.String(),
		Protocol:                o.Protocol.String(),
		Type:                    o.Type.String(),
		Subtype:                 o.Subtype,
		Title:                   o.Title,
		Description:             o.Description,
		Status:                  o.Status.String(),
		Triage:                  o.Triage.String(),
		OutcomePrimary:          o.OutcomePrimary.String(),
		OutcomeJustification:    o.OutcomeJustification,
		CoordinatorSignatureURL: o.CoordinatorSignatureURL,
		EmployeeSignatureURL:    o.EmployeeSignatureURL,
		SignedAt:                o.SignedAt,
		RequestedItem:           o.RequestedItem,
		ApproverEmail:           o.ApproverEmail,
		ConfirmationExpiresAt:   o.ConfirmationExpiresAt,
		ConfirmedAt:             o.ConfirmedAt,
		ConfirmedBy:             o.ConfirmedBy,
		DoctorOpinion:           o.DoctorOpinion,
		OpinionBy:               o.OpinionBy,
		OpinionAt:               o.OpinionAt,
		CreatedBy:               o.CreatedBy.String(),
		CreatedAt:               o.CreatedAt,
		UpdatedAt:               o.UpdatedAt,
	}

	for _, tag := range o.OutcomeTags {
		resp.OutcomeTags = append(resp.OutcomeTags, tag.String())
	}
	if o.ExternalNotification != nil {
		resp.ExternalNotification = &externalNotificationResponse{
			NotifiedParty:     o.ExternalNotification.NotifiedParty,
			NotifiedAt:        o.ExternalNotification.NotifiedAt,
			ResponsiblePerson: o.ExternalNotification.ResponsiblePerson,
		}
	}
	for _, a := range o.CorrectiveActions {
		resp.CorrectiveActions = append(resp.CorrectiveActions, correctiveActionResponse{
			Description: a.Description,
			Responsible: a.Responsible,
			DueAt:       a.DueAt,
		})
	}
	for _, a := range o.Attachments {
		resp.Attachments = append(resp.Attachments, attachmentResponse{
			Name:        a.Name,
			StoragePath: a.StoragePath,
			ContentType: a.ContentType,
			UploadedBy:  a.UploadedBy.String(),
			UploadedAt:  a.UploadedAt,
		})
	}
	for _, c := range o.StatusHistory {
		resp.StatusHistory = append(resp.StatusHistory, statusChangeResponse{
			From:      c.From.String(),
			To:        c.To.String(),
			ChangedBy: c.ChangedBy.String(),
			ChangedAt: c.ChangedAt,
			Reason:    c.Reason,
		})
	}

	return resp
}
