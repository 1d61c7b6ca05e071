package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type occurrenceRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newOccurrenceRepository(client *firestore.Client) *occurrenceRepository {
	return &occurrenceRepository{
		client: client,
	}
}

func (r *occurrenceRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_occurrences"
	}
	return "occurrences"
}

// occurrenceDoc is the Firestore document layout for an occurrence.
type occurrenceDoc struct {
	ID       string `firestore:"id"`
	Protocol string `firestore:"protocol"`

	Type        string `firestore:"type"`
	Subtype     string `firestore:"subtype"`
	Title       string `firestore:"title"`
	Description string `firestore:"description"`

	Status string `firestore:"status"`
	Triage string `firestore:"triage"`

	OutcomeTags          []string `firestore:"outcome_tags"`
	OutcomePrimary       string   `firestore:"outcome_primary"`
	OutcomeJustification string   `firestore:"outcome_justification"`

	NotifiedParty     string    `firestore:"notified_party"`
	NotifiedAt        time.Time `firestore:"notified_at"`
	ResponsiblePerson string    `firestore:"responsible_person"`
	HasNotification   bool      `firestore:"has_notification"`

	CorrectiveActions []correctiveActionDoc `firestore:"corrective_actions"`
	Attachments       []attachmentDoc       `firestore:"attachments"`

	CoordinatorSignatureURL string     `firestore:"coordinator_signature_url"`
	EmployeeSignatureURL    string     `firestore:"employee_signature_url"`
	SignedAt                *time.Time `firestore:"signed_at"`

	RequestedItem string `firestore:"requested_item"`
	ApproverEmail string `firestore:"approver_email"`

	PublicToken           string     `firestore:"public_token"`
	ConfirmationToken     string     `firestore:"confirmation_token"`
	ConfirmationExpiresAt *time.Time `firestore:"confirmation_expires_at"`
	ConfirmedAt           *time.Time `firestore:"confirmed_at"`
	ConfirmedBy           string     `firestore:"confirmed_by"`

	DoctorOpinion string     `firestore:"doctor_opinion"`
	OpinionBy     string     `firestore:"opinion_by"`
	OpinionAt     *time.Time `firestore:"opinion_at"`

	CreatedBy     string            `firestore:"created_by"`
	CreatedAt     time.Time         `firestore:"created_at"`
	UpdatedAt     time.Time         `firestore:"updated_at"`
	StatusHistory []statusChangeDoc `firestore:"status_history"`
}

type correctiveActionDoc struct {
	Description string    `firestore:"description"`
	Responsible string    `firestore:"responsible"`
	DueAt       time.Time `firestore:"due_at"`
}

type attachmentDoc struct {
	Name        string    `firestore:"name"`
	StoragePath string    `firestore:"storage_path"`
	ContentType string    `firestore:"content_type"`
	UploadedBy  string    `firestore:"uploaded_by"`
	UploadedAt  time.Time `firestore:"uploaded_at"`
}

type statusChangeDoc struct {
	From      string    `firestore:"from"`
	To        string    `firestore:"to"`
	ChangedBy string    `firestore:"changed_by"`
	ChangedAt time.Time `firestore:"changed_at"`
	Reason    string    `firestore:"reason"`
}

func toDoc(o *model.Occurrence) *occurrenceDoc {
	doc := &occurrenceDoc{
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
		PublicToken:             o.PublicToken,
		ConfirmationToken:       o.ConfirmationToken,
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
		doc.OutcomeTags = append(doc.OutcomeTags, tag.String())
	}
	if o.ExternalNotification != nil {
		doc.HasNotification = true
		doc.NotifiedParty = o.ExternalNotification.NotifiedParty
		doc.NotifiedAt = o.ExternalNotification.NotifiedAt
		doc.ResponsiblePerson = o.ExternalNotification.ResponsiblePerson
	}
	for _, ca := range o.CorrectiveActions {
		doc.CorrectiveActions = append(doc.CorrectiveActions, correctiveActionDoc{
			Description: ca.Description,
			Responsible: ca.Responsible,
			DueAt:       ca.DueAt,
		})
	}
	for _, a := range o.Attachments {
		doc.Attachments = append(doc.Attachments, attachmentDoc{
			Name:        a.Name,
			StoragePath: a.StoragePath,
			ContentType: a.ContentType,
			UploadedBy:  a.UploadedBy.String(),
			UploadedAt:  a.UploadedAt,
		})
	}
	for _, sc := range o.StatusHistory {
		doc.StatusHistory = append(doc.StatusHistory, statusChangeDoc{
			From:      sc.From.String(),
			To:        sc.To.String(),
			ChangedBy: sc.ChangedBy.String(),
			ChangedAt: sc.ChangedAt,
			Reason:    sc.Reason,
		})
	}

	return doc
}

func fromDoc(doc *occurrenceDoc) *model.Occurrence {
	o := &model.Occurrence{
		ID:                      types.OccurrenceID(doc.ID),
		Protocol:                types.Protocol(doc.Protocol),
		Type:                    types.OccurrenceType(doc.Type),
		Subtype:                 doc.Subtype,
		Title:                   doc.Title,
		Description:             doc.Description,
		Status:                  types.Status(doc.Status),
		Triage:                  types.TriageSeverity(doc.Triage),
		OutcomePrimary:          types.OutcomeTag(doc.OutcomePrimary),
		OutcomeJustification:    doc.OutcomeJustification,
		CoordinatorSignatureURL: doc.CoordinatorSignatureURL,
		EmployeeSignatureURL:    doc.EmployeeSignatureURL,
		SignedAt:                doc.SignedAt,
		RequestedItem:           doc.RequestedItem,
		ApproverEmail:           doc.ApproverEmail,
		PublicToken:             doc.PublicToken,
		ConfirmationToken:       doc.ConfirmationToken,
		ConfirmationExpiresAt:   doc.ConfirmationExpiresAt,
		ConfirmedAt:             doc.ConfirmedAt,
		ConfirmedBy:             doc.ConfirmedBy,
		DoctorOpinion:           doc.DoctorOpinion,
		OpinionBy:               doc.OpinionBy,
		OpinionAt:               doc.OpinionAt,
		CreatedBy:               types.UserID(doc.CreatedBy),
		CreatedAt:               doc.CreatedAt,
		UpdatedAt:               doc.UpdatedAt,
	}

	for _, tag := range doc.OutcomeTags {
		o.OutcomeTags = append(o.OutcomeTags, types.OutcomeTag(tag))
	}
	if doc.HasNotification {
		o.ExternalNotification = &model.ExternalNotification{
			NotifiedParty:     doc.NotifiedParty,
			NotifiedAt:        doc.NotifiedAt,
			ResponsiblePerson: doc.ResponsiblePerson,
		}
	}
	for _, ca := range doc.CorrectiveActions {
		o.CorrectiveActions = append(o.CorrectiveActions, model.CorrectiveAction{
			Description: ca.Description,
			Responsible: ca.Responsible,
			DueAt:       ca.DueAt,
		})
	}
	for _, a := range doc.Attachments {
		o.Attachments = append(o.Attachments, model.Attachment{
			Name:        a.Name,
			StoragePath: a.StoragePath,
			ContentType: a.ContentType,
			UploadedBy:  types.UserID(a.UploadedBy),
			UploadedAt:  a.UploadedAt,
		})
	}
	for _, sc := range doc.StatusHistory {
		o.StatusHistory = append(o.StatusHistory, model.StatusChange{
			From:      types.Status(sc.From),
			To:        types.Status(sc.To),
			ChangedBy: types.UserID(sc.ChangedBy),
			ChangedAt: sc.ChangedAt,
			Reason:    sc.Reason,
		})
	}

	return o
}

func (r *occurrenceRepository) Create(ctx context.Context, o *model.Occurrence) (*model.Occurrence, error) {
	if err := o.ID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "occurrence ID is required")
	}
	if err := o.Protocol.Validate(); err != nil {
		return nil, goerr.Wrap(err, "protocol is required")
	}

	now := time.Now().UTC()
	created := o.Clone()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(created.ID.String())
	if _, err := docRef.Create(ctx, toDoc(created)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.New("occurrence already exists", goerr.V("id", created.ID))
		}
		return nil, goerr.Wrap(err, "failed to create occurrence", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *occurrenceRepository) Get(ctx context.Context, id types.OccurrenceID) (*model.Occurrence, error) {
	snap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "occurrence not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get occurrence", goerr.V("id", id))
	}

	var doc occurrenceDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode occurrence", goerr.V("id", id))
	}

	return fromDoc(&doc), nil
}

// queryOne runs a single-field equality query and decodes the first hit.
// Returns nil, nil when nothing matches.
func (r *occurrenceRepository) queryOne(ctx context.Context, field, value string) (*model.Occurrence, error) {
	if value == "" {
		return nil, nil
	}

	iter := r.client.Collection(r.collection()).
		Where(field, "==", value).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query occurrence", goerr.V("field", field))
	}

	var doc occurrenceDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode occurrence")
	}

	return fromDoc(&doc), nil
}

func (r *occurrenceRepository) GetByProtocol(ctx context.Context, protocol types.Protocol) (*model.Occurrence, error) {
	o, err := r.queryOne(ctx, "protocol", protocol.String())
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, goerr.Wrap(ErrNotFound, "occurrence not found", goerr.V("protocol", protocol))
	}
	return o, nil
}

func (r *occurrenceRepository) GetByConfirmationToken(ctx context.Context, token string) (*model.Occurrence, error) {
	return r.queryOne(ctx, "confirmation_token", token)
}

func (r *occurrenceRepository) GetByPublicToken(ctx context.Context, token string) (*model.Occurrence, error) {
	return r.queryOne(ctx, "public_token", token)
}

func (r *occurrenceRepository) List(ctx context.Context, opts ...interfaces.ListOccurrenceOption) ([]*model.Occurrence, error) {
	filter := interfaces.BuildListOccurrenceFilter(opts...)

	q := r.client.Collection(r.collection()).Query
	if filter.Type != "" {
		q = q.Where("type", "==", filter.Type.String())
	}
	if filter.Status != "" {
		q = q.Where("status", "==", filter.Status.String())
	}
	if filter.CreatedBy != "" {
		q = q.Where("created_by", "==", filter.CreatedBy.String())
	}
	q = q.OrderBy("created_at", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var results []*model.Occurrence
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list occurrences")
		}

		var doc occurrenceDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode occurrence")
		}
		results = append(results, fromDoc(&doc))
	}

	return results, nil
}

func (r *occurrenceRepository) Update(ctx context.Context, o *model.Occurrence) (*model.Occurrence, error) {
	docRef := r.client.Collection(r.collection()).Doc(o.ID.String())

	snap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "occurrence not found", goerr.V("id", o.ID))
		}
		return nil, goerr.Wrap(err, "failed to get occurrence", goerr.V("id", o.ID))
	}

	var existing occurrenceDoc
	if err := snap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode occurrence", goerr.V("id", o.ID))
	}

	updated := o.Clone()
	// Protocol is immutable once assigned; creation metadata is preserved
	updated.Protocol = types.Protocol(existing.Protocol)
	updated.CreatedAt = existing.CreatedAt
	updated.CreatedBy = types.UserID(existing.CreatedBy)
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toDoc(updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update occurrence", goerr.V("id", o.ID))
	}

	return updated, nil
}
