package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/service/notify"
	"github.com/careops-lab/panacea/pkg/service/protocol"
)

// OccurrenceUseCase implements the occurrence workflow operations. Every
// operation takes the acting user explicitly; there is no ambient session
// state below this layer.
type OccurrenceUseCase struct {
	repo            interfaces.Repository
	storage         interfaces.BlobStorage
	generator       protocol.Generator
	dispatcher      *notify.Dispatcher
	confirmationTTL time.Duration
	now             func() time.Time
}

type CreateOccurrenceInput struct {
	Type        types.OccurrenceType
	Subtype     string
	Title       string
	Description string

	// Optional request routed for approval (e.g. supplies)
	RequestedItem string
	ApproverEmail string
}

func (uc *OccurrenceUseCase) Create(ctx context.Context, actor model.ActorContext, input CreateOccurrenceInput) (*model.Occurrence, error) {
	if err := actor.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid actor", goerr.V("cause", err))
	}
	if !input.Type.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid occurrence type", goerr.V("type", input.Type))
	}
	if input.Title == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "occurrence title is required")
	}

	proto, err := uc.generator.NewProtocol(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to assign protocol")
	}

	now := uc.now().UTC()
	o := &model.Occurrence{
		ID:            types.NewOccurrenceID(),
		Protocol:      proto,
		Type:          input.Type,
		Subtype:       input.Subtype,
		Title:         input.Title,
		Description:   input.Description,
		Status:        input.Type.InitialStatus(),
		RequestedItem: input.RequestedItem,
		ApproverEmail: input.ApproverEmail,
		PublicToken:   uuid.New().String(),
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
	}

	if input.Type.HasPublicFlow() {
		o.ConfirmationToken = uuid.New().String()
		expiresAt := now.Add(uc.confirmationTTL)
		o.ConfirmationExpiresAt = &expiresAt
	}

	created, err := uc.repo.Occurrence().Create(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(ErrSaveFailed, "failed to store occurrence", goerr.V("cause", err))
	}

	uc.notifyChange(ctx, created, notify.KindOccurrenceCreated, actor)

	return created, nil
}

func (uc *OccurrenceUseCase) Get(ctx context.Context, actor model.ActorContext, id types.OccurrenceID) (*model.Occurrence, error) {
	o, err := uc.repo.Occurrence().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrOccurrenceNotFound, "no such occurrence", goerr.V(OccurrenceIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get occurrence", goerr.V(OccurrenceIDKey, id))
	}

	if err := uc.authorizeRead(actor, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *OccurrenceUseCase) GetByProtocol(ctx context.Context, actor model.ActorContext, proto types.Protocol) (*model.Occurrence, error) {
	o, err := uc.repo.Occurrence().GetByProtocol(ctx, proto)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrOccurrenceNotFound, "no such occurrence", goerr.V(ProtocolKey, proto))
		}
		return nil, goerr.Wrap(err, "failed to get occurrence", goerr.V(ProtocolKey, proto))
	}

	if err := uc.authorizeRead(actor, o); err != nil {
		return nil, err
	}
	return o, nil
}

// authorizeRead scopes reads by role: admins see everything, nursing-role
// actors see all nursing records plus their own, staff see their own only.
func (uc *OccurrenceUseCase) authorizeRead(actor model.ActorContext, o *model.Occurrence) error {
	if actor.IsAdmin() || o.CreatedBy == actor.UserID {
		return nil
	}
	if actor.Role == types.RoleNursing && o.Type == types.TypeNursing {
		return nil
	}
	return goerr.Wrap(model.ErrUnauthorizedRole, "occurrence is not visible to this actor",
		goerr.V(OccurrenceIDKey, o.ID), goerr.V(model.RoleKey, actor.Role))
}

func (uc *OccurrenceUseCase) List(ctx context.Context, actor model.ActorContext, opts ...interfaces.ListOccurrenceOption) ([]*model.Occurrence, error) {
	if !actor.IsAdmin() {
		filter := interfaces.BuildListOccurrenceFilter(opts...)
		switch {
		case actor.Role == types.RoleNursing && filter.Type == types.TypeNursing:
			// nursing actors see the whole nursing queue
		case actor.Role == types.RoleNursing && filter.Type == "":
			// An unfiltered nursing list is the nursing queue plus the
			// actor's own records, mirroring what authorizeRead grants
			return uc.listNursingScope(ctx, actor, opts)
		default:
			opts = append(opts, interfaces.WithCreatedBy(actor.UserID))
		}
	}

	results, err := uc.repo.Occurrence().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list occurrences")
	}
	return results, nil
}

func (uc *OccurrenceUseCase) listNursingScope(ctx context.Context, actor model.ActorContext, opts []interfaces.ListOccurrenceOption) ([]*model.Occurrence, error) {
	ownOpts := append(append([]interfaces.ListOccurrenceOption{}, opts...), interfaces.WithCreatedBy(actor.UserID))
	own, err := uc.repo.Occurrence().List(ctx, ownOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list own occurrences")
	}

	queueOpts := append(append([]interfaces.ListOccurrenceOption{}, opts...), interfaces.WithType(types.TypeNursing))
	queue, err := uc.repo.Occurrence().List(ctx, queueOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list nursing occurrences")
	}

	seen := make(map[types.OccurrenceID]struct{}, len(own))
	results := make([]*model.Occurrence, 0, len(own)+len(queue))
	for _, o := range own {
		seen[o.ID] = struct{}{}
		results = append(results, o)
	}
	for _, o := range queue {
		if _, ok := seen[o.ID]; !ok {
			results = append(results, o)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].ID < results[j].ID
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

type UpdateDetailsInput struct {
	Subtype     *string
	Title       *string
	Description *string
}

// UpdateDetails edits descriptive fields only. Status, protocol and outcome
// never change through this path.
func (uc *OccurrenceUseCase) UpdateDetails(ctx context.Context, actor model.ActorContext, id types.OccurrenceID, input UpdateDetailsInput) (*model.Occurrence, error) {
	o, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && o.CreatedBy != actor.UserID {
		return nil, goerr.Wrap(model.ErrUnauthorizedRole, "only the reporter or an admin may edit",
			goerr.V(OccurrenceIDKey, id))
	}
	if o.Status.IsTerminal() {
		return nil, goerr.Wrap(model.ErrAlreadyConcluded, "concluded occurrences are read-only",
			goerr.V(OccurrenceIDKey, id))
	}

	if input.Subtype != nil {
		o.Subtype = *input.Subtype
	}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, goerr.Wrap(ErrInvalidInput, "occurrence title is required")
		}
		o.Title = *input.Title
	}
	if input.Description != nil {
		o.Description = *input.Description
	}

	updated, err := uc.repo.Occurrence().Update(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(ErrSaveFailed, "failed to update occurrence",
			goerr.V(OccurrenceIDKey, id), goerr.V("cause", err))
	}
	return updated, nil
}

// notifyChange fires a best-effort notification for a persisted state change.
func (uc *OccurrenceUseCase) notifyChange(ctx context.Context, o *model.Occurrence, kind notify.Kind, actor model.ActorContext) {
	if uc.dispatcher == nil {
		return
	}

	uc.dispatcher.Notify(ctx, notify.Event{
		Kind:           kind,
		Protocol:       o.Protocol,
		Type:           o.Type,
		Actor:          actor.UserID.String(),
		OccurredAt:     uc.now().UTC(),
		Description:    o.Title,
		PendingRequest: o.HasPendingRequest(),
		Approver:       o.ApproverEmail,
	})
}
