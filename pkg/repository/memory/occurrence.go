package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type occurrenceRepository struct {
	mu          sync.RWMutex
	occurrences map[types.OccurrenceID]*model.Occurrence
}

func newOccurrenceRepository() *occurrenceRepository {
	return &occurrenceRepository{
		occurrences: make(map[types.OccurrenceID]*model.Occurrence),
	}
}

func (r *occurrenceRepository) Create(ctx context.Context, o *model.Occurrence) (*model.Occurrence, error) {
	if err := o.ID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "occurrence ID is required")
	}
	if err := o.Protocol.Validate(); err != nil {
		return nil, goerr.Wrap(err, "protocol is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.occurrences[o.ID]; exists {
		return nil, goerr.New("occurrence already exists", goerr.V("id", o.ID))
	}

	now := time.Now().UTC()
	created := o.Clone()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	r.occurrences[created.ID] = created
	return created.Clone(), nil
}

func (r *occurrenceRepository) Get(ctx context.Context, id types.OccurrenceID) (*model.Occurrence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, exists := r.occurrences[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "occurrence not found", goerr.V("id", id))
	}
	return o.Clone(), nil
}

func (r *occurrenceRepository) GetByProtocol(ctx context.Context, protocol types.Protocol) (*model.Occurrence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.occurrences {
		if o.Protocol == protocol {
			return o.Clone(), nil
		}
	}
	return nil, goerr.Wrap(ErrNotFound, "occurrence not found", goerr.V("protocol", protocol))
}

func (r *occurrenceRepository) GetByConfirmationToken(ctx context.Context, token string) (*model.Occurrence, error) {
	if token == "" {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.occurrences {
		if o.ConfirmationToken == token {
			return o.Clone(), nil
		}
	}
	return nil, nil
}

func (r *occurrenceRepository) GetByPublicToken(ctx context.Context, token string) (*model.Occurrence, error) {
	if token == "" {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.occurrences {
		if o.PublicToken == token {
			return o.Clone(), nil
		}
	}
	return nil, nil
}

func (r *occurrenceRepository) List(ctx context.Context, opts ...interfaces.ListOccurrenceOption) ([]*model.Occurrence, error) {
	filter := interfaces.BuildListOccurrenceFilter(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*model.Occurrence, 0, len(r.occurrences))
	for _, o := range r.occurrences {
		if filter.Match(o.Type, o.Status, o.CreatedBy) {
			results = append(results, o.Clone())
		}
	}

	// Newest first, stable across calls
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].Protocol > results[j].Protocol
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	return results, nil
}

func (r *occurrenceRepository) Update(ctx context.Context, o *model.Occurrence) (*model.Occurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.occurrences[o.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "occurrence not found", goerr.V("id", o.ID))
	}

	updated := o.Clone()
	// Protocol is immutable once assigned; creation metadata is preserved
	updated.Protocol = existing.Protocol
	updated.CreatedAt = existing.CreatedAt
	updated.CreatedBy = existing.CreatedBy
	updated.UpdatedAt = time.Now().UTC()

	r.occurrences[updated.ID] = updated
	return updated.Clone(), nil
}
