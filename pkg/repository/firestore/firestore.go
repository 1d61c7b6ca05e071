package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

type Firestore struct {
	client     *firestore.Client
	occurrence *occurrenceRepository
	sequence   *sequenceRepository
	tokens     *tokenRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, used by tests to isolate runs.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.occurrence.collectionPrefix = prefix
		f.sequence.collectionPrefix = prefix
		f.tokens.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:     client,
		occurrence: newOccurrenceRepository(client),
		sequence:   newSequenceRepository(client),
		tokens:     newTokenRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Occurrence() interfaces.OccurrenceRepository {
	return f.occurrence
}

func (f *Firestore) NextProtocolSeq(ctx context.Context, year int) (int64, error) {
	return f.sequence.next(ctx, year)
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
