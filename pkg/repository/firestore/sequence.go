package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// sequenceRepository issues guaranteed-unique protocol numbers through a
// Firestore transaction on a per-year counter document.
type sequenceRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSequenceRepository(client *firestore.Client) *sequenceRepository {
	return &sequenceRepository{
		client: client,
	}
}

func (r *sequenceRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *sequenceRepository) next(ctx context.Context, year int) (int64, error) {
	counterRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("protocol_%d", year))

	var nextValue int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextValue = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextValue,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		nextValue = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextValue},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to advance protocol sequence", goerr.V("year", year))
	}

	return nextValue, nil
}
