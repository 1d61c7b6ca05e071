package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/repository/firestore"
	"github.com/careops-lab/panacea/pkg/repository/memory"
	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
)

func newTestOccurrence(typ types.OccurrenceType) *model.Occurrence {
	return &model.Occurrence{
		ID:        types.NewOccurrenceID(),
		Protocol:  types.Protocol("OC-TEST-" + uuid.New().String()[:8]),
		Type:      typ,
		Title:     "medication chart mismatch",
		Status:    typ.InitialStatus(),
		CreatedBy: "U-reporter",
	}
}

func runOccurrenceRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create persists and stamps timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		o := newTestOccurrence(types.TypeNursing)
		created, err := repo.Occurrence().Create(ctx, o)
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).Equal(o.ID)
		gt.Value(t, created.Protocol).Equal(o.Protocol)
		gt.Value(t, created.Status).Equal(types.StatusRegistered)
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Bool(t, created.UpdatedAt.IsZero()).False()
	})

	t.Run("Create rejects missing protocol", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		o := newTestOccurrence(types.TypeNursing)
		o.Protocol = ""
		_, err := repo.Occurrence().Create(ctx, o)
		gt.Error(t, err)
	})

	t.Run("Get retrieves full record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		o := newTestOccurrence(types.TypeExamReview)
		o.Description = "review requested for chest x-ray"
		o.StatusHistory = []model.StatusChange{
			{From: types.StatusRegistered, To: types.StatusRegistered, ChangedBy: "U-reporter", ChangedAt: time.Now().UTC()},
		}
		created, err := repo.Occurrence().Create(ctx, o)
		gt.NoError(t, err).Required()

		retrieved, err := repo.Occurrence().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Description).Equal(o.Description)
		gt.Value(t, retrieved.Type).Equal(types.TypeExamReview)
		gt.Array(t, retrieved.StatusHistory).Length(1)
	})

	t.Run("Get returns error for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Occurrence().Get(ctx, types.NewOccurrenceID())
		gt.Value(t, err).NotNil()
	})

	t.Run("GetByProtocol", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		o := newTestOccurrence(types.TypeFacility)
		created, err := repo.Occurrence().Create(ctx, o)
		gt.NoError(t, err).Required()

		retrieved, err := repo.Occurrence().GetByProtocol(ctx, created.Protocol)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.ID).Equal(created.ID)
	})

	t.Run("GetByConfirmationToken returns nil for no match", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		got, err := repo.Occurrence().GetByConfirmationToken(ctx, "no-such-token")
		gt.NoError(t, err)
		gt.Value(t, got).Nil()
	})

	t.Run("GetByConfirmationToken finds holder", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		o := newTestOccurrence(types.TypeFacility)
		o.ConfirmationToken = uuid.New().String()
		expiresAt := time.Now().UTC().Add(72 * time.Hour)
		o.ConfirmationExpiresAt = &expiresAt
		created, err := repo.Occurrence().Create(ctx, o)
		gt.NoError(t, err).Required()

		retrieved, err := repo.Occurrence().GetByConfirmationToken(ctx, o.ConfirmationToken)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.ID).Equal(created.ID)
		gt.Bool(t, retrieved.ConfirmationExpiresAt.IsZero()).False()
	})

	t.Run("List filters by type and status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		n1 := newTestOccurrence(types.TypeNursing)
		n2 := newTestOccurrence(types.TypeNursing)
		n2.Status = types.StatusInAnalysis
		a1 := newTestOccurrence(types.TypeAdministrative)

		for _, o := range []*model.Occurrence{n1, n2, a1} {
			_, err := repo.Occurrence().Create(ctx, o)
			gt.NoError(t, err).Required()
		}

		nursing, err := repo.Occurrence().List(ctx, interfaces.WithType(types.TypeNursing))
		gt.NoError(t, err).Required()
		gt.Number(t, len(nursing)).Equal(2)

		inAnalysis, err := repo.Occurrence().List(ctx,
			interfaces.WithType(types.TypeNursing),
			interfaces.WithStatus(types.StatusInAnalysis),
		)
		gt.NoError(t, err).Required()
		gt.Number(t, len(inAnalysis)).Equal(1)
		gt.Value(t, inAnalysis[0].ID).Equal(n2.ID)

		all, err := repo.Occurrence().List(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, len(all)).Equal(3)
	})

	t.Run("Update preserves protocol and creation metadata", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		o := newTestOccurrence(types.TypeNursing)
		created, err := repo.Occurrence().Create(ctx, o)
		gt.NoError(t, err).Required()

		tampered := created.Clone()
		tampered.Protocol = "OC-FORGED-0001"
		tampered.Description = "updated description"
		tampered.Status = types.StatusInAnalysis

		updated, err := repo.Occurrence().Update(ctx, tampered)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Protocol).Equal(created.Protocol)
		gt.Value(t, updated.CreatedBy).Equal(created.CreatedBy)
		gt.Value(t, updated.Description).Equal("updated description")
		gt.Value(t, updated.Status).Equal(types.StatusInAnalysis)
	})

	t.Run("Update fails for unknown record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		o := newTestOccurrence(types.TypeNursing)
		_, err := repo.Occurrence().Update(ctx, o)
		gt.Error(t, err)
	})
}

func runSequenceTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("monotonic per year", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.NextProtocolSeq(ctx, 2026)
		gt.NoError(t, err).Required()
		second, err := repo.NextProtocolSeq(ctx, 2026)
		gt.NoError(t, err).Required()
		gt.Number(t, second).Equal(first + 1)
	})

	t.Run("independent counters per year", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.NextProtocolSeq(ctx, 2026)
		gt.NoError(t, err).Required()
		v, err := repo.NextProtocolSeq(ctx, 2027)
		gt.NoError(t, err).Required()
		gt.Number(t, v).Equal(1)
	})
}

func TestOccurrenceRepository_Memory(t *testing.T) {
	runOccurrenceRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestOccurrenceRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runOccurrenceRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "",
			firestore.WithCollectionPrefix("test_"+uuid.New().String()[:8]))
		gt.NoError(t, err).Required()
		return repo
	})
}

func TestProtocolSequence_Memory(t *testing.T) {
	runSequenceTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestProtocolSequence_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runSequenceTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "",
			firestore.WithCollectionPrefix("test_"+uuid.New().String()[:8]))
		gt.NoError(t, err).Required()
		return repo
	})
}

// guard against accidental use of errors import when only memory tests run