package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/careops-lab/panacea/pkg/domain/model/auth"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/repository/memory"
	"github.com/careops-lab/panacea/pkg/service/worker"
)

func TestTokenSweep(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	expired := auth.NewToken("user-1", "a@hospital.example", "Alice", types.RoleStaff, "t1", -time.Hour)
	alive := auth.NewToken("user-2", "b@hospital.example", "Bob", types.RoleAdmin, "t1", time.Hour)
	gt.NoError(t, repo.PutToken(ctx, expired))
	gt.NoError(t, repo.PutToken(ctx, alive))

	w := worker.NewTokenSweepWorker(repo, 10*time.Millisecond)
	gt.NoError(t, w.Start(ctx))

	// Wait for the initial sweep to remove the expired token
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := repo.GetToken(ctx, expired.ID); err != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expired token was not swept")
		}
		time.Sleep(10 * time.Millisecond)
	}

	w.Stop()

	got := gt.R1(repo.GetToken(ctx, alive.ID)).NoError(t)
	gt.V(t, got.ID).Equal(alive.ID)
}

func TestTokenSweepStop(t *testing.T) {
	repo := memory.New()
	w := worker.NewTokenSweepWorker(repo, time.Hour)

	gt.NoError(t, w.Start(context.Background()))
	// Stop must return even though the ticker never fires
	w.Stop()
}
