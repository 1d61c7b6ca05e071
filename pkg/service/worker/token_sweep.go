package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/careops-lab/panacea/pkg/utils/logging"
)

// TokenSweepWorker periodically removes expired session tokens from the
// repository.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type TokenSweepWorker struct {
	repo     interfaces.Repository
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewTokenSweepWorker creates a new worker for sweeping expired session tokens
func NewTokenSweepWorker(repo interfaces.Repository, interval time.Duration) *TokenSweepWorker {
	return &TokenSweepWorker{
		repo:     repo,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop
// - Initial sweep and periodic sweeps both run in a background goroutine
// - Does not block server startup
func (w *TokenSweepWorker) Start(ctx context.Context) error {
	logging.Default().Info("Token sweep worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *TokenSweepWorker) Stop() {
	logging.Default().Info("Token sweep worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Token sweep worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *TokenSweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.sweep(ctx); err != nil {
		logging.Default().Error("Initial token sweep failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				// Log error but continue worker
				logging.Default().Error("Token sweep failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("Token sweep worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Token sweep worker context cancelled")
			return
		}
	}
}

// sweep performs a single sweep cycle
func (w *TokenSweepWorker) sweep(ctx context.Context) error {
	startTime := time.Now()

	expired, err := w.repo.ListExpiredTokens(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list expired tokens")
	}
	if len(expired) == 0 {
		return nil
	}

	var deleted int
	for _, token := range expired {
		if err := w.repo.DeleteToken(ctx, token.ID); err != nil {
			// Keep going; the next cycle picks up whatever remains
			logging.Default().Warn("Failed to delete expired token",
				"token_id", token.ID,
				"error", err.Error())
			continue
		}
		deleted++
	}

	logging.Default().Info("Token sweep completed",
		"expired", len(expired),
		"deleted", deleted,
		"duration", time.Since(startTime).String())

	return nil
}
