// internal/app/system/workers/lockoutsweep.go

// Package workers holds background loops started at boot.
package workers

import (
	"context"
	"sync"
	"time"

	credentialstore "github.com/dalemusser/kinhub/internal/app/store/credentials"
	"github.com/dalemusser/kinhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// LockoutSweep is a background worker that clears expired sign-in
// lockouts. Lockouts expire on read anyway; the sweep keeps the stored
// failure counters from accumulating on accounts nobody retries.
type LockoutSweep struct {
	creds    *credentialstore.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewLockoutSweep creates the worker. interval controls how often the
// sweep runs (e.g., 5 minutes).
func NewLockoutSweep(creds *credentialstore.Store, logger *zap.Logger, interval time.Duration) *LockoutSweep {
	return &LockoutSweep{
		creds:    creds,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *LockoutSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("lockout sweep worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *LockoutSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("lockout sweep worker stopped")
}

func (w *LockoutSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stopCh:
			return
		}
	}
}

func (w *LockoutSweep) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()

	n, err := w.creds.ClearExpiredLocks(ctx)
	if err != nil {
		w.log.Error("lockout sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		w.log.Info("cleared expired lockouts", zap.Int64("count", n))
	}
}
