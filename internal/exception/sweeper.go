package exception

import (
	"context"
	"log"
	"time"

	"gate-access-backend/internal/store"
)

// Sweeper periodically expires pending requests whose validity has passed, so
// stale requests never linger in the pending queue between matches.
type Sweeper struct {
	store    store.Store
	interval time.Duration
}

// NewSweeper creates a sweeper running at the given interval.
func NewSweeper(s store.Store, interval time.Duration) *Sweeper {
	return &Sweeper{store: s, interval: interval}
}

// Run sweeps until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	log.Println("Starting exception request sweeper...")
	s.SweepOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Exception request sweeper shutting down.")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// SweepOnce performs a single expiry pass.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	n, err := s.store.ExpirePendingRequests(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("Error expiring pending exception requests: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Expired %d stale pending exception requests", n)
	}
}
