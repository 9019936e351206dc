package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/collabpad/relay/internal/core"
	"github.com/collabpad/relay/internal/domain"
	"github.com/collabpad/relay/internal/metrics"
)

const defaultSweepInterval = 5 * time.Minute

// Sweeper periodically reclaims rooms whose member set is empty. The
// reactive leave path handles the normal case; the sweep exists so a
// room left behind by the REST creation path or a partial failure cannot
// leak its metadata forever.
type Sweeper struct {
	store    *core.Store
	interval time.Duration
}

func NewSweeper(store *core.Store, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{store: store, interval: interval}
}

// Run blocks until ctx is cancelled, sweeping once per interval. Started
// by main; its lifetime is tied to server shutdown.
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.sweeper").Msg("sweeper stopped")
			return
		case <-t.C:
			s.SweepNow()
		}
	}
}

// SweepNow runs one sweep and returns the ids it deleted, for
// observability only.
func (s *Sweeper) SweepNow() []domain.RoomID {
	deleted := s.store.Sweep()
	if len(deleted) > 0 {
		metrics.RoomsSwept.Add(float64(len(deleted)))
		log.Info().Str("module", "app.sweeper").Int("rooms", len(deleted)).Msg("swept empty rooms")
	}
	return deleted
}
