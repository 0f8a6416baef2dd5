package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sekolahku/pelajar-gateway/internal/session"
)

// SessionSweeper periodically evicts expired import sessions so
// abandoned uploads do not accumulate in memory.
type SessionSweeper struct {
	store    *session.Store
	interval time.Duration
	log      zerolog.Logger
}

// NewSessionSweeper creates a new SessionSweeper.
func NewSessionSweeper(store *session.Store, interval time.Duration, log zerolog.Logger) *SessionSweeper {
	return &SessionSweeper{
		store:    store,
		interval: interval,
		log:      log.With().Str("component", "session_sweeper").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine.
func (w *SessionSweeper) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			if removed := w.store.Sweep(); removed > 0 {
				w.log.Info().Int("count", removed).Msg("Expired sessions purged")
			}
		}
	}
}
