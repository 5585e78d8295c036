package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/store"
)

// Housekeeping sweeps expired invite rows on an interval. Expiry is enforced
// at read time regardless; the sweep only keeps the table from accumulating
// dead rows.
type Housekeeping struct {
	Store    store.Store
	Interval time.Duration
	Logger   *slog.Logger
}

// Run sweeps until ctx is cancelled. Call it in its own goroutine.
func (h *Housekeeping) Run(ctx context.Context) {
	interval := h.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.sweep(ctx)
		}
	}
}

func (h *Housekeeping) sweep(ctx context.Context) {
	if err := h.Store.Invites().DeleteExpired(ctx); err != nil {
		h.logger().ErrorContext(ctx, "housekeeping sweep failed", "err", err)
		return
	}
	h.logger().DebugContext(ctx, "housekeeping sweep complete")
}

func (h *Housekeeping) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
