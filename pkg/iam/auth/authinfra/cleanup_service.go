package authinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/turnkey/pkg/logx"
)

// ExpiryDeleter is any ledger that can purge its expired rows.
type ExpiryDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// CleanupService periodically purges expired refresh tokens and OTP rows.
// Lazy on-use cleanup already keeps the ledgers correct; the reaper only
// keeps them small.
type CleanupService struct {
	ledgers  []ExpiryDeleter
	interval time.Duration
}

// NewCleanupService creates a reaper over the given ledgers.
func NewCleanupService(interval time.Duration, ledgers ...ExpiryDeleter) *CleanupService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CleanupService{ledgers: ledgers, interval: interval}
}

// Start runs the sweep loop until the context is cancelled. Intended to be
// launched in its own goroutine.
func (s *CleanupService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *CleanupService) sweep(ctx context.Context) {
	for _, ledger := range s.ledgers {
		removed, err := ledger.DeleteExpired(ctx)
		if err != nil {
			logx.WithError(err).Warn("expiry sweep failed")
			continue
		}
		if removed > 0 {
			logx.WithField("rows", removed).Debug("expiry sweep removed rows")
		}
	}
}
