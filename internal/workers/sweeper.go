// Package workers holds background maintenance jobs that run outside
// the request path.
package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"shortspace/internal/platform/repositories"
)

// InvitationSweeper periodically flips PENDING invitations past their
// expiry to EXPIRED. Expiry is still enforced lazily on validate and
// accept; the sweeper only keeps listings and the live-pending unique
// index tidy for invitations nobody ever opens.
type InvitationSweeper struct {
	invites  *repositories.InvitationRepository
	interval time.Duration
}

func NewInvitationSweeper(invites *repositories.InvitationRepository, interval time.Duration) *InvitationSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &InvitationSweeper{invites: invites, interval: interval}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *InvitationSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *InvitationSweeper) Sweep() {
	n, err := s.invites.ExpireAllStale(time.Now().Unix())
	if err != nil {
		log.Error().Err(err).Msg("invitation sweep failed")
		return
	}
	if n > 0 {
		log.Info().Int64("expired", n).Msg("invitation sweep complete")
	}
}
