// Package housekeeping runs background maintenance for the credential service.
package housekeeping

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// EventPruner is the part of the event service the retention job needs.
type EventPruner interface {
	PruneEvents(ctx context.Context, olderThan time.Time) (int64, error)
}

// RetentionScheduler prunes audit events older than the retention window on a
// cron schedule.
type RetentionScheduler struct {
	events    EventPruner
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time
}

// NewRetentionScheduler validates spec and creates a scheduler. Run starts it.
func NewRetentionScheduler(events EventPruner, spec string, retention time.Duration) (*RetentionScheduler, error) {
	if retention <= 0 {
		return nil, fmt.Errorf("event retention must be positive, got %s", retention)
	}
	s := &RetentionScheduler{
		events:    events,
		retention: retention,
		cron:      cron.New(),
		now:       time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.prune); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the cron loop in its own goroutine and prunes once immediately.
func (s *RetentionScheduler) Run() {
	log.Info().Dur("retention", s.retention).Msg("Starting event retention scheduler")
	s.prune()
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running prune to finish.
func (s *RetentionScheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped event retention scheduler")
}

func (s *RetentionScheduler) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := s.now().Add(-s.retention)
	n, err := s.events.PruneEvents(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Time("cutoff", cutoff).Msg("Failed to prune events")
		return
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("Pruned old events")
	}
}
