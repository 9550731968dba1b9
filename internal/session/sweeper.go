package session

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sweeper periodically removes expired sessions from a Store.
type Sweeper struct {
	cron  *cron.Cron
	store Store
	log   *logrus.Logger
}

// NewSweeper schedules Sweep on a cron schedule such as "@every 15m".
func NewSweeper(store Store, schedule string, log *logrus.Logger) (*Sweeper, error) {
	s := &Sweeper{
		cron:  cron.New(),
		store: store,
		log:   log,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.Sweep(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the schedule in the background.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep deletes sessions expired as of now.
func (s *Sweeper) Sweep(ctx context.Context) int64 {
	n, err := s.store.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Errorf("Failed to sweep expired sessions: %v", err)
		return 0
	}
	if n > 0 {
		s.log.Infof("Removed %d expired sessions", n)
	}
	return n
}
