// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RevocationPruner deletes revoked token ids that are past their expiry
type RevocationPruner interface {
	PruneRevokedTokens(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler wraps a cron runner
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Logger
}

// NewScheduler creates a scheduler that prunes revocations on the given cron spec
func NewScheduler(spec string, pruner RevocationPruner, log *logrus.Logger) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cron: c, log: log}

	_, err := c.AddFunc(spec, func() {
		s.prune(pruner)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) prune(pruner RevocationPruner) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := pruner.PruneRevokedTokens(ctx, time.Now())
	if err != nil {
		s.log.WithError(err).Error("Failed to prune revoked tokens")
		return
	}
	s.log.Debugf("Pruned %d expired token revocations", n)
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
