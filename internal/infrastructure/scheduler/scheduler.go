// Package scheduler runs periodic background jobs such as the alert snapshot refresh.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"kiosko/internal/domain/alerts"
	"kiosko/pkg/logger"
)

// DefaultJobTimeout bounds a single job run.
const DefaultJobTimeout = 2 * time.Minute

// Job is a named unit of periodic work.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler manages scheduled jobs.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	timeout time.Duration
}

// New creates a scheduler evaluating cron specs in loc (UTC when nil).
func New(loc *time.Location, log *logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		log:     log.WithComponent("scheduler"),
		timeout: DefaultJobTimeout,
	}
}

// Add registers job. The spec uses the standard five cron fields.
func (s *Scheduler) Add(job Job) error {
	if job.Run == nil {
		return fmt.Errorf("job %s has no run function", job.Name)
	}
	if _, err := s.cron.AddFunc(job.Spec, func() { s.run(job) }); err != nil {
		return fmt.Errorf("schedule %s (%q): %w", job.Name, job.Spec, err)
	}
	s.log.Infow("job scheduled", "job", job.Name, "spec", job.Spec)
	return nil
}

// Start starts the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.log.Info("starting scheduler")
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	s.log.Info("stopping scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stopped with jobs still running")
	}
}

// RunNow executes job synchronously, as the cron trigger would.
func (s *Scheduler) RunNow(job Job) {
	s.run(job)
}

func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("job panicked", "job", job.Name, "panic", r)
		}
	}()

	if err := job.Run(ctx); err != nil {
		s.log.Errorw("job failed", "job", job.Name, "error", err, "duration", time.Since(started))
		return
	}
	s.log.Infow("job finished", "job", job.Name, "duration", time.Since(started))
}

// AlertsJob refreshes the cached alert snapshot.
func AlertsJob(spec string, svc *alerts.Service) Job {
	return Job{
		Name: "alerts-refresh",
		Spec: spec,
		Run: func(ctx context.Context) error {
			_, err := svc.Refresh(ctx)
			return err
		},
	}
}
