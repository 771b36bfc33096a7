// Package schedule runs a repeating task with an explicit start/stop
// lifecycle.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gocron "github.com/go-co-op/gocron/v2"
)

// Task is the unit of work run on every tick. ctx is cancelled by Stop.
type Task func(ctx context.Context)

// Scheduler runs a Task every interval. Runs never overlap: a tick that
// arrives while the task is still running is skipped.
type Scheduler struct {
	interval time.Duration
	task     Task

	mu        sync.Mutex
	scheduler gocron.Scheduler
	job       gocron.Job
	cancel    context.CancelFunc
}

// New creates a scheduler. An interval of zero runs the task once on Start.
func New(interval time.Duration, task Task) (*Scheduler, error) {
	if task == nil {
		return nil, errors.New("schedule: task is nil")
	}
	if interval < 0 {
		return nil, fmt.Errorf("schedule: negative interval %s", interval)
	}
	return &Scheduler{interval: interval, task: task}, nil
}

// Start schedules the task, running it immediately. The context passed to
// the task derives from ctx and is cancelled by Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		return errors.New("schedule: already started")
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("initializing gocron scheduler: %w", err)
	}

	var def gocron.JobDefinition
	opts := []gocron.JobOption{
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if s.interval > 0 {
		def = gocron.DurationJob(s.interval)
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	} else {
		def = gocron.OneTimeJob(gocron.OneTimeJobStartImmediately())
	}

	taskCtx, cancel := context.WithCancel(ctx)
	job, err := sched.NewJob(def, gocron.NewTask(func() {
		if taskCtx.Err() != nil {
			return
		}
		s.task(taskCtx)
	}), opts...)
	if err != nil {
		cancel()
		_ = sched.Shutdown()
		return fmt.Errorf("initializing gocron job: %w", err)
	}

	slog.DebugContext(ctx, "starting scheduler", "interval", s.interval.String())
	sched.Start()

	s.scheduler = sched
	s.job = job
	s.cancel = cancel
	return nil
}

// RunNow runs the task outside the regular cadence.
func (s *Scheduler) RunNow() error {
	s.mu.Lock()
	job := s.job
	s.mu.Unlock()

	if job == nil {
		return errors.New("schedule: not started")
	}
	return job.RunNow()
}

// Stop cancels the running task's context and waits for the scheduler to
// shut down. It is safe to call more than once.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	sched, cancel := s.scheduler, s.cancel
	s.scheduler, s.job, s.cancel = nil, nil, nil
	s.mu.Unlock()

	if sched == nil {
		return nil
	}
	cancel()
	if err := sched.Shutdown(); err != nil {
		return fmt.Errorf("shutting down gocron: %w", err)
	}
	return nil
}
