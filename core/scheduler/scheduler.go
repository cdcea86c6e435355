package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mdbase/core/logger"

	"github.com/robfig/cron/v3"
)

// CronTask describes a scheduled job.
type CronTask struct {
	Name        string
	Description string
	CronExpr    string
	Handler     func(ctx context.Context) error
	Enabled     bool
}

// CronScheduler wraps robfig/cron with task registration and logging.
type CronScheduler struct {
	cron   *cron.Cron
	logger logger.Logger

	mu    sync.Mutex
	tasks map[string]*CronTask
}

// NewCronScheduler creates an idle scheduler.
func NewCronScheduler(logger logger.Logger) *CronScheduler {
	return &CronScheduler{
		cron:   cron.New(),
		logger: logger,
		tasks:  make(map[string]*CronTask),
	}
}

// RegisterTask adds a task to the schedule. Disabled tasks are recorded but
// never scheduled.
func (s *CronScheduler) RegisterTask(task *CronTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.Name == "" {
		return fmt.Errorf("task name is required")
	}
	if _, exists := s.tasks[task.Name]; exists {
		return fmt.Errorf("task already registered: %s", task.Name)
	}

	s.tasks[task.Name] = task

	if !task.Enabled {
		s.logger.Info("Scheduled task registered but disabled",
			logger.String("task", task.Name))
		return nil
	}

	_, err := s.cron.AddFunc(task.CronExpr, func() {
		start := time.Now()
		if err := task.Handler(context.Background()); err != nil {
			s.logger.Error("Scheduled task failed",
				logger.String("task", task.Name),
				logger.String("error", err.Error()),
				logger.Duration("duration", time.Since(start)))
			return
		}
		s.logger.Info("Scheduled task completed",
			logger.String("task", task.Name),
			logger.Duration("duration", time.Since(start)))
	})
	if err != nil {
		delete(s.tasks, task.Name)
		return fmt.Errorf("failed to schedule task %s: %w", task.Name, err)
	}

	return nil
}

// Start launches the scheduler loop.
func (s *CronScheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs.
func (s *CronScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
