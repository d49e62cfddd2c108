package scheduler

import (
	"context"
	"fmt"
	"time"

	"raf_pnp_backend/platform/config"
	"raf_pnp_backend/platform/logger"

	"github.com/hibiken/asynq"
)

const (
	defaultOverdueCron  = "0 7 * * *"
	defaultDeadlineCron = "30 7 * * *"
)

// Worker processes queued jobs and enqueues the periodic scans.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, jobs *Jobs, loc *time.Location, log *logger.Logger) (*Worker, error) {
	opt, err := redisConnOpt(cfg)
	if err != nil {
		return nil, err
	}
	queue := queueName(cfg)

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	if loc == nil {
		loc = time.UTC
	}
	periodic := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: loc})
	if err := registerPeriodic(periodic, queue, cfg.GetOverdueScanCron(), cfg.GetDeadlineScanCron()); err != nil {
		return nil, err
	}

	mux := asynq.NewServeMux()
	jobs.Register(mux)

	return &Worker{
		server:    server,
		scheduler: periodic,
		mux:       mux,
		log:       log,
	}, nil
}

// periodicRegistrar is the part of asynq.Scheduler used for cron entries.
type periodicRegistrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

func registerPeriodic(s periodicRegistrar, queue, overdueCron, deadlineCron string) error {
	if overdueCron == "" {
		overdueCron = defaultOverdueCron
	}
	if deadlineCron == "" {
		deadlineCron = defaultDeadlineCron
	}
	if _, err := s.Register(overdueCron, asynq.NewTask(TaskScanOverdue, nil), asynq.Queue(queue)); err != nil {
		return fmt.Errorf("register overdue scan: %w", err)
	}
	if _, err := s.Register(deadlineCron, asynq.NewTask(TaskScanDeadlines, nil), asynq.Queue(queue)); err != nil {
		return fmt.Errorf("register deadline scan: %w", err)
	}
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	if err := w.scheduler.Start(); err != nil {
		w.log.Error("periodic scheduler failed to start", "error", err)
		return
	}

	go func() {
		<-ctx.Done()
		w.scheduler.Shutdown()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
