package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"raf_pnp_backend/internal/adapters"
	"raf_pnp_backend/internal/email"
	"raf_pnp_backend/internal/events"
	"raf_pnp_backend/internal/experts"
	"raf_pnp_backend/internal/notification"
	"raf_pnp_backend/internal/reports"
	"raf_pnp_backend/internal/scheduler"
	"raf_pnp_backend/internal/tasks"
	"raf_pnp_backend/internal/teams"
	"raf_pnp_backend/internal/users"
	"raf_pnp_backend/internal/whatsapp"
	"raf_pnp_backend/platform/actor"
	"raf_pnp_backend/platform/config"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "timezone", cfg.GetLocation().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	uow := db.NewTxManager(pool)
	system := actor.SystemFrom(cfg)
	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	// Worker-side notification wiring (no HTTP handlers required).
	whatsappModule := whatsapp.NewModule(pool, cfg, val, log)
	notificationModule := notification.New(pool, whatsappModule.Transport(), email.NewSender(cfg), cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	usersModule := users.NewModule(pool, val, log)
	teamsModule := teams.NewModule(pool, uow, val, log)
	notificationModule.SetRecipientReader(adapters.NewNotificationRecipients(usersModule.Service()))
	notificationModule.SetTeamMemberReader(teamsModule.Service())

	tasksModule := tasks.NewModule(pool, uow, eventBus, system, val, log)
	expertsModule := experts.NewModule(pool, uow, nil, cfg.GetLocation(), val, log)
	reportsModule := reports.NewModule(pool, expertsModule.Service(), cfg.GetLocation())

	jobs := scheduler.NewJobs(
		tasksModule.Service(),
		reportsModule.Service(),
		notificationModule.Dispatcher(),
		teamsModule.Service(),
		uow,
		system,
		cfg.GetDeadlineWarningDays(),
		log,
	)

	worker, err := scheduler.NewWorker(cfg, jobs, cfg.GetLocation(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)

	drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := eventBus.Drain(drainCtx); err != nil {
		log.Warn("event handlers still running at shutdown", "error", err)
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
