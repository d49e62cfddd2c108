package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"raf_pnp_backend/internal/adapters"
	"raf_pnp_backend/internal/adapters/storage"
	"raf_pnp_backend/internal/cases"
	casedomain "raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/internal/clients"
	"raf_pnp_backend/internal/documents"
	"raf_pnp_backend/internal/email"
	"raf_pnp_backend/internal/events"
	"raf_pnp_backend/internal/experts"
	apphttp "raf_pnp_backend/internal/http"
	"raf_pnp_backend/internal/http/router"
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

// openDocumentStore connects to MinIO and makes sure the case documents
// bucket exists, retrying while the storage server starts up.
func openDocumentStore(ctx context.Context, cfg *config.Config, log *logger.Logger) *storage.MinIOStore {
	store, err := storage.NewMinIOStore(cfg, cfg.GetMinioBucketCaseDocuments())
	if err != nil {
		log.Error("failed to initialize document store", "error", err)
		panic("failed to initialize document store: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure case documents bucket", 5, 2*time.Second, func() error {
		return store.EnsureBucket(ctx)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", store.Bucket())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	return store
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, cfg.MigrationsDir)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	uow := db.NewTxManager(pool)
	system := actor.SystemFrom(cfg)

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender := email.NewSender(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()

	table, err := casedomain.ResolveTable(cfg.GetCaseTransitionPolicy(), cfg.GetCaseTransitionsFile())
	if err != nil {
		log.Error("failed to load case transition table", "error", err)
		panic("failed to load case transition table: " + err.Error())
	}
	engine := casedomain.NewEngine(table, cfg.GetLocation())
	log.Info("case lifecycle engine ready", "table", table.Name(), "timezone", cfg.GetLocation().String())

	// Case document storage (MinIO). Uploads are refused while it is unset.
	var documentStore storage.Store
	if cfg.IsMinIOEnabled() {
		store := openDocumentStore(ctx, cfg, log)
		documentStore = store
		log.Info("document store ready", "bucket", store.Bucket())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; document uploads disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	whatsappModule := whatsapp.NewModule(pool, cfg, val, log)

	// Notification module subscribes to domain events and fans out to channels
	notificationModule := notification.New(pool, whatsappModule.Transport(), sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)
	dispatcher := notificationModule.Dispatcher()

	usersModule := users.NewModule(pool, val, log)
	usersModule.Service().SetVerificationSender(whatsappModule.Messages())

	clientsModule := clients.NewModule(pool, val, log)

	casesModule := cases.NewModule(pool, uow, engine, eventBus, system, val, log)
	casesModule.Service().SetNotifier(dispatcher)

	teamsModule := teams.NewModule(pool, uow, val, log)
	teamsModule.Service().SetCaseAssigner(adapters.NewTeamCaseAssigner(casesModule.Service()))
	teamsModule.Service().SetNotifier(dispatcher)

	tasksModule := tasks.NewModule(pool, uow, eventBus, system, val, log)
	tasksModule.Service().SetCaseLookup(adapters.NewTaskCaseLookup(casesModule.Service()))
	tasksModule.Service().SetUserDirectory(adapters.NewUserDirectory(usersModule.Service()))
	tasksModule.Service().SetNotifier(dispatcher)

	notificationModule.SetRecipientReader(adapters.NewNotificationRecipients(usersModule.Service()))
	notificationModule.SetTeamMemberReader(teamsModule.Service())

	whatsappModule.SetDirectory(adapters.NewWhatsAppDirectory(usersModule.Service(), tasksModule.Service(), casesModule.Service()))

	documentsModule := documents.NewModule(pool, uow, documentStore, storage.Policy{MaxBytes: cfg.GetMinIOMaxFileSize()}, casesModule.Service(), eventBus, system, val, log)
	expertsModule := experts.NewModule(pool, uow, casesModule.Service(), cfg.GetLocation(), val, log)
	reportsModule := reports.NewModule(pool, expertsModule.Service(), cfg.GetLocation())

	// Due-soon reminders are queued in Redis for the scheduler process
	reminders, closeReminders := initReminderScheduler(cfg, log)
	if closeReminders != nil {
		defer closeReminders()
	}
	if reminders != nil {
		reminders.RegisterHandlers(eventBus)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			usersModule,
			teamsModule,
			clientsModule,
			casesModule,
			documentsModule,
			expertsModule,
			tasksModule,
			notificationModule,
			whatsappModule,
			reportsModule,
		},
	}

	httpEngine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(notificationModule.SSE().Close)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	if err := eventBus.Drain(shutdownCtx); err != nil {
		log.Warn("event handlers still running at shutdown", "error", err)
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; task due reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg, log)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
