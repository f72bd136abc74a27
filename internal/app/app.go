package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/aquabuddy/internal/config"
	"github.com/templui/aquabuddy/internal/db"
	"github.com/templui/aquabuddy/internal/middleware"
	"github.com/templui/aquabuddy/internal/repository"
	"github.com/templui/aquabuddy/internal/service"
	"github.com/templui/aquabuddy/internal/worker"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	PushService         service.PushSender
	EmailService        *service.EmailService
	NotificationService *service.NotificationService
	CaregiverService    *service.CaregiverService
	CaregiverLimiter    *middleware.RateLimiter
	Worker              *worker.Runner
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pushService, err := service.NewPushService(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile, cfg.AppURL, cfg.IsDevelopment())
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize push service: %w", err)
	}

	return Assemble(cfg, database, pushService), nil
}

// Assemble wires repositories, services and background tasks around an open
// database and a push transport.
func Assemble(cfg *config.Config, database *sqlx.DB, push service.PushSender) *App {
	// Repositories
	notificationRepository := repository.NewNotificationRepository(database)
	caregiverRepository := repository.NewCaregiverRepository(database)

	// Services
	emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppName, cfg.IsDevelopment())
	notificationService := service.NewNotificationService(notificationRepository, push, service.NotificationOptions{
		DefaultTitle: cfg.DefaultTitle,
		DrainBatch:   cfg.DrainBatchSize,
		CleanupBatch: cfg.CleanupBatchSize,
		Retention:    cfg.Retention,
	})
	caregiverService := service.NewCaregiverService(caregiverRepository, emailService)

	// 5 caregiver emails per 15 minutes per client
	caregiverLimiter := middleware.NewRateLimiter(5, 15*time.Minute)

	// Background tasks
	runner := worker.NewRunner(
		worker.Task{
			Name:     "drain",
			Interval: cfg.DrainInterval,
			Run: func(ctx context.Context) error {
				_, err := notificationService.DrainDue(ctx)
				return err
			},
		},
		worker.Task{
			Name:     "cleanup",
			Interval: cfg.CleanupInterval,
			Run: func(ctx context.Context) error {
				_, err := notificationService.CleanupSent(ctx)
				return err
			},
		},
		worker.Task{
			Name:     "ratelimit-sweep",
			Interval: 5 * time.Minute,
			Run: func(ctx context.Context) error {
				caregiverLimiter.Sweep()
				return nil
			},
		},
	)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		PushService:         push,
		EmailService:        emailService,
		NotificationService: notificationService,
		CaregiverService:    caregiverService,
		CaregiverLimiter:    caregiverLimiter,
		Worker:              runner,
	}
}

func (a *App) Close() error {
	if a.Worker != nil {
		a.Worker.Stop()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
