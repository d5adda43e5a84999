package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/gugu/internal/config"
	"github.com/templui/gugu/internal/db"
	"github.com/templui/gugu/internal/repository"
	"github.com/templui/gugu/internal/service"
	"github.com/templui/gugu/internal/storage"
)

type App struct {
	Cfg         *config.Config
	DB          *sqlx.DB
	Store       storage.Store
	Location    *time.Location
	Repository  repository.GoalRepository
	Reminders   *service.Reminders
	GoalManager *service.GoalManager
}

// New wires store backend, repository, reminders and the goal manager.
func New(ctx context.Context, cfg *config.Config, opts ...service.ManagerOption) (*App, error) {
	a := &App{Cfg: cfg}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a.Location = loc

	a.Store, err = a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Repository = repository.NewGoalRepository(
		a.Store,
		repository.WithLocation(loc),
	)

	sender, err := newSender(cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize reminders: %w", err)
	}
	a.Reminders = service.NewReminders(sender)

	managerOpts := []service.ManagerOption{
		service.WithManagerLocation(loc),
		service.WithCooldownPolicy(service.ParseCooldownPolicy(cfg.CooldownPolicy)),
		service.WithTickInterval(cfg.RefreshInterval),
	}
	a.GoalManager = service.NewGoalManager(ctx, a.Repository, a.Reminders, append(managerOpts, opts...)...)

	return a, nil
}

func (a *App) openStore(ctx context.Context) (storage.Store, error) {
	switch a.Cfg.StoreBackend {
	case config.StoreMemory:
		slog.Warn("using in-memory store, nothing will be persisted")
		return storage.NewMemoryStore(), nil

	case config.StoreS3:
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:    a.Cfg.S3Region,
			Bucket:    a.Cfg.S3Bucket,
			AccessKey: a.Cfg.S3AccessKey,
			SecretKey: a.Cfg.S3SecretKey,
			Endpoint:  a.Cfg.S3Endpoint,
			Prefix:    a.Cfg.S3Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		return store, nil

	default:
		database, err := db.Init(a.Cfg.DBDriver, a.Cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = database

		err = db.RunMigrations(ctx, database.DB, a.Cfg.DBDriver)
		if err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return storage.NewSQLStore(database), nil
	}
}

func newSender(cfg *config.Config) (service.Sender, error) {
	switch cfg.ReminderChannel {
	case config.ReminderEmail:
		return service.NewEmailSender(
			cfg.ResendAPIKey,
			cfg.EmailFrom,
			cfg.ReminderEmailTo,
			cfg.AppName,
			cfg.IsDevelopment(),
		), nil
	case config.ReminderTelegram:
		return service.NewTelegramSender(cfg.TelegramToken, cfg.TelegramChatID)
	default:
		return service.LogSender{}, nil
	}
}

func (a *App) Close() error {
	if a.GoalManager != nil {
		a.GoalManager.Close()
	}
	if a.Reminders != nil {
		a.Reminders.Stop()
	}
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
