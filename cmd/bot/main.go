package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/omarhammouda0/session-smart-buddy/internal/app"
	"github.com/omarhammouda0/session-smart-buddy/internal/config"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller"
	"github.com/omarhammouda0/session-smart-buddy/internal/migrations"
	"github.com/omarhammouda0/session-smart-buddy/internal/repository"
	"github.com/omarhammouda0/session-smart-buddy/internal/service"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting session bot",
		zap.String("environment", cfg.Environment),
		zap.Int("weeks_ahead", cfg.Generation.WeeksAhead))

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("✅ Connected to database")

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		_ = migrator.Close()
		return err
	}
	_ = migrator.Close()

	// Репозитории
	tutorRepo := repository.NewTutorRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	roster := repository.NewRosterRepository(studentRepo, sessionRepo)

	// Сервисы
	validate := service.NewValidator()
	metrics := service.NewMetricsService()

	tutorService := service.NewTutorService(tutorRepo, settingsRepo, cfg.Settings(), logger)
	studentService := service.NewStudentService(studentRepo, roster, tutorService, validate, logger)
	sessionService := service.NewSessionService(sessionRepo, roster, tutorService, tutorService, metrics, validate, logger)
	scheduleService := service.NewScheduleService(roster, tutorService, metrics, logger)

	scheduler := app.NewScheduler(sessionService, cfg.Generation.WeeksAhead, cfg.Generation.Interval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	ops := app.NewOpsServer(cfg.OpsAddr, cfg.IsProduction(), pool, metrics.Handler(), logger)
	ops.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := ops.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to stop ops server", zap.Error(err))
		}
	}()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, controller.Services{
		Tutors:   tutorService,
		Students: studentService,
		Sessions: sessionService,
		Schedule: scheduleService,
	}, cfg.Generation.WeeksAhead, logger)

	if err := botController.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично для работы
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	// Блокируется до сигнала остановки
	return botController.Start(ctx)
}
