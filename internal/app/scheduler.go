package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// sessionGenerator создаёт занятия по регулярному расписанию
type sessionGenerator interface {
	GenerateUpcoming(ctx context.Context, weeksAhead int) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	generator  sessionGenerator
	weeksAhead int
	interval   time.Duration
	logger     *zap.Logger
	stopChan   chan struct{}
	done       chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(generator sessionGenerator, weeksAhead int, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		generator:  generator,
		weeksAhead: weeksAhead,
		interval:   interval,
		logger:     logger,
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Int("weeks_ahead", s.weeksAhead),
		zap.Duration("interval", s.interval),
	)

	go s.runGenerationTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	<-s.done
}

// runGenerationTask периодически создаёт занятия по расписанию учеников
func (s *Scheduler) runGenerationTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.generateSessions(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.generateSessions(ctx)
		case <-s.stopChan:
			s.logger.Info("Session generation task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Session generation task cancelled")
			return
		}
	}
}

func (s *Scheduler) generateSessions(ctx context.Context) {
	s.logger.Info("Starting automatic session generation")

	created, err := s.generator.GenerateUpcoming(ctx, s.weeksAhead)
	if err != nil {
		s.logger.Error("Failed to generate sessions", zap.Error(err))
		return
	}

	s.logger.Info("Automatic session generation completed", zap.Int("created", created))
}
