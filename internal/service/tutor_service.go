package service

import (
	"context"
	"fmt"

	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"go.uber.org/zap"
)

type tutorRepository interface {
	Create(ctx context.Context, tutor *model.Tutor) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Tutor, error)
	Update(ctx context.Context, tutor *model.Tutor) error
	ListIDs(ctx context.Context) ([]int64, error)
}

type settingsRepository interface {
	Get(ctx context.Context, tutorID int64) (*model.Settings, error)
	Upsert(ctx context.Context, tutorID int64, settings model.Settings) error
}

// settingsProvider отдаёт настройки расписания репетитора
type settingsProvider interface {
	Settings(ctx context.Context, tutorID int64) (model.Settings, error)
}

type TutorService struct {
	tutorRepo    tutorRepository
	settingsRepo settingsRepository
	defaults     model.Settings
	logger       *zap.Logger
}

func NewTutorService(tutorRepo tutorRepository, settingsRepo settingsRepository, defaults model.Settings, logger *zap.Logger) *TutorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TutorService{
		tutorRepo:    tutorRepo,
		settingsRepo: settingsRepo,
		defaults:     mergeSettings(model.DefaultSettings(), defaults),
		logger:       logger,
	}
}

// Register регистрирует или обновляет репетитора
func (s *TutorService) Register(ctx context.Context, telegramID int64, username, firstName string) (*model.Tutor, error) {
	existing, err := s.tutorRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing tutor: %w", err)
	}

	if existing != nil {
		existing.Username = username
		existing.FirstName = firstName

		if err := s.tutorRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update tutor: %w", err)
		}

		s.logger.Debug("Tutor updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)
		return existing, nil
	}

	tutor := &model.Tutor{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
	}
	if err := s.tutorRepo.Create(ctx, tutor); err != nil {
		return nil, fmt.Errorf("create tutor: %w", err)
	}

	s.logger.Info("New tutor registered",
		zap.Int64("tutor_id", tutor.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
	)

	return tutor, nil
}

// GetByTelegramID получает репетитора по Telegram ID
func (s *TutorService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Tutor, error) {
	return s.tutorRepo.GetByTelegramID(ctx, telegramID)
}

// TutorIDs возвращает ID всех репетиторов
func (s *TutorService) TutorIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.tutorRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	return ids, nil
}

// Settings возвращает настройки репетитора, незаданные поля берутся из умолчаний
func (s *TutorService) Settings(ctx context.Context, tutorID int64) (model.Settings, error) {
	stored, err := s.settingsRepo.Get(ctx, tutorID)
	if err != nil {
		return model.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	if stored == nil {
		return s.defaults, nil
	}
	return mergeSettings(s.defaults, *stored), nil
}

// UpdateSettings сохраняет настройки репетитора
func (s *TutorService) UpdateSettings(ctx context.Context, tutorID int64, settings model.Settings) (model.Settings, error) {
	if settings.ClosenessThreshold < 0 {
		return model.Settings{}, fmt.Errorf("%w: closeness threshold must not be negative", ErrValidation)
	}

	merged := mergeSettings(s.defaults, settings)
	for _, clock := range []string{merged.DefaultSessionTime, merged.WorkingHoursStart, merged.WorkingHoursEnd} {
		if _, err := schedule.ParseClock(clock); err != nil {
			return model.Settings{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if schedule.ClockMinutes(merged.WorkingHoursEnd) <= schedule.ClockMinutes(merged.WorkingHoursStart) {
		return model.Settings{}, fmt.Errorf("%w: working hours end must be after start", ErrValidation)
	}

	if err := s.settingsRepo.Upsert(ctx, tutorID, merged); err != nil {
		return model.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	s.logger.Info("Settings updated",
		zap.Int64("tutor_id", tutorID),
		zap.Int("default_duration", merged.DefaultSessionDuration),
		zap.Int("closeness_threshold", merged.ClosenessThreshold),
	)
	return merged, nil
}

// mergeSettings заполняет пустые поля override значениями base.
// Порог близости берётся из override как есть: 0 отключает предупреждения.
func mergeSettings(base, override model.Settings) model.Settings {
	merged := override
	if merged.DefaultSessionDuration <= 0 {
		merged.DefaultSessionDuration = base.DefaultSessionDuration
	}
	if merged.DefaultSessionTime == "" {
		merged.DefaultSessionTime = base.DefaultSessionTime
	}
	if merged.WorkingHoursStart == "" {
		merged.WorkingHoursStart = base.WorkingHoursStart
	}
	if merged.WorkingHoursEnd == "" {
		merged.WorkingHoursEnd = base.WorkingHoursEnd
	}
	return merged
}
