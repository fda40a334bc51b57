package service

import (
	"context"
	"fmt"
	"time"

	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"go.uber.org/zap"
)

// ScheduleService отвечает на вопросы о расписании репетитора.
// Ростер загружается заново на каждый вызов.
type ScheduleService struct {
	roster   rosterLoader
	settings settingsProvider
	metrics  *MetricsService
	logger   *zap.Logger
}

func NewScheduleService(roster rosterLoader, settings settingsProvider, metrics *MetricsService, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		roster:   roster,
		settings: settings,
		metrics:  metrics,
		logger:   logger,
	}
}

// CheckConflict проверяет предлагаемое время по ростеру репетитора
func (s *ScheduleService) CheckConflict(ctx context.Context, tutorID int64, candidate schedule.Candidate) (schedule.ConflictResult, error) {
	if !schedule.IsValidDate(candidate.Date) {
		return schedule.ConflictResult{}, fmt.Errorf("%w: invalid date %q", ErrValidation, candidate.Date)
	}
	if candidate.StartTime != "" {
		if _, err := schedule.ParseClock(candidate.StartTime); err != nil {
			return schedule.ConflictResult{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	snap, err := loadSnapshot(ctx, s.roster, s.settings, tutorID)
	if err != nil {
		return schedule.ConflictResult{}, err
	}

	result := snap.detector.CheckConflict(snap.roster, candidate)
	s.metrics.ObserveConflictCheck("check", result.Severity)

	s.logger.Debug("Conflict checked",
		zap.Int64("tutor_id", tutorID),
		zap.String("date", candidate.Date),
		zap.String("time", candidate.StartTime),
		zap.Stringer("severity", result.Severity),
	)
	return result, nil
}

// DayOverview занятия дня с промежутками и отметками конфликтов
func (s *ScheduleService) DayOverview(ctx context.Context, tutorID int64, date string) ([]schedule.DaySession, error) {
	if !schedule.IsValidDate(date) {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}

	snap, err := loadSnapshot(ctx, s.roster, s.settings, tutorID)
	if err != nil {
		return nil, err
	}

	return snap.detector.SessionsWithGaps(snap.roster, date), nil
}

// DaySessions все занятия дня в любом статусе, отсортированные по времени начала
func (s *ScheduleService) DaySessions(ctx context.Context, tutorID int64, date string) ([]schedule.DaySession, error) {
	if !schedule.IsValidDate(date) {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}

	snap, err := loadSnapshot(ctx, s.roster, s.settings, tutorID)
	if err != nil {
		return nil, err
	}

	return snap.daySessions(date), nil
}

// WeekDay занятия одного дня недели
type WeekDay struct {
	Date     string
	Sessions []schedule.DaySession
}

// Week занятия семи дней начиная с from, ростер загружается один раз
func (s *ScheduleService) Week(ctx context.Context, tutorID int64, from string) ([]WeekDay, error) {
	start, err := time.Parse(model.DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, from)
	}

	snap, err := loadSnapshot(ctx, s.roster, s.settings, tutorID)
	if err != nil {
		return nil, err
	}

	week := make([]WeekDay, 0, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format(model.DateLayout)
		week = append(week, WeekDay{Date: date, Sessions: snap.daySessions(date)})
	}
	return week, nil
}

// SuggestSlots варианты начала занятия в рабочих часах
func (s *ScheduleService) SuggestSlots(ctx context.Context, tutorID int64, date string, duration int) ([]schedule.SlotSuggestion, error) {
	if !schedule.IsValidDate(date) {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}

	snap, err := loadSnapshot(ctx, s.roster, s.settings, tutorID)
	if err != nil {
		return nil, err
	}

	return snap.detector.FreeSlots(snap.roster, date, duration, snap.settings, 0), nil
}

// Settings настройки расписания репетитора
func (s *ScheduleService) Settings(ctx context.Context, tutorID int64) (model.Settings, error) {
	return s.settings.Settings(ctx, tutorID)
}
