package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"go.uber.org/zap"
)

type studentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	ListByTutor(ctx context.Context, tutorID int64) ([]*model.Student, error)
	UpdateSchedule(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AddStudentRequest данные нового ученика
type AddStudentRequest struct {
	TutorID         int64               `validate:"required"`
	Name            string              `validate:"required,max=100"`
	SessionTime     string              `validate:"omitempty,clock"`
	SessionDuration int                 `validate:"omitempty,min=15,max=480"`
	SessionType     model.SessionType   `validate:"omitempty,oneof=onsite online"`
	ScheduleDays    []model.ScheduleDay `validate:"dive"`
	CustomPrice     *int                `validate:"omitempty,min=0"`
	MonthlyLimit    int                 `validate:"min=0"`
}

// UpdateScheduleRequest новое регулярное расписание ученика
type UpdateScheduleRequest struct {
	TutorID         int64               `validate:"required"`
	StudentID       uuid.UUID           `validate:"-"`
	SessionTime     string              `validate:"omitempty,clock"`
	SessionDuration int                 `validate:"omitempty,min=15,max=480"`
	ScheduleDays    []model.ScheduleDay `validate:"dive"`
}

type StudentService struct {
	studentRepo studentRepository
	roster      rosterLoader
	settings    settingsProvider
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

func NewStudentService(
	studentRepo studentRepository,
	roster rosterLoader,
	settings settingsProvider,
	validate *validator.Validate,
	logger *zap.Logger,
) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		studentRepo: studentRepo,
		roster:      roster,
		settings:    settings,
		validator:   ensureValidator(validate),
		logger:      logger,
		now:         time.Now,
	}
}

// Add добавляет ученика. Конфликты дней расписания с другими учениками
// возвращаются как предупреждение и не мешают сохранению.
func (s *StudentService) Add(ctx context.Context, req AddStudentRequest) (*model.Student, []schedule.DayConflict, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, validationError(err)
	}
	if err := validateScheduleDays(req.ScheduleDays); err != nil {
		return nil, nil, err
	}

	snap, err := loadSnapshot(ctx, s.roster, s.settings, req.TutorID)
	if err != nil {
		return nil, nil, err
	}

	student := &model.Student{
		ID:              uuid.New(),
		TutorID:         req.TutorID,
		Name:            req.Name,
		SessionTime:     req.SessionTime,
		SessionDuration: req.SessionDuration,
		SessionType:     req.SessionType,
		ScheduleDays:    req.ScheduleDays,
		CustomPrice:     req.CustomPrice,
	}
	if student.SessionTime == "" {
		student.SessionTime = snap.settings.DefaultSessionTime
	}
	if student.SessionDuration == 0 {
		student.SessionDuration = snap.settings.DefaultSessionDuration
	}
	if student.SessionType == "" {
		student.SessionType = model.SessionTypeOnsite
	}
	if req.MonthlyLimit > 0 {
		student.CancellationPolicy = &model.CancellationPolicy{MonthlyLimit: req.MonthlyLimit}
	}

	conflicts := conflictingDays(snap.detector.CheckScheduleDays(
		snap.roster, student.ID, student.ScheduleDays, student.SessionTime, student.SessionDuration, s.now(),
	))

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, nil, fmt.Errorf("create student: %w", err)
	}

	s.logger.Info("Student added",
		zap.Int64("tutor_id", req.TutorID),
		zap.String("student_id", student.ID.String()),
		zap.String("name", student.Name),
		zap.Int("schedule_days", len(student.ScheduleDays)),
		zap.Int("conflicting_days", len(conflicts)),
	)

	return student, conflicts, nil
}

// List возвращает учеников репетитора с занятиями
func (s *StudentService) List(ctx context.Context, tutorID int64) ([]*model.Student, error) {
	students, err := s.roster.LoadRoster(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return students, nil
}

// Get получает ученика репетитора по ID
func (s *StudentService) Get(ctx context.Context, tutorID int64, studentID uuid.UUID) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil || student.TutorID != tutorID {
		return nil, ErrStudentNotFound
	}
	return student, nil
}

// FindByName ищет ученика по имени без учёта регистра
func (s *StudentService) FindByName(ctx context.Context, tutorID int64, name string) (*model.Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrStudentNotFound
	}

	students, err := s.studentRepo.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	for _, student := range students {
		if strings.EqualFold(student.Name, name) {
			return student, nil
		}
	}
	return nil, ErrStudentNotFound
}

// Remove удаляет ученика вместе с занятиями
func (s *StudentService) Remove(ctx context.Context, tutorID int64, studentID uuid.UUID) error {
	student, err := s.Get(ctx, tutorID, studentID)
	if err != nil {
		return err
	}

	if err := s.studentRepo.Delete(ctx, student.ID); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	s.logger.Info("Student removed",
		zap.Int64("tutor_id", tutorID),
		zap.String("student_id", student.ID.String()),
		zap.String("name", student.Name),
	)
	return nil
}

// UpdateSchedule меняет регулярное расписание ученика, конфликты возвращаются как предупреждение
func (s *StudentService) UpdateSchedule(ctx context.Context, req UpdateScheduleRequest) (*model.Student, []schedule.DayConflict, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, validationError(err)
	}
	if err := validateScheduleDays(req.ScheduleDays); err != nil {
		return nil, nil, err
	}

	snap, err := loadSnapshot(ctx, s.roster, s.settings, req.TutorID)
	if err != nil {
		return nil, nil, err
	}

	student := snap.student(req.StudentID)
	if student == nil {
		return nil, nil, ErrStudentNotFound
	}

	if req.SessionTime != "" {
		student.SessionTime = req.SessionTime
	}
	if req.SessionDuration > 0 {
		student.SessionDuration = req.SessionDuration
	}
	student.ScheduleDays = req.ScheduleDays

	conflicts := conflictingDays(snap.detector.CheckScheduleDays(
		snap.roster, student.ID, student.ScheduleDays, student.SessionTime, student.SessionDuration, s.now(),
	))

	if err := s.studentRepo.UpdateSchedule(ctx, student); err != nil {
		return nil, nil, fmt.Errorf("update schedule: %w", err)
	}

	s.logger.Info("Student schedule updated",
		zap.Int64("tutor_id", req.TutorID),
		zap.String("student_id", student.ID.String()),
		zap.String("session_time", student.SessionTime),
		zap.Int("schedule_days", len(student.ScheduleDays)),
		zap.Int("conflicting_days", len(conflicts)),
	)

	return student, conflicts, nil
}

// validateScheduleDays запрещает повтор дня недели
func validateScheduleDays(days []model.ScheduleDay) error {
	seen := make(map[int]struct{}, len(days))
	for _, day := range days {
		if _, ok := seen[day.DayOfWeek]; ok {
			return fmt.Errorf("%w: duplicate day of week %d", ErrValidation, day.DayOfWeek)
		}
		seen[day.DayOfWeek] = struct{}{}
	}
	return nil
}

func conflictingDays(results []schedule.DayConflict) []schedule.DayConflict {
	var conflicts []schedule.DayConflict
	for _, r := range results {
		if r.Result.HasConflict() {
			conflicts = append(conflicts, r)
		}
	}
	return conflicts
}
