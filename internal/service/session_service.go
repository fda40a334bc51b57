package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"go.uber.org/zap"
)

type sessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	CreateBatch(ctx context.Context, sessions []*model.Session) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.SessionStatus) error
}

type tutorLister interface {
	TutorIDs(ctx context.Context) ([]int64, error)
}

// AddSessionRequest разовое занятие ученика
type AddSessionRequest struct {
	TutorID   int64     `validate:"required"`
	StudentID uuid.UUID `validate:"-"`
	Date      string    `validate:"required,isodate"`
	Time      string    `validate:"omitempty,clock"`
	Duration  int       `validate:"omitempty,min=15,max=480"`
	Topic     string    `validate:"max=200"`
	Notes     string    `validate:"max=1000"`
}

type SessionService struct {
	sessionRepo sessionRepository
	roster      rosterLoader
	settings    settingsProvider
	tutors      tutorLister
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time

	// генерация по расписанию для одного репетитора идёт по очереди
	generation *tutorLocks
}

func NewSessionService(
	sessionRepo sessionRepository,
	roster rosterLoader,
	settings settingsProvider,
	tutors tutorLister,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		sessionRepo: sessionRepo,
		roster:      roster,
		settings:    settings,
		tutors:      tutors,
		metrics:     metrics,
		validator:   ensureValidator(validate),
		logger:      logger,
		now:         time.Now,
		generation:  newTutorLocks(),
	}
}

// AddSession создаёт занятие. Результат проверки конфликтов возвращается
// вместе с занятием и не блокирует создание.
func (s *SessionService) AddSession(ctx context.Context, req AddSessionRequest) (*model.Session, schedule.ConflictResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, schedule.ConflictResult{}, validationError(err)
	}

	snap, err := loadSnapshot(ctx, s.roster, s.settings, req.TutorID)
	if err != nil {
		return nil, schedule.ConflictResult{}, err
	}

	student := snap.student(req.StudentID)
	if student == nil {
		return nil, schedule.ConflictResult{}, ErrStudentNotFound
	}

	session := &model.Session{
		ID:        uuid.New(),
		StudentID: student.ID,
		Date:      req.Date,
		Time:      req.Time,
		Duration:  req.Duration,
		Status:    model.SessionStatusScheduled,
		Topic:     req.Topic,
		Notes:     req.Notes,
	}

	defaults := snap.detector.Defaults()
	result := snap.detector.CheckConflict(snap.roster, schedule.Candidate{
		Date:      session.Date,
		StartTime: schedule.EffectiveTime(session, student, defaults),
		Duration:  schedule.EffectiveDuration(session, student, defaults),
		StudentID: student.ID,
	})
	s.metrics.ObserveConflictCheck("add_session", result.Severity)

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, result, fmt.Errorf("create session: %w", err)
	}

	fields := []zap.Field{
		zap.Int64("tutor_id", req.TutorID),
		zap.String("student_id", student.ID.String()),
		zap.String("session_id", session.ID.String()),
		zap.String("date", session.Date),
		zap.Stringer("severity", result.Severity),
		zap.Int("conflicts", len(result.Conflicts)),
	}
	if result.Severity == schedule.SeverityError {
		s.logger.Warn("Session added over a conflict", fields...)
	} else {
		s.logger.Info("Session added", fields...)
	}

	return session, result, nil
}

// Complete отмечает занятие проведённым
func (s *SessionService) Complete(ctx context.Context, tutorID int64, sessionID uuid.UUID) (*model.Session, error) {
	_, _, session, err := s.prepareTransition(ctx, tutorID, sessionID, model.SessionStatusCompleted)
	if err != nil {
		return nil, err
	}
	if err := s.applyStatus(ctx, tutorID, session, model.SessionStatusCompleted); err != nil {
		return nil, err
	}
	return session, nil
}

// Cancel отменяет занятие и возвращает сводку по лимиту отмен за месяц
func (s *SessionService) Cancel(ctx context.Context, tutorID int64, sessionID uuid.UUID) (*model.Session, schedule.CancellationSummary, error) {
	_, student, session, err := s.prepareTransition(ctx, tutorID, sessionID, model.SessionStatusCancelled)
	if err != nil {
		return nil, schedule.CancellationSummary{}, err
	}
	if err := s.applyStatus(ctx, tutorID, session, model.SessionStatusCancelled); err != nil {
		return nil, schedule.CancellationSummary{}, err
	}

	// статус уже обновлён в ростере, сводка учитывает эту отмену
	summary := schedule.CancellationStatus(student, session.Date)
	if summary.LimitReached {
		s.logger.Info("Cancellation limit reached",
			zap.String("student_id", student.ID.String()),
			zap.String("month", summary.Month),
			zap.Int("used", summary.Used),
			zap.Int("limit", summary.Limit),
		)
	}
	return session, summary, nil
}

// MarkVacation отмечает занятие каникулами
func (s *SessionService) MarkVacation(ctx context.Context, tutorID int64, sessionID uuid.UUID) (*model.Session, error) {
	_, _, session, err := s.prepareTransition(ctx, tutorID, sessionID, model.SessionStatusVacation)
	if err != nil {
		return nil, err
	}
	if err := s.applyStatus(ctx, tutorID, session, model.SessionStatusVacation); err != nil {
		return nil, err
	}
	return session, nil
}

// Restore возвращает занятие в статус scheduled. При конфликте уровня error
// без force занятие не меняется и возвращается ErrRestoreConflict.
func (s *SessionService) Restore(ctx context.Context, tutorID int64, sessionID uuid.UUID, force bool) (*model.Session, schedule.ConflictResult, error) {
	snap, student, session, err := s.prepareTransition(ctx, tutorID, sessionID, model.SessionStatusScheduled)
	if err != nil {
		return nil, schedule.ConflictResult{}, err
	}

	result := snap.detector.CheckRestoreConflict(snap.roster, student.ID, session.ID)
	s.metrics.ObserveConflictCheck("restore", result.Severity)

	if result.Severity == schedule.SeverityError && !force {
		s.logger.Info("Restore blocked by conflict",
			zap.Int64("tutor_id", tutorID),
			zap.String("session_id", session.ID.String()),
			zap.Int("conflicts", len(result.Conflicts)),
		)
		return session, result, ErrRestoreConflict
	}

	if err := s.applyStatus(ctx, tutorID, session, model.SessionStatusScheduled); err != nil {
		return nil, result, err
	}
	return session, result, nil
}

// GenerateUpcoming создаёт занятия по регулярному расписанию всех учеников
// всех репетиторов на weeksAhead недель вперёд
func (s *SessionService) GenerateUpcoming(ctx context.Context, weeksAhead int) (int, error) {
	tutorIDs, err := s.tutors.TutorIDs(ctx)
	if err != nil {
		s.metrics.ObserveGenerationRun(err)
		return 0, fmt.Errorf("get tutors: %w", err)
	}

	total := 0
	for _, tutorID := range tutorIDs {
		count, err := s.GenerateForTutor(ctx, tutorID, weeksAhead)
		if err != nil {
			s.logger.Error("Failed to generate sessions for tutor",
				zap.Error(err),
				zap.Int64("tutor_id", tutorID),
			)
			continue
		}
		total += count
	}

	s.metrics.ObserveGenerationRun(nil)
	s.logger.Info("Generated sessions for all tutors",
		zap.Int("total_tutors", len(tutorIDs)),
		zap.Int("total_sessions_created", total),
	)
	return total, nil
}

// GenerateForTutor создаёт занятия по расписанию учеников одного репетитора
func (s *SessionService) GenerateForTutor(ctx context.Context, tutorID int64, weeksAhead int) (int, error) {
	if weeksAhead <= 0 {
		return 0, nil
	}

	// ростер читается под блокировкой, иначе параллельный запуск создаст те же даты
	unlock := s.generation.lock(tutorID)
	defer unlock()

	snap, err := loadSnapshot(ctx, s.roster, s.settings, tutorID)
	if err != nil {
		return 0, err
	}

	from := s.now()
	to := from.AddDate(0, 0, weeksAhead*7-1)

	var created []*model.Session
	conflicting := 0
	for _, student := range snap.roster {
		generated := schedule.GenerateSessions(student, from, to)
		if len(generated) == 0 {
			continue
		}

		defaults := snap.detector.Defaults()
		for _, session := range generated {
			result := snap.detector.CheckConflict(snap.roster, schedule.Candidate{
				Date:      session.Date,
				StartTime: schedule.EffectiveTime(session, student, defaults),
				Duration:  schedule.EffectiveDuration(session, student, defaults),
				StudentID: student.ID,
			})
			if result.Severity == schedule.SeverityError {
				conflicting++
			}
		}

		// следующие ученики проверяются с учётом уже созданных занятий
		student.Sessions = append(student.Sessions, generated...)
		created = append(created, generated...)
	}

	if len(created) == 0 {
		return 0, nil
	}

	if err := s.sessionRepo.CreateBatch(ctx, created); err != nil {
		return 0, fmt.Errorf("create generated sessions: %w", err)
	}
	s.metrics.AddGeneratedSessions(len(created))

	s.logger.Info("Sessions generated",
		zap.Int64("tutor_id", tutorID),
		zap.Int("created", len(created)),
		zap.Int("conflicting", conflicting),
		zap.String("from", from.Format(model.DateLayout)),
		zap.String("to", to.Format(model.DateLayout)),
	)
	return len(created), nil
}

// prepareTransition загружает ростер и проверяет, что занятие принадлежит
// репетитору и может перейти в статус to
func (s *SessionService) prepareTransition(ctx context.Context, tutorID int64, sessionID uuid.UUID, to model.SessionStatus) (*snapshot, *model.Student, *model.Session, error) {
	snap, err := loadSnapshot(ctx, s.roster, s.settings, tutorID)
	if err != nil {
		return nil, nil, nil, err
	}

	student, session := snap.session(sessionID)
	if session == nil {
		return nil, nil, nil, ErrSessionNotFound
	}
	if !session.CanTransition(to) {
		return nil, nil, nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, session.Status, to)
	}

	return snap, student, session, nil
}

func (s *SessionService) applyStatus(ctx context.Context, tutorID int64, session *model.Session, to model.SessionStatus) error {
	from := session.Status
	if err := s.sessionRepo.UpdateStatus(ctx, session.ID, to); err != nil {
		return fmt.Errorf("update session status: %w", err)
	}

	session.Status = to
	session.UpdatedAt = s.now()
	s.metrics.ObserveTransition(from, to)

	s.logger.Info("Session status changed",
		zap.Int64("tutor_id", tutorID),
		zap.String("session_id", session.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return nil
}
