package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
)

// Severity серьёзность конфликта: none < warning < error
type Severity int

const (
	SeverityNone Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "none"
	}
}

// MarshalText сериализует серьёзность строкой
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Reason причина конфликта
type Reason string

const (
	ReasonExact   Reason = "exact"   // начало совпадает
	ReasonPartial Reason = "partial" // интервалы пересекаются
	ReasonClose   Reason = "close"   // не пересекаются, но промежуток меньше порога
)

func (r Reason) rank() int {
	switch r {
	case ReasonExact:
		return 3
	case ReasonPartial:
		return 2
	case ReasonClose:
		return 1
	default:
		return 0
	}
}

// Options параметры детектора
type Options struct {
	DefaultDuration    int    // длительность по умолчанию, минуты
	DefaultStartTime   string // время по умолчанию, "HH:MM"
	ClosenessThreshold int    // промежуток меньше порога даёт warning
}

// DefaultOptions возвращает параметры по умолчанию
func DefaultOptions() Options {
	return OptionsFromSettings(model.DefaultSettings())
}

// OptionsFromSettings строит параметры детектора из настроек
func OptionsFromSettings(settings model.Settings) Options {
	return Options{
		DefaultDuration:    settings.DefaultSessionDuration,
		DefaultStartTime:   settings.DefaultSessionTime,
		ClosenessThreshold: settings.ClosenessThreshold,
	}
}

// Candidate предлагаемое время, ещё не сохранённое
type Candidate struct {
	Date      string // "YYYY-MM-DD"
	StartTime string // "HH:MM"
	Duration  int    // 0 = длительность по умолчанию

	// StudentID ученик, для которого проверяется время; его занятия не участвуют
	StudentID uuid.UUID
	// IgnoreSessionID занятие, которое не сравнивается само с собой
	IgnoreSessionID uuid.UUID
}

// Conflict конкретное занятие, вызвавшее конфликт
type Conflict struct {
	Student    *model.Student
	Session    *model.Session
	Interval   Interval
	Severity   Severity
	Reason     Reason
	GapMinutes int
}

// ConflictResult результат проверки одного кандидата
type ConflictResult struct {
	Severity  Severity
	Conflicts []Conflict
}

// HasConflict есть ли хоть один конфликт
func (r ConflictResult) HasConflict() bool {
	return r.Severity > SeverityNone
}

// StudentCount количество разных учеников среди конфликтов
func (r ConflictResult) StudentCount() int {
	seen := make(map[uuid.UUID]struct{}, len(r.Conflicts))
	for _, c := range r.Conflicts {
		seen[c.Student.ID] = struct{}{}
	}
	return len(seen)
}

// Detector проверяет конфликты занятий. Не хранит состояния,
// ростер передаётся явно в каждый вызов.
type Detector struct {
	opts Options
}

// NewDetector создаёт детектор, нулевые значения заменяются умолчаниями
func NewDetector(opts Options) *Detector {
	def := DefaultOptions()
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = def.DefaultDuration
	}
	if opts.DefaultStartTime == "" {
		opts.DefaultStartTime = def.DefaultStartTime
	}
	if opts.ClosenessThreshold < 0 {
		opts.ClosenessThreshold = 0
	}
	return &Detector{opts: opts}
}

// Options возвращает параметры детектора
func (d *Detector) Options() Options {
	return d.opts
}

// Defaults умолчания для разрешения эффективного интервала
func (d *Detector) Defaults() Defaults {
	return Defaults{StartTime: d.opts.DefaultStartTime, Duration: d.opts.DefaultDuration}
}

// CheckConflict проверяет кандидата против всех занятий ростера на ту же дату
func (d *Detector) CheckConflict(roster []*model.Student, candidate Candidate) ConflictResult {
	result := ConflictResult{Severity: SeverityNone}
	if !IsValidDate(candidate.Date) {
		return result
	}

	candidateInterval := d.candidateInterval(candidate)
	defaults := d.Defaults()

	for _, student := range roster {
		if student == nil {
			continue
		}
		if candidate.StudentID != uuid.Nil && student.ID == candidate.StudentID {
			continue
		}

		for _, session := range student.Sessions {
			if session == nil || session.Date != candidate.Date || !session.OccupiesTime() {
				continue
			}
			if candidate.IgnoreSessionID != uuid.Nil && session.ID == candidate.IgnoreSessionID {
				continue
			}

			opposing := ResolveEffectiveInterval(session, student, defaults)
			severity, reason, gap := d.classify(candidateInterval, opposing)
			if severity == SeverityNone {
				continue
			}

			result.Conflicts = append(result.Conflicts, Conflict{
				Student:    student,
				Session:    session,
				Interval:   opposing,
				Severity:   severity,
				Reason:     reason,
				GapMinutes: gap,
			})
			if severity > result.Severity {
				result.Severity = severity
			}
		}
	}

	return result
}

// CheckRestoreConflict проверяет, можно ли вернуть занятие в статус scheduled.
// Само занятие и остальные занятия его ученика не участвуют.
func (d *Detector) CheckRestoreConflict(roster []*model.Student, studentID, sessionID uuid.UUID) ConflictResult {
	student, session := findSession(roster, studentID, sessionID)
	if session == nil {
		return ConflictResult{Severity: SeverityNone}
	}

	defaults := d.Defaults()
	return d.CheckConflict(roster, Candidate{
		Date:            session.Date,
		StartTime:       EffectiveTime(session, student, defaults),
		Duration:        EffectiveDuration(session, student, defaults),
		StudentID:       student.ID,
		IgnoreSessionID: session.ID,
	})
}

// classify определяет отношение кандидата к занятию
func (d *Detector) classify(candidate, opposing Interval) (Severity, Reason, int) {
	if candidate.Overlaps(opposing) {
		if candidate.Start == opposing.Start {
			return SeverityError, ReasonExact, 0
		}
		return SeverityError, ReasonPartial, 0
	}

	gap := Gap(candidate, opposing)
	if gap < d.opts.ClosenessThreshold {
		return SeverityWarning, ReasonClose, gap
	}

	return SeverityNone, "", gap
}

func (d *Detector) candidateInterval(candidate Candidate) Interval {
	startTime := candidate.StartTime
	if startTime == "" {
		startTime = d.opts.DefaultStartTime
	}
	duration := candidate.Duration
	if duration <= 0 {
		duration = d.opts.DefaultDuration
	}
	return NewInterval(ClockMinutes(startTime), duration)
}

func findSession(roster []*model.Student, studentID, sessionID uuid.UUID) (*model.Student, *model.Session) {
	for _, student := range roster {
		if student == nil || student.ID != studentID {
			continue
		}
		if session := student.FindSession(sessionID); session != nil {
			return student, session
		}
	}
	return nil, nil
}

// IsValidDate проверяет формат "YYYY-MM-DD"
func IsValidDate(date string) bool {
	_, err := time.Parse(model.DateLayout, date)
	return err == nil
}
