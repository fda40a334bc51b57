package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
)

// GenerateSessions создаёт запланированные занятия ученика по дням расписания
// для всех дат в [from, to]. Даты, на которые у ученика уже есть занятие
// в любом статусе, пропускаются. Результат не сохраняется.
func GenerateSessions(student *model.Student, from, to time.Time) []*model.Session {
	if student == nil || len(student.ScheduleDays) == 0 {
		return nil
	}

	from = truncateDay(from)
	to = truncateDay(to)

	var sessions []*model.Session
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		day, ok := scheduleDayFor(student.ScheduleDays, date.Weekday())
		if !ok {
			continue
		}

		dateStr := date.Format(model.DateLayout)
		if student.HasSessionOn(dateStr) {
			continue
		}

		sessions = append(sessions, &model.Session{
			ID:        uuid.New(),
			StudentID: student.ID,
			Date:      dateStr,
			Time:      day.Time,
			Duration:  day.Duration,
			Status:    model.SessionStatusScheduled,
		})
	}

	return sessions
}

// DayConflict результат проверки одного дня регулярного расписания
type DayConflict struct {
	Day    model.ScheduleDay
	Date   string
	Result ConflictResult
}

// CheckScheduleDays проверяет предлагаемое недельное расписание: каждый день
// проверяется на ближайшую дату начиная с from.
func (d *Detector) CheckScheduleDays(roster []*model.Student, studentID uuid.UUID, days []model.ScheduleDay, startTime string, duration int, from time.Time) []DayConflict {
	from = truncateDay(from)

	results := make([]DayConflict, 0, len(days))
	for _, day := range days {
		date := NextOccurrence(from, time.Weekday(day.DayOfWeek)).Format(model.DateLayout)

		candidateTime := startTime
		if day.Time != "" {
			candidateTime = day.Time
		}
		candidateDuration := duration
		if day.Duration > 0 {
			candidateDuration = day.Duration
		}

		results = append(results, DayConflict{
			Day:  day,
			Date: date,
			Result: d.CheckConflict(roster, Candidate{
				Date:      date,
				StartTime: candidateTime,
				Duration:  candidateDuration,
				StudentID: studentID,
			}),
		})
	}

	return results
}

// NextOccurrence ближайшая дата с нужным днём недели, не раньше from
func NextOccurrence(from time.Time, weekday time.Weekday) time.Time {
	offset := (int(weekday) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, offset)
}

func scheduleDayFor(days []model.ScheduleDay, weekday time.Weekday) (model.ScheduleDay, bool) {
	for _, day := range days {
		if day.DayOfWeek == int(weekday) {
			return day, true
		}
	}
	return model.ScheduleDay{}, false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
