package schedule

import (
	"sort"

	"github.com/omarhammouda0/session-smart-buddy/internal/model"
)

// DaySession занятие дня с отметками о конфликтах и промежутке до следующего
type DaySession struct {
	Student      *model.Student
	Session      *model.Session
	Interval     Interval
	HasConflict  bool
	Severity     Severity
	ConflictType Reason
	GapAfter     *int // nil для последнего занятия дня
}

// SessionsWithGaps возвращает занятия дня по возрастанию начала.
// Конфликты ищутся полным попарным перебором: при разных длительностях
// занятие может пересекаться не только с соседним.
func (d *Detector) SessionsWithGaps(roster []*model.Student, date string) []DaySession {
	if !IsValidDate(date) {
		return nil
	}

	defaults := d.Defaults()
	var day []DaySession
	for _, student := range roster {
		if student == nil {
			continue
		}
		for _, session := range student.Sessions {
			if session == nil || session.Date != date || !session.OccupiesTime() {
				continue
			}
			day = append(day, DaySession{
				Student:  student,
				Session:  session,
				Interval: ResolveEffectiveInterval(session, student, defaults),
			})
		}
	}

	sort.SliceStable(day, func(i, j int) bool {
		return day[i].Interval.Start < day[j].Interval.Start
	})

	for i := range day {
		for j := i + 1; j < len(day); j++ {
			if day[i].Student.ID == day[j].Student.ID {
				continue
			}
			severity, reason, _ := d.classify(day[i].Interval, day[j].Interval)
			if severity == SeverityNone {
				continue
			}
			day[i].mark(severity, reason)
			day[j].mark(severity, reason)
		}

		if i+1 < len(day) {
			gap := day[i+1].Interval.Start - day[i].Interval.End
			day[i].GapAfter = &gap
		}
	}

	return day
}

func (ds *DaySession) mark(severity Severity, reason Reason) {
	ds.HasConflict = true
	if severity > ds.Severity || (severity == ds.Severity && reason.rank() > ds.ConflictType.rank()) {
		ds.Severity = severity
		ds.ConflictType = reason
	}
}
