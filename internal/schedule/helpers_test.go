package schedule

import (
	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
)

const testDate = "2025-03-10"

func newStudent(name, sessionTime string, duration int, sessions ...*model.Session) *model.Student {
	student := &model.Student{
		ID:              uuid.New(),
		Name:            name,
		SessionTime:     sessionTime,
		SessionDuration: duration,
		SessionType:     model.SessionTypeOnline,
	}
	for _, session := range sessions {
		session.StudentID = student.ID
	}
	student.Sessions = sessions
	return student
}

func newSession(date, sessionTime string, duration int, status model.SessionStatus) *model.Session {
	return &model.Session{
		ID:       uuid.New(),
		Date:     date,
		Time:     sessionTime,
		Duration: duration,
		Status:   status,
	}
}

func scheduled(date, sessionTime string, duration int) *model.Session {
	return newSession(date, sessionTime, duration, model.SessionStatusScheduled)
}
