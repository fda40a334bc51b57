package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
)

// RosterRepository собирает снимок учеников репетитора вместе с занятиями
type RosterRepository struct {
	students *StudentRepository
	sessions *SessionRepository
}

func NewRosterRepository(students *StudentRepository, sessions *SessionRepository) *RosterRepository {
	return &RosterRepository{students: students, sessions: sessions}
}

// LoadRoster возвращает учеников в порядке добавления, занятия упорядочены по дате
func (r *RosterRepository) LoadRoster(ctx context.Context, tutorID int64) ([]*model.Student, error) {
	students, err := r.students.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("load roster students: %w", err)
	}

	sessions, err := r.sessions.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("load roster sessions: %w", err)
	}

	return AttachSessions(students, sessions), nil
}

// AttachSessions раскладывает занятия по ученикам, сохраняя порядок
func AttachSessions(students []*model.Student, sessions []*model.Session) []*model.Student {
	byID := make(map[uuid.UUID]*model.Student, len(students))
	for _, student := range students {
		student.Sessions = nil
		byID[student.ID] = student
	}

	for _, session := range sessions {
		if student, ok := byID[session.StudentID]; ok {
			student.Sessions = append(student.Sessions, session)
		}
	}

	return students
}
