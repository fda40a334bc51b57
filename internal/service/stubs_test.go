package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
)

const testTutorID int64 = 1

var errStub = errors.New("stub failure")

// 2025-03-10 понедельник
func testNow() time.Time {
	return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}

// memStore хранит учеников и занятия в памяти и отдаёт ростер копиями
type memStore struct {
	students []*model.Student
	sessions []*model.Session
}

func (m *memStore) LoadRoster(ctx context.Context, tutorID int64) ([]*model.Student, error) {
	var roster []*model.Student
	for _, st := range m.students {
		if st.TutorID != tutorID {
			continue
		}
		student := *st
		student.Sessions = nil
		for _, s := range m.sessions {
			if s.StudentID == st.ID {
				session := *s
				student.Sessions = append(student.Sessions, &session)
			}
		}
		roster = append(roster, &student)
	}
	return roster, nil
}

func (m *memStore) addStudent(name, sessionTime string, duration int) *model.Student {
	student := &model.Student{
		ID:              uuid.New(),
		TutorID:         testTutorID,
		Name:            name,
		SessionTime:     sessionTime,
		SessionDuration: duration,
		SessionType:     model.SessionTypeOnsite,
	}
	m.students = append(m.students, student)
	return student
}

func (m *memStore) addSession(student *model.Student, date, at string, status model.SessionStatus) *model.Session {
	session := &model.Session{
		ID:        uuid.New(),
		StudentID: student.ID,
		Date:      date,
		Time:      at,
		Status:    status,
	}
	m.sessions = append(m.sessions, session)
	return session
}

func (m *memStore) sessionByID(id uuid.UUID) *model.Session {
	for _, s := range m.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

type memStudents struct {
	*memStore
	createErr error
}

func (m *memStudents) Create(ctx context.Context, student *model.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *student
	copied.CreatedAt = time.Now()
	m.students = append(m.students, &copied)
	return nil
}

func (m *memStudents) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	for _, st := range m.students {
		if st.ID == id {
			copied := *st
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStudents) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Student, error) {
	var result []*model.Student
	for _, st := range m.students {
		if st.TutorID == tutorID {
			copied := *st
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *memStudents) UpdateSchedule(ctx context.Context, student *model.Student) error {
	for _, st := range m.students {
		if st.ID == student.ID {
			st.SessionTime = student.SessionTime
			st.SessionDuration = student.SessionDuration
			st.ScheduleDays = student.ScheduleDays
			return nil
		}
	}
	return errors.New("student not found")
}

func (m *memStudents) Delete(ctx context.Context, id uuid.UUID) error {
	students := m.students[:0]
	for _, st := range m.students {
		if st.ID != id {
			students = append(students, st)
		}
	}
	m.students = students

	sessions := m.sessions[:0]
	for _, s := range m.sessions {
		if s.StudentID != id {
			sessions = append(sessions, s)
		}
	}
	m.sessions = sessions
	return nil
}

type memSessions struct {
	*memStore
	batches   int
	updateErr error
}

func (m *memSessions) Create(ctx context.Context, session *model.Session) error {
	copied := *session
	m.sessions = append(m.sessions, &copied)
	return nil
}

func (m *memSessions) CreateBatch(ctx context.Context, sessions []*model.Session) error {
	m.batches++
	for _, s := range sessions {
		copied := *s
		m.sessions = append(m.sessions, &copied)
	}
	return nil
}

func (m *memSessions) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SessionStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	session := m.sessionByID(id)
	if session == nil {
		return errors.New("session not found")
	}
	session.Status = status
	return nil
}

type fixedSettings struct {
	settings model.Settings
	err      error
}

func (f fixedSettings) Settings(ctx context.Context, tutorID int64) (model.Settings, error) {
	return f.settings, f.err
}

type stubTutors struct {
	ids []int64
	err error
}

func (s stubTutors) TutorIDs(ctx context.Context) ([]int64, error) {
	return s.ids, s.err
}
