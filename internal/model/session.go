package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled" // Запланировано
	SessionStatusCompleted SessionStatus = "completed" // Проведено
	SessionStatusCancelled SessionStatus = "cancelled" // Отменено
	SessionStatusVacation  SessionStatus = "vacation"  // Каникулы
)

// DateLayout формат даты занятия
const DateLayout = "2006-01-02"

// Session конкретное занятие ученика
type Session struct {
	ID        uuid.UUID     `json:"id"`
	StudentID uuid.UUID     `json:"student_id"`
	Date      string        `json:"date"`               // "YYYY-MM-DD"
	Time      string        `json:"time,omitempty"`     // пусто = время ученика
	Duration  int           `json:"duration,omitempty"` // 0 = длительность ученика
	Status    SessionStatus `json:"status"`
	Topic     string        `json:"topic,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	Homework  string        `json:"homework,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// OccupiesTime занимает ли занятие время в расписании.
// Отменённые занятия и каникулы время не занимают.
func (s *Session) OccupiesTime() bool {
	return s.Status == SessionStatusScheduled || s.Status == SessionStatusCompleted
}

// IsScheduled проверяет, запланировано ли занятие
func (s *Session) IsScheduled() bool {
	return s.Status == SessionStatusScheduled
}

// CanTransition проверяет допустимость перехода статуса.
// Из scheduled можно перейти в любой терминальный статус, из терминального только обратно в scheduled.
func (s *Session) CanTransition(to SessionStatus) bool {
	if s.Status == to {
		return false
	}
	if s.Status == SessionStatusScheduled {
		return to == SessionStatusCompleted || to == SessionStatusCancelled || to == SessionStatusVacation
	}
	return to == SessionStatusScheduled
}
