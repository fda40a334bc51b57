package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionType string

const (
	SessionTypeOnsite SessionType = "onsite"
	SessionTypeOnline SessionType = "online"
)

// ScheduleDay день недели регулярного расписания ученика
type ScheduleDay struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`                     // 0 = Sunday, 6 = Saturday
	Time      string `json:"time,omitempty" validate:"omitempty,clock"`              // переопределение времени "HH:MM"
	Duration  int    `json:"duration,omitempty" validate:"omitempty,min=15,max=480"` // переопределение длительности в минутах
}

// CancellationPolicy ограничение на число отмен в месяц
type CancellationPolicy struct {
	MonthlyLimit int `json:"monthly_limit"`
}

// Student ученик репетитора
type Student struct {
	ID                 uuid.UUID           `json:"id"`
	TutorID            int64               `json:"tutor_id"`
	Name               string              `json:"name"`
	SessionTime        string              `json:"session_time"`     // "HH:MM"
	SessionDuration    int                 `json:"session_duration"` // в минутах
	SessionType        SessionType         `json:"session_type"`
	ScheduleDays       []ScheduleDay       `json:"schedule_days"`
	CustomPrice        *int                `json:"custom_price,omitempty"`
	CancellationPolicy *CancellationPolicy `json:"cancellation_policy,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`

	// Заполняется при загрузке ростера (не колонка students)
	Sessions []*Session `json:"sessions,omitempty"`
}

// FindSession ищет занятие ученика по ID
func (s *Student) FindSession(id uuid.UUID) *Session {
	for _, session := range s.Sessions {
		if session.ID == id {
			return session
		}
	}
	return nil
}

// HasSessionOn проверяет, есть ли у ученика занятие (в любом статусе) на дату
func (s *Student) HasSessionOn(date string) bool {
	for _, session := range s.Sessions {
		if session.Date == date {
			return true
		}
	}
	return false
}
