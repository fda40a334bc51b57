package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
)

type rosterLoader interface {
	LoadRoster(ctx context.Context, tutorID int64) ([]*model.Student, error)
}

// snapshot ростер репетитора на момент вызова вместе с его настройками
type snapshot struct {
	roster   []*model.Student
	settings model.Settings
	detector *schedule.Detector
}

func loadSnapshot(ctx context.Context, roster rosterLoader, settings settingsProvider, tutorID int64) (*snapshot, error) {
	tutorSettings, err := settings.Settings(ctx, tutorID)
	if err != nil {
		return nil, err
	}

	students, err := roster.LoadRoster(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	return &snapshot{
		roster:   students,
		settings: tutorSettings,
		detector: schedule.NewDetector(schedule.OptionsFromSettings(tutorSettings)),
	}, nil
}

func (s *snapshot) student(id uuid.UUID) *model.Student {
	for _, student := range s.roster {
		if student.ID == id {
			return student
		}
	}
	return nil
}

// session ищет занятие и его ученика среди всех учеников ростера
func (s *snapshot) session(id uuid.UUID) (*model.Student, *model.Session) {
	for _, student := range s.roster {
		if session := student.FindSession(id); session != nil {
			return student, session
		}
	}
	return nil, nil
}

// daySessions занятия даты в любом статусе. Занимающие время занятия
// несут отметки конфликтов и промежутки, остальные идут без отметок.
func (s *snapshot) daySessions(date string) []schedule.DaySession {
	annotated := s.detector.SessionsWithGaps(s.roster, date)
	byID := make(map[uuid.UUID]schedule.DaySession, len(annotated))
	for _, ds := range annotated {
		byID[ds.Session.ID] = ds
	}

	defaults := s.detector.Defaults()
	var day []schedule.DaySession
	for _, student := range s.roster {
		if student == nil {
			continue
		}
		for _, session := range student.Sessions {
			if session == nil || session.Date != date {
				continue
			}
			if ds, ok := byID[session.ID]; ok {
				day = append(day, ds)
				continue
			}
			day = append(day, schedule.DaySession{
				Student:  student,
				Session:  session,
				Interval: schedule.ResolveEffectiveInterval(session, student, defaults),
			})
		}
	}

	sort.SliceStable(day, func(i, j int) bool {
		return day[i].Interval.Start < day[j].Interval.Start
	})
	return day
}
