package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduleServiceForTest(store *memStore) *ScheduleService {
	return NewScheduleService(store, fixedSettings{settings: model.DefaultSettings()}, nil, nil)
}

func TestScheduleServiceCheckConflict(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	store.addSession(ali, "2025-03-10", "", model.SessionStatusScheduled)
	svc := newScheduleServiceForTest(store)

	tests := []struct {
		name     string
		time     string
		severity schedule.Severity
	}{
		{"exact", "16:00", schedule.SeverityError},
		{"partial", "16:30", schedule.SeverityError},
		{"touching", "17:00", schedule.SeverityWarning},
		{"close before", "14:40", schedule.SeverityWarning},
		{"free", "18:00", schedule.SeverityNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.CheckConflict(context.Background(), testTutorID, schedule.Candidate{
				Date:      "2025-03-10",
				StartTime: tt.time,
				Duration:  60,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.severity, result.Severity)
		})
	}
}

func TestScheduleServiceCheckConflictValidation(t *testing.T) {
	svc := newScheduleServiceForTest(&memStore{})

	_, err := svc.CheckConflict(context.Background(), testTutorID, schedule.Candidate{Date: "10.03.2025", StartTime: "16:00"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CheckConflict(context.Background(), testTutorID, schedule.Candidate{Date: "2025-03-10", StartTime: "16"})
	require.NoError(t, err)

	_, err = svc.CheckConflict(context.Background(), testTutorID, schedule.Candidate{Date: "2025-03-10", StartTime: "ab:cd"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestScheduleServiceDayOverview(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	sara := store.addStudent("Sara", "16:30", 60)
	omar := store.addStudent("Omar", "19:00", 60)
	store.addSession(ali, "2025-03-10", "", model.SessionStatusScheduled)
	store.addSession(sara, "2025-03-10", "", model.SessionStatusScheduled)
	store.addSession(omar, "2025-03-10", "", model.SessionStatusCancelled)
	svc := newScheduleServiceForTest(store)

	day, err := svc.DayOverview(context.Background(), testTutorID, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "Ali", day[0].Student.Name)
	assert.True(t, day[0].HasConflict)
	assert.Equal(t, schedule.ReasonPartial, day[0].ConflictType)
	require.NotNil(t, day[0].GapAfter)
	assert.Equal(t, -30, *day[0].GapAfter)
	assert.Nil(t, day[1].GapAfter)

	_, err = svc.DayOverview(context.Background(), testTutorID, "bad")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestScheduleServiceDaySessionsIncludesAllStatuses(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	omar := store.addStudent("Omar", "15:00", 60)
	store.addSession(ali, "2025-03-10", "", model.SessionStatusScheduled)
	store.addSession(omar, "2025-03-10", "", model.SessionStatusCancelled)
	store.addSession(omar, "2025-03-11", "", model.SessionStatusScheduled)
	svc := newScheduleServiceForTest(store)

	day, err := svc.DaySessions(context.Background(), testTutorID, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, day, 2)

	// отменённое занятие раньше по времени и без отметок конфликта
	assert.Equal(t, "Omar", day[0].Student.Name)
	assert.False(t, day[0].HasConflict)
	assert.Nil(t, day[0].GapAfter)
	assert.Equal(t, "Ali", day[1].Student.Name)
}

func TestScheduleServiceSuggestSlots(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "09:00", 60)
	store.addSession(ali, "2025-03-10", "", model.SessionStatusScheduled)
	svc := newScheduleServiceForTest(store)

	slots, err := svc.SuggestSlots(context.Background(), testTutorID, "2025-03-10", 60)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	// 08:00 заканчивается ровно к 09:00, 08:30 уже пересекается
	assert.Equal(t, "08:00", slots[0].StartTime)
	assert.Equal(t, schedule.SeverityWarning, slots[0].Severity)
	assert.Equal(t, schedule.SeverityError, slots[1].Severity)
	assert.Equal(t, "21:00", slots[len(slots)-1].StartTime)

	available := schedule.Available(slots)
	for _, slot := range available {
		assert.NotEqual(t, schedule.SeverityError, slot.Severity)
	}
}

func TestScheduleServiceWeek(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	store.addSession(ali, "2025-03-10", "", model.SessionStatusScheduled)
	store.addSession(ali, "2025-03-12", "", model.SessionStatusVacation)
	store.addSession(ali, "2025-03-17", "", model.SessionStatusScheduled)
	svc := newScheduleServiceForTest(store)

	week, err := svc.Week(context.Background(), testTutorID, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, week, 7)

	assert.Equal(t, "2025-03-10", week[0].Date)
	assert.Equal(t, "2025-03-16", week[6].Date)
	assert.Len(t, week[0].Sessions, 1)
	assert.Len(t, week[2].Sessions, 1)
	assert.Empty(t, week[1].Sessions)

	_, err = svc.Week(context.Background(), testTutorID, "10.03.2025")
	assert.ErrorIs(t, err, ErrValidation)
}

type staticRoster []*model.Student

func (r staticRoster) LoadRoster(ctx context.Context, tutorID int64) ([]*model.Student, error) {
	return r, nil
}

func TestScheduleServiceDaySessionsSkipsNilEntries(t *testing.T) {
	ali := &model.Student{ID: uuid.New(), TutorID: testTutorID, Name: "Ali", SessionTime: "16:00", SessionDuration: 60}
	ali.Sessions = []*model.Session{
		nil,
		{ID: uuid.New(), StudentID: ali.ID, Date: "2025-03-10", Status: model.SessionStatusVacation},
	}

	svc := NewScheduleService(staticRoster{nil, ali}, fixedSettings{settings: model.DefaultSettings()}, nil, nil)

	day, err := svc.DaySessions(context.Background(), testTutorID, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, model.SessionStatusVacation, day[0].Session.Status)
}
