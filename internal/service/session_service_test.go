package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSessionServiceForTest(store *memStore, tutors ...int64) (*SessionService, *memSessions) {
	sessions := &memSessions{memStore: store}
	svc := NewSessionService(
		sessions,
		store,
		fixedSettings{settings: model.DefaultSettings()},
		stubTutors{ids: tutors},
		nil,
		nil,
		zap.NewNop(),
	)
	svc.now = testNow
	return svc, sessions
}

func TestSessionServiceAddSessionIsAdvisory(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	sara := store.addStudent("Sara", "16:00", 60)
	store.addSession(sara, "2025-03-10", "", model.SessionStatusScheduled)
	svc, _ := newSessionServiceForTest(store)

	session, result, err := svc.AddSession(context.Background(), AddSessionRequest{
		TutorID:   testTutorID,
		StudentID: ali.ID,
		Date:      "2025-03-10",
	})
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, schedule.SeverityError, result.Severity)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, schedule.ReasonExact, result.Conflicts[0].Reason)
	assert.Equal(t, sara.ID, result.Conflicts[0].Student.ID)

	stored := store.sessionByID(session.ID)
	require.NotNil(t, stored)
	assert.Equal(t, model.SessionStatusScheduled, stored.Status)
}

func TestSessionServiceAddSessionIgnoresOwnSessions(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	store.addSession(ali, "2025-03-10", "", model.SessionStatusScheduled)
	svc, _ := newSessionServiceForTest(store)

	_, result, err := svc.AddSession(context.Background(), AddSessionRequest{
		TutorID:   testTutorID,
		StudentID: ali.ID,
		Date:      "2025-03-10",
		Time:      "16:30",
	})
	require.NoError(t, err)
	assert.Equal(t, schedule.SeverityNone, result.Severity)
}

func TestSessionServiceAddSessionErrors(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	svc, _ := newSessionServiceForTest(store)

	_, _, err := svc.AddSession(context.Background(), AddSessionRequest{TutorID: testTutorID, StudentID: ali.ID, Date: "2025-02-30"})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.AddSession(context.Background(), AddSessionRequest{TutorID: testTutorID, StudentID: ali.ID, Date: "2025-03-10", Time: "24:00"})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.AddSession(context.Background(), AddSessionRequest{TutorID: testTutorID, StudentID: uuid.New(), Date: "2025-03-10"})
	assert.ErrorIs(t, err, ErrStudentNotFound)

	assert.Empty(t, store.sessions)
}

func TestSessionServiceTransitions(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	session := store.addSession(ali, "2025-03-10", "", model.SessionStatusScheduled)
	svc, _ := newSessionServiceForTest(store)
	ctx := context.Background()

	completed, err := svc.Complete(ctx, testTutorID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusCompleted, completed.Status)
	assert.Equal(t, model.SessionStatusCompleted, session.Status)

	_, err = svc.Complete(ctx, testTutorID, session.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.MarkVacation(ctx, testTutorID, session.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	restored, result, err := svc.Restore(ctx, testTutorID, session.ID, false)
	require.NoError(t, err)
	assert.Equal(t, schedule.SeverityNone, result.Severity)
	assert.Equal(t, model.SessionStatusScheduled, restored.Status)

	_, err = svc.MarkVacation(ctx, testTutorID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusVacation, session.Status)
}

func TestSessionServiceUnknownSession(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	session := store.addSession(ali, "2025-03-10", "", model.SessionStatusScheduled)
	svc, _ := newSessionServiceForTest(store)

	_, err := svc.Complete(context.Background(), testTutorID, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// чужой репетитор не видит занятие
	_, _, err = svc.Cancel(context.Background(), 99, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, model.SessionStatusScheduled, session.Status)
}

func TestSessionServiceCancelReportsPolicy(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	ali.CancellationPolicy = &model.CancellationPolicy{MonthlyLimit: 2}
	store.addSession(ali, "2025-03-03", "", model.SessionStatusCancelled)
	store.addSession(ali, "2025-02-24", "", model.SessionStatusCancelled)
	session := store.addSession(ali, "2025-03-10", "", model.SessionStatusScheduled)
	svc, _ := newSessionServiceForTest(store)

	cancelled, summary, err := svc.Cancel(context.Background(), testTutorID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusCancelled, cancelled.Status)
	assert.Equal(t, schedule.CancellationSummary{Month: "2025-03", Used: 2, Limit: 2, LimitReached: true}, summary)
}

func TestSessionServiceRestoreConflict(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	sara := store.addStudent("Sara", "16:00", 60)
	cancelled := store.addSession(ali, "2025-03-10", "", model.SessionStatusCancelled)
	store.addSession(sara, "2025-03-10", "16:30", model.SessionStatusScheduled)
	svc, _ := newSessionServiceForTest(store)
	ctx := context.Background()

	_, result, err := svc.Restore(ctx, testTutorID, cancelled.ID, false)
	require.ErrorIs(t, err, ErrRestoreConflict)
	assert.Equal(t, schedule.SeverityError, result.Severity)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, schedule.ReasonPartial, result.Conflicts[0].Reason)
	assert.Equal(t, model.SessionStatusCancelled, cancelled.Status)

	restored, result, err := svc.Restore(ctx, testTutorID, cancelled.ID, true)
	require.NoError(t, err)
	assert.Equal(t, schedule.SeverityError, result.Severity)
	assert.Equal(t, model.SessionStatusScheduled, restored.Status)
	assert.Equal(t, model.SessionStatusScheduled, cancelled.Status)
}

func TestSessionServiceRestoreWarningDoesNotBlock(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	sara := store.addStudent("Sara", "17:10", 60)
	vacation := store.addSession(ali, "2025-03-10", "", model.SessionStatusVacation)
	store.addSession(sara, "2025-03-10", "", model.SessionStatusScheduled)
	svc, _ := newSessionServiceForTest(store)

	_, result, err := svc.Restore(context.Background(), testTutorID, vacation.ID, false)
	require.NoError(t, err)
	assert.Equal(t, schedule.SeverityWarning, result.Severity)
	assert.Equal(t, 10, result.Conflicts[0].GapMinutes)
	assert.Equal(t, model.SessionStatusScheduled, vacation.Status)
}

func TestSessionServiceRestoreScheduledIsInvalid(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	session := store.addSession(ali, "2025-03-10", "", model.SessionStatusScheduled)
	svc, _ := newSessionServiceForTest(store)

	_, _, err := svc.Restore(context.Background(), testTutorID, session.ID, true)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSessionServiceStatusUpdateError(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	session := store.addSession(ali, "2025-03-10", "", model.SessionStatusScheduled)
	svc, sessions := newSessionServiceForTest(store)
	sessions.updateErr = errStub

	_, err := svc.Complete(context.Background(), testTutorID, session.ID)
	assert.ErrorIs(t, err, errStub)
	assert.Equal(t, model.SessionStatusScheduled, session.Status)
}

func TestSessionServiceGenerateForTutor(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	ali.ScheduleDays = []model.ScheduleDay{{DayOfWeek: 1}, {DayOfWeek: 3, Time: "18:00"}}
	store.addSession(ali, "2025-03-10", "", model.SessionStatusCancelled)
	sara := store.addStudent("Sara", "17:00", 45)
	sara.ScheduleDays = []model.ScheduleDay{{DayOfWeek: 2}}
	svc, sessions := newSessionServiceForTest(store)

	created, err := svc.GenerateForTutor(context.Background(), testTutorID, 1)
	require.NoError(t, err)
	// понедельник уже занят отменённым занятием, остаются среда Ali и вторник Sara
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, sessions.batches)

	var dates []string
	for _, s := range store.sessions[1:] {
		dates = append(dates, s.Date)
		assert.Equal(t, model.SessionStatusScheduled, s.Status)
	}
	assert.ElementsMatch(t, []string{"2025-03-12", "2025-03-11"}, dates)

	// повторный запуск ничего не создаёт
	created, err = svc.GenerateForTutor(context.Background(), testTutorID, 1)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 1, sessions.batches)
}

// gatedSessions задерживает сохранение пачки, пока тест её не отпустит
type gatedSessions struct {
	*memSessions
	entered chan struct{}
	release chan struct{}
}

func (g *gatedSessions) CreateBatch(ctx context.Context, sessions []*model.Session) error {
	g.entered <- struct{}{}
	<-g.release
	return g.memSessions.CreateBatch(ctx, sessions)
}

func TestSessionServiceGenerateForTutorRunsOneAtATime(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	ali.ScheduleDays = []model.ScheduleDay{{DayOfWeek: 3}}

	gated := &gatedSessions{
		memSessions: &memSessions{memStore: store},
		entered:     make(chan struct{}, 2),
		release:     make(chan struct{}),
	}
	svc := NewSessionService(gated, store, fixedSettings{settings: model.DefaultSettings()}, stubTutors{}, nil, nil, zap.NewNop())
	svc.now = testNow

	results := make(chan int, 2)
	generate := func() {
		created, err := svc.GenerateForTutor(context.Background(), testTutorID, 1)
		assert.NoError(t, err)
		results <- created
	}

	go generate()
	<-gated.entered

	// второй запуск (фоновый и /generate) ждёт, пока первый сохранит занятия
	go generate()
	select {
	case <-gated.entered:
		t.Fatal("second generation reached CreateBatch while the first was saving")
	case <-time.After(50 * time.Millisecond):
	}

	close(gated.release)
	total := <-results + <-results

	assert.Equal(t, 1, total)
	assert.Equal(t, 1, gated.batches)
	require.Len(t, store.sessions, 1)
	assert.Equal(t, "2025-03-12", store.sessions[0].Date)
}

func TestSessionServiceGenerateUpcoming(t *testing.T) {
	store := &memStore{}
	ali := store.addStudent("Ali", "16:00", 60)
	ali.ScheduleDays = []model.ScheduleDay{{DayOfWeek: 1}}
	svc, _ := newSessionServiceForTest(store, testTutorID, 99)

	total, err := svc.GenerateUpcoming(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	svc.tutors = stubTutors{err: errStub}
	_, err = svc.GenerateUpcoming(context.Background(), 4)
	assert.ErrorIs(t, err, errStub)
}
