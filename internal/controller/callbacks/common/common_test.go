package common

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"github.com/omarhammouda0/session-smart-buddy/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUUIDFromCallback(t *testing.T) {
	id := uuid.New()

	got, err := ParseUUIDFromCallback(SessionCancel+id.String(), SessionCancel)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUIDFromCallback(SessionCancel+"nope", SessionCancel)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ParseUUIDFromCallback(SessionRestore+id.String(), SessionCancel)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParseValueFromCallback(t *testing.T) {
	date, err := ParseValueFromCallback(DayView+"2025-03-10", DayView)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", date)

	_, err = ParseValueFromCallback(DayView, DayView)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestIsMessageNotModifiedError(t *testing.T) {
	assert.True(t, IsMessageNotModifiedError(errors.New("bad request, Bad Request: message is not modified")))
	assert.False(t, IsMessageNotModifiedError(errors.New("forbidden")))
	assert.False(t, IsMessageNotModifiedError(nil))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("get: %w", service.ErrStudentNotFound), "❌ Ученик не найден"},
		{fmt.Errorf("%w: completed -> vacation", service.ErrInvalidTransition), "❌ Это действие недоступно для текущего статуса занятия"},
		{service.ErrRestoreConflict, "⚠️ Время уже занято другим занятием"},
		{service.ErrTutorNotFound, "❌ Вы не зарегистрированы. Используйте /start"},
		{errors.New("boom"), "❌ Произошла ошибка"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorMessage(tt.err))
	}
}

func TestWeekStart(t *testing.T) {
	sunday := time.Date(2025, 3, 16, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), WeekStart(sunday))

	monday := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), WeekStart(monday))
}

func daySample() []schedule.DaySession {
	ali := &model.Student{ID: uuid.New(), Name: "Ali"}
	sara := &model.Student{ID: uuid.New(), Name: "Sara"}
	return []schedule.DaySession{
		{
			Student:  ali,
			Session:  &model.Session{ID: uuid.New(), Date: "2025-03-10", Status: model.SessionStatusScheduled},
			Interval: schedule.NewInterval(960, 60),
		},
		{
			Student:  sara,
			Session:  &model.Session{ID: uuid.New(), Date: "2025-03-10", Status: model.SessionStatusCancelled},
			Interval: schedule.NewInterval(1080, 60),
		},
	}
}

func TestBuildDayScreen(t *testing.T) {
	day := daySample()

	text, kb := BuildDayScreen("2025-03-10", day)
	assert.Contains(t, text, "Ali")
	require.Len(t, kb.InlineKeyboard, 3)

	scheduledRow := kb.InlineKeyboard[0]
	require.Len(t, scheduledRow, 3)
	assert.Equal(t, SessionComplete+day[0].Session.ID.String(), scheduledRow[0].CallbackData)
	assert.Equal(t, SessionCancel+day[0].Session.ID.String(), scheduledRow[1].CallbackData)
	assert.Equal(t, SessionVacation+day[0].Session.ID.String(), scheduledRow[2].CallbackData)

	cancelledRow := kb.InlineKeyboard[1]
	require.Len(t, cancelledRow, 1)
	assert.Equal(t, SessionRestore+day[1].Session.ID.String(), cancelledRow[0].CallbackData)

	nav := kb.InlineKeyboard[2]
	assert.Equal(t, DayView+"2025-03-09", nav[0].CallbackData)
	assert.Equal(t, WeekView+"2025-03-10", nav[1].CallbackData)

	// данные кнопок укладываются в лимит Telegram
	for _, row := range kb.InlineKeyboard {
		for _, button := range row {
			assert.LessOrEqual(t, len(button.CallbackData), 64)
		}
	}
}

func TestBuildRestoreConflictScreen(t *testing.T) {
	day := daySample()
	session := day[1].Session

	text, kb := BuildRestoreConflictScreen(session, schedule.ConflictResult{
		Severity: schedule.SeverityError,
		Conflicts: []schedule.Conflict{{
			Student:  day[0].Student,
			Session:  day[0].Session,
			Interval: day[0].Interval,
			Severity: schedule.SeverityError,
			Reason:   schedule.ReasonPartial,
		}},
	})

	assert.Contains(t, text, "Ali 16:00-17:00, пересекается")
	assert.Equal(t, SessionRestoreForce+session.ID.String(), kb.InlineKeyboard[0][0].CallbackData)
	assert.LessOrEqual(t, len(kb.InlineKeyboard[0][0].CallbackData), 64)
	assert.Equal(t, DayView+"2025-03-10", kb.InlineKeyboard[1][0].CallbackData)
}

func TestBuildStudentScreens(t *testing.T) {
	assert.Contains(t, BuildStudentsScreen(nil), "/addstudent")

	student := &model.Student{
		ID:              uuid.New(),
		Name:            "Ali",
		SessionTime:     "16:00",
		SessionDuration: 60,
		ScheduleDays:    []model.ScheduleDay{{DayOfWeek: 1}},
		Sessions:        []*model.Session{{}, {}},
	}
	text := BuildStudentsScreen([]*model.Student{student})
	assert.Contains(t, text, "(1)")
	assert.Contains(t, text, "Пн 16:00")

	_, kb := BuildRemoveStudentScreen([]*model.Student{student})
	assert.Equal(t, RemoveStudent+student.ID.String(), kb.InlineKeyboard[0][0].CallbackData)

	text, kb = BuildConfirmRemoveScreen(student)
	assert.Contains(t, text, "2 занятия")
	assert.Equal(t, ConfirmRemove+student.ID.String(), kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, CancelRemove, kb.InlineKeyboard[0][1].CallbackData)
}

func TestGenerateWeekImage(t *testing.T) {
	week := make([]service.WeekDay, 0, 7)
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		week = append(week, service.WeekDay{Date: start.AddDate(0, 0, i).Format(model.DateLayout)})
	}
	week[0].Sessions = daySample()
	week[0].Sessions[0].HasConflict = true
	week[0].Sessions[0].Severity = schedule.SeverityWarning

	data, err := GenerateWeekImage(week, start.Add(17*time.Hour))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	_, err = GenerateWeekImage(nil, start)
	assert.Error(t, err)
}

func TestCalculateHourRange(t *testing.T) {
	empty := calculateHourRange([]service.WeekDay{{Date: "2025-03-10"}})
	assert.Equal(t, hourRange{start: defaultMinHour - 1, end: defaultMaxHour + 1, total: defaultMaxHour - defaultMinHour + 2}, empty)

	hours := calculateHourRange([]service.WeekDay{{Date: "2025-03-10", Sessions: daySample()}})
	// 16:00-17:00 и 18:00-19:00 плюс час по краям
	assert.Equal(t, 15, hours.start)
	assert.Equal(t, 20, hours.end)
	assert.True(t, strings.HasPrefix(schedule.FormatClock(hours.start*60), "15"))
}
