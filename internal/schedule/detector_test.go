package schedule

import (
	"testing"

	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConflictEmptyRoster(t *testing.T) {
	d := NewDetector(DefaultOptions())

	result := d.CheckConflict(nil, Candidate{Date: testDate, StartTime: "16:00"})

	assert.Equal(t, SeverityNone, result.Severity)
	assert.Empty(t, result.Conflicts)
	assert.False(t, result.HasConflict())
}

func TestCheckConflictClassification(t *testing.T) {
	d := NewDetector(DefaultOptions())

	tests := []struct {
		name      string
		startTime string
		duration  int
		severity  Severity
		reason    Reason
		gap       int
	}{
		{name: "partial overlap", startTime: "16:30", duration: 60, severity: SeverityError, reason: ReasonPartial},
		{name: "exact start", startTime: "16:00", duration: 30, severity: SeverityError, reason: ReasonExact},
		{name: "covering", startTime: "15:30", duration: 120, severity: SeverityError, reason: ReasonPartial},
		{name: "close after", startTime: "17:10", duration: 60, severity: SeverityWarning, reason: ReasonClose, gap: 10},
		{name: "touching after", startTime: "17:00", duration: 60, severity: SeverityWarning, reason: ReasonClose, gap: 0},
		{name: "close before", startTime: "14:45", duration: 60, severity: SeverityWarning, reason: ReasonClose, gap: 15},
		{name: "threshold is exclusive", startTime: "17:30", duration: 60, severity: SeverityNone},
		{name: "far after", startTime: "18:00", duration: 60, severity: SeverityNone},
		{name: "default duration", startTime: "15:30", duration: 0, severity: SeverityError, reason: ReasonPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			student := newStudent("Ali", "16:00", 60, scheduled(testDate, "16:00", 60))

			result := d.CheckConflict([]*model.Student{student}, Candidate{
				Date:      testDate,
				StartTime: tt.startTime,
				Duration:  tt.duration,
			})

			assert.Equal(t, tt.severity, result.Severity)
			if tt.severity == SeverityNone {
				assert.Empty(t, result.Conflicts)
				return
			}
			require.Len(t, result.Conflicts, 1)
			assert.Equal(t, tt.reason, result.Conflicts[0].Reason)
			assert.Equal(t, tt.gap, result.Conflicts[0].GapMinutes)
			assert.Same(t, student, result.Conflicts[0].Student)
		})
	}
}

func TestCheckConflictUsesStudentDefaults(t *testing.T) {
	d := NewDetector(DefaultOptions())
	student := newStudent("Sara", "16:00", 90, scheduled(testDate, "", 0))

	// 16:00-17:30 от ученика, кандидат 17:15 пересекается только с учётом его длительности
	result := d.CheckConflict([]*model.Student{student}, Candidate{Date: testDate, StartTime: "17:15", Duration: 60})

	assert.Equal(t, SeverityError, result.Severity)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, Interval{Start: 960, End: 1050}, result.Conflicts[0].Interval)
}

func TestCheckConflictIgnoresFreeSessions(t *testing.T) {
	d := NewDetector(DefaultOptions())

	for _, status := range []model.SessionStatus{model.SessionStatusCancelled, model.SessionStatusVacation} {
		t.Run(string(status), func(t *testing.T) {
			student := newStudent("Omar", "16:00", 60, newSession(testDate, "16:00", 60, status))

			result := d.CheckConflict([]*model.Student{student}, Candidate{Date: testDate, StartTime: "16:15", Duration: 60})

			assert.Equal(t, SeverityNone, result.Severity)
			assert.Empty(t, result.Conflicts)
		})
	}

	t.Run("completed occupies time", func(t *testing.T) {
		student := newStudent("Omar", "16:00", 60, newSession(testDate, "16:00", 60, model.SessionStatusCompleted))

		result := d.CheckConflict([]*model.Student{student}, Candidate{Date: testDate, StartTime: "16:15", Duration: 60})

		assert.Equal(t, SeverityError, result.Severity)
	})
}

func TestCheckConflictDateIsolation(t *testing.T) {
	d := NewDetector(DefaultOptions())
	student := newStudent("Ali", "16:00", 60,
		scheduled("2025-03-09", "16:00", 60),
		scheduled("2025-03-11", "16:00", 60),
	)

	result := d.CheckConflict([]*model.Student{student}, Candidate{Date: testDate, StartTime: "16:00", Duration: 60})

	assert.Equal(t, SeverityNone, result.Severity)
}

func TestCheckConflictCollectsAllStudents(t *testing.T) {
	d := NewDetector(DefaultOptions())
	first := newStudent("Ali", "16:00", 60, scheduled(testDate, "16:00", 60))
	second := newStudent("Sara", "17:00", 60, scheduled(testDate, "17:00", 60))
	third := newStudent("Mona", "17:45", 60, scheduled(testDate, "17:45", 60))
	far := newStudent("Adam", "20:00", 60, scheduled(testDate, "20:00", 60))
	roster := []*model.Student{first, second, third, far}

	result := d.CheckConflict(roster, Candidate{Date: testDate, StartTime: "16:30", Duration: 60})

	assert.Equal(t, SeverityError, result.Severity)
	require.Len(t, result.Conflicts, 3)
	assert.Same(t, first, result.Conflicts[0].Student)
	assert.Equal(t, SeverityError, result.Conflicts[0].Severity)
	assert.Same(t, second, result.Conflicts[1].Student)
	assert.Equal(t, SeverityError, result.Conflicts[1].Severity)
	assert.Same(t, third, result.Conflicts[2].Student)
	assert.Equal(t, SeverityWarning, result.Conflicts[2].Severity)
	assert.Equal(t, 3, result.StudentCount())
}

func TestCheckConflictWarningOnly(t *testing.T) {
	d := NewDetector(DefaultOptions())
	roster := []*model.Student{
		newStudent("Ali", "16:00", 60, scheduled(testDate, "16:00", 60)),
		newStudent("Sara", "19:00", 60, scheduled(testDate, "19:00", 60)),
	}

	result := d.CheckConflict(roster, Candidate{Date: testDate, StartTime: "17:20", Duration: 90})

	assert.Equal(t, SeverityWarning, result.Severity)
	assert.Len(t, result.Conflicts, 2)
}

func TestCheckConflictExcludesCandidateStudent(t *testing.T) {
	d := NewDetector(DefaultOptions())
	own := newStudent("Ali", "16:00", 60, scheduled(testDate, "16:00", 60))
	other := newStudent("Sara", "18:00", 60, scheduled(testDate, "18:00", 60))

	result := d.CheckConflict([]*model.Student{own, other}, Candidate{
		Date:      testDate,
		StartTime: "16:00",
		Duration:  60,
		StudentID: own.ID,
	})

	assert.Equal(t, SeverityNone, result.Severity)
}

func TestCheckConflictIgnoreSession(t *testing.T) {
	d := NewDetector(DefaultOptions())
	session := scheduled(testDate, "16:00", 60)
	student := newStudent("Ali", "16:00", 60, session)

	result := d.CheckConflict([]*model.Student{student}, Candidate{
		Date:            testDate,
		StartTime:       "16:00",
		IgnoreSessionID: session.ID,
	})

	assert.Equal(t, SeverityNone, result.Severity)
}

func TestCheckConflictMalformedDate(t *testing.T) {
	d := NewDetector(DefaultOptions())
	student := newStudent("Ali", "16:00", 60, scheduled("bad-date", "16:00", 60))

	result := d.CheckConflict([]*model.Student{student}, Candidate{Date: "bad-date", StartTime: "16:00"})

	assert.Equal(t, SeverityNone, result.Severity)
}

func TestCheckConflictIsIdempotent(t *testing.T) {
	d := NewDetector(DefaultOptions())
	roster := []*model.Student{
		newStudent("Ali", "16:00", 60, scheduled(testDate, "16:00", 60)),
		newStudent("Sara", "17:00", 60, scheduled(testDate, "17:10", 60)),
	}
	candidate := Candidate{Date: testDate, StartTime: "16:30", Duration: 30}

	first := d.CheckConflict(roster, candidate)
	second := d.CheckConflict(roster, candidate)

	assert.Equal(t, first, second)
}

func TestCheckRestoreConflict(t *testing.T) {
	d := NewDetector(DefaultOptions())

	t.Run("never conflicts with itself", func(t *testing.T) {
		session := newSession(testDate, "16:00", 60, model.SessionStatusCancelled)
		student := newStudent("Ali", "16:00", 60, session)

		result := d.CheckRestoreConflict([]*model.Student{student}, student.ID, session.ID)

		assert.Equal(t, SeverityNone, result.Severity)
		assert.Empty(t, result.Conflicts)
	})

	t.Run("sees sessions added meanwhile", func(t *testing.T) {
		session := newSession(testDate, "16:00", 60, model.SessionStatusCancelled)
		student := newStudent("Ali", "16:00", 60, session)
		newcomer := newStudent("Sara", "16:30", 60, scheduled(testDate, "16:30", 60))

		result := d.CheckRestoreConflict([]*model.Student{student, newcomer}, student.ID, session.ID)

		assert.Equal(t, SeverityError, result.Severity)
		require.Len(t, result.Conflicts, 1)
		assert.Same(t, newcomer, result.Conflicts[0].Student)
		assert.NotEqual(t, session.ID, result.Conflicts[0].Session.ID)
	})

	t.Run("uses student defaults of restored session", func(t *testing.T) {
		session := newSession(testDate, "", 0, model.SessionStatusVacation)
		student := newStudent("Ali", "15:00", 90, session)
		other := newStudent("Sara", "16:20", 60, scheduled(testDate, "16:20", 60))

		result := d.CheckRestoreConflict([]*model.Student{student, other}, student.ID, session.ID)

		assert.Equal(t, SeverityError, result.Severity)
	})

	t.Run("unknown session", func(t *testing.T) {
		student := newStudent("Ali", "16:00", 60, scheduled(testDate, "16:00", 60))

		result := d.CheckRestoreConflict([]*model.Student{student}, student.ID, uuid.New())

		assert.Equal(t, SeverityNone, result.Severity)
	})
}

func TestNewDetectorNormalizesOptions(t *testing.T) {
	d := NewDetector(Options{ClosenessThreshold: -5})

	assert.Equal(t, 60, d.Options().DefaultDuration)
	assert.Equal(t, "16:00", d.Options().DefaultStartTime)
	assert.Equal(t, 0, d.Options().ClosenessThreshold)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "none", SeverityNone.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())

	text, err := SeverityError.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "error", string(text))
}
