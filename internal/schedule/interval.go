package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/omarhammouda0/session-smart-buddy/internal/model"
)

const minutesPerDay = 24 * 60

// Defaults значения, подставляемые когда ни у занятия, ни у ученика нет своих
type Defaults struct {
	StartTime string // "HH:MM"
	Duration  int    // в минутах
}

// Interval полуоткрытый интервал [Start, End) в минутах от полуночи
type Interval struct {
	Start int
	End   int
}

// NewInterval строит интервал из начала и длительности
func NewInterval(start, duration int) Interval {
	return Interval{Start: start, End: start + duration}
}

// Duration длительность интервала в минутах
func (i Interval) Duration() int {
	return i.End - i.Start
}

// Overlaps проверяет пересечение: start1 < end2 && end1 > start2
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// Gap возвращает промежуток между концом более раннего интервала и началом более позднего.
// Для пересекающихся интервалов возвращает 0.
func Gap(a, b Interval) int {
	switch {
	case a.End <= b.Start:
		return b.Start - a.End
	case b.End <= a.Start:
		return a.Start - b.End
	default:
		return 0
	}
}

// ClockMinutes переводит "HH:MM" в минуты от полуночи.
// Невалидные части считаются нулём, отсутствующие минуты = :00.
func ClockMinutes(hhmm string) int {
	hourPart, minutePart, _ := strings.Cut(strings.TrimSpace(hhmm), ":")

	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 {
		hour = 0
	}

	minute, err := strconv.Atoi(minutePart)
	if err != nil || minute < 0 {
		minute = 0
	}

	return hour*60 + minute
}

// ParseClock строгий разбор времени "HH:MM" (минуты можно опустить)
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}

	hourPart, minutePart, hasMinutes := strings.Cut(s, ":")

	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}

	minute := 0
	if hasMinutes {
		if len(minutePart) != 2 {
			return 0, fmt.Errorf("invalid minutes in %q", s)
		}
		minute, err = strconv.Atoi(minutePart)
		if err != nil || minute < 0 || minute > 59 {
			return 0, fmt.Errorf("invalid minutes in %q", s)
		}
	}

	return hour*60 + minute, nil
}

// FormatClock переводит минуты от полуночи в "HH:MM"
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// EffectiveTime время занятия с учётом умолчаний ученика и глобальных
func EffectiveTime(session *model.Session, student *model.Student, defaults Defaults) string {
	if session != nil && session.Time != "" {
		return session.Time
	}
	if student != nil && student.SessionTime != "" {
		return student.SessionTime
	}
	return defaults.StartTime
}

// EffectiveDuration длительность занятия с учётом умолчаний ученика и глобальных
func EffectiveDuration(session *model.Session, student *model.Student, defaults Defaults) int {
	if session != nil && session.Duration > 0 {
		return session.Duration
	}
	if student != nil && student.SessionDuration > 0 {
		return student.SessionDuration
	}
	return defaults.Duration
}

// ResolveEffectiveInterval единственная точка, где применяется цепочка умолчаний
func ResolveEffectiveInterval(session *model.Session, student *model.Student, defaults Defaults) Interval {
	return NewInterval(
		ClockMinutes(EffectiveTime(session, student, defaults)),
		EffectiveDuration(session, student, defaults),
	)
}
