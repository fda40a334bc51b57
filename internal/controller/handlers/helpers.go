package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common/formatting"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
)

var (
	errBadDate     = errors.New("bad date")
	errBadTime     = errors.New("bad time")
	errBadDuration = errors.New("bad duration")
	errBadDays     = errors.New("bad schedule days")
	errBadArgs     = errors.New("bad arguments")
	errBadSetting  = errors.New("bad setting")
)

// commandArgs аргументы команды без самой команды: "/day@bot 2025-03-10" -> ["2025-03-10"]
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return fields
	}
	return fields[1:]
}

// parseDate понимает "2025-03-10", "10.03", "10.03.2025", "сегодня"/"today", "завтра"/"tomorrow".
// Пустая строка означает сегодня.
func parseDate(s string, now time.Time) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "today", "сегодня":
		return now.Format(model.DateLayout), nil
	case "tomorrow", "завтра":
		return now.AddDate(0, 0, 1).Format(model.DateLayout), nil
	}

	if t, err := time.Parse(model.DateLayout, s); err == nil {
		return t.Format(model.DateLayout), nil
	}
	if t, err := time.Parse("02.01.2006", s); err == nil {
		return t.Format(model.DateLayout), nil
	}
	if t, err := time.Parse("02.01", s); err == nil {
		t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
		// 29.02 в невисокосный год time.Date переносит на 01.03
		if t.Format("02.01") == s {
			return t.Format(model.DateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", errBadDate, s)
}

// weekStartFor понедельник недели даты "YYYY-MM-DD", дата уже проверена parseDate
func weekStartFor(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return common.WeekStart(t).Format(model.DateLayout)
}

// parseClock проверяет время "HH:MM" и приводит к двузначному виду
func parseClock(s string) (string, error) {
	minutes, err := schedule.ParseClock(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", errBadTime, s)
	}
	return schedule.FormatClock(minutes), nil
}

// parseMinutes разбирает длительность в минутах
func parseMinutes(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < MinSessionDuration || n > MaxSessionDuration {
		return 0, fmt.Errorf("%w: %q", errBadDuration, s)
	}
	return n, nil
}

// isSkip ответ "пропустить шаг"
func isSkip(s string) bool {
	s = strings.TrimSpace(s)
	return s == "-" || strings.EqualFold(s, "нет") || strings.EqualFold(s, "skip")
}

// parseScheduleDays разбирает "пн, ср 18:00, пт 17:00 90": день, необязательное время и длительность
func parseScheduleDays(s string) ([]model.ScheduleDay, error) {
	var days []model.ScheduleDay
	for _, part := range strings.Split(s, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		if len(fields) > 3 {
			return nil, fmt.Errorf("%w: %q", errBadDays, part)
		}

		weekday, ok := formatting.ParseWeekday(fields[0])
		if !ok {
			return nil, fmt.Errorf("%w: unknown day %q", errBadDays, fields[0])
		}
		day := model.ScheduleDay{DayOfWeek: weekday}

		if len(fields) >= 2 {
			at, err := parseClock(fields[1])
			if err != nil {
				return nil, err
			}
			day.Time = at
		}
		if len(fields) == 3 {
			duration, err := parseMinutes(fields[2])
			if err != nil {
				return nil, err
			}
			day.Duration = duration
		}
		days = append(days, day)
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("%w: empty", errBadDays)
	}
	return days, nil
}

// addSessionArgs аргументы /addsession
type addSessionArgs struct {
	Name     string
	Date     string
	Time     string
	Duration int
}

// parseAddSessionArgs разбирает "имя [из нескольких слов] дата время [минуты]"
func parseAddSessionArgs(args []string, now time.Time) (addSessionArgs, error) {
	var result addSessionArgs
	if len(args) < 3 {
		return result, errBadArgs
	}

	rest := args
	if n := len(rest); n >= 4 {
		if duration, err := parseMinutes(rest[n-1]); err == nil {
			result.Duration = duration
			rest = rest[:n-1]
		}
	}

	n := len(rest)
	if n < 3 {
		return result, errBadArgs
	}

	at, err := parseClock(rest[n-1])
	if err != nil {
		return result, err
	}
	date, err := parseDate(rest[n-2], now)
	if err != nil {
		return result, err
	}

	result.Name = strings.Join(rest[:n-2], " ")
	result.Date = date
	result.Time = at
	return result, nil
}

// parseCheckArgs разбирает "дата время [минуты]"
func parseCheckArgs(args []string, now time.Time) (schedule.Candidate, error) {
	if len(args) < 2 || len(args) > 3 {
		return schedule.Candidate{}, errBadArgs
	}

	date, err := parseDate(args[0], now)
	if err != nil {
		return schedule.Candidate{}, err
	}
	at, err := parseClock(args[1])
	if err != nil {
		return schedule.Candidate{}, err
	}

	candidate := schedule.Candidate{Date: date, StartTime: at}
	if len(args) == 3 {
		duration, err := parseMinutes(args[2])
		if err != nil {
			return schedule.Candidate{}, err
		}
		candidate.Duration = duration
	}
	return candidate, nil
}

// parseDayArgs разбирает "[дата] [минуты]"
func parseDayArgs(args []string, now time.Time) (string, int, error) {
	if len(args) > 2 {
		return "", 0, errBadArgs
	}

	var date string
	var err error
	if len(args) == 0 {
		date, err = parseDate("", now)
	} else {
		date, err = parseDate(args[0], now)
	}
	if err != nil {
		return "", 0, err
	}

	duration := 0
	if len(args) == 2 {
		duration, err = parseMinutes(args[1])
		if err != nil {
			return "", 0, err
		}
	}
	return date, duration, nil
}

// parseScheduleArgs разбирает "имя: пн, ср 18:00". "имя: -" очищает расписание
func parseScheduleArgs(args []string) (string, []model.ScheduleDay, error) {
	name, rest, ok := strings.Cut(strings.Join(args, " "), ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, errBadArgs
	}

	if isSkip(rest) {
		return name, nil, nil
	}
	days, err := parseScheduleDays(rest)
	if err != nil {
		return "", nil, err
	}
	return name, days, nil
}

// applySettingsArgs применяет к current пары "ключ=значение":
// длительность=60 время=16:00 часы=09:00-21:00 порог=30
func applySettingsArgs(current model.Settings, args []string) (model.Settings, error) {
	if len(args) == 0 {
		return current, errBadArgs
	}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return current, fmt.Errorf("%w: %q", errBadSetting, arg)
		}

		switch strings.ToLower(key) {
		case "длительность", "duration":
			duration, err := parseMinutes(value)
			if err != nil {
				return current, err
			}
			current.DefaultSessionDuration = duration
		case "время", "time":
			at, err := parseClock(value)
			if err != nil {
				return current, err
			}
			current.DefaultSessionTime = at
		case "часы", "hours":
			from, to, ok := strings.Cut(value, "-")
			if !ok {
				return current, fmt.Errorf("%w: %q", errBadSetting, arg)
			}
			start, err := parseClock(from)
			if err != nil {
				return current, err
			}
			end, err := parseClock(to)
			if err != nil {
				return current, err
			}
			if schedule.ClockMinutes(end) <= schedule.ClockMinutes(start) {
				return current, fmt.Errorf("%w: %q", errBadSetting, arg)
			}
			current.WorkingHoursStart = start
			current.WorkingHoursEnd = end
		case "порог", "gap":
			// 0 отключает предупреждения о близких занятиях
			threshold, err := strconv.Atoi(value)
			if err != nil || threshold < 0 || threshold > MaxSessionDuration {
				return current, fmt.Errorf("%w: %q", errBadSetting, arg)
			}
			current.ClosenessThreshold = threshold
		default:
			return current, fmt.Errorf("%w: unknown key %q", errBadSetting, key)
		}
	}
	return current, nil
}

// inputErrorText подсказка для ошибки разбора ввода
func inputErrorText(err error) string {
	switch {
	case errors.Is(err, errBadDate):
		return "❌ Не понял дату. Примеры: 2025-03-10, 10.03, сегодня, завтра"
	case errors.Is(err, errBadTime):
		return "❌ Не понял время. Формат ЧЧ:ММ, например 16:00"
	case errors.Is(err, errBadDuration):
		return fmt.Sprintf("❌ Длительность в минутах от %d до %d", MinSessionDuration, MaxSessionDuration)
	case errors.Is(err, errBadDays):
		return "❌ Не понял дни. Пример: пн, ср 18:00, пт 17:00 90"
	case errors.Is(err, errBadSetting):
		return "❌ Не понял настройку. Пример: длительность=60 время=16:00 часы=09:00-21:00 порог=30"
	default:
		return "❌ Неверные аргументы"
	}
}
