package formatting

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/omarhammouda0/session-smart-buddy/internal/model"
)

// FormatDate форматирует дату "YYYY-MM-DD" как "10.03.2025 (Пн)"
func FormatDate(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s (%s)", t.Format("02.01.2006"), GetWeekdayShortName(int(t.Weekday())))
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

var weekdayNames = []string{
	"Воскресенье",
	"Понедельник",
	"Вторник",
	"Среда",
	"Четверг",
	"Пятница",
	"Суббота",
}

var weekdayShortNames = []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

var monthNames = []string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// GetMonthName название месяца на русском
func GetMonthName(month time.Month) string {
	if month >= time.January && month <= time.December {
		return monthNames[month-1]
	}
	return ""
}

// GetWeekdayName возвращает название дня недели на русском
func GetWeekdayName(weekday int) string {
	if weekday >= 0 && weekday < len(weekdayNames) {
		return weekdayNames[weekday]
	}
	return "Неизвестно"
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday int) string {
	if weekday >= 0 && weekday < len(weekdayShortNames) {
		return weekdayShortNames[weekday]
	}
	return "?"
}

// ParseWeekday разбирает "пн", "Понедельник" или номер 1-7 (1 = понедельник, 7 = воскресенье)
func ParseWeekday(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	if len(s) == 1 && s[0] >= '1' && s[0] <= '7' {
		return int(s[0]-'0') % 7, true
	}

	for i, short := range weekdayShortNames {
		if s == strings.ToLower(short) {
			return i, true
		}
	}

	// полное название или его начало от трёх букв
	if utf8.RuneCountInString(s) >= 3 {
		for i, name := range weekdayNames {
			if strings.HasPrefix(strings.ToLower(name), s) {
				return i, true
			}
		}
	}
	return 0, false
}
