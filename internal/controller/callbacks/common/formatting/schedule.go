package formatting

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
)

// FormatInterval форматирует интервал как "16:00-17:00"
func FormatInterval(interval schedule.Interval) string {
	return fmt.Sprintf("%s-%s", schedule.FormatClock(interval.Start), schedule.FormatClock(interval.End))
}

// FormatDaySessions форматирует занятия дня с промежутками и отметками конфликтов
func FormatDaySessions(date string, day []schedule.DaySession) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 <b>%s</b>\n\n", FormatDate(date))

	if len(day) == 0 {
		sb.WriteString("Занятий нет 🎉")
		return sb.String()
	}

	for i, ds := range day {
		status := GetSessionStatusDisplay(ds.Session.Status)
		fmt.Fprintf(&sb, "%d. %s %s <b>%s</b>",
			i+1,
			status.Emoji,
			FormatInterval(ds.Interval),
			html.EscapeString(ds.Student.Name),
		)
		if ds.HasConflict {
			severity := GetSeverityDisplay(ds.Severity)
			fmt.Fprintf(&sb, " %s %s", severity.Emoji, GetReasonText(ds.ConflictType))
		}
		sb.WriteString("\n")

		if ds.GapAfter != nil {
			sb.WriteString(formatGap(*ds.GapAfter))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func formatGap(gap int) string {
	switch {
	case gap < 0:
		return fmt.Sprintf("   ⚠️ наложение %s\n", FormatDuration(-gap))
	case gap == 0:
		return "   ↪️ без перерыва\n"
	default:
		return fmt.Sprintf("   ☕️ перерыв %s\n", FormatDuration(gap))
	}
}

// FormatConflictResult форматирует результат проверки кандидата
func FormatConflictResult(result schedule.ConflictResult) string {
	severity := GetSeverityDisplay(result.Severity)
	if !result.HasConflict() {
		return fmt.Sprintf("%s %s", severity.Emoji, severity.Text)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>%s</b>: %d %s\n",
		severity.Emoji,
		severity.Text,
		result.StudentCount(),
		PluralizeStudents(result.StudentCount()),
	)

	for _, c := range result.Conflicts {
		line := fmt.Sprintf("• %s %s, %s", html.EscapeString(c.Student.Name), FormatInterval(c.Interval), GetReasonText(c.Reason))
		if c.Reason == schedule.ReasonClose {
			line += fmt.Sprintf(" (%d %s)", c.GapMinutes, PluralizeMinutes(c.GapMinutes))
		}
		sb.WriteString(line + "\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatSlots форматирует варианты времени
func FormatSlots(date string, duration int, slots []schedule.SlotSuggestion) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🕐 <b>Свободное время %s</b> (%s)\n\n", FormatDate(date), FormatDuration(duration))

	available := schedule.Available(slots)
	if len(available) == 0 {
		sb.WriteString("Свободного времени нет в рабочих часах")
		return sb.String()
	}

	for _, slot := range available {
		fmt.Fprintf(&sb, "%s %s\n", GetSeverityDisplay(slot.Severity).Emoji, slot.StartTime)
	}
	sb.WriteString("\n🟡 рядом с другим занятием")

	return sb.String()
}

// FormatScheduleDays форматирует регулярное расписание: "Пн 16:00, Ср 18:00 (90 мин)"
func FormatScheduleDays(days []model.ScheduleDay, defaultTime string, defaultDuration int) string {
	if len(days) == 0 {
		return "нет"
	}

	sorted := make([]model.ScheduleDay, len(days))
	copy(sorted, days)
	// понедельник первым, воскресенье последним
	sort.SliceStable(sorted, func(i, j int) bool {
		return (sorted[i].DayOfWeek+6)%7 < (sorted[j].DayOfWeek+6)%7
	})

	parts := make([]string, 0, len(sorted))
	for _, day := range sorted {
		at := defaultTime
		if day.Time != "" {
			at = day.Time
		}
		part := fmt.Sprintf("%s %s", GetWeekdayShortName(day.DayOfWeek), at)
		if day.Duration > 0 && day.Duration != defaultDuration {
			part += fmt.Sprintf(" (%s)", FormatDuration(day.Duration))
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// FormatStudentShort форматирует строку списка учеников
func FormatStudentShort(student *model.Student, index int) string {
	typeEmoji := "🏫"
	if student.SessionType == model.SessionTypeOnline {
		typeEmoji = "💻"
	}

	return fmt.Sprintf(
		"%d. %s <b>%s</b>\n"+
			"   🕐 %s | ⏱ %s\n"+
			"   📆 %s",
		index,
		typeEmoji,
		html.EscapeString(student.Name),
		student.SessionTime,
		FormatDuration(student.SessionDuration),
		FormatScheduleDays(student.ScheduleDays, student.SessionTime, student.SessionDuration),
	)
}

// FormatDayConflicts форматирует конфликты регулярного расписания
func FormatDayConflicts(conflicts []schedule.DayConflict) string {
	if len(conflicts) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("⚠️ <b>Пересечения в расписании:</b>\n")
	for _, dc := range conflicts {
		fmt.Fprintf(&sb, "\n%s, %s\n%s\n",
			GetWeekdayName(dc.Day.DayOfWeek),
			FormatDate(dc.Date),
			FormatConflictResult(dc.Result),
		)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatCancellation форматирует итог отмены
func FormatCancellation(summary schedule.CancellationSummary) string {
	if summary.Limit == 0 {
		return fmt.Sprintf("Отмен за месяц: %d", summary.Used)
	}
	text := fmt.Sprintf("Отмен за месяц: %d из %d", summary.Used, summary.Limit)
	if summary.LimitReached {
		text += "\n⚠️ Лимит отмен исчерпан"
	}
	return text
}

// FormatSettings настройки расписания репетитора
func FormatSettings(settings model.Settings) string {
	threshold := "без предупреждений"
	if settings.ClosenessThreshold > 0 {
		threshold = FormatDuration(settings.ClosenessThreshold)
	}

	return fmt.Sprintf(
		"⚙️ <b>Настройки расписания</b>\n\n"+
			"⏱ Длительность по умолчанию: %s\n"+
			"🕐 Время по умолчанию: %s\n"+
			"🏢 Рабочие часы: %s-%s\n"+
			"↔️ Минимальный перерыв: %s",
		FormatDuration(settings.DefaultSessionDuration),
		settings.DefaultSessionTime,
		settings.WorkingHoursStart,
		settings.WorkingHoursEnd,
		threshold,
	)
}
