package formatting

import (
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
)

// StatusDisplay отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetSessionStatusDisplay возвращает emoji и текст для статуса занятия
func GetSessionStatusDisplay(status model.SessionStatus) StatusDisplay {
	displays := map[model.SessionStatus]StatusDisplay{
		model.SessionStatusScheduled: {"🗓", "Запланировано"},
		model.SessionStatusCompleted: {"✅", "Проведено"},
		model.SessionStatusCancelled: {"❌", "Отменено"},
		model.SessionStatusVacation:  {"🏖", "Каникулы"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetSeverityDisplay возвращает emoji и текст для серьёзности конфликта
func GetSeverityDisplay(severity schedule.Severity) StatusDisplay {
	switch severity {
	case schedule.SeverityError:
		return StatusDisplay{"🔴", "Пересечение"}
	case schedule.SeverityWarning:
		return StatusDisplay{"🟡", "Слишком близко"}
	default:
		return StatusDisplay{"🟢", "Свободно"}
	}
}

// GetReasonText описание причины конфликта
func GetReasonText(reason schedule.Reason) string {
	switch reason {
	case schedule.ReasonExact:
		return "в то же время"
	case schedule.ReasonPartial:
		return "пересекается"
	case schedule.ReasonClose:
		return "мало времени между занятиями"
	default:
		return ""
	}
}
