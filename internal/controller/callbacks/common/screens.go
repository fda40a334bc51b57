package common

import (
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common/formatting"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common/keyboard"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
)

// BuildDayScreen формирует экран дня: список занятий и кнопки действий.
// Номер на кнопке совпадает с номером занятия в списке.
func BuildDayScreen(date string, day []schedule.DaySession) (string, *models.InlineKeyboardMarkup) {
	text := formatting.FormatDaySessions(date, day)

	kb := keyboard.NewBuilder()
	for i, ds := range day {
		id := ds.Session.ID.String()
		n := i + 1

		if ds.Session.IsScheduled() {
			kb.Row(
				keyboard.Button(fmt.Sprintf("%d ✅", n), SessionComplete+id),
				keyboard.Button(fmt.Sprintf("%d ❌", n), SessionCancel+id),
				keyboard.Button(fmt.Sprintf("%d 🏖", n), SessionVacation+id),
			)
			continue
		}
		kb.Row(keyboard.Button(fmt.Sprintf("%d ↩️ Вернуть в расписание", n), SessionRestore+id))
	}
	kb.AddDayPagination(DayView, WeekView, date)

	return text, kb.Build()
}

// BuildRestoreConflictScreen предупреждение перед возвратом занятия на занятое время
func BuildRestoreConflictScreen(session *model.Session, result schedule.ConflictResult) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf(
		"⚠️ <b>Нельзя вернуть занятие без подтверждения</b>\n\n"+
			"📅 %s\n\n%s\n\n"+
			"Вернуть всё равно?",
		formatting.FormatDate(session.Date),
		formatting.FormatConflictResult(result),
	)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("↩️ Вернуть всё равно", SessionRestoreForce+session.ID.String())).
		AddBackButton(DayView + session.Date).
		Build()

	return text, kb
}

// BuildStudentsScreen список учеников
func BuildStudentsScreen(students []*model.Student) string {
	if len(students) == 0 {
		return "👥 У вас пока нет учеников\n\nДобавить: /addstudent"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 <b>Ваши ученики</b> (%d)\n\n", len(students))
	for i, student := range students {
		sb.WriteString(formatting.FormatStudentShort(student, i+1))
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// BuildRemoveStudentScreen выбор ученика для удаления
func BuildRemoveStudentScreen(students []*model.Student) (string, *models.InlineKeyboardMarkup) {
	if len(students) == 0 {
		return "👥 У вас пока нет учеников", nil
	}

	buttons := make([]models.InlineKeyboardButton, 0, len(students))
	for _, student := range students {
		buttons = append(buttons, keyboard.Button("🗑 "+student.Name, RemoveStudent+student.ID.String()))
	}

	kb := keyboard.NewBuilder().
		Grid(2, buttons...).
		Row(keyboard.CancelButton(CancelRemove)).
		Build()

	return "Кого удалить?", kb
}

// BuildConfirmRemoveScreen подтверждение удаления ученика
func BuildConfirmRemoveScreen(student *model.Student) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf(
		"🗑 Удалить ученика <b>%s</b>?\n\n"+
			"Все его занятия (%d %s) будут удалены.",
		html.EscapeString(student.Name),
		len(student.Sessions),
		formatting.PluralizeSessions(len(student.Sessions)),
	)

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmCancelButtons(ConfirmRemove+student.ID.String(), CancelRemove)...).
		Build()

	return text, kb
}
