package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common/formatting"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"github.com/omarhammouda0/session-smart-buddy/internal/service"
	"go.uber.org/zap"
)

// HandleSchedule меняет регулярное расписание ученика: /schedule имя: пн, ср 18:00
func (h *Handlers) HandleSchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	tutor, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	name, days, err := parseScheduleArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.sendError(ctx, b, chatID, inputErrorText(err)+
			"\n\nИспользование: /schedule имя: пн, ср 18:00, пт 17:00 90\n"+
			"/schedule имя: - очищает расписание")
		return
	}

	student, err := h.studentService.FindByName(ctx, tutor.ID, name)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "find student", err)
		return
	}

	updated, conflicts, err := h.studentService.UpdateSchedule(ctx, service.UpdateScheduleRequest{
		TutorID:      tutor.ID,
		StudentID:    student.ID,
		ScheduleDays: days,
	})
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "update schedule", err)
		return
	}

	h.sendHTML(ctx, b, chatID, scheduleUpdatedText(updated, conflicts), nil)
}

// HandleSettings показывает или меняет настройки: /settings [ключ=значение ...]
func (h *Handlers) HandleSettings(ctx context.Context, b *bot.Bot, update *models.Update) {
	tutor, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	current, err := h.tutorService.Settings(ctx, tutor.ID)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "load settings", err)
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		h.sendHTML(ctx, b, chatID, formatting.FormatSettings(current)+"\n\n"+settingsUsage, nil)
		return
	}

	changed, err := applySettingsArgs(current, args)
	if err != nil {
		h.sendError(ctx, b, chatID, inputErrorText(err)+"\n\n"+settingsUsage)
		return
	}

	saved, err := h.tutorService.UpdateSettings(ctx, tutor.ID, changed)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "update settings", err)
		return
	}

	h.logger.Info("Settings changed via bot",
		zap.Int64("tutor_id", tutor.ID),
		zap.Int("closeness_threshold", saved.ClosenessThreshold))

	h.sendHTML(ctx, b, chatID, "✅ Сохранено\n\n"+formatting.FormatSettings(saved), nil)
}

const settingsUsage = "Изменить: /settings длительность=60 время=16:00 часы=09:00-21:00 порог=30\n" +
	"порог=0 отключает предупреждения о близких занятиях"

func scheduleUpdatedText(student *model.Student, conflicts []schedule.DayConflict) string {
	text := fmt.Sprintf(
		"✅ Расписание <b>%s</b> обновлено\n\n📆 %s\n\nСоздать занятия: /generate",
		html.EscapeString(student.Name),
		formatting.FormatScheduleDays(student.ScheduleDays, student.SessionTime, student.SessionDuration),
	)

	if len(conflicts) > 0 {
		text += "\n\n" + formatting.FormatDayConflicts(conflicts)
	}
	return text
}
