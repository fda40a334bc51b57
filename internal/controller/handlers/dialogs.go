package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common/formatting"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/state"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"github.com/omarhammouda0/session-smart-buddy/internal/service"
	"go.uber.org/zap"
)

// HandleAddStudentStart начинает диалог добавления ученика
func (h *Handlers) HandleAddStudentStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	tutor, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}

	telegramID := update.Message.From.ID

	h.logger.Info("Starting student creation",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("tutor_id", tutor.ID))

	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateAddStudentName)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"👤 Новый ученик\n\n"+
			"Шаг 1 из 4: Как зовут ученика?\n\n"+
			"Для отмены используйте /cancel")
}

// handleAddStudentNameStep обрабатывает ввод имени
func (h *Handlers) handleAddStudentNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	name := strings.TrimSpace(update.Message.Text)

	if name == "" {
		h.sendError(ctx, b, chatID, "❌ Имя не может быть пустым.\n\nПопробуйте ещё раз:")
		return
	}
	if utf8.RuneCountInString(name) > StudentNameMaxLength {
		h.sendError(ctx, b, chatID,
			fmt.Sprintf("❌ Имя слишком длинное. Максимум %d символов.\n\nПопробуйте ещё раз:", StudentNameMaxLength))
		return
	}

	h.stateManager.SetData(telegramID, state.KeyStudentName, name)
	h.stateManager.SetState(telegramID, state.StateAddStudentTime)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Имя: %s\n\n"+
		"Шаг 2 из 4: Во сколько обычно занятие? (ЧЧ:ММ)\n\n"+
		"Отправьте - чтобы взять время по умолчанию", name))
}

// handleAddStudentTimeStep обрабатывает ввод времени
func (h *Handlers) handleAddStudentTimeStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	input := update.Message.Text

	if !isSkip(input) {
		at, err := parseClock(input)
		if err != nil {
			h.sendError(ctx, b, chatID, inputErrorText(err)+"\n\nПопробуйте ещё раз:")
			return
		}
		h.stateManager.SetData(telegramID, state.KeyStudentTime, at)
	}

	h.stateManager.SetState(telegramID, state.StateAddStudentDuration)
	h.sendMessage(ctx, b, chatID,
		"Шаг 3 из 4: Сколько длится занятие в минутах?\n\n"+
			"Например: 45, 60, 90\n"+
			"Отправьте - чтобы взять длительность по умолчанию")
}

// handleAddStudentDurationStep обрабатывает ввод длительности
func (h *Handlers) handleAddStudentDurationStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	input := update.Message.Text

	if !isSkip(input) {
		duration, err := parseMinutes(input)
		if err != nil {
			h.sendError(ctx, b, chatID, inputErrorText(err)+"\n\nПопробуйте ещё раз:")
			return
		}
		h.stateManager.SetData(telegramID, state.KeyStudentDuration, duration)
	}

	h.stateManager.SetState(telegramID, state.StateAddStudentDays)
	h.sendMessage(ctx, b, chatID,
		"Шаг 4 из 4: В какие дни занятия?\n\n"+
			"Например: пн, ср 18:00, пт 17:00 90\n"+
			"(время и длительность для дня можно не указывать)\n"+
			"Отправьте - если регулярного расписания нет")
}

// handleAddStudentDaysStep обрабатывает ввод дней и сохраняет ученика
func (h *Handlers) handleAddStudentDaysStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	input := update.Message.Text

	var days []model.ScheduleDay
	if !isSkip(input) {
		parsed, err := parseScheduleDays(input)
		if err != nil {
			h.sendError(ctx, b, chatID, inputErrorText(err)+"\n\nПопробуйте ещё раз:")
			return
		}
		days = parsed
	}

	tutor, ok := h.requireTutor(ctx, b, update)
	if !ok {
		h.stateManager.ClearState(telegramID)
		return
	}

	name, ok := h.stateManager.GetString(telegramID, state.KeyStudentName)
	if !ok {
		h.logger.Error("Missing student name in dialog", zap.Int64("telegram_id", telegramID))
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "❌ Ошибка: данные не найдены. Начните заново через /addstudent")
		return
	}
	at, _ := h.stateManager.GetString(telegramID, state.KeyStudentTime)
	duration, _ := h.stateManager.GetInt(telegramID, state.KeyStudentDuration)

	student, conflicts, err := h.studentService.Add(ctx, service.AddStudentRequest{
		TutorID:         tutor.ID,
		Name:            name,
		SessionTime:     at,
		SessionDuration: duration,
		ScheduleDays:    days,
	})
	if err != nil {
		h.stateManager.ClearState(telegramID)
		h.replyServiceError(ctx, b, chatID, "add student", err)
		return
	}

	h.stateManager.ClearState(telegramID)

	h.logger.Info("Student added via dialog",
		zap.Int64("tutor_id", tutor.ID),
		zap.String("student_id", student.ID.String()),
		zap.Int("conflicting_days", len(conflicts)))

	h.sendHTML(ctx, b, chatID, studentAddedText(student, conflicts), nil)
}

func studentAddedText(student *model.Student, conflicts []schedule.DayConflict) string {
	text := fmt.Sprintf(
		"✅ Ученик <b>%s</b> добавлен\n\n"+
			"🕐 %s | ⏱ %s\n"+
			"📆 %s\n\n"+
			"Занятия по расписанию: /generate",
		html.EscapeString(student.Name),
		student.SessionTime,
		formatting.FormatDuration(student.SessionDuration),
		formatting.FormatScheduleDays(student.ScheduleDays, student.SessionTime, student.SessionDuration),
	)

	if len(conflicts) > 0 {
		text += "\n\n" + formatting.FormatDayConflicts(conflicts)
	}
	return text
}
