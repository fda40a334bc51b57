package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common/formatting"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/state"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"github.com/omarhammouda0/session-smart-buddy/internal/service"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"Ученики:\n" +
	"/students - Список учеников\n" +
	"/addstudent - Добавить ученика\n" +
	"/removestudent - Удалить ученика\n" +
	"/schedule имя: дни - Изменить регулярное расписание\n\n" +
	"Расписание:\n" +
	"/day [дата] - Занятия дня\n" +
	"/week [дата] - Картинка недели\n" +
	"/check дата время [мин] - Проверить время\n" +
	"/slots дата [мин] - Свободное время\n" +
	"/addsession имя дата время [мин] - Разовое занятие\n" +
	"/generate - Создать занятия по расписанию\n" +
	"/settings - Настройки расписания\n\n" +
	"/cancel - Отменить текущий диалог\n\n" +
	"Дата: 2025-03-10, 10.03, сегодня, завтра"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user := update.Message.From

	tutor, err := h.tutorService.Register(ctx, user.ID, user.Username, user.FirstName)
	if err != nil {
		h.logger.Error("Failed to register tutor", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Я помогу вести расписание учеников и предупрежу, если занятия пересекаются "+
			"или стоят слишком близко друг к другу.\n\n%s",
		tutor.FirstName,
		helpText,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}

// HandleStudents показывает список учеников
func (h *Handlers) HandleStudents(ctx context.Context, b *bot.Bot, update *models.Update) {
	tutor, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	students, err := h.studentService.List(ctx, tutor.ID)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "list students", err)
		return
	}

	h.sendHTML(ctx, b, chatID, common.BuildStudentsScreen(students), nil)
}

// HandleRemoveStudent предлагает выбрать ученика для удаления
func (h *Handlers) HandleRemoveStudent(ctx context.Context, b *bot.Bot, update *models.Update) {
	tutor, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	students, err := h.studentService.List(ctx, tutor.ID)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "list students", err)
		return
	}

	text, kb := common.BuildRemoveStudentScreen(students)
	h.sendHTML(ctx, b, chatID, text, kb)
}

// HandleDay показывает занятия дня: /day [дата]
func (h *Handlers) HandleDay(ctx context.Context, b *bot.Bot, update *models.Update) {
	tutor, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) > 1 {
		h.sendError(ctx, b, chatID, "Использование: /day [дата]")
		return
	}
	date, err := parseDate(strings.Join(args, ""), h.now())
	if err != nil {
		h.sendError(ctx, b, chatID, inputErrorText(err))
		return
	}

	day, err := h.scheduleService.DaySessions(ctx, tutor.ID, date)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "day sessions", err)
		return
	}

	text, kb := common.BuildDayScreen(date, day)
	h.sendHTML(ctx, b, chatID, text, kb)
}

// HandleWeek отправляет картинку недели: /week [дата]
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	tutor, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	date, err := parseDate(strings.Join(args, ""), h.now())
	if err != nil {
		h.sendError(ctx, b, chatID, inputErrorText(err))
		return
	}

	// неделя всегда с понедельника
	monday := weekStartFor(date)

	if err := common.SendWeekImage(ctx, b, h.scheduleService, chatID, tutor.ID, monday); err != nil {
		h.replyServiceError(ctx, b, chatID, "week image", err)
	}
}

// HandleCheck проверяет предлагаемое время: /check дата время [мин]
func (h *Handlers) HandleCheck(ctx context.Context, b *bot.Bot, update *models.Update) {
	tutor, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	candidate, err := parseCheckArgs(commandArgs(update.Message.Text), h.now())
	if err != nil {
		h.sendError(ctx, b, chatID, inputErrorText(err)+"\n\nИспользование: /check дата время [мин]")
		return
	}

	result, err := h.scheduleService.CheckConflict(ctx, tutor.ID, candidate)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "check conflict", err)
		return
	}

	text := fmt.Sprintf("🔎 %s %s\n\n%s",
		formatting.FormatDate(candidate.Date),
		candidate.StartTime,
		formatting.FormatConflictResult(result),
	)
	h.sendHTML(ctx, b, chatID, text, nil)
}

// HandleSlots показывает свободное время: /slots дата [мин]
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	tutor, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	date, duration, err := parseDayArgs(commandArgs(update.Message.Text), h.now())
	if err != nil {
		h.sendError(ctx, b, chatID, inputErrorText(err)+"\n\nИспользование: /slots дата [мин]")
		return
	}

	if duration == 0 {
		settings, err := h.scheduleService.Settings(ctx, tutor.ID)
		if err != nil {
			h.replyServiceError(ctx, b, chatID, "load settings", err)
			return
		}
		duration = settings.DefaultSessionDuration
	}

	slots, err := h.scheduleService.SuggestSlots(ctx, tutor.ID, date, duration)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "suggest slots", err)
		return
	}

	h.sendHTML(ctx, b, chatID, formatting.FormatSlots(date, duration, slots), nil)
}

// HandleAddSession добавляет разовое занятие: /addsession имя дата время [мин]
func (h *Handlers) HandleAddSession(ctx context.Context, b *bot.Bot, update *models.Update) {
	tutor, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parseAddSessionArgs(commandArgs(update.Message.Text), h.now())
	if err != nil {
		h.sendError(ctx, b, chatID, inputErrorText(err)+"\n\nИспользование: /addsession имя дата время [мин]")
		return
	}

	student, err := h.studentService.FindByName(ctx, tutor.ID, args.Name)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "find student", err)
		return
	}

	session, result, err := h.sessionService.AddSession(ctx, service.AddSessionRequest{
		TutorID:   tutor.ID,
		StudentID: student.ID,
		Date:      args.Date,
		Time:      args.Time,
		Duration:  args.Duration,
	})
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "add session", err)
		return
	}

	h.sendHTML(ctx, b, chatID, sessionAddedText(student, session, result), nil)
}

// HandleGenerate создаёт занятия по регулярному расписанию
func (h *Handlers) HandleGenerate(ctx context.Context, b *bot.Bot, update *models.Update) {
	tutor, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	created, err := h.sessionService.GenerateForTutor(ctx, tutor.ID, h.weeksAhead)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "generate sessions", err)
		return
	}

	if created == 0 {
		h.sendMessage(ctx, b, chatID, "✅ Все занятия по расписанию уже созданы")
		return
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Создано %d %s на %d %s вперёд",
		created, formatting.PluralizeSessions(created),
		h.weeksAhead, formatting.PluralizeWeeks(h.weeksAhead),
	))
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	if currentState == state.StateNone {
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
		return
	}

	h.logger.Debug("Dialog step",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateAddStudentName:
		h.handleAddStudentNameStep(ctx, b, update)
	case state.StateAddStudentTime:
		h.handleAddStudentTimeStep(ctx, b, update)
	case state.StateAddStudentDuration:
		h.handleAddStudentDurationStep(ctx, b, update)
	case state.StateAddStudentDays:
		h.handleAddStudentDaysStep(ctx, b, update)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}

func sessionAddedText(student *model.Student, session *model.Session, result schedule.ConflictResult) string {
	at := session.Time
	if at == "" {
		at = student.SessionTime
	}

	text := fmt.Sprintf("✅ Занятие добавлено\n\n👤 <b>%s</b>\n📅 %s %s",
		html.EscapeString(student.Name),
		formatting.FormatDate(session.Date),
		at,
	)
	if result.HasConflict() {
		text += "\n\n" + formatting.FormatConflictResult(result)
	}
	return text
}
