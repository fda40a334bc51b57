package controller

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/handlers"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/state"
	"github.com/omarhammouda0/session-smart-buddy/internal/service"
	"go.uber.org/zap"
)

// Services сервисы, которые нужны боту
type Services struct {
	Tutors   *service.TutorService
	Students *service.StudentService
	Sessions *service.SessionService
	Schedule *service.ScheduleService
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	stateManager    *state.Manager
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	services Services,
	weeksAhead int,
	logger *zap.Logger,
) *BotController {
	stateManager := state.NewManager(state.DefaultTTL)

	cmdHandlers := handlers.NewHandlers(
		services.Tutors,
		services.Students,
		services.Sessions,
		services.Schedule,
		stateManager,
		weeksAhead,
		logger,
	)

	callbackHandler := callbacks.NewHandler(
		services.Tutors,
		services.Students,
		services.Sessions,
		services.Schedule,
		stateManager,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		stateManager:    stateManager,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Ученики
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/students", bot.MatchTypeExact, c.handlers.HandleStudents)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addstudent", bot.MatchTypeExact, c.handlers.HandleAddStudentStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/removestudent", bot.MatchTypeExact, c.handlers.HandleRemoveStudent)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/schedule", bot.MatchTypePrefix, c.handlers.HandleSchedule)

	// Команды с аргументами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/day", bot.MatchTypePrefix, c.handlers.HandleDay)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypePrefix, c.handlers.HandleWeek)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/check", bot.MatchTypePrefix, c.handlers.HandleCheck)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/slots", bot.MatchTypePrefix, c.handlers.HandleSlots)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addsession", bot.MatchTypePrefix, c.handlers.HandleAddSession)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/generate", bot.MatchTypeExact, c.handlers.HandleGenerate)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/settings", bot.MatchTypePrefix, c.handlers.HandleSettings)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "day", Description: "📅 Занятия дня"},
		{Command: "week", Description: "📆 Неделя картинкой"},
		{Command: "students", Description: "👥 Мои ученики"},
		{Command: "addstudent", Description: "➕ Добавить ученика"},
		{Command: "removestudent", Description: "🗑 Удалить ученика"},
		{Command: "schedule", Description: "📆 Изменить дни ученика"},
		{Command: "check", Description: "🔎 Проверить время"},
		{Command: "slots", Description: "🕐 Свободное время"},
		{Command: "addsession", Description: "📝 Разовое занятие"},
		{Command: "generate", Description: "🔁 Занятия по расписанию"},
		{Command: "settings", Description: "⚙️ Настройки расписания"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")

	go c.cleanupStates(ctx)

	c.bot.Start(ctx)
	return nil
}

// cleanupStates периодически удаляет брошенные диалоги
func (c *BotController) cleanupStates(ctx context.Context) {
	ticker := time.NewTicker(state.DefaultTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := c.stateManager.Cleanup(); removed > 0 {
				c.logger.Debug("Expired dialogs removed", zap.Int("count", removed))
			}
		}
	}
}
