package calendar

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/callbacktypes"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common"
	"go.uber.org/zap"
)

// HandleDayView показывает занятия выбранного дня
func HandleDayView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithTutor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		date, err := common.ParseValueFromCallback(callback.Data, common.DayView)
		if err != nil {
			common.HandleError(hc, err, "parse date")
			return
		}

		day, err := h.ScheduleService.DaySessions(ctx, hc.Tutor.ID, date)
		if err != nil {
			common.HandleError(hc, err, "load day")
			return
		}

		hc.Answer("")
		text, kb := common.BuildDayScreen(date, day)

		// с картинки недели текст не отредактировать, отправляем новым сообщением
		send := hc.EditMessage
		if hc.Message != nil && len(hc.Message.Photo) > 0 {
			send = hc.SendMessage
		}
		if err := send(text, kb); err != nil {
			h.Logger.Error("Failed to edit day screen", zap.String("date", date), zap.Error(err))
		}
	})
}

// HandleWeekView отправляет картинку недели, начинающейся с даты из callback
func HandleWeekView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithTutor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		from, err := common.ParseValueFromCallback(callback.Data, common.WeekView)
		if err != nil {
			common.HandleError(hc, err, "parse date")
			return
		}

		hc.Answer("📆 Рисую неделю...")
		if err := common.SendWeekImage(hc.Ctx, hc.Bot, h.ScheduleService, hc.ChatID, hc.Tutor.ID, from); err != nil {
			h.Logger.Error("Failed to send week image",
				zap.Int64("tutor_id", hc.Tutor.ID),
				zap.String("from", from),
				zap.Error(err))
			_ = hc.SendMessage(common.ErrorMessage(err), nil)
		}
	})
}
