package sessions

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/callbacktypes"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common/formatting"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"github.com/omarhammouda0/session-smart-buddy/internal/service"
	"go.uber.org/zap"
)

// HandleComplete отмечает занятие проведённым
func HandleComplete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithTutor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		sessionID, err := common.ParseUUIDFromCallback(callback.Data, common.SessionComplete)
		if err != nil {
			common.HandleError(hc, err, "parse session id")
			return
		}

		session, err := h.SessionService.Complete(ctx, hc.Tutor.ID, sessionID)
		if err != nil {
			common.HandleError(hc, err, "complete session")
			return
		}

		hc.Answer("✅ Занятие проведено")
		refreshDay(hc, session.Date)
	})
}

// HandleCancel отменяет занятие и показывает использование лимита отмен
func HandleCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithTutor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		sessionID, err := common.ParseUUIDFromCallback(callback.Data, common.SessionCancel)
		if err != nil {
			common.HandleError(hc, err, "parse session id")
			return
		}

		session, summary, err := h.SessionService.Cancel(ctx, hc.Tutor.ID, sessionID)
		if err != nil {
			common.HandleError(hc, err, "cancel session")
			return
		}

		text := "❌ Занятие отменено\n" + formatting.FormatCancellation(summary)
		if summary.LimitReached {
			hc.AnswerAlert(text)
		} else {
			hc.Answer(text)
		}
		refreshDay(hc, session.Date)
	})
}

// HandleVacation отмечает занятие как каникулы
func HandleVacation(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithTutor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		sessionID, err := common.ParseUUIDFromCallback(callback.Data, common.SessionVacation)
		if err != nil {
			common.HandleError(hc, err, "parse session id")
			return
		}

		session, err := h.SessionService.MarkVacation(ctx, hc.Tutor.ID, sessionID)
		if err != nil {
			common.HandleError(hc, err, "mark vacation")
			return
		}

		hc.Answer("🏖 Каникулы")
		refreshDay(hc, session.Date)
	})
}

// HandleRestore возвращает занятие в расписание, при пересечении просит подтверждение
func HandleRestore(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	restore(ctx, b, callback, h, common.SessionRestore, false)
}

// HandleRestoreForce возвращает занятие несмотря на пересечение
func HandleRestoreForce(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	restore(ctx, b, callback, h, common.SessionRestoreForce, true)
}

func restore(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, prefix string, force bool) {
	common.WithTutor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		sessionID, err := common.ParseUUIDFromCallback(callback.Data, prefix)
		if err != nil {
			common.HandleError(hc, err, "parse session id")
			return
		}

		session, result, err := h.SessionService.Restore(ctx, hc.Tutor.ID, sessionID, force)
		if errors.Is(err, service.ErrRestoreConflict) {
			showRestoreConflict(hc, session, result)
			return
		}
		if err != nil {
			common.HandleError(hc, err, "restore session")
			return
		}

		if result.HasConflict() {
			hc.Answer("↩️ Занятие возвращено, есть пересечения")
		} else {
			hc.Answer("↩️ Занятие возвращено")
		}
		refreshDay(hc, session.Date)
	})
}

func showRestoreConflict(hc *common.HandlerContext, session *model.Session, result schedule.ConflictResult) {
	hc.Answer("")

	text, kb := common.BuildRestoreConflictScreen(session, result)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show restore conflict",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
	}
}

// refreshDay перерисовывает экран дня после изменения статуса
func refreshDay(hc *common.HandlerContext, date string) {
	day, err := hc.Handler.ScheduleService.DaySessions(hc.Ctx, hc.Tutor.ID, date)
	if err != nil {
		hc.Handler.Logger.Error("Failed to reload day",
			zap.String("date", date),
			zap.Error(err))
		return
	}

	text, kb := common.BuildDayScreen(date, day)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to refresh day screen",
			zap.String("date", date),
			zap.Error(err))
	}
}
