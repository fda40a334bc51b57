package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/calendar"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/callbacktypes"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/sessions"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/students"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	case data == common.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Занятия =====
	case strings.HasPrefix(data, common.SessionComplete):
		sessions.HandleComplete(ctx, b, callback, h)
	case strings.HasPrefix(data, common.SessionCancel):
		sessions.HandleCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, common.SessionVacation):
		sessions.HandleVacation(ctx, b, callback, h)
	case strings.HasPrefix(data, common.SessionRestoreForce):
		sessions.HandleRestoreForce(ctx, b, callback, h)
	case strings.HasPrefix(data, common.SessionRestore):
		sessions.HandleRestore(ctx, b, callback, h)

	// ===== Расписание =====
	case strings.HasPrefix(data, common.DayView):
		calendar.HandleDayView(ctx, b, callback, h)
	case strings.HasPrefix(data, common.WeekView):
		calendar.HandleWeekView(ctx, b, callback, h)

	// ===== Ученики =====
	case strings.HasPrefix(data, common.RemoveStudent):
		students.HandleRemoveStudent(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ConfirmRemove):
		students.HandleConfirmRemove(ctx, b, callback, h)
	case data == common.CancelRemove:
		students.HandleCancelRemove(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback", zap.String("data", data))
		common.AnswerCallback(ctx, b, callback.ID, "")
	}
}
