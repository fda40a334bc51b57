package students

import (
	"context"
	"fmt"
	"html"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/callbacktypes"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/service"
	"go.uber.org/zap"
)

// HandleRemoveStudent показывает подтверждение удаления
func HandleRemoveStudent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithTutor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		studentID, err := common.ParseUUIDFromCallback(callback.Data, common.RemoveStudent)
		if err != nil {
			common.HandleError(hc, err, "parse student id")
			return
		}

		// из ростера, чтобы показать число занятий
		roster, err := h.StudentService.List(ctx, hc.Tutor.ID)
		if err != nil {
			common.HandleError(hc, err, "load roster")
			return
		}
		student := findStudent(roster, studentID)
		if student == nil {
			common.HandleError(hc, service.ErrStudentNotFound, "find student")
			return
		}

		hc.Answer("")
		text, kb := common.BuildConfirmRemoveScreen(student)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to edit message", zap.Error(err))
		}
	})
}

// HandleConfirmRemove удаляет ученика с занятиями
func HandleConfirmRemove(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithTutor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		studentID, err := common.ParseUUIDFromCallback(callback.Data, common.ConfirmRemove)
		if err != nil {
			common.HandleError(hc, err, "parse student id")
			return
		}

		student, err := h.StudentService.Get(ctx, hc.Tutor.ID, studentID)
		if err != nil {
			common.HandleError(hc, err, "get student")
			return
		}

		if err := h.StudentService.Remove(ctx, hc.Tutor.ID, studentID); err != nil {
			common.HandleError(hc, err, "remove student")
			return
		}

		hc.Answer("🗑 Удалено")
		text := fmt.Sprintf("🗑 Ученик <b>%s</b> удалён", html.EscapeString(student.Name))
		if err := hc.EditMessage(text, nil); err != nil {
			h.Logger.Error("Failed to edit message", zap.Error(err))
		}
	})
}

// HandleCancelRemove закрывает выбор ученика
func HandleCancelRemove(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	hc.Answer("")
	if err := hc.EditMessage("Удаление отменено", nil); err != nil {
		h.Logger.Error("Failed to edit message", zap.Error(err))
	}
}

func findStudent(roster []*model.Student, id uuid.UUID) *model.Student {
	for _, student := range roster {
		if student.ID == id {
			return student
		}
	}
	return nil
}
