package common

import (
	"errors"

	"github.com/omarhammouda0/session-smart-buddy/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrTutorNotFound):
		return "❌ Вы не зарегистрированы. Используйте /start"
	case errors.Is(err, service.ErrStudentNotFound):
		return "❌ Ученик не найден"
	case errors.Is(err, service.ErrSessionNotFound):
		return "❌ Занятие не найдено"
	case errors.Is(err, service.ErrInvalidTransition):
		return "❌ Это действие недоступно для текущего статуса занятия"
	case errors.Is(err, service.ErrRestoreConflict):
		return "⚠️ Время уже занято другим занятием"
	case errors.Is(err, service.ErrValidation):
		return "❌ Неверные данные"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	default:
		return "❌ Произошла ошибка"
	}
}
