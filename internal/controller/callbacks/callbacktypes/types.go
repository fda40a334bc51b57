package callbacktypes

import (
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/state"
	"github.com/omarhammouda0/session-smart-buddy/internal/service"
	"go.uber.org/zap"
)

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	TutorService    *service.TutorService
	StudentService  *service.StudentService
	SessionService  *service.SessionService
	ScheduleService *service.ScheduleService
	StateManager    *state.Manager
	Logger          *zap.Logger
}
