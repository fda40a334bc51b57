package handlers

import (
	"time"

	"github.com/omarhammouda0/session-smart-buddy/internal/controller/state"
	"github.com/omarhammouda0/session-smart-buddy/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	tutorService    *service.TutorService
	studentService  *service.StudentService
	sessionService  *service.SessionService
	scheduleService *service.ScheduleService
	stateManager    *state.Manager
	weeksAhead      int
	logger          *zap.Logger
	now             func() time.Time
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	tutorService *service.TutorService,
	studentService *service.StudentService,
	sessionService *service.SessionService,
	scheduleService *service.ScheduleService,
	stateManager *state.Manager,
	weeksAhead int,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		tutorService:    tutorService,
		studentService:  studentService,
		sessionService:  sessionService,
		scheduleService: scheduleService,
		stateManager:    stateManager,
		weeksAhead:      weeksAhead,
		logger:          logger,
		now:             time.Now,
	}
}
