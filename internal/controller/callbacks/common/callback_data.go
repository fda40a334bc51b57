package common

// Префиксы callback data
const (
	Noop = "noop"

	SessionComplete     = "session_complete:"      // session_complete:<session_id>
	SessionCancel       = "session_cancel:"        // session_cancel:<session_id>
	SessionVacation     = "session_vacation:"      // session_vacation:<session_id>
	SessionRestore      = "session_restore:"       // session_restore:<session_id>
	SessionRestoreForce = "session_restore_force:" // session_restore_force:<session_id>

	DayView  = "day_view:"  // day_view:2025-03-10
	WeekView = "week_view:" // week_view:2025-03-10

	RemoveStudent = "remove_student:" // remove_student:<student_id>
	ConfirmRemove = "confirm_remove:" // confirm_remove:<student_id>
	CancelRemove  = "cancel_remove"
)
