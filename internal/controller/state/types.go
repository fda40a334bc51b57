package state

import "time"

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Состояния для добавления ученика
	StateAddStudentName     UserState = "add_student_name"
	StateAddStudentTime     UserState = "add_student_time"
	StateAddStudentDuration UserState = "add_student_duration"
	StateAddStudentDays     UserState = "add_student_days"
)

// Ключи временных данных диалога
const (
	KeyStudentName     = "student_name"
	KeyStudentTime     = "student_time"
	KeyStudentDuration = "student_duration"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State     UserState
	Data      map[string]interface{} // Временные данные для текущего диалога
	UpdatedAt time.Time
}
