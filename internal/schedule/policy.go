package schedule

import (
	"strings"

	"github.com/omarhammouda0/session-smart-buddy/internal/model"
)

// CancellationSummary использование лимита отмен за месяц
type CancellationSummary struct {
	Month        string // "YYYY-MM"
	Used         int
	Limit        int // 0 = без лимита
	LimitReached bool
}

// MonthlyCancellations считает отменённые занятия ученика за месяц "YYYY-MM"
func MonthlyCancellations(student *model.Student, month string) int {
	if student == nil {
		return 0
	}
	count := 0
	for _, session := range student.Sessions {
		if session.Status == model.SessionStatusCancelled && strings.HasPrefix(session.Date, month+"-") {
			count++
		}
	}
	return count
}

// CancellationStatus сводка по лимиту отмен для месяца даты "YYYY-MM-DD"
func CancellationStatus(student *model.Student, date string) CancellationSummary {
	month := date
	if len(month) >= 7 {
		month = month[:7]
	}

	summary := CancellationSummary{
		Month: month,
		Used:  MonthlyCancellations(student, month),
	}
	if student != nil && student.CancellationPolicy != nil && student.CancellationPolicy.MonthlyLimit > 0 {
		summary.Limit = student.CancellationPolicy.MonthlyLimit
		summary.LimitReached = summary.Used >= summary.Limit
	}
	return summary
}
