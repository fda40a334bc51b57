package model

import "time"

// Tutor репетитор, владелец списка учеников (идентифицируется по Telegram)
type Tutor struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	CreatedAt  time.Time `json:"created_at"`
}
