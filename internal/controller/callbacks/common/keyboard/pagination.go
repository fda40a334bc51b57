package keyboard

import (
	"time"

	"github.com/go-telegram/bot/models"
)

const dateLayout = "2006-01-02"

// DayPagination ряд ◀️ день назад, переход к неделе, день вперёд ▶️
// dayPrefix и weekPrefix - префиксы callback (например "day_view:")
func DayPagination(dayPrefix, weekPrefix, date string) []models.InlineKeyboardButton {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil
	}

	return []models.InlineKeyboardButton{
		Button("◀️", dayPrefix+t.AddDate(0, 0, -1).Format(dateLayout)),
		Button("📆 Неделя", weekPrefix+date),
		Button("▶️", dayPrefix+t.AddDate(0, 0, 1).Format(dateLayout)),
	}
}

// WeekPagination создаёт пагинацию по неделям
func WeekPagination(prefix, weekStart string) []models.InlineKeyboardButton {
	t, err := time.Parse(dateLayout, weekStart)
	if err != nil {
		return nil
	}

	return []models.InlineKeyboardButton{
		Button("◀️ Предыдущая неделя", prefix+t.AddDate(0, 0, -7).Format(dateLayout)),
		Button("▶️ Следующая неделя", prefix+t.AddDate(0, 0, 7).Format(dateLayout)),
	}
}

// AddDayPagination добавляет навигацию по дням к builder
func (b *Builder) AddDayPagination(dayPrefix, weekPrefix, date string) *Builder {
	return b.Row(DayPagination(dayPrefix, weekPrefix, date)...)
}
