package common

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common/formatting"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common/keyboard"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/service"
)

// WeekStart понедельник недели, в которую попадает дата
func WeekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// SendWeekImage отправляет картинку недели начиная с from и кнопки перехода
func SendWeekImage(ctx context.Context, b *bot.Bot, scheduleService *service.ScheduleService, chatID, tutorID int64, from string) error {
	week, err := scheduleService.Week(ctx, tutorID, from)
	if err != nil {
		return err
	}

	imageData, err := GenerateWeekImage(week, time.Now())
	if err != nil {
		return fmt.Errorf("generate week image: %w", err)
	}

	total := 0
	days := make([]models.InlineKeyboardButton, 0, len(week))
	for _, day := range week {
		total += len(day.Sessions)
		t, _ := time.Parse(model.DateLayout, day.Date)
		days = append(days, keyboard.Button(
			fmt.Sprintf("%s %s", formatting.GetWeekdayShortName(int(t.Weekday())), t.Format("02.01")),
			DayView+day.Date,
		))
	}

	kb := keyboard.NewBuilder().
		Grid(4, days...).
		Row(keyboard.WeekPagination(WeekView, from)...).
		Build()

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(imageData)},
		Caption:     fmt.Sprintf("📆 Неделя с %s: %d %s", formatting.FormatDate(from), total, formatting.PluralizeSessions(total)),
		ReplyMarkup: kb,
	})
	if err != nil {
		return fmt.Errorf("send week image: %w", err)
	}
	return nil
}
