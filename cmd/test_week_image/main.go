package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/service"
	"go.uber.org/zap"
)

// Рисует неделю с тестовыми учениками в week.png без базы и Telegram

type staticRoster []*model.Student

func (r staticRoster) LoadRoster(_ context.Context, _ int64) ([]*model.Student, error) {
	return r, nil
}

type staticSettings model.Settings

func (s staticSettings) Settings(_ context.Context, _ int64) (model.Settings, error) {
	return model.Settings(s), nil
}

func main() {
	now := time.Now()
	monday := common.WeekStart(now)
	day := func(offset int) string {
		return monday.AddDate(0, 0, offset).Format(model.DateLayout)
	}

	anna := newStudent("Анна", "16:00", 60)
	boris := newStudent("Борис", "16:30", 60)
	vera := newStudent("Вера", "18:00", 90)

	// Понедельник: Анна и Борис пересекаются
	addSession(anna, day(0), "", model.SessionStatusScheduled)
	addSession(boris, day(0), "", model.SessionStatusScheduled)
	// Среда: Вера сразу после Анны
	addSession(anna, day(2), "", model.SessionStatusCompleted)
	addSession(vera, day(2), "17:05", model.SessionStatusScheduled)
	// Пятница: отмена и каникулы
	addSession(boris, day(4), "", model.SessionStatusCancelled)
	addSession(vera, day(4), "", model.SessionStatusVacation)

	schedule := service.NewScheduleService(
		staticRoster{anna, boris, vera},
		staticSettings(model.DefaultSettings()),
		service.NewMetricsService(),
		zap.NewNop(),
	)

	week, err := schedule.Week(context.Background(), 1, day(0))
	if err != nil {
		fmt.Printf("Ошибка загрузки недели: %v\n", err)
		os.Exit(1)
	}

	imageData, err := common.GenerateWeekImage(week, now)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	filename := "week.png"
	if err := os.WriteFile(filename, imageData, 0o644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	total := 0
	for _, d := range week {
		total += len(d.Sessions)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", filename)
	fmt.Printf("📅 Период: %s - %s\n", day(0), day(6))
	fmt.Printf("📊 Занятий: %d\n", total)
}

func newStudent(name, at string, duration int) *model.Student {
	return &model.Student{
		ID:              uuid.New(),
		TutorID:         1,
		Name:            name,
		SessionTime:     at,
		SessionDuration: duration,
		SessionType:     model.SessionTypeOnsite,
		CreatedAt:       time.Now(),
	}
}

func addSession(student *model.Student, date, at string, status model.SessionStatus) {
	student.Sessions = append(student.Sessions, &model.Session{
		ID:        uuid.New(),
		StudentID: student.ID,
		Date:      date,
		Time:      at,
		Status:    status,
	})
}
