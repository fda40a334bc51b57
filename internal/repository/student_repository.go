package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/repository/base"
)

const studentColumns = `id, tutor_id, name, session_time, session_duration, session_type, schedule_days, custom_price, cancellation_limit, created_at`

type StudentRepository struct {
	*base.Repository
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт ученика
func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	days, err := json.Marshal(scheduleDaysOrEmpty(student.ScheduleDays))
	if err != nil {
		return fmt.Errorf("marshal schedule days: %w", err)
	}

	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}

	query := `
		INSERT INTO students (id, tutor_id, name, session_time, session_duration, session_type, schedule_days, custom_price, cancellation_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err = r.QueryRow(
		ctx, query,
		student.ID,
		student.TutorID,
		student.Name,
		student.SessionTime,
		student.SessionDuration,
		student.SessionType,
		days,
		student.CustomPrice,
		cancellationLimit(student.CancellationPolicy),
	).Scan(&student.CreatedAt)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

// GetByID получает ученика по ID (без занятий)
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return student, nil
}

// ListByTutor получает учеников репетитора в порядке добавления
func (r *StudentRepository) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE tutor_id = $1 ORDER BY created_at, id`

	rows, err := r.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list students by tutor: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

// UpdateSchedule обновляет время, длительность и дни расписания
func (r *StudentRepository) UpdateSchedule(ctx context.Context, student *model.Student) error {
	days, err := json.Marshal(scheduleDaysOrEmpty(student.ScheduleDays))
	if err != nil {
		return fmt.Errorf("marshal schedule days: %w", err)
	}

	query := `
		UPDATE students
		SET session_time = $1, session_duration = $2, schedule_days = $3
		WHERE id = $4
	`

	if err := r.ExecOne(ctx, query, student.SessionTime, student.SessionDuration, days, student.ID); err != nil {
		return fmt.Errorf("update student schedule: %w", err)
	}

	return nil
}

// Delete удаляет ученика (занятия удалятся каскадом)
func (r *StudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.ExecOne(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	return nil
}

func scanStudent(row pgx.Row) (*model.Student, error) {
	var (
		student model.Student
		days    []byte
		limit   *int
	)

	err := row.Scan(
		&student.ID,
		&student.TutorID,
		&student.Name,
		&student.SessionTime,
		&student.SessionDuration,
		&student.SessionType,
		&days,
		&student.CustomPrice,
		&limit,
		&student.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(days) > 0 {
		if err := json.Unmarshal(days, &student.ScheduleDays); err != nil {
			return nil, fmt.Errorf("unmarshal schedule days: %w", err)
		}
	}
	if limit != nil {
		student.CancellationPolicy = &model.CancellationPolicy{MonthlyLimit: *limit}
	}

	return &student, nil
}

func scheduleDaysOrEmpty(days []model.ScheduleDay) []model.ScheduleDay {
	if days == nil {
		return []model.ScheduleDay{}
	}
	return days
}

func cancellationLimit(policy *model.CancellationPolicy) *int {
	if policy == nil || policy.MonthlyLimit <= 0 {
		return nil
	}
	limit := policy.MonthlyLimit
	return &limit
}
