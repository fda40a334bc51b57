package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/repository/base"
)

type TutorRepository struct {
	*base.Repository
}

func NewTutorRepository(pool *pgxpool.Pool) *TutorRepository {
	return &TutorRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт нового репетитора
func (r *TutorRepository) Create(ctx context.Context, tutor *model.Tutor) error {
	query := `
		INSERT INTO tutors (telegram_id, username, first_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, tutor.TelegramID, tutor.Username, tutor.FirstName).
		Scan(&tutor.ID, &tutor.CreatedAt)
	if err != nil {
		return fmt.Errorf("create tutor: %w", err)
	}

	return nil
}

// GetByTelegramID получает репетитора по Telegram ID
func (r *TutorRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Tutor, error) {
	query := `
		SELECT id, telegram_id, username, first_name, created_at
		FROM tutors
		WHERE telegram_id = $1
	`

	var tutor model.Tutor
	err := r.QueryRow(ctx, query, telegramID).Scan(
		&tutor.ID,
		&tutor.TelegramID,
		&tutor.Username,
		&tutor.FirstName,
		&tutor.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Репетитор не найден
		}
		return nil, fmt.Errorf("get tutor by telegram id: %w", err)
	}

	return &tutor, nil
}

// Update обновляет данные профиля
func (r *TutorRepository) Update(ctx context.Context, tutor *model.Tutor) error {
	query := `
		UPDATE tutors
		SET username = $1, first_name = $2
		WHERE id = $3
	`

	if err := r.ExecOne(ctx, query, tutor.Username, tutor.FirstName, tutor.ID); err != nil {
		return fmt.Errorf("update tutor: %w", err)
	}

	return nil
}

// ListIDs возвращает ID всех репетиторов
func (r *TutorRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.Query(ctx, `SELECT id FROM tutors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tutor id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
