package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/repository/base"
)

type SettingsRepository struct {
	*base.Repository
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{Repository: base.NewRepository(pool)}
}

// Get получает настройки репетитора, nil если он их не менял
func (r *SettingsRepository) Get(ctx context.Context, tutorID int64) (*model.Settings, error) {
	query := `
		SELECT default_session_duration, default_session_time, working_hours_start, working_hours_end, closeness_threshold
		FROM tutor_settings
		WHERE tutor_id = $1
	`

	var settings model.Settings
	err := r.QueryRow(ctx, query, tutorID).Scan(
		&settings.DefaultSessionDuration,
		&settings.DefaultSessionTime,
		&settings.WorkingHoursStart,
		&settings.WorkingHoursEnd,
		&settings.ClosenessThreshold,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tutor settings: %w", err)
	}

	return &settings, nil
}

// Upsert сохраняет настройки репетитора
func (r *SettingsRepository) Upsert(ctx context.Context, tutorID int64, settings model.Settings) error {
	query := `
		INSERT INTO tutor_settings (tutor_id, default_session_duration, default_session_time, working_hours_start, working_hours_end, closeness_threshold)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tutor_id) DO UPDATE SET
			default_session_duration = EXCLUDED.default_session_duration,
			default_session_time = EXCLUDED.default_session_time,
			working_hours_start = EXCLUDED.working_hours_start,
			working_hours_end = EXCLUDED.working_hours_end,
			closeness_threshold = EXCLUDED.closeness_threshold,
			updated_at = NOW()
	`

	_, err := r.ExecAffected(ctx, query,
		tutorID,
		settings.DefaultSessionDuration,
		settings.DefaultSessionTime,
		settings.WorkingHoursStart,
		settings.WorkingHoursEnd,
		settings.ClosenessThreshold,
	)
	if err != nil {
		return fmt.Errorf("upsert tutor settings: %w", err)
	}

	return nil
}
