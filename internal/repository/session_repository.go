package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/repository/base"
)

const sessionColumns = `id, student_id, to_char(session_date, 'YYYY-MM-DD'), COALESCE(session_time, ''), COALESCE(duration, 0), status, topic, notes, homework, created_at, updated_at`

const insertSessionQuery = `
	INSERT INTO sessions (id, student_id, session_date, session_time, duration, status, topic, notes, homework)
	VALUES ($1, $2, $3::text::date, NULLIF($4, ''), NULLIF($5, 0), $6, $7, $8, $9)
	RETURNING created_at, updated_at
`

type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт занятие
func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	err := r.QueryRow(ctx, insertSessionQuery, sessionArgs(session)...).
		Scan(&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// CreateBatch создаёт несколько занятий одной пачкой
func (r *SessionRepository) CreateBatch(ctx context.Context, sessions []*model.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, session := range sessions {
		if session.ID == uuid.Nil {
			session.ID = uuid.New()
		}
		batch.Queue(insertSessionQuery, sessionArgs(session)...)
	}

	results := r.SendBatch(ctx, batch)
	defer results.Close()

	for _, session := range sessions {
		if err := results.QueryRow().Scan(&session.CreatedAt, &session.UpdatedAt); err != nil {
			return fmt.Errorf("create session batch: %w", err)
		}
	}

	return nil
}

// ListByTutor получает все занятия учеников репетитора
func (r *SessionRepository) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Session, error) {
	query := `
		SELECT s.id, s.student_id, to_char(s.session_date, 'YYYY-MM-DD'), COALESCE(s.session_time, ''), COALESCE(s.duration, 0),
		       s.status, s.topic, s.notes, s.homework, s.created_at, s.updated_at
		FROM sessions s
		JOIN students st ON st.id = s.student_id
		WHERE st.tutor_id = $1
		ORDER BY s.session_date, s.created_at
	`

	rows, err := r.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list sessions by tutor: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// UpdateStatus обновляет статус занятия
func (r *SessionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SessionStatus) error {
	query := `
		UPDATE sessions
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	if err := r.ExecOne(ctx, query, status, id); err != nil {
		return fmt.Errorf("update session status: %w", err)
	}

	return nil
}

func sessionArgs(session *model.Session) []any {
	return []any{
		session.ID,
		session.StudentID,
		session.Date,
		session.Time,
		session.Duration,
		session.Status,
		session.Topic,
		session.Notes,
		session.Homework,
	}
}

func scanSession(row pgx.Row) (*model.Session, error) {
	var session model.Session
	err := row.Scan(
		&session.ID,
		&session.StudentID,
		&session.Date,
		&session.Time,
		&session.Duration,
		&session.Status,
		&session.Topic,
		&session.Notes,
		&session.Homework,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
