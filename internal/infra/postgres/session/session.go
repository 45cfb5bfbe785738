package infra_postgres_session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/wannawatch/core/internal/model"
	usecase_session "github.com/humanbelnik/wannawatch/core/internal/usecase/session"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const foreignKeyViolation = "23503"

type Driver struct {
	db *sqlx.DB
}

func New(
	db *sqlx.DB,
) *Driver {
	return &Driver{db: db}
}

type sessionDTO struct {
	ID        uuid.UUID    `db:"id"`
	GroupID   uuid.UUID    `db:"group_id"`
	CreatedBy uuid.UUID    `db:"created_by"`
	Name      string       `db:"name"`
	Status    string       `db:"status"`
	CreatedAt time.Time    `db:"created_at"`
	ClosedAt  sql.NullTime `db:"closed_at"`
}

func (s sessionDTO) toDomain() model.Session {
	session := model.Session{
		ID:        s.ID,
		GroupID:   s.GroupID,
		CreatedBy: s.CreatedBy,
		Name:      s.Name,
		Status:    model.SessionStatus(s.Status),
		CreatedAt: s.CreatedAt.UTC(),
	}
	if s.ClosedAt.Valid {
		closedAt := s.ClosedAt.Time.UTC()
		session.ClosedAt = &closedAt
	}
	return session
}

const sessionColumns = `id, group_id, created_by, name, status, created_at, closed_at`

func (d *Driver) Create(ctx context.Context, s model.Session) error {
	dto := sessionDTO{
		ID:        s.ID,
		GroupID:   s.GroupID,
		CreatedBy: s.CreatedBy,
		Name:      s.Name,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
	}

	query := `
		INSERT INTO watch_sessions (id, group_id, created_by, name, status, created_at)
		VALUES (:id, :group_id, :created_by, :name, :status, :created_at)
	`

	if _, err := d.db.NamedExecContext(ctx, query, dto); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return usecase_session.ErrResourceNotFound
		}
		return err
	}
	return nil
}

func (d *Driver) ByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	var dto sessionDTO

	query := `SELECT ` + sessionColumns + ` FROM watch_sessions WHERE id = $1`

	if err := d.db.GetContext(ctx, &dto, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, usecase_session.ErrResourceNotFound
		}
		return model.Session{}, err
	}
	return dto.toDomain(), nil
}

// Close only touches an active row, so a repeated close keeps the first closed_at.
func (d *Driver) Close(ctx context.Context, id uuid.UUID, closedAt time.Time) (model.Session, error) {
	var dto sessionDTO

	query := `
		UPDATE watch_sessions
		SET status = 'closed', closed_at = $2
		WHERE id = $1 AND status = 'active'
		RETURNING ` + sessionColumns

	err := d.db.GetContext(ctx, &dto, query, id, closedAt)
	if err == nil {
		return dto.toDomain(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, err
	}

	if _, err := d.ByID(ctx, id); err != nil {
		return model.Session{}, err
	}
	return model.Session{}, usecase_session.ErrAlreadyClosed
}

func (d *Driver) ListByMember(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]model.Session, error) {
	var dtos []sessionDTO

	query := `
		SELECT s.id, s.group_id, s.created_by, s.name, s.status, s.created_at, s.closed_at
		FROM watch_sessions s
		JOIN group_members m ON m.group_id = s.group_id
		WHERE m.user_id = $1 AND (NOT $2::boolean OR s.status = 'active')
		ORDER BY s.created_at DESC, s.id
	`

	if err := d.db.SelectContext(ctx, &dtos, query, userID, activeOnly); err != nil {
		return nil, err
	}

	sessions := make([]model.Session, 0, len(dtos))
	for _, dto := range dtos {
		sessions = append(sessions, dto.toDomain())
	}
	return sessions, nil
}
