package infra_postgres_vote

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/wannawatch/core/internal/model"
	usecase_vote "github.com/humanbelnik/wannawatch/core/internal/usecase/vote"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const foreignKeyViolation = "23503"

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type voteDTO struct {
	ID        uuid.UUID `db:"id"`
	SessionID uuid.UUID `db:"session_id"`
	UserID    uuid.UUID `db:"user_id"`
	MovieID   uuid.UUID `db:"movie_id"`
	Vote      bool      `db:"vote"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (v voteDTO) toDomain() model.Vote {
	return model.Vote{
		ID:        v.ID,
		SessionID: v.SessionID,
		UserID:    v.UserID,
		MovieID:   v.MovieID,
		Liked:     v.Vote,
		CreatedAt: v.CreatedAt.UTC(),
		UpdatedAt: v.UpdatedAt.UTC(),
	}
}

// Upsert inserts or replaces the decision keyed by session_votes_unique_voter.
// The session row is share-locked first, so a concurrent close either
// waits for the vote to commit or makes it fail with ErrSessionClosed.
func (d *Driver) Upsert(ctx context.Context, v model.Vote) (model.Vote, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Vote{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	lockQuery := `SELECT status FROM watch_sessions WHERE id = $1 FOR SHARE`
	if err := tx.GetContext(ctx, &status, lockQuery, v.SessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Vote{}, usecase_vote.ErrResourceNotFound
		}
		return model.Vote{}, err
	}
	if model.SessionStatus(status) != model.StatusActive {
		return model.Vote{}, usecase_vote.ErrSessionClosed
	}

	var dto voteDTO
	upsertQuery := `
		INSERT INTO session_votes (id, session_id, user_id, movie_id, vote, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT ON CONSTRAINT session_votes_unique_voter
		DO UPDATE SET vote = EXCLUDED.vote, updated_at = EXCLUDED.updated_at
		RETURNING id, session_id, user_id, movie_id, vote, created_at, updated_at
	`

	err = tx.GetContext(ctx, &dto, upsertQuery, v.ID, v.SessionID, v.UserID, v.MovieID, v.Liked, v.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return model.Vote{}, usecase_vote.ErrInvalidCandidate
		}
		return model.Vote{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Vote{}, err
	}
	return dto.toDomain(), nil
}

func (d *Driver) BySession(ctx context.Context, sessionID uuid.UUID) ([]model.Vote, error) {
	var dtos []voteDTO

	query := `
		SELECT id, session_id, user_id, movie_id, vote, created_at, updated_at
		FROM session_votes
		WHERE session_id = $1
		ORDER BY created_at, id
	`

	if err := d.db.SelectContext(ctx, &dtos, query, sessionID); err != nil {
		return nil, err
	}

	votes := make([]model.Vote, 0, len(dtos))
	for _, dto := range dtos {
		votes = append(votes, dto.toDomain())
	}
	return votes, nil
}

func (d *Driver) VotedMovies(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}

	query := `
		SELECT movie_id
		FROM session_votes
		WHERE session_id = $1 AND user_id = $2
	`

	if err := d.db.SelectContext(ctx, &ids, query, sessionID, userID); err != nil {
		return nil, err
	}
	return ids, nil
}
