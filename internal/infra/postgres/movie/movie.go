package infra_postgres_movie

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/humanbelnik/wannawatch/core/internal/model"
	"github.com/jmoiron/sqlx"
)

// Repository reads group candidate pools. Store and AddToPool exist for
// seeding; the catalogue service owns these tables in production.
type Repository struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Store(ctx context.Context, mm model.MovieMeta) error {
	movieDB := FromDomain(mm)

	query := `
		INSERT INTO movies (id, title, year, rating, genres, overview, poster_link)
		VALUES (:id, :title, :year, :rating, :genres, :overview, :poster_link)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			year = EXCLUDED.year,
			rating = EXCLUDED.rating,
			genres = EXCLUDED.genres,
			overview = EXCLUDED.overview,
			poster_link = EXCLUDED.poster_link
	`

	if _, err := r.db.NamedExecContext(ctx, query, movieDB); err != nil {
		return fmt.Errorf("failed to store movie: %w", err)
	}
	return nil
}

func (r *Repository) AddToPool(ctx context.Context, c model.Candidate) error {
	query := `
		INSERT INTO group_movies (group_id, movie_id, added_by, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id, movie_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, c.GroupID, c.ID, c.AddedBy, c.AddedAt); err != nil {
		return fmt.Errorf("failed to add movie to pool: %w", err)
	}
	return nil
}

// Pool returns the group's candidates in insertion order.
func (r *Repository) Pool(ctx context.Context, groupID uuid.UUID) ([]model.Candidate, error) {
	query := `
		SELECT m.id, m.title, m.year, m.rating, m.genres, m.overview, m.poster_link,
			gm.group_id, gm.added_by, gm.added_at
		FROM group_movies gm
		JOIN movies m ON m.id = gm.movie_id
		WHERE gm.group_id = $1
		ORDER BY gm.added_at, gm.movie_id
	`

	var rows []CandidateDB
	if err := r.db.SelectContext(ctx, &rows, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to query pool: %w", err)
	}

	pool := make([]model.Candidate, 0, len(rows))
	for i := range rows {
		pool = append(pool, rows[i].ToDomain())
	}
	return pool, nil
}

func (r *Repository) InPool(ctx context.Context, groupID uuid.UUID, movieID uuid.UUID) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM group_movies WHERE group_id = $1 AND movie_id = $2)`

	if err := r.db.GetContext(ctx, &exists, query, groupID, movieID); err != nil {
		return false, fmt.Errorf("failed to check pool: %w", err)
	}
	return exists, nil
}
