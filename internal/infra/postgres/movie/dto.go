package infra_postgres_movie

import (
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/wannawatch/core/internal/model"
	"github.com/lib/pq"
)

type MovieDB struct {
	ID         uuid.UUID      `db:"id"`
	PosterLink string         `db:"poster_link"`
	Title      string         `db:"title"`
	Genres     pq.StringArray `db:"genres"`
	Year       int            `db:"year"`
	Rating     float64        `db:"rating"`
	Overview   string         `db:"overview"`
}

func (m *MovieDB) ToDomain() model.MovieMeta {
	return model.MovieMeta{
		ID:         m.ID,
		PosterLink: m.PosterLink,
		Title:      m.Title,
		Genres:     []string(m.Genres),
		Year:       m.Year,
		Rating:     m.Rating,
		Overview:   m.Overview,
	}
}

func FromDomain(mm model.MovieMeta) MovieDB {
	genres := mm.Genres
	if genres == nil {
		genres = []string{}
	}
	return MovieDB{
		ID:         mm.ID,
		PosterLink: mm.PosterLink,
		Title:      mm.Title,
		Genres:     pq.StringArray(genres),
		Year:       mm.Year,
		Rating:     mm.Rating,
		Overview:   mm.Overview,
	}
}

// CandidateDB is a pool row joined with its movie.
type CandidateDB struct {
	MovieDB
	GroupID uuid.UUID `db:"group_id"`
	AddedBy uuid.UUID `db:"added_by"`
	AddedAt time.Time `db:"added_at"`
}

func (c *CandidateDB) ToDomain() model.Candidate {
	return model.Candidate{
		MovieMeta: c.MovieDB.ToDomain(),
		GroupID:   c.GroupID,
		AddedBy:   c.AddedBy,
		AddedAt:   c.AddedAt.UTC(),
	}
}
