package model

import (
	"time"

	"github.com/google/uuid"
)

const EmptyTitle string = ""

// MovieMeta is resolved by the catalogue service and is opaque to voting.
type MovieMeta struct {
	ID         uuid.UUID
	PosterLink string
	Title      string
	Genres     []string
	Year       int
	Rating     float64

	Overview string
}

// Candidate is a movie added to a group's pool.
// Within a group the candidate is identified by its movie ID.
type Candidate struct {
	MovieMeta

	GroupID uuid.UUID
	AddedBy uuid.UUID
	AddedAt time.Time
}
