package model

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one voter's decision on one candidate within one session.
// Liked=true is an upvote.
type Vote struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	UserID    uuid.UUID
	MovieID   uuid.UUID
	Liked     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchResult is the aggregated outcome for a single candidate.
type MatchResult struct {
	Candidate  Candidate
	Upvoters   []uuid.UUID
	Downvoters []uuid.UUID
	MatchScore float64
	TotalVotes int
	AllVoted   bool
}

type Results struct {
	Items    []MatchResult
	HasVotes bool
}

// Winner returns the top-ranked candidate when it has a positive score.
func (r Results) Winner() (MatchResult, bool) {
	if len(r.Items) == 0 || r.Items[0].MatchScore <= 0 {
		return MatchResult{}, false
	}
	return r.Items[0], true
}

// BoardEntry is a pool candidate as seen by one member during a session.
type BoardEntry struct {
	Candidate Candidate
	UserVote  *bool
	Upvotes   int
	Downvotes int
}
