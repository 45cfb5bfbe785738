package service_match

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
	"github.com/humanbelnik/wannawatch/core/internal/model"
)

// Aggregator turns a session's ledger into ranked match results.
// It holds no state between calls.
type Aggregator struct{}

func New() *Aggregator {
	return &Aggregator{}
}

type tally struct {
	up     []uuid.UUID
	down   []uuid.UUID
	voters map[uuid.UUID]struct{}
}

// Aggregate scores every pool candidate against the votes of one session.
// Votes must be in ledger order; it is preserved in the voter lists.
// Votes on movies outside the pool are ignored. Completeness is checked
// against the roster as passed in, so callers should pass the current one.
//
// Ranking is score desc, then total votes desc, then movie ID asc.
func (a *Aggregator) Aggregate(pool []model.Candidate, roster []model.Member, votes []model.Vote) []model.MatchResult {
	tallies := a.tally(pool, votes)

	results := make([]model.MatchResult, 0, len(pool))
	for _, c := range pool {
		t := tallies[c.ID]
		total := len(t.up) + len(t.down)

		results = append(results, model.MatchResult{
			Candidate:  c,
			Upvoters:   t.up,
			Downvoters: t.down,
			MatchScore: Score(len(t.up), len(t.down)),
			TotalVotes: total,
			AllVoted:   allVoted(roster, t.voters),
		})
	}

	slices.SortStableFunc(results, compareResults)
	return results
}

// Board lists every pool candidate in pool order with its vote counts and
// the decision of userID, if any.
func (a *Aggregator) Board(pool []model.Candidate, votes []model.Vote, userID uuid.UUID) []model.BoardEntry {
	tallies := a.tally(pool, votes)

	mine := make(map[uuid.UUID]bool)
	for _, v := range votes {
		if v.UserID == userID {
			mine[v.MovieID] = v.Liked
		}
	}

	board := make([]model.BoardEntry, 0, len(pool))
	for _, c := range pool {
		t := tallies[c.ID]
		entry := model.BoardEntry{
			Candidate: c,
			Upvotes:   len(t.up),
			Downvotes: len(t.down),
		}
		if liked, ok := mine[c.ID]; ok {
			entry.UserVote = &liked
		}
		board = append(board, entry)
	}
	return board
}

func (a *Aggregator) tally(pool []model.Candidate, votes []model.Vote) map[uuid.UUID]*tally {
	tallies := make(map[uuid.UUID]*tally, len(pool))
	for _, c := range pool {
		tallies[c.ID] = &tally{
			up:     []uuid.UUID{},
			down:   []uuid.UUID{},
			voters: make(map[uuid.UUID]struct{}),
		}
	}

	for _, v := range votes {
		t, ok := tallies[v.MovieID]
		if !ok {
			continue
		}
		// one vote per voter and movie
		if _, seen := t.voters[v.UserID]; seen {
			continue
		}
		t.voters[v.UserID] = struct{}{}
		if v.Liked {
			t.up = append(t.up, v.UserID)
		} else {
			t.down = append(t.down, v.UserID)
		}
	}
	return tallies
}

// Score is the share of likes in percent, 0 when nobody voted.
func Score(up, down int) float64 {
	if up+down == 0 {
		return 0
	}
	return 100 * float64(up) / float64(up+down)
}

func allVoted(roster []model.Member, voters map[uuid.UUID]struct{}) bool {
	if len(roster) == 0 {
		return false
	}
	for _, m := range roster {
		if _, ok := voters[m.UserID]; !ok {
			return false
		}
	}
	return true
}

func compareResults(a, b model.MatchResult) int {
	switch {
	case a.MatchScore > b.MatchScore:
		return -1
	case a.MatchScore < b.MatchScore:
		return 1
	}
	if a.TotalVotes != b.TotalVotes {
		return b.TotalVotes - a.TotalVotes
	}
	return bytes.Compare(a.Candidate.ID[:], b.Candidate.ID[:])
}
