package service_queue

import (
	"github.com/google/uuid"
	"github.com/humanbelnik/wannawatch/core/internal/model"
)

type Builder struct{}

func New() *Builder {
	return &Builder{}
}

// Build returns the pool candidates the voter has not decided on yet,
// keeping pool order. An empty queue means there is nothing left to vote on.
func (b *Builder) Build(pool []model.Candidate, voted map[uuid.UUID]struct{}) []model.Candidate {
	queue := make([]model.Candidate, 0, len(pool))
	for _, c := range pool {
		if _, ok := voted[c.ID]; ok {
			continue
		}
		queue = append(queue, c)
	}
	return queue
}

// VotedSet collects the movie IDs the voter has a vote on.
func VotedSet(votes []model.Vote, voterID uuid.UUID) map[uuid.UUID]struct{} {
	voted := make(map[uuid.UUID]struct{}, len(votes))
	for _, v := range votes {
		if v.UserID == voterID {
			voted[v.MovieID] = struct{}{}
		}
	}
	return voted
}
