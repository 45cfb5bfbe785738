package usecase_vote

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/wannawatch/core/internal/metrics"
	"github.com/humanbelnik/wannawatch/core/internal/model"
	service_match "github.com/humanbelnik/wannawatch/core/internal/service/match"
	service_queue "github.com/humanbelnik/wannawatch/core/internal/service/queue"
)

var (
	ErrResourceNotFound = model.ErrResourceNotFound
	ErrNotAuthorized    = model.ErrNotAuthorized
	ErrSessionClosed    = model.ErrSessionClosed
	ErrInvalidCandidate = model.ErrInvalidCandidate
	ErrStorageFailure   = model.ErrStorageFailure
)

//go:generate mockery --name=VoteRepository --output=./mocks/vote/repository --filename=repository.go
type VoteRepository interface {
	// Upsert writes the decision keyed by (session, voter, movie).
	// It returns ErrSessionClosed when the session is not active at write time.
	Upsert(ctx context.Context, v model.Vote) (model.Vote, error)
	BySession(ctx context.Context, sessionID uuid.UUID) ([]model.Vote, error)
	VotedMovies(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) ([]uuid.UUID, error)
}

//go:generate mockery --name=SessionReader --output=./mocks/vote/session --filename=session.go
type SessionReader interface {
	ByID(ctx context.Context, id uuid.UUID) (model.Session, error)
}

//go:generate mockery --name=MembershipProvider --output=./mocks/vote/membership --filename=membership.go
type MembershipProvider interface {
	Members(ctx context.Context, groupID uuid.UUID) ([]model.Member, error)
	IsMember(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (bool, error)
}

//go:generate mockery --name=CandidateProvider --output=./mocks/vote/candidate --filename=candidate.go
type CandidateProvider interface {
	Pool(ctx context.Context, groupID uuid.UUID) ([]model.Candidate, error)
	InPool(ctx context.Context, groupID uuid.UUID, movieID uuid.UUID) (bool, error)
}

// VotedSetCache keeps the movie IDs a voter has decided on in a session.
// Loaded reports false on a miss.
//
//go:generate mockery --name=VotedSetCache --output=./mocks/vote/cache --filename=cache.go
type VotedSetCache interface {
	Load(ctx context.Context, sessionID uuid.UUID, voterID uuid.UUID) (ids []uuid.UUID, loaded bool, err error)
	Fill(ctx context.Context, sessionID uuid.UUID, voterID uuid.UUID, ids []uuid.UUID) error
	Add(ctx context.Context, sessionID uuid.UUID, voterID uuid.UUID, movieID uuid.UUID) error
}

type Usecase struct {
	VoteRepository     VoteRepository
	SessionReader      SessionReader
	MembershipProvider MembershipProvider
	CandidateProvider  CandidateProvider

	cache      VotedSetCache
	aggregator *service_match.Aggregator
	queue      *service_queue.Builder

	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(u *Usecase) {
		u.now = now
	}
}

// WithVotedSetCache enables the queue cache. Without it queues are read
// from the ledger on every call.
func WithVotedSetCache(cache VotedSetCache) Option {
	return func(u *Usecase) {
		u.cache = cache
	}
}

func New(
	VoteRepository VoteRepository,
	SessionReader SessionReader,
	MembershipProvider MembershipProvider,
	CandidateProvider CandidateProvider,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		VoteRepository:     VoteRepository,
		SessionReader:      SessionReader,
		MembershipProvider: MembershipProvider,
		CandidateProvider:  CandidateProvider,
		aggregator:         service_match.New(),
		queue:              service_queue.New(),
		now:                time.Now,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// RecordVote creates or replaces the voter's decision on a movie.
// Re-voting is not an error; the last write received by the store wins.
func (u *Usecase) RecordVote(ctx context.Context, sessionID uuid.UUID, voterID uuid.UUID, movieID uuid.UUID, liked bool) (model.Vote, error) {
	s, err := u.session(ctx, sessionID)
	if err != nil {
		return model.Vote{}, u.reject(err)
	}
	if !s.CanAcceptVotes() {
		return model.Vote{}, u.reject(ErrSessionClosed)
	}
	if err := u.ensureMember(ctx, s.GroupID, voterID); err != nil {
		return model.Vote{}, u.reject(err)
	}

	inPool, err := u.CandidateProvider.InPool(ctx, s.GroupID, movieID)
	if err != nil {
		return model.Vote{}, u.reject(errors.Join(ErrStorageFailure, err))
	}
	if !inPool {
		return model.Vote{}, u.reject(ErrInvalidCandidate)
	}

	now := u.now().UTC()
	v, err := u.VoteRepository.Upsert(ctx, model.Vote{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserID:    voterID,
		MovieID:   movieID,
		Liked:     liked,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionClosed),
			errors.Is(err, ErrResourceNotFound),
			errors.Is(err, ErrInvalidCandidate):
			return model.Vote{}, u.reject(err)
		}
		return model.Vote{}, u.reject(errors.Join(ErrStorageFailure, err))
	}

	if u.cache != nil {
		if err := u.cache.Add(ctx, sessionID, voterID, movieID); err != nil {
			u.logger.Warn("voted set cache update failed",
				slog.String("session_id", sessionID.String()),
				slog.String("error", err.Error()))
		}
	}

	metrics.VotesRecorded.WithLabelValues(metrics.Decision(liked)).Inc()
	return v, nil
}

// BuildQueue lists the pool candidates the voter has not voted on in the
// session, in pool order. An empty queue is not an error.
func (u *Usecase) BuildQueue(ctx context.Context, sessionID uuid.UUID, groupID uuid.UUID, voterID uuid.UUID) ([]model.Candidate, error) {
	s, err := u.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.GroupID != groupID {
		return nil, ErrResourceNotFound
	}
	if err := u.ensureMember(ctx, groupID, voterID); err != nil {
		return nil, err
	}

	pool, err := u.CandidateProvider.Pool(ctx, groupID)
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}

	voted, err := u.votedSet(ctx, sessionID, voterID)
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}

	return u.queue.Build(pool, voted), nil
}

// ComputeResults ranks every pool candidate from the session ledger.
// Completeness is evaluated against the current roster.
func (u *Usecase) ComputeResults(ctx context.Context, sessionID uuid.UUID) (model.Results, error) {
	started := time.Now()
	defer func() {
		metrics.ResultsDuration.Observe(time.Since(started).Seconds())
	}()

	s, err := u.session(ctx, sessionID)
	if err != nil {
		return model.Results{}, err
	}

	pool, err := u.CandidateProvider.Pool(ctx, s.GroupID)
	if err != nil {
		return model.Results{}, errors.Join(ErrStorageFailure, err)
	}
	roster, err := u.MembershipProvider.Members(ctx, s.GroupID)
	if err != nil {
		return model.Results{}, errors.Join(ErrStorageFailure, err)
	}
	votes, err := u.VoteRepository.BySession(ctx, sessionID)
	if err != nil {
		return model.Results{}, errors.Join(ErrStorageFailure, err)
	}

	items := u.aggregator.Aggregate(pool, roster, votes)
	hasVotes := false
	for _, it := range items {
		if it.TotalVotes > 0 {
			hasVotes = true
			break
		}
	}

	return model.Results{Items: items, HasVotes: hasVotes}, nil
}

// Board shows every pool candidate with its tallies and the caller's own decision.
func (u *Usecase) Board(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) ([]model.BoardEntry, error) {
	s, err := u.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := u.ensureMember(ctx, s.GroupID, userID); err != nil {
		return nil, err
	}

	pool, err := u.CandidateProvider.Pool(ctx, s.GroupID)
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}
	votes, err := u.VoteRepository.BySession(ctx, sessionID)
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}

	return u.aggregator.Board(pool, votes, userID), nil
}

func (u *Usecase) session(ctx context.Context, sessionID uuid.UUID) (model.Session, error) {
	s, err := u.SessionReader.ByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return model.Session{}, ErrResourceNotFound
		}
		return model.Session{}, errors.Join(ErrStorageFailure, err)
	}
	return s, nil
}

func (u *Usecase) ensureMember(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) error {
	isMember, err := u.MembershipProvider.IsMember(ctx, groupID, userID)
	if err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	if !isMember {
		return ErrNotAuthorized
	}
	return nil
}

// votedSet prefers the cache and falls back to the ledger on a miss or
// any cache error.
func (u *Usecase) votedSet(ctx context.Context, sessionID uuid.UUID, voterID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	if u.cache != nil {
		ids, loaded, err := u.cache.Load(ctx, sessionID, voterID)
		if err == nil && loaded {
			metrics.QueueCacheHits.Inc()
			return toSet(ids), nil
		}
		if err != nil {
			u.logger.Warn("voted set cache unavailable",
				slog.String("session_id", sessionID.String()),
				slog.String("error", err.Error()))
		}
		metrics.QueueCacheMisses.Inc()
	}

	ids, err := u.VoteRepository.VotedMovies(ctx, sessionID, voterID)
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		if err := u.cache.Fill(ctx, sessionID, voterID, ids); err != nil {
			u.logger.Warn("voted set cache fill failed",
				slog.String("session_id", sessionID.String()),
				slog.String("error", err.Error()))
		}
	}
	return toSet(ids), nil
}

func (u *Usecase) reject(err error) error {
	reason := "storage_failure"
	switch {
	case errors.Is(err, ErrResourceNotFound):
		reason = "not_found"
	case errors.Is(err, ErrSessionClosed):
		reason = "session_closed"
	case errors.Is(err, ErrNotAuthorized):
		reason = "not_authorized"
	case errors.Is(err, ErrInvalidCandidate):
		reason = "invalid_candidate"
	}
	metrics.VotesRejected.WithLabelValues(reason).Inc()
	return err
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
