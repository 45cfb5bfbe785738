package usecase_session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/wannawatch/core/internal/metrics"
	"github.com/humanbelnik/wannawatch/core/internal/model"
)

var (
	ErrResourceNotFound = model.ErrResourceNotFound
	ErrNotAuthorized    = model.ErrNotAuthorized
	ErrAlreadyClosed    = model.ErrAlreadyClosed
	ErrStorageFailure   = model.ErrStorageFailure
)

//go:generate mockery --name=SessionRepository --output=./mocks/session/repository --filename=repository.go
type SessionRepository interface {
	Create(ctx context.Context, s model.Session) error
	ByID(ctx context.Context, id uuid.UUID) (model.Session, error)
	// Close moves an active session to closed. It returns ErrAlreadyClosed
	// when the session is no longer active and leaves closed_at untouched.
	Close(ctx context.Context, id uuid.UUID, closedAt time.Time) (model.Session, error)
	ListByMember(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]model.Session, error)
}

//go:generate mockery --name=VoteHistory --output=./mocks/session/history --filename=history.go
type VoteHistory interface {
	BySession(ctx context.Context, sessionID uuid.UUID) ([]model.Vote, error)
}

//go:generate mockery --name=MembershipProvider --output=./mocks/session/membership --filename=membership.go
type MembershipProvider interface {
	IsMember(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (bool, error)
}

type Usecase struct {
	SessionRepository  SessionRepository
	VoteHistory        VoteHistory
	MembershipProvider MembershipProvider

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

func New(
	SessionRepository SessionRepository,
	VoteHistory VoteHistory,
	MembershipProvider MembershipProvider,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		SessionRepository:  SessionRepository,
		VoteHistory:        VoteHistory,
		MembershipProvider: MembershipProvider,
		now:                time.Now,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Open starts a new active session over the group's pool.
// A blank name is replaced with the default one.
func (u *Usecase) Open(ctx context.Context, groupID uuid.UUID, creatorID uuid.UUID, name string) (model.Session, error) {
	isMember, err := u.MembershipProvider.IsMember(ctx, groupID, creatorID)
	if err != nil {
		return model.Session{}, errors.Join(ErrStorageFailure, err)
	}
	if !isMember {
		return model.Session{}, ErrNotAuthorized
	}

	createdAt := u.now().UTC()
	s := model.Session{
		ID:        uuid.New(),
		GroupID:   groupID,
		CreatedBy: creatorID,
		Name:      model.DefaultSessionName(name, createdAt),
		Status:    model.StatusActive,
		CreatedAt: createdAt,
	}

	if err := u.SessionRepository.Create(ctx, s); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return model.Session{}, ErrResourceNotFound
		}
		return model.Session{}, errors.Join(ErrStorageFailure, err)
	}

	metrics.SessionTransitions.WithLabelValues(string(model.StatusActive)).Inc()
	u.logger.Info("session opened",
		slog.String("session_id", s.ID.String()),
		slog.String("group_id", groupID.String()))
	return s, nil
}

// Close is allowed for the session creator only. The closed timestamp of
// the first successful close is kept.
func (u *Usecase) Close(ctx context.Context, sessionID uuid.UUID, actorID uuid.UUID) (model.Session, error) {
	s, err := u.get(ctx, sessionID)
	if err != nil {
		return model.Session{}, err
	}
	if s.CreatedBy != actorID {
		return model.Session{}, ErrNotAuthorized
	}
	if s.IsClosed() {
		return model.Session{}, ErrAlreadyClosed
	}

	closed, err := u.SessionRepository.Close(ctx, sessionID, u.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyClosed):
			return model.Session{}, ErrAlreadyClosed
		case errors.Is(err, ErrResourceNotFound):
			return model.Session{}, ErrResourceNotFound
		}
		return model.Session{}, errors.Join(ErrStorageFailure, err)
	}

	metrics.SessionTransitions.WithLabelValues(string(model.StatusClosed)).Inc()
	u.logger.Info("session closed", slog.String("session_id", sessionID.String()))
	return closed, nil
}

// Get returns the session with its full vote history in ledger order.
func (u *Usecase) Get(ctx context.Context, sessionID uuid.UUID) (model.SessionDetails, error) {
	s, err := u.get(ctx, sessionID)
	if err != nil {
		return model.SessionDetails{}, err
	}

	votes, err := u.VoteHistory.BySession(ctx, sessionID)
	if err != nil {
		return model.SessionDetails{}, errors.Join(ErrStorageFailure, err)
	}

	return model.SessionDetails{Session: s, Votes: votes}, nil
}

// List returns sessions of every group the user belongs to, newest first.
func (u *Usecase) List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]model.Session, error) {
	sessions, err := u.SessionRepository.ListByMember(ctx, userID, activeOnly)
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}
	return sessions, nil
}

func (u *Usecase) get(ctx context.Context, sessionID uuid.UUID) (model.Session, error) {
	s, err := u.SessionRepository.ByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return model.Session{}, ErrResourceNotFound
		}
		return model.Session{}, errors.Join(ErrStorageFailure, err)
	}
	return s, nil
}
