package infra_postgres_vote

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/humanbelnik/wannawatch/core/internal/model"
	usecase_vote "github.com/humanbelnik/wannawatch/core/internal/usecase/vote"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type VoteInfraUnitSuite struct {
	suite.Suite
}

type resources struct {
	db     *sqlx.DB
	mock   sqlmock.Sqlmock
	driver *Driver
	ctx    context.Context
}

func initResources(t provider.T) *resources {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	sqlxDB := sqlx.NewDb(db, "postgres")
	return &resources{
		db:     sqlxDB,
		mock:   mock,
		driver: New(sqlxDB),
		ctx:    context.Background(),
	}
}

var voteColumns = []string{"id", "session_id", "user_id", "movie_id", "vote", "created_at", "updated_at"}

var (
	lockQuery   = regexp.QuoteMeta(`SELECT status FROM watch_sessions WHERE id = $1 FOR SHARE`)
	upsertQuery = `INSERT INTO session_votes .* ON CONFLICT ON CONSTRAINT session_votes_unique_voter`
)

func validVote() model.Vote {
	now := time.Date(2024, time.March, 7, 21, 0, 0, 0, time.UTC)
	return model.Vote{
		ID:        uuid.New(),
		SessionID: uuid.New(),
		UserID:    uuid.New(),
		MovieID:   uuid.New(),
		Liked:     true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *VoteInfraUnitSuite) TestUpsert(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		setupMocks    func(r *resources, v model.Vote)
		expectedError error
	}{
		{
			name: "Should upsert vote into active session",
			setupMocks: func(r *resources, v model.Vote) {
				r.mock.ExpectBegin()
				r.mock.ExpectQuery(lockQuery).WithArgs(v.SessionID).
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("active"))
				r.mock.ExpectQuery(upsertQuery).
					WithArgs(v.ID, v.SessionID, v.UserID, v.MovieID, v.Liked, v.UpdatedAt).
					WillReturnRows(sqlmock.NewRows(voteColumns).
						AddRow(v.ID.String(), v.SessionID.String(), v.UserID.String(), v.MovieID.String(), v.Liked, v.CreatedAt, v.UpdatedAt))
				r.mock.ExpectCommit()
			},
		},
		{
			name: "Should reject vote into closed session",
			setupMocks: func(r *resources, v model.Vote) {
				r.mock.ExpectBegin()
				r.mock.ExpectQuery(lockQuery).WithArgs(v.SessionID).
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("closed"))
				r.mock.ExpectRollback()
			},
			expectedError: usecase_vote.ErrSessionClosed,
		},
		{
			name: "Should report missing session",
			setupMocks: func(r *resources, v model.Vote) {
				r.mock.ExpectBegin()
				r.mock.ExpectQuery(lockQuery).WithArgs(v.SessionID).
					WillReturnRows(sqlmock.NewRows([]string{"status"}))
				r.mock.ExpectRollback()
			},
			expectedError: usecase_vote.ErrResourceNotFound,
		},
		{
			name: "Should map unknown movie to invalid candidate",
			setupMocks: func(r *resources, v model.Vote) {
				r.mock.ExpectBegin()
				r.mock.ExpectQuery(lockQuery).WithArgs(v.SessionID).
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("active"))
				r.mock.ExpectQuery(upsertQuery).WillReturnError(&pq.Error{Code: foreignKeyViolation})
				r.mock.ExpectRollback()
			},
			expectedError: usecase_vote.ErrInvalidCandidate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			v := validVote()
			tc.setupMocks(r, v)

			got, err := r.driver.Upsert(r.ctx, v)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, v, got)
			}
			assert.NoError(t, r.mock.ExpectationsWereMet())
		})
	}
}

func (s *VoteInfraUnitSuite) TestUpsertBeginFailure(t provider.T) {
	t.Parallel()

	r := initResources(t)
	r.mock.ExpectBegin().WillReturnError(errors.New("transaction error"))

	_, err := r.driver.Upsert(r.ctx, validVote())

	assert.Error(t, err)
	assert.NoError(t, r.mock.ExpectationsWereMet())
}

func (s *VoteInfraUnitSuite) TestBySession(t provider.T) {
	t.Parallel()

	r := initResources(t)
	v := validVote()
	r.mock.ExpectQuery(`SELECT (.+) FROM session_votes WHERE session_id = \$1 ORDER BY created_at, id`).
		WithArgs(v.SessionID).
		WillReturnRows(sqlmock.NewRows(voteColumns).
			AddRow(v.ID.String(), v.SessionID.String(), v.UserID.String(), v.MovieID.String(), false, v.CreatedAt, v.UpdatedAt))

	votes, err := r.driver.BySession(r.ctx, v.SessionID)

	assert.NoError(t, err)
	if assert.Len(t, votes, 1) {
		assert.False(t, votes[0].Liked)
		assert.Equal(t, v.MovieID, votes[0].MovieID)
	}
	assert.NoError(t, r.mock.ExpectationsWereMet())
}

func (s *VoteInfraUnitSuite) TestVotedMovies(t provider.T) {
	t.Parallel()

	r := initResources(t)
	sessionID, userID, movieID := uuid.New(), uuid.New(), uuid.New()
	r.mock.ExpectQuery(`SELECT movie_id FROM session_votes`).
		WithArgs(sessionID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id"}).AddRow(movieID.String()))

	ids, err := r.driver.VotedMovies(r.ctx, sessionID, userID)

	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{movieID}, ids)
	assert.NoError(t, r.mock.ExpectationsWereMet())
}

func TestVoteInfraUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(VoteInfraUnitSuite))
}
