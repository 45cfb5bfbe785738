package http_vote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/wannawatch/core/internal/delivery/http/common"
	http_identity_middleware "github.com/humanbelnik/wannawatch/core/internal/delivery/http/middleware/identity"
	"github.com/humanbelnik/wannawatch/core/internal/model"
	usecase_vote "github.com/humanbelnik/wannawatch/core/internal/usecase/vote"
	candidate_mocks "github.com/humanbelnik/wannawatch/core/internal/usecase/vote/mocks/vote/candidate"
	membership_mocks "github.com/humanbelnik/wannawatch/core/internal/usecase/vote/mocks/vote/membership"
	repo_mocks "github.com/humanbelnik/wannawatch/core/internal/usecase/vote/mocks/vote/repository"
	session_mocks "github.com/humanbelnik/wannawatch/core/internal/usecase/vote/mocks/vote/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type resources struct {
	router     *gin.Engine
	votes      *repo_mocks.VoteRepository
	sessions   *session_mocks.SessionReader
	membership *membership_mocks.MembershipProvider
	candidates *candidate_mocks.CandidateProvider
}

var fixedNow = time.Date(2024, time.March, 7, 21, 0, 0, 0, time.UTC)

func initResources(t *testing.T) *resources {
	gin.SetMode(gin.TestMode)

	r := &resources{
		votes:      repo_mocks.NewVoteRepository(t),
		sessions:   session_mocks.NewSessionReader(t),
		membership: membership_mocks.NewMembershipProvider(t),
		candidates: candidate_mocks.NewCandidateProvider(t),
	}
	uc := usecase_vote.New(r.votes, r.sessions, r.membership, r.candidates,
		usecase_vote.WithClock(func() time.Time { return fixedNow }))

	r.router = gin.New()
	New(uc, http_identity_middleware.New().Required()).RegisterRoutes(r.router.Group("/api/v1"))
	return r
}

func (r *resources) do(method, path string, userID uuid.UUID, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != uuid.Nil {
		req.Header.Set(http_identity_middleware.Header, userID.String())
	}
	w := httptest.NewRecorder()
	r.router.ServeHTTP(w, req)
	return w
}

func session(status model.SessionStatus) model.Session {
	return model.Session{
		ID:        uuid.New(),
		GroupID:   uuid.New(),
		CreatedBy: uuid.New(),
		Name:      "Friday",
		Status:    status,
		CreatedAt: fixedNow.Add(-time.Hour),
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var resp http_common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Code
}

func TestVote(t *testing.T) {
	userID, movieID := uuid.New(), uuid.New()

	t.Run("stores the decision", func(t *testing.T) {
		r := initResources(t)
		s := session(model.StatusActive)

		r.sessions.On("ByID", mock.Anything, s.ID).Return(s, nil).Once()
		r.membership.On("IsMember", mock.Anything, s.GroupID, userID).Return(true, nil).Once()
		r.candidates.On("InPool", mock.Anything, s.GroupID, movieID).Return(true, nil).Once()
		r.votes.On("Upsert", mock.Anything, mock.MatchedBy(func(v model.Vote) bool {
			return v.SessionID == s.ID && v.UserID == userID && v.MovieID == movieID && !v.Liked
		})).Return(func(_ context.Context, v model.Vote) (model.Vote, error) { return v, nil }).Once()

		w := r.do(http.MethodPut, "/api/v1/sessions/"+s.ID.String()+"/votes/"+movieID.String(), userID, `{"liked": false}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp VoteResponseDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, movieID, resp.MovieID)
		assert.False(t, resp.Liked)
	})

	t.Run("closed session is a conflict", func(t *testing.T) {
		r := initResources(t)
		s := session(model.StatusClosed)

		r.sessions.On("ByID", mock.Anything, s.ID).Return(s, nil).Once()

		w := r.do(http.MethodPut, "/api/v1/sessions/"+s.ID.String()+"/votes/"+movieID.String(), userID, `{"liked": true}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, http_common.CodeSessionClosed, errorCode(t, w))
	})

	t.Run("movie outside the pool", func(t *testing.T) {
		r := initResources(t)
		s := session(model.StatusActive)

		r.sessions.On("ByID", mock.Anything, s.ID).Return(s, nil).Once()
		r.membership.On("IsMember", mock.Anything, s.GroupID, userID).Return(true, nil).Once()
		r.candidates.On("InPool", mock.Anything, s.GroupID, movieID).Return(false, nil).Once()

		w := r.do(http.MethodPut, "/api/v1/sessions/"+s.ID.String()+"/votes/"+movieID.String(), userID, `{"liked": true}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, http_common.CodeInvalidCandidate, errorCode(t, w))
	})

	t.Run("missing decision", func(t *testing.T) {
		r := initResources(t)

		w := r.do(http.MethodPut, "/api/v1/sessions/"+uuid.NewString()+"/votes/"+movieID.String(), userID, `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed movie id", func(t *testing.T) {
		r := initResources(t)

		w := r.do(http.MethodPut, "/api/v1/sessions/"+uuid.NewString()+"/votes/42", userID, `{"liked": true}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		r := initResources(t)

		w := r.do(http.MethodPut, "/api/v1/sessions/"+uuid.NewString()+"/votes/"+movieID.String(), uuid.Nil, `{"liked": true}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetResults(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()

	t.Run("ranked with winner", func(t *testing.T) {
		r := initResources(t)
		s := session(model.StatusClosed)
		m1 := model.Candidate{MovieMeta: model.MovieMeta{ID: uuid.New(), Title: "Heat"}, GroupID: s.GroupID}
		m2 := model.Candidate{MovieMeta: model.MovieMeta{ID: uuid.New(), Title: "Alien"}, GroupID: s.GroupID, AddedAt: fixedNow}

		r.sessions.On("ByID", mock.Anything, s.ID).Return(s, nil).Once()
		r.candidates.On("Pool", mock.Anything, s.GroupID).Return([]model.Candidate{m1, m2}, nil).Once()
		r.membership.On("Members", mock.Anything, s.GroupID).Return([]model.Member{
			{UserID: alice, GroupID: s.GroupID},
			{UserID: bob, GroupID: s.GroupID},
		}, nil).Once()
		r.votes.On("BySession", mock.Anything, s.ID).Return([]model.Vote{
			{SessionID: s.ID, UserID: alice, MovieID: m2.ID, Liked: true},
			{SessionID: s.ID, UserID: bob, MovieID: m2.ID, Liked: true},
			{SessionID: s.ID, UserID: alice, MovieID: m1.ID, Liked: false},
		}, nil).Once()

		w := r.do(http.MethodGet, "/api/v1/sessions/"+s.ID.String()+"/results", alice, "")

		require.Equal(t, http.StatusOK, w.Code)
		var resp GetResultsResponseDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 2)
		assert.True(t, resp.HasVotes)
		assert.Equal(t, m2.ID, resp.Results[0].Movie.ID)
		assert.Equal(t, 100.0, resp.Results[0].MatchScore)
		assert.True(t, resp.Results[0].AllVoted)
		require.NotNil(t, resp.Winner)
		assert.Equal(t, m2.ID, resp.Winner.Movie.ID)
	})

	t.Run("storage failure", func(t *testing.T) {
		r := initResources(t)
		id := uuid.New()

		r.sessions.On("ByID", mock.Anything, id).Return(model.Session{}, errors.New("conn refused")).Once()

		w := r.do(http.MethodGet, "/api/v1/sessions/"+id.String()+"/results", alice, "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, http_common.CodeStorageFailure, errorCode(t, w))
	})
}

func TestGetQueue(t *testing.T) {
	userID := uuid.New()

	t.Run("session from another group", func(t *testing.T) {
		r := initResources(t)
		s := session(model.StatusActive)

		r.sessions.On("ByID", mock.Anything, s.ID).Return(s, nil).Once()

		w := r.do(http.MethodGet, "/api/v1/groups/"+uuid.NewString()+"/sessions/"+s.ID.String()+"/queue", userID, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unvoted candidates in pool order", func(t *testing.T) {
		r := initResources(t)
		s := session(model.StatusActive)
		m1 := model.Candidate{MovieMeta: model.MovieMeta{ID: uuid.New()}, GroupID: s.GroupID}
		m2 := model.Candidate{MovieMeta: model.MovieMeta{ID: uuid.New()}, GroupID: s.GroupID}
		m3 := model.Candidate{MovieMeta: model.MovieMeta{ID: uuid.New()}, GroupID: s.GroupID}

		r.sessions.On("ByID", mock.Anything, s.ID).Return(s, nil).Once()
		r.membership.On("IsMember", mock.Anything, s.GroupID, userID).Return(true, nil).Once()
		r.candidates.On("Pool", mock.Anything, s.GroupID).Return([]model.Candidate{m1, m2, m3}, nil).Once()
		r.votes.On("VotedMovies", mock.Anything, s.ID, userID).Return([]uuid.UUID{m2.ID}, nil).Once()

		w := r.do(http.MethodGet, "/api/v1/groups/"+s.GroupID.String()+"/sessions/"+s.ID.String()+"/queue", userID, "")

		require.Equal(t, http.StatusOK, w.Code)
		var resp QueueResponseDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Movies, 2)
		assert.Equal(t, m1.ID, resp.Movies[0].ID)
		assert.Equal(t, m3.ID, resp.Movies[1].ID)
	})
}
