//go:build integration

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/uuid"
	"github.com/humanbelnik/wannawatch/core/internal/config"
	http_common "github.com/humanbelnik/wannawatch/core/internal/delivery/http/common"
	http_access_middleware "github.com/humanbelnik/wannawatch/core/internal/delivery/http/middleware/access"
	http_identity_middleware "github.com/humanbelnik/wannawatch/core/internal/delivery/http/middleware/identity"
	http_session "github.com/humanbelnik/wannawatch/core/internal/delivery/http/session"
	http_vote "github.com/humanbelnik/wannawatch/core/internal/delivery/http/voting"
	infra_postgres_group "github.com/humanbelnik/wannawatch/core/internal/infra/postgres/group"
	infra_pg_init "github.com/humanbelnik/wannawatch/core/internal/infra/postgres/init"
	infra_postgres_movie "github.com/humanbelnik/wannawatch/core/internal/infra/postgres/movie"
	"github.com/humanbelnik/wannawatch/core/internal/model"
	"github.com/humanbelnik/wannawatch/core/internal/testinfra"
	"github.com/jmoiron/sqlx"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type E2EVotingFlowSuite struct {
	suite.Suite

	ctx     context.Context
	pgC     *testinfra.Container
	redisC  *testinfra.Container
	pgConn  *sqlx.DB
	redis   *redis.Client
	server  *httptest.Server
	roServer *httptest.Server
	client  *http.Client
}

func (s *E2EVotingFlowSuite) BeforeAll(t provider.T) {
	if !testinfra.IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}

	s.ctx = context.Background()
	var err error
	s.pgC, err = testinfra.NewPostgresContainer(s.ctx)
	require.NoError(t, err)
	s.redisC, err = testinfra.NewRedisContainer(s.ctx)
	require.NoError(t, err)

	cfg := config.FromEnv()
	cfg.Postgres = config.Postgres{
		Host:     s.pgC.Hostname,
		Port:     s.pgC.HostPort,
		User:     testinfra.PostgresUser,
		Password: testinfra.PostgresPassword,
		DBName:   testinfra.PostgresDB,
		SSLMode:  "disable",
		Migrate:  true,
	}
	cfg.Voting.QueueCacheKey = "e2e_voted_set"
	cfg.Voting.QueueCacheTTL = time.Minute

	s.pgConn = infra_pg_init.MustEstablishConn(cfg.Postgres)
	s.redis = redis.NewClient(&redis.Options{Addr: s.redisC.Hostname + ":" + s.redisC.HostPort})

	cfg.HTTP.Mode = http_access_middleware.ModeReadWrite
	s.server = httptest.NewServer(New(cfg, s.pgConn, s.redis).Handler())

	roCfg := *cfg
	roCfg.HTTP.Mode = http_access_middleware.ModeReadOnly
	s.roServer = httptest.NewServer(New(&roCfg, s.pgConn, nil).Handler())

	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *E2EVotingFlowSuite) AfterAll(t provider.T) {
	if s.server != nil {
		s.server.Close()
	}
	if s.roServer != nil {
		s.roServer.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.pgConn != nil {
		_ = s.pgConn.Close()
	}
	for _, c := range []*testinfra.Container{s.redisC, s.pgC} {
		if c != nil {
			c.Terminate(s.ctx) //nolint:errcheck
		}
	}
}

func (s *E2EVotingFlowSuite) call(t provider.T, base string, method string, path string, userID uuid.UUID, body any, out any) int {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(s.ctx, method, base+"/api/v1"+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(http_identity_middleware.Header, userID.String())

	resp, err := s.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func (s *E2EVotingFlowSuite) seed(t provider.T, members int, movies int) (uuid.UUID, []uuid.UUID, []uuid.UUID) {
	groups := infra_postgres_group.New(s.pgConn)
	catalogue := infra_postgres_movie.New(s.pgConn)

	groupID := uuid.New()
	userIDs := make([]uuid.UUID, 0, members)
	for range members {
		userIDs = append(userIDs, uuid.New())
	}
	require.NoError(t, groups.Create(s.ctx, model.Group{ID: groupID, Name: "e2e", CreatedBy: userIDs[0]}))
	for _, u := range userIDs {
		require.NoError(t, groups.AddMember(s.ctx, model.Member{GroupID: groupID, UserID: u, Role: model.RoleMember}))
	}

	movieIDs := make([]uuid.UUID, 0, movies)
	base := time.Now().UTC().Truncate(time.Second)
	for i := range movies {
		c := model.Candidate{
			MovieMeta: model.MovieMeta{ID: uuid.New(), Title: fmt.Sprintf("movie %d", i)},
			GroupID:   groupID,
			AddedBy:   userIDs[0],
			AddedAt:   base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, catalogue.Store(s.ctx, c.MovieMeta))
		require.NoError(t, catalogue.AddToPool(s.ctx, c))
		movieIDs = append(movieIDs, c.ID)
	}
	return groupID, userIDs, movieIDs
}

func (s *E2EVotingFlowSuite) TestVotingFlow(t provider.T) {
	groupID, users, movies := s.seed(t, 2, 2)
	alice, bob := users[0], users[1]
	base := s.server.URL

	var session http_session.SessionDTO
	status := s.call(t, base, http.MethodPost, "/groups/"+groupID.String()+"/sessions", alice, http_session.OpenRequestDTO{Name: "Friday"}, &session)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Friday", session.Name)

	queuePath := "/groups/" + groupID.String() + "/sessions/" + session.ID.String() + "/queue"
	var queue http_vote.QueueResponseDTO
	require.Equal(t, http.StatusOK, s.call(t, base, http.MethodGet, queuePath, alice, nil, &queue))
	require.Len(t, queue.Movies, 2)

	liked := true
	disliked := false
	for _, u := range users {
		status = s.call(t, base, http.MethodPut, "/sessions/"+session.ID.String()+"/votes/"+movies[1].String(), u, http_vote.VoteRequestDTO{Liked: &liked}, nil)
		require.Equal(t, http.StatusOK, status)
	}
	status = s.call(t, base, http.MethodPut, "/sessions/"+session.ID.String()+"/votes/"+movies[0].String(), bob, http_vote.VoteRequestDTO{Liked: &disliked}, nil)
	require.Equal(t, http.StatusOK, status)

	require.Equal(t, http.StatusOK, s.call(t, base, http.MethodGet, queuePath, alice, nil, &queue))
	require.Len(t, queue.Movies, 1)
	assert.Equal(t, movies[0], queue.Movies[0].ID)

	var results http_vote.GetResultsResponseDTO
	require.Equal(t, http.StatusOK, s.call(t, base, http.MethodGet, "/sessions/"+session.ID.String()+"/results", alice, nil, &results))
	require.Len(t, results.Results, 2)
	assert.True(t, results.HasVotes)
	require.NotNil(t, results.Winner)
	assert.Equal(t, movies[1], results.Winner.Movie.ID)
	assert.True(t, results.Winner.AllVoted)

	var board http_vote.GetBoardResponseDTO
	require.Equal(t, http.StatusOK, s.call(t, base, http.MethodGet, "/sessions/"+session.ID.String()+"/movies", bob, nil, &board))
	require.Len(t, board.Movies, 2)
	require.NotNil(t, board.Movies[0].UserVote)
	assert.False(t, *board.Movies[0].UserVote)

	var errResp http_common.ErrorResponse
	status = s.call(t, base, http.MethodPatch, "/sessions/"+session.ID.String()+"/close", bob, nil, &errResp)
	assert.Equal(t, http.StatusForbidden, status)

	var closed http_session.SessionDTO
	require.Equal(t, http.StatusOK, s.call(t, base, http.MethodPatch, "/sessions/"+session.ID.String()+"/close", alice, nil, &closed))
	assert.Equal(t, string(model.StatusClosed), closed.Status)

	status = s.call(t, base, http.MethodPut, "/sessions/"+session.ID.String()+"/votes/"+movies[0].String(), alice, http_vote.VoteRequestDTO{Liked: &liked}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, http_common.CodeSessionClosed, errResp.Code)

	var details http_session.DetailsResponseDTO
	require.Equal(t, http.StatusOK, s.call(t, base, http.MethodGet, "/sessions/"+session.ID.String(), alice, nil, &details))
	assert.Len(t, details.Votes, 3)
}

func (s *E2EVotingFlowSuite) TestReadOnlyInstance(t provider.T) {
	groupID, users, _ := s.seed(t, 1, 1)

	var errResp http_common.ErrorResponse
	status := s.call(t, s.roServer.URL, http.MethodPost, "/groups/"+groupID.String()+"/sessions", users[0], nil, &errResp)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, http_access_middleware.CodeReadOnlyInstance, errResp.Code)

	var list http_session.ListResponseDTO
	assert.Equal(t, http.StatusOK, s.call(t, s.roServer.URL, http.MethodGet, "/sessions", users[0], nil, &list))
}

func (s *E2EVotingFlowSuite) TestMetricsEndpoint(t provider.T) {
	resp, err := s.client.Get(s.server.URL + "/api/v1/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "wannawatch_circuit_breaker_state")
}

func TestE2EVotingFlowSuite(t *testing.T) {
	suite.RunSuite(t, new(E2EVotingFlowSuite))
}
