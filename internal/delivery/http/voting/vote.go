package http_vote

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/wannawatch/core/internal/delivery/http/common"
	http_identity_middleware "github.com/humanbelnik/wannawatch/core/internal/delivery/http/middleware/identity"
	"github.com/humanbelnik/wannawatch/core/internal/model"
	usecase_vote "github.com/humanbelnik/wannawatch/core/internal/usecase/vote"
)

type Controller struct {
	uc       *usecase_vote.Usecase
	identity gin.HandlerFunc

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(
	uc *usecase_vote.Usecase,
	identity gin.HandlerFunc,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		uc:       uc,
		identity: identity,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	session := router.Group("/sessions/:session_id", c.identity)
	session.PUT("/votes/:movie_id", c.vote)
	session.GET("/results", c.getResults)
	session.GET("/movies", c.getBoard)

	router.GET("/groups/:group_id/sessions/:session_id/queue", c.identity, c.getQueue)
}

func parseUUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		http_common.BadRequest(ctx, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

type CandidateDTO struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	PosterLink string    `json:"poster_link,omitempty"`
	Genres     []string  `json:"genres"`
	Year       int       `json:"year,omitempty"`
	Rating     float64   `json:"rating,omitempty"`
	Overview   string    `json:"overview,omitempty"`
	AddedBy    uuid.UUID `json:"added_by"`
	AddedAt    time.Time `json:"added_at"`
}

func ToCandidateDTO(cand model.Candidate) CandidateDTO {
	genres := cand.Genres
	if genres == nil {
		genres = []string{}
	}
	return CandidateDTO{
		ID:         cand.ID,
		Title:      cand.Title,
		PosterLink: cand.PosterLink,
		Genres:     genres,
		Year:       cand.Year,
		Rating:     cand.Rating,
		Overview:   cand.Overview,
		AddedBy:    cand.AddedBy,
		AddedAt:    cand.AddedAt,
	}
}

type VoteRequestDTO struct {
	Liked *bool `json:"liked" binding:"required"`
}

type VoteResponseDTO struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	MovieID   uuid.UUID `json:"movie_id"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Vote records the caller's decision on a candidate
// @Summary Record a vote
// @Description Creates or replaces the caller's vote on the movie within the session
// @Tags Voting
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param movie_id path string true "Movie ID"
// @Param request body VoteRequestDTO true "Decision"
// @Success 200 {object} VoteResponseDTO "Vote stored"
// @Failure 400 {object} http_common.ErrorResponse "Malformed request"
// @Failure 403 {object} http_common.ErrorResponse "Caller is not a group member"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 409 {object} http_common.ErrorResponse "Session closed"
// @Failure 422 {object} http_common.ErrorResponse "Movie is not in the group pool"
// @Failure 503 {object} http_common.ErrorResponse "Storage unavailable, retry"
// @Security UserID
// @Router /sessions/{session_id}/votes/{movie_id} [put]
func (c *Controller) vote(ctx *gin.Context) {
	userID, _ := http_identity_middleware.UserID(ctx)

	sessionID, ok := parseUUIDParam(ctx, "session_id")
	if !ok {
		return
	}
	movieID, ok := parseUUIDParam(ctx, "movie_id")
	if !ok {
		return
	}

	var req VoteRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Error("invalid request format",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		http_common.BadRequest(ctx, "invalid request format")
		return
	}

	v, err := c.uc.RecordVote(ctx, sessionID, userID, movieID, *req.Liked)
	if err != nil {
		c.logger.Error("failed to record vote",
			slog.String("session_id", sessionID.String()),
			slog.String("movie_id", movieID.String()),
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		http_common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, VoteResponseDTO{
		ID:        v.ID,
		SessionID: v.SessionID,
		UserID:    v.UserID,
		MovieID:   v.MovieID,
		Liked:     v.Liked,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	})
}

type QueueResponseDTO struct {
	Movies []CandidateDTO `json:"movies"`
}

// GetQueue returns the candidates the caller still has to vote on
// @Summary Voting queue
// @Description Pool candidates without a vote from the caller, in pool order
// @Tags Voting
// @Produce json
// @Param group_id path string true "Group ID"
// @Param session_id path string true "Session ID"
// @Success 200 {object} QueueResponseDTO "Queue"
// @Failure 400 {object} http_common.ErrorResponse "Malformed request"
// @Failure 403 {object} http_common.ErrorResponse "Caller is not a group member"
// @Failure 404 {object} http_common.ErrorResponse "Session not found in group"
// @Failure 503 {object} http_common.ErrorResponse "Storage unavailable"
// @Security UserID
// @Router /groups/{group_id}/sessions/{session_id}/queue [get]
func (c *Controller) getQueue(ctx *gin.Context) {
	userID, _ := http_identity_middleware.UserID(ctx)

	groupID, ok := parseUUIDParam(ctx, "group_id")
	if !ok {
		return
	}
	sessionID, ok := parseUUIDParam(ctx, "session_id")
	if !ok {
		return
	}

	queue, err := c.uc.BuildQueue(ctx, sessionID, groupID, userID)
	if err != nil {
		c.logger.Error("failed to build queue",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		http_common.WriteError(ctx, err)
		return
	}

	resp := QueueResponseDTO{Movies: make([]CandidateDTO, 0, len(queue))}
	for _, cand := range queue {
		resp.Movies = append(resp.Movies, ToCandidateDTO(cand))
	}
	ctx.JSON(http.StatusOK, resp)
}

type ResultDTO struct {
	Movie      CandidateDTO `json:"movie"`
	Upvoters   []uuid.UUID  `json:"upvoters"`
	Downvoters []uuid.UUID  `json:"downvoters"`
	MatchScore float64      `json:"match_score"`
	TotalVotes int          `json:"total_votes"`
	AllVoted   bool         `json:"all_voted"`
}

type GetResultsResponseDTO struct {
	Results  []ResultDTO `json:"results"`
	Winner   *ResultDTO  `json:"winner,omitempty"`
	HasVotes bool        `json:"has_votes"`
}

func toResultDTO(r model.MatchResult) ResultDTO {
	up, down := r.Upvoters, r.Downvoters
	if up == nil {
		up = []uuid.UUID{}
	}
	if down == nil {
		down = []uuid.UUID{}
	}
	return ResultDTO{
		Movie:      ToCandidateDTO(r.Candidate),
		Upvoters:   up,
		Downvoters: down,
		MatchScore: r.MatchScore,
		TotalVotes: r.TotalVotes,
		AllVoted:   r.AllVoted,
	}
}

// GetResults returns the ranked candidates of a session
// @Summary Match results
// @Description Every pool candidate ranked by match score, then total votes
// @Tags Voting
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} GetResultsResponseDTO "Results"
// @Failure 400 {object} http_common.ErrorResponse "Malformed request"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 503 {object} http_common.ErrorResponse "Storage unavailable"
// @Security UserID
// @Router /sessions/{session_id}/results [get]
func (c *Controller) getResults(ctx *gin.Context) {
	sessionID, ok := parseUUIDParam(ctx, "session_id")
	if !ok {
		return
	}

	results, err := c.uc.ComputeResults(ctx, sessionID)
	if err != nil {
		c.logger.Error("failed to compute results",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		http_common.WriteError(ctx, err)
		return
	}

	resp := GetResultsResponseDTO{
		Results:  make([]ResultDTO, 0, len(results.Items)),
		HasVotes: results.HasVotes,
	}
	for _, r := range results.Items {
		resp.Results = append(resp.Results, toResultDTO(r))
	}
	if w, ok := results.Winner(); ok {
		dto := toResultDTO(w)
		resp.Winner = &dto
	}
	ctx.JSON(http.StatusOK, resp)
}

type BoardEntryDTO struct {
	Movie     CandidateDTO `json:"movie"`
	UserVote  *bool        `json:"user_vote"`
	Upvotes   int          `json:"upvotes"`
	Downvotes int          `json:"downvotes"`
}

type GetBoardResponseDTO struct {
	Movies []BoardEntryDTO `json:"movies"`
}

// GetBoard returns the pool with tallies and the caller's decisions
// @Summary Session board
// @Tags Voting
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} GetBoardResponseDTO "Board"
// @Failure 400 {object} http_common.ErrorResponse "Malformed request"
// @Failure 403 {object} http_common.ErrorResponse "Caller is not a group member"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 503 {object} http_common.ErrorResponse "Storage unavailable"
// @Security UserID
// @Router /sessions/{session_id}/movies [get]
func (c *Controller) getBoard(ctx *gin.Context) {
	userID, _ := http_identity_middleware.UserID(ctx)

	sessionID, ok := parseUUIDParam(ctx, "session_id")
	if !ok {
		return
	}

	board, err := c.uc.Board(ctx, sessionID, userID)
	if err != nil {
		c.logger.Error("failed to build board",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		http_common.WriteError(ctx, err)
		return
	}

	resp := GetBoardResponseDTO{Movies: make([]BoardEntryDTO, 0, len(board))}
	for _, e := range board {
		resp.Movies = append(resp.Movies, BoardEntryDTO{
			Movie:     ToCandidateDTO(e.Candidate),
			UserVote:  e.UserVote,
			Upvotes:   e.Upvotes,
			Downvotes: e.Downvotes,
		})
	}
	ctx.JSON(http.StatusOK, resp)
}
