package http_session

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/wannawatch/core/internal/delivery/http/common"
	http_identity_middleware "github.com/humanbelnik/wannawatch/core/internal/delivery/http/middleware/identity"
	"github.com/humanbelnik/wannawatch/core/internal/model"
	usecase_session "github.com/humanbelnik/wannawatch/core/internal/usecase/session"
)

type Controller struct {
	usecase  *usecase_session.Usecase
	identity gin.HandlerFunc
	logger   *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(
	usecase *usecase_session.Usecase,
	identity gin.HandlerFunc,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		usecase:  usecase,
		identity: identity,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	groups := router.Group("/groups/:group_id", c.identity)
	{
		groups.POST("/sessions", c.open)
	}

	sessions := router.Group("/sessions", c.identity)
	{
		sessions.GET("", c.list)
		sessions.GET("/:session_id", c.get)
		sessions.PATCH("/:session_id/close", c.close)
	}
}

type SessionDTO struct {
	ID        uuid.UUID  `json:"id"`
	GroupID   uuid.UUID  `json:"group_id"`
	CreatedBy uuid.UUID  `json:"created_by"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

type VoteDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	MovieID   uuid.UUID `json:"movie_id"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToSessionDTO(s model.Session) SessionDTO {
	return SessionDTO{
		ID:        s.ID,
		GroupID:   s.GroupID,
		CreatedBy: s.CreatedBy,
		Name:      s.Name,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		ClosedAt:  s.ClosedAt,
	}
}

func ToVoteDTO(v model.Vote) VoteDTO {
	return VoteDTO{
		ID:        v.ID,
		UserID:    v.UserID,
		MovieID:   v.MovieID,
		Liked:     v.Liked,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

type OpenRequestDTO struct {
	Name string `json:"name"`
}

// Open starts a voting session
// @Summary Open a session
// @Description Starts an active voting session over the group's candidate pool. A blank name gets the default "Session M/D/YYYY".
// @Tags Sessions
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param request body OpenRequestDTO false "Session name"
// @Success 201 {object} SessionDTO "Session opened"
// @Failure 400 {object} http_common.ErrorResponse "Malformed request"
// @Failure 403 {object} http_common.ErrorResponse "Caller is not a group member"
// @Failure 404 {object} http_common.ErrorResponse "Group not found"
// @Failure 503 {object} http_common.ErrorResponse "Storage unavailable"
// @Security UserID
// @Router /groups/{group_id}/sessions [post]
func (c *Controller) open(ctx *gin.Context) {
	userID, _ := http_identity_middleware.UserID(ctx)

	groupID, err := uuid.Parse(ctx.Param("group_id"))
	if err != nil {
		http_common.BadRequest(ctx, "invalid group id")
		return
	}

	var req OpenRequestDTO
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			c.logger.Error("invalid request format", slog.String("error", err.Error()))
			http_common.BadRequest(ctx, "invalid request format")
			return
		}
	}

	s, err := c.usecase.Open(ctx, groupID, userID, req.Name)
	if err != nil {
		c.logger.Error("failed to open session",
			slog.String("group_id", groupID.String()),
			slog.String("error", err.Error()))
		http_common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, ToSessionDTO(s))
}

type ListResponseDTO struct {
	Sessions []SessionDTO `json:"sessions"`
}

// List returns the caller's sessions
// @Summary List sessions
// @Description Lists sessions of every group the caller belongs to, newest first
// @Tags Sessions
// @Produce json
// @Param active query bool false "Only active sessions"
// @Success 200 {object} ListResponseDTO "Sessions"
// @Failure 400 {object} http_common.ErrorResponse "Malformed request"
// @Failure 503 {object} http_common.ErrorResponse "Storage unavailable"
// @Security UserID
// @Router /sessions [get]
func (c *Controller) list(ctx *gin.Context) {
	userID, _ := http_identity_middleware.UserID(ctx)

	activeOnly := false
	if raw := ctx.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			http_common.BadRequest(ctx, "active must be a boolean")
			return
		}
		activeOnly = v
	}

	sessions, err := c.usecase.List(ctx, userID, activeOnly)
	if err != nil {
		c.logger.Error("failed to list sessions", slog.String("error", err.Error()))
		http_common.WriteError(ctx, err)
		return
	}

	resp := ListResponseDTO{Sessions: make([]SessionDTO, 0, len(sessions))}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, ToSessionDTO(s))
	}
	ctx.JSON(http.StatusOK, resp)
}

type DetailsResponseDTO struct {
	Session SessionDTO `json:"session"`
	Votes   []VoteDTO  `json:"votes"`
}

// Get returns a session with its vote history
// @Summary Get a session
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} DetailsResponseDTO "Session details"
// @Failure 400 {object} http_common.ErrorResponse "Malformed request"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 503 {object} http_common.ErrorResponse "Storage unavailable"
// @Security UserID
// @Router /sessions/{session_id} [get]
func (c *Controller) get(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("session_id"))
	if err != nil {
		http_common.BadRequest(ctx, "invalid session id")
		return
	}

	details, err := c.usecase.Get(ctx, sessionID)
	if err != nil {
		c.logger.Error("failed to get session",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		http_common.WriteError(ctx, err)
		return
	}

	resp := DetailsResponseDTO{
		Session: ToSessionDTO(details.Session),
		Votes:   make([]VoteDTO, 0, len(details.Votes)),
	}
	for _, v := range details.Votes {
		resp.Votes = append(resp.Votes, ToVoteDTO(v))
	}
	ctx.JSON(http.StatusOK, resp)
}

// Close ends a session
// @Summary Close a session
// @Description Only the session creator may close it. Closing is final.
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} SessionDTO "Session closed"
// @Failure 400 {object} http_common.ErrorResponse "Malformed request"
// @Failure 403 {object} http_common.ErrorResponse "Caller is not the creator"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 409 {object} http_common.ErrorResponse "Session already closed"
// @Failure 503 {object} http_common.ErrorResponse "Storage unavailable"
// @Security UserID
// @Router /sessions/{session_id}/close [patch]
func (c *Controller) close(ctx *gin.Context) {
	userID, _ := http_identity_middleware.UserID(ctx)

	sessionID, err := uuid.Parse(ctx.Param("session_id"))
	if err != nil {
		http_common.BadRequest(ctx, "invalid session id")
		return
	}

	s, err := c.usecase.Close(ctx, sessionID, userID)
	if err != nil {
		c.logger.Error("failed to close session",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		http_common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, ToSessionDTO(s))
}
