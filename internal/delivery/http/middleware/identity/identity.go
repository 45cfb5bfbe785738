package http_identity_middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/wannawatch/core/internal/delivery/http/common"
)

// Header carries the authenticated user ID set by the upstream gateway.
const Header = "X-user-id"

const userIDKey = "user_id"

type Middleware struct {
	logger *slog.Logger
}

type Option func(*Middleware)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		m.logger = logger
	}
}

func New(opts ...Option) *Middleware {
	m := &Middleware{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Middleware) Required() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw := ctx.GetHeader(Header)
		if raw == "" {
			m.logger.Warn("missing identity header", slog.String("path", ctx.FullPath()))
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: fmt.Sprintf("%s header required", Header),
				Code:    http_common.CodeUnauthenticated,
			})
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			m.logger.Warn("malformed identity header", slog.String("value", raw))
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: fmt.Sprintf("%s header must be a UUID", Header),
				Code:    http_common.CodeUnauthenticated,
			})
			return
		}

		ctx.Set(userIDKey, userID)
		ctx.Next()
	}
}

// UserID returns the caller set by Required.
func UserID(ctx *gin.Context) (uuid.UUID, bool) {
	v, ok := ctx.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
