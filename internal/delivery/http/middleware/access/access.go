package http_access_middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/wannawatch/core/internal/delivery/http/common"
)

const (
	ModeReadWrite = "RW"
	ModeReadOnly  = "RO"

	CodeReadOnlyInstance = "READ_ONLY_INSTANCE"
)

// ReadOnlyBadGatewayMiddleware lets only safe methods through on a
// read-only replica.
func ReadOnlyBadGatewayMiddleware(mode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if mode != ModeReadOnly {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "write operations are not allowed on a read-only instance",
			Code:    CodeReadOnlyInstance,
		})
	}
}
