package http_init

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	http_access_middleware "github.com/humanbelnik/wannawatch/core/internal/delivery/http/middleware/access"
	http_metrics_middleware "github.com/humanbelnik/wannawatch/core/internal/delivery/http/middleware/metrics"
)

const apiPrefix = "/api/v1"

type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type ControllerPool struct {
	pool   []Controller
	rg     *gin.RouterGroup
	engine *gin.Engine
}

// NewControllerPool builds the engine with the instance access mode
// applied to every route.
func NewControllerPool(mode string) *ControllerPool {
	engine := gin.Default()
	engine.Use(
		http_metrics_middleware.Instrument(),
		http_access_middleware.ReadOnlyBadGatewayMiddleware(mode),
	)
	rg := engine.Group(apiPrefix)
	return &ControllerPool{
		pool:   make([]Controller, 0, 10),
		rg:     rg,
		engine: engine,
	}
}

func (pool *ControllerPool) Register() {
	for _, c := range pool.pool {
		c.RegisterRoutes(pool.rg)
	}
}

func (pool *ControllerPool) Handler() http.Handler {
	return pool.engine
}

func (pool *ControllerPool) RunAll(host string, port string) {
	if err := pool.engine.Run(host + ":" + port); err != nil {
		log.Fatalf("failed to run HTTP server: %v", err)
	}
}

func (pool *ControllerPool) Add(c Controller) {
	pool.pool = append(pool.pool, c)
}
