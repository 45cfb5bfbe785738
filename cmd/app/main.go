package main

import (
	"github.com/humanbelnik/wannawatch/core/internal/app"
	"github.com/humanbelnik/wannawatch/core/internal/config"
)

// @title WannaWatch voting API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey UserID
// @in header
// @name X-user-id
func main() {
	app.Go(config.Load())
}
