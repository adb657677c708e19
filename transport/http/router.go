package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gamearena/wakegate/config"
	"github.com/gamearena/wakegate/service"
)

// SetupRouter builds the gin engine serving the gateway surface.
func SetupRouter(svc *service.GatewayService, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(RequestLogger(log), gin.Recovery())

	router.LoadHTMLGlob(cfg.Web.Templates)
	router.Static("/static", cfg.Web.Static)

	handlers := NewGatewayHandlers(svc, cfg)

	router.GET("/", handlers.Root)

	api := router.Group("/api")
	{
		api.POST("/wol", handlers.Wake)
		api.GET("/ping/:ip", handlers.Ping)
		api.GET("/machines", handlers.Machines)
	}

	router.GET("/health", handlers.Health)
	router.GET("/debug", handlers.Debug)

	return router
}
