package http

import (
	stdhttp "net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/avdeev/codepair-server/internal/config"
	"github.com/avdeev/codepair-server/internal/core"
)

// NewServer builds the HTTP server: health, code execution, and the
// realtime channel. The editor UI lives elsewhere, so CORS is permissive.
func NewServer(hub *core.Hub, exec Executor, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(LoggerMiddleware(logger), gin.Recovery(), cors.Default())

	router.GET("/health", healthHandler)

	execHandlers := NewExecHandlers(exec, logger)
	router.POST("/execute", execHandlers.Execute)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg.MaxMessageBytes, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
