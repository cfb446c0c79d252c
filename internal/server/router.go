package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/budgetsync/internal/config"
)

// Router builds the gin engine for the service.
func (s *Server) Router(cfg config.ServerConfig) *gin.Engine {
	r := gin.New()

	// Client IPs are never used.
	r.ForwardedByClientIP = false
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.DebugLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, _ zerolog.Logger) zerolog.Logger {
			return s.log.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Logger()
		})))

	r.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, httpError{Error: "There is no resource at this path"})
	})
	r.NoMethod(func(c *gin.Context) {
		abort(c, http.StatusMethodNotAllowed, httpError{Error: "This HTTP method is not allowed for the endpoint you called"})
	})

	if len(cfg.CORSAllowOrigins) > 0 {
		s.log.Debug().Strs("origins", cfg.CORSAllowOrigins).Msg("cors enabled")
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowOrigins,
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
		}))
	}

	// Route printing clutters logs and test output.
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	_ = r.SetTrustedProxies([]string{})

	if cfg.EnablePprof {
		pprof.Register(r, "debug/pprof")
	}

	r.GET("/healthz", s.Healthz)
	s.RegisterBudgetRoutes(r.Group("/budgets"))
	s.RegisterExpenseRoutes(r.Group("/expenses"))
	s.RegisterDataRoutes(r.Group("/data"))
	s.RegisterUserRoutes(r.Group("/users"))

	return r
}

// Healthz answers 204 when the database is reachable.
func (s *Server) Healthz(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
