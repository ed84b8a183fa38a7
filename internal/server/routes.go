package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	s.echo.Use(correlationMiddleware)
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(errorHandlingMiddleware())

	s.registerHealthRoutes()
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")
	api.POST("/events/message", s.handleMessageEvent)
	api.POST("/events/reaction", s.handleReactionEvent)
	api.GET("/channels", s.handleListChannels)
	api.DELETE("/channels/:id", s.handleDeactivateChannel)
	api.POST("/channels/:id/summaries/daily", s.handleCreateDailySummary)
	api.POST("/channels/:id/summaries/weekly", s.handleCreateWeeklySummary)
	api.GET("/channels/:id/trends", s.handleTrends)
	api.GET("/channels/:id/recommendations", s.handleRecommendations)
	api.GET("/insights", s.handleListInsights)
	api.POST("/insights/:id/acknowledge", s.handleAcknowledgeInsight)
	api.POST("/jobs/daily", s.handleRunJob(s.app.RunDailyJob))
	api.POST("/jobs/weekly", s.handleRunJob(s.app.RunWeeklyJob))
	api.POST("/jobs/insights", s.handleRunJob(s.app.RunInsightsJob))
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}
