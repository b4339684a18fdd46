package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"smart-queue/security"
)

type Routes struct {
	Queue   *QueueHandler
	Ticket  *TicketHandler
	Admin   *AdminHandler
	Health  *HealthHandler
	Limiter *security.RateLimiter
	Auth    *security.AdminAuth

	// Metrics is served at MetricsPath when set.
	Metrics     http.Handler
	MetricsPath string
}

func RegisterRoutes(e *echo.Echo, r Routes) {
	// Queue endpoints
	e.GET("/api/queues", r.Queue.ListQueues)
	e.GET("/api/queues/:id", r.Queue.GetQueue)
	e.POST("/api/queues/:id/join", r.Queue.JoinQueue, r.Limiter.Limit("join", SessionHeader))

	// Ticket endpoints
	ticket := e.Group("/api/ticket", requireSession)
	ticket.GET("", r.Ticket.GetTicket)
	ticket.POST("/leave", r.Ticket.LeaveQueue)
	ticket.POST("/notifications", r.Ticket.ToggleNotification)
	e.GET("/api/notifications", r.Ticket.GetNotifications, requireSession)

	// Admin endpoints
	admin := e.Group("/api/admin", r.Auth.Middleware())
	admin.GET("/stats", r.Admin.GetStats)
	admin.POST("/queues/:id/active", r.Admin.SetQueueActive)

	// Health check
	e.GET("/health", r.Health.Health)

	if r.Metrics != nil && r.MetricsPath != "" {
		metrics := r.Metrics
		e.GET(r.MetricsPath, func(c echo.Context) error {
			metrics.ServeHTTP(c.Response(), c.Request())
			return nil
		})
	}
}
