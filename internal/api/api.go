package api

import (
	"context"
	"net/http"
	"time"

	attributionHandler "revenue-server/internal/attribution/handler"
	authHandler "revenue-server/internal/auth/handler"
	commissionHandler "revenue-server/internal/commission/handler"
	crmHandler "revenue-server/internal/crm/handler"
	ledgerHandler "revenue-server/internal/ledger/handler"
	paymentHandler "revenue-server/internal/payments/handler"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the route handlers registered by the API
type Handlers struct {
	Auth        authHandler.Handler
	Payments    paymentHandler.Handler
	CRM         crmHandler.Handler
	Commissions commissionHandler.Handler
	Attribution attributionHandler.Handler
	Ledger      ledgerHandler.Handler
}

type API struct {
	router         *gin.RouterGroup
	handlers       Handlers
	database       Pinger
	webhookLimiter gin.HandlerFunc
}

// New wires the routes. webhookLimiter guards the payment webhooks and may be nil.
func New(router *gin.RouterGroup, handlers Handlers, database Pinger, webhookLimiter gin.HandlerFunc) API {
	return API{
		router:         router,
		handlers:       handlers,
		database:       database,
		webhookLimiter: webhookLimiter,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")

	webhookGroup := apiGroup.Group("/webhooks")
	{
		// appointments are never throttled; a dropped one strands its payment
		webhookGroup.POST("/crm", a.handlers.CRM.HandleAppointmentWebhook)
	}

	paymentGroup := webhookGroup.Group("/payments")
	if a.webhookLimiter != nil {
		paymentGroup.Use(a.webhookLimiter)
	}
	{
		paymentGroup.POST("", a.handlers.Payments.HandlePaymentWebhook)
		if a.handlers.Payments.StripeEnabled() {
			paymentGroup.POST("/stripe", a.handlers.Payments.HandleStripeWebhook)
		}
	}

	adminGroup := apiGroup.Group("/admin", a.handlers.Auth.HandleAdminMiddleware)
	{
		adminGroup.POST("/payments/match", a.handlers.Payments.HandleBulkMatch)
		adminGroup.GET("/unmatched-payments", a.handlers.Payments.HandleListUnmatched)
		adminGroup.POST("/unmatched-payments/:id/rematch", a.handlers.Payments.HandleRematch)
		adminGroup.POST("/commissions/:id/override", a.handlers.Commissions.HandleOverride)
		adminGroup.POST("/commissions/:id/transition", a.handlers.Commissions.HandleTransition)
		adminGroup.POST("/contacts/:id/attribution", a.handlers.Attribution.HandleRecalculate)
		adminGroup.GET("/webhook-events", a.handlers.Ledger.HandleListEvents)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		if a.database != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := a.database.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
