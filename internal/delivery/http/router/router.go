// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"tradelink/internal/delivery/http/middleware"
	"tradelink/internal/delivery/http/router/handler"
	"tradelink/internal/domain/entity"
)

// RouterParams holds every handler the router registers, injected by Fx.
type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	CatalogHandler      *handler.CatalogHandler
	OrderHandler        *handler.OrderHandler
	SupportHandler      *handler.SupportHandler
	ModerationHandler   *handler.ModerationHandler
	NotificationHandler *handler.NotificationHandler
	SystemHandler       *handler.SystemHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	auth          *handler.AuthHandler
	catalog       *handler.CatalogHandler
	orders        *handler.OrderHandler
	support       *handler.SupportHandler
	moderation    *handler.ModerationHandler
	notifications *handler.NotificationHandler
	system        *handler.SystemHandler
	authMW        *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		auth:          params.AuthHandler,
		catalog:       params.CatalogHandler,
		orders:        params.OrderHandler,
		support:       params.SupportHandler,
		moderation:    params.ModerationHandler,
		notifications: params.NotificationHandler,
		system:        params.SystemHandler,
		authMW:        params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.system.Health)
	e.GET("/metrics", r.system.Metrics)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.auth.Register)
		authGroup.POST("/login", r.auth.Login)
		authGroup.POST("/refresh", r.auth.Refresh)
		authGroup.POST("/logout", r.auth.Logout)
	}

	// Payment provider callbacks, reached by redirect without a session.
	paymentGroup := e.Group("/payments")
	{
		paymentGroup.GET("/return", r.orders.PaymentReturn)
		paymentGroup.GET("/cancel", r.orders.PaymentCancel)
	}

	// Everything below requires an authenticated session.
	api := e.Group("/api", r.authMW.Authenticate)

	api.GET("/profile", r.auth.Profile)

	productGroup := api.Group("/products")
	{
		productGroup.GET("", r.catalog.ListProducts)
		productGroup.POST("", r.catalog.CreateProduct)
		productGroup.PUT("/:id", r.catalog.UpdateProduct)
		productGroup.DELETE("/:id", r.catalog.DeleteProduct)
	}

	promotionGroup := api.Group("/promotions")
	{
		promotionGroup.GET("", r.catalog.ListPromotions)
		promotionGroup.POST("", r.catalog.SubmitPromotion)
		promotionGroup.PUT("/:id", r.catalog.UpdatePromotion)
		promotionGroup.DELETE("/:id", r.catalog.DeletePromotion)
	}

	orderGroup := api.Group("/orders")
	{
		orderGroup.GET("", r.orders.ListOrders)
		orderGroup.POST("", r.orders.PlaceOrder)
		orderGroup.PUT("/:id/status", r.orders.UpdateStatus)
	}

	returnGroup := api.Group("/returns")
	{
		returnGroup.GET("", r.orders.ListReturns)
		returnGroup.POST("", r.orders.FileReturn)
	}

	ticketGroup := api.Group("/tickets")
	{
		ticketGroup.GET("", r.support.ListTickets)
		ticketGroup.POST("", r.support.FileTicket)
		ticketGroup.PUT("/:id", r.support.UpdateTicket)
	}

	notificationGroup := api.Group("/notifications")
	{
		notificationGroup.GET("", r.notifications.List)
		notificationGroup.GET("/unread", r.notifications.UnreadCount)
		notificationGroup.PUT("/:id/read", r.notifications.MarkRead)
		notificationGroup.PUT("/read-all", r.notifications.MarkAllRead)
		notificationGroup.DELETE("/:id", r.notifications.Delete)
	}

	// Review routes shared by admin and support staff.
	reviewGroup := api.Group("/review", r.authMW.RequireRole(entity.RoleAdmin, entity.RoleSupport))
	{
		reviewGroup.PUT("/promotions/:id/approve", r.moderation.ApprovePromotion)
		reviewGroup.PUT("/promotions/:id/reject", r.moderation.RejectPromotion)
		reviewGroup.PUT("/returns/:id/approve", r.moderation.ApproveReturn)
		reviewGroup.PUT("/returns/:id/reject", r.moderation.RejectReturn)
	}

	// Admin-only platform management.
	adminGroup := api.Group("/admin", r.authMW.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("/pending-users", r.moderation.ListPendingUsers)
		adminGroup.PUT("/pending-users/:id/approve", r.moderation.ApproveUser)
		adminGroup.PUT("/pending-users/:id/reject", r.moderation.RejectUser)
		adminGroup.POST("/users/bulk-verify", r.moderation.BulkVerifyUsers)
		adminGroup.PUT("/users/:id/suspend", r.moderation.SuspendUser)
		adminGroup.GET("/users", r.moderation.ListUsers)
		adminGroup.POST("/broadcast", r.moderation.Broadcast)
		adminGroup.GET("/settings", r.moderation.GetSettings)
		adminGroup.PUT("/settings", r.moderation.UpdateSettings)
		adminGroup.POST("/settings/reset", r.moderation.ResetSettings)
		adminGroup.GET("/stats", r.moderation.Stats)
	}
}
