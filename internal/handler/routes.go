package handler

import (
	"github.com/dafibh/household/household-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers bundles every route handler
type Handlers struct {
	System      *SystemHandler
	Account     *AccountHandler
	Transaction *TransactionHandler
	Category    *CategoryHandler
	WebSocket   *WebSocketHandler
}

// RegisterRoutes sets up all API routes. rateLimiter may be nil to leave mutations unthrottled.
func RegisterRoutes(e *echo.Echo, h Handlers, rateLimiter *middleware.RateLimiter) {
	e.GET("/health", h.System.Health)
	if h.WebSocket != nil {
		e.GET("/ws", h.WebSocket.HandleWS)
	}

	// API version 1
	api := e.Group("/api/v1")
	if rateLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(rateLimiter))
	}

	api.GET("/server-time", h.System.ServerTime)

	// Account routes
	accounts := api.Group("/accounts")
	accounts.GET("", h.Account.GetAccounts)
	accounts.GET("/field-rules", h.Account.GetFieldRules)
	accounts.POST("", h.Account.CreateAccount)
	accounts.GET("/:id", h.Account.GetAccount)
	accounts.PUT("/:id", h.Account.UpdateAccount)
	accounts.DELETE("/:id", h.Account.DeleteAccount)
	accounts.GET("/:id/transactions", h.Account.GetLedger)

	// Category routes
	categories := api.Group("/categories")
	categories.GET("", h.Category.GetCategories)
	categories.POST("", h.Category.CreateCategory)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/form-options", h.Transaction.GetFormOptions)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)
}
