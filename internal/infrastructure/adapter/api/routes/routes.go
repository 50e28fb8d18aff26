package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/middleware"
)

// BasePath prefixes every API route
const BasePath = "/bank_app/api/v1"

// Handlers groups the HTTP handlers mounted by SetupRoutes
type Handlers struct {
	Account   *handler.AccountHandler
	Transfer  *handler.TransferHandler
	Dashboard *handler.DashboardHandler
	Realtime  *handler.RealtimeHandler
	Health    *handler.HealthHandler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers, sessions middleware.SessionResolver) {
	router.GET("/", h.Health.Root)
	router.GET("/health", h.Health.Ready)

	api := router.Group(BasePath)
	{
		api.POST("/signup", h.Account.Signup)
		api.GET("/auth", h.Account.Verify)
		api.POST("/login", h.Account.Login)
		api.POST("/cleardb", h.Account.ClearDatabase)
		api.GET("/ws", h.Realtime.Connect)

		protected := api.Group("", middleware.Auth(sessions))
		protected.POST("/transactions", h.Transfer.Transfer)
		protected.GET("/dashboard", h.Dashboard.Dashboard)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, allowedOrigins []string) {
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(allowedOrigins))
}
