package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/finapi/internal/server/http/handlers"
	"github.com/polkiloo/finapi/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.FinanceFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithDecompressFn(gzip.DefaultDecompressHandle)))

	userHandler := handlers.NewUserHandler(facade)
	statementHandler := handlers.NewStatementHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api/v1")
	api.POST("/users", userHandler.Create)
	api.POST("/sessions", userHandler.CreateSession)
	api.GET("/health", healthHandler.Check)

	authorized := api.Group("")
	authorized.Use(middleware.AuthRequired(facade))
	authorized.GET("/profile", userHandler.Profile)

	statements := authorized.Group("/statements")
	statements.GET("/balance", statementHandler.Balance)
	statements.POST("/deposit", statementHandler.Deposit)
	statements.POST("/withdraw", statementHandler.Withdraw)
	statements.GET("/:statement_id", statementHandler.Get)

	return engine
}
