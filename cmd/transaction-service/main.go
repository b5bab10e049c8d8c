package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/Sarthak8822/Finance/internal/shared/config"
	"github.com/Sarthak8822/Finance/internal/shared/events"
	"github.com/Sarthak8822/Finance/internal/shared/middleware"
	redisClient "github.com/Sarthak8822/Finance/internal/shared/redis"
	"github.com/Sarthak8822/Finance/internal/shared/registry"
	"github.com/Sarthak8822/Finance/internal/shared/token"
	txcmd "github.com/Sarthak8822/Finance/internal/transaction/command"
	"github.com/Sarthak8822/Finance/internal/transaction/handler"
	txqry "github.com/Sarthak8822/Finance/internal/transaction/query"
	"github.com/Sarthak8822/Finance/internal/transaction/repository"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

const serviceName = "transaction-service"

func main() {
	cfg := config.Load("8082")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	redis, err := redisClient.NewClient(cfg.RedisAddr, "", cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	publisher := events.NewPublisher(redis.Client)
	tokens := token.New(cfg.JWTSecret, cfg.TokenTTL)

	writeRepo := repository.NewTransactionWriteRepository(db)
	readRepo := repository.NewTransactionReadRepository(db, redis.Client)

	commandSvc := txcmd.NewTransactionCommandService(writeRepo, readRepo, publisher)
	querySvc := txqry.NewTransactionQueryService(readRepo)

	transactionHandler := handler.NewTransactionHandler(commandSvc, querySvc)

	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": serviceName})
	})

	api := router.Group("/api/transactions", middleware.AuthMiddleware(tokens))
	{
		api.POST("", transactionHandler.CreateTransaction)
		api.GET("/user/:userId", transactionHandler.ListTransactions)
		api.GET("/user/:userId/type/:type", transactionHandler.ListTransactionsByType)
		api.GET("/user/:userId/summary", transactionHandler.GetSummary)
		api.GET("/user/:userId/date-range", transactionHandler.ListTransactionsByDateRange)
		api.PUT("/:transactionId", transactionHandler.UpdateTransaction)
		api.DELETE("/:transactionId", transactionHandler.DeleteTransaction)
		api.DELETE("/user/:userId/all", transactionHandler.DeleteAllByUser)
		api.DELETE("/user/:userId/category/:category", transactionHandler.DeleteByCategory)
	}

	selfURL := "http://localhost:" + cfg.Port
	go registry.NewClient(cfg.RegistryURL).
		Heartbeat(context.Background(), serviceName, selfURL, registry.DefaultTTL)

	log.Printf("Transaction service starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
