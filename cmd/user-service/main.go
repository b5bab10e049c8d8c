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
	"github.com/Sarthak8822/Finance/internal/user/client"
	usercmd "github.com/Sarthak8822/Finance/internal/user/command"
	"github.com/Sarthak8822/Finance/internal/user/handler"
	userqry "github.com/Sarthak8822/Finance/internal/user/query"
	"github.com/Sarthak8822/Finance/internal/user/repository"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

const serviceName = "user-service"

func main() {
	cfg := config.Load("8081")

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

	// Sibling services are resolved through the registry, with static URLs
	// as fallback when the registry is unreachable.
	reg := registry.NewClient(cfg.RegistryURL).
		WithFallback("transaction-service", cfg.TransactionServiceURL).
		WithFallback("budget-service", cfg.BudgetServiceURL)

	writeRepo := repository.NewUserWriteRepository(db)
	readRepo := repository.NewUserReadRepository(db, redis.Client)

	commandSvc := usercmd.NewUserCommandService(
		writeRepo,
		readRepo,
		publisher,
		client.NewTransactionClient(reg, tokens),
		client.NewBudgetClient(reg, tokens),
	)
	querySvc := userqry.NewUserQueryService(readRepo)

	userHandler := handler.NewUserHandler(commandSvc, querySvc, tokens)

	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": serviceName})
	})

	api := router.Group("/api/users")
	{
		api.POST("/register", userHandler.Register)
		api.POST("/login", userHandler.Login)

		protected := api.Group("", middleware.AuthMiddleware(tokens))
		{
			protected.GET("/:userId", userHandler.GetUser)
			protected.GET("/username/:username", userHandler.GetUserByUsername)
			protected.PUT("/:userId", userHandler.UpdateUser)
			protected.PUT("/:userId/deactivate", userHandler.DeactivateUser)
			protected.PUT("/:userId/reactivate", userHandler.ReactivateUser)
			protected.DELETE("/:userId", userHandler.DeleteUser)
		}
	}

	selfURL := "http://localhost:" + cfg.Port
	go reg.Heartbeat(context.Background(), serviceName, selfURL, registry.DefaultTTL)

	log.Printf("User service starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
