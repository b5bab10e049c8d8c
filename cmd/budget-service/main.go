package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	budgetcmd "github.com/Sarthak8822/Finance/internal/budget/command"
	"github.com/Sarthak8822/Finance/internal/budget/handler"
	budgetqry "github.com/Sarthak8822/Finance/internal/budget/query"
	"github.com/Sarthak8822/Finance/internal/budget/repository"
	"github.com/Sarthak8822/Finance/internal/shared/config"
	"github.com/Sarthak8822/Finance/internal/shared/events"
	"github.com/Sarthak8822/Finance/internal/shared/middleware"
	redisClient "github.com/Sarthak8822/Finance/internal/shared/redis"
	"github.com/Sarthak8822/Finance/internal/shared/registry"
	"github.com/Sarthak8822/Finance/internal/shared/token"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

const serviceName = "budget-service"

func main() {
	cfg := config.Load("8083")

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

	tokens := token.New(cfg.JWTSecret, cfg.TokenTTL)

	budgetRepo := repository.NewBudgetRepository(db)
	marker := repository.NewEventMarker(redis.Client)

	publisher := events.NewPublisher(redis.Client)
	commandSvc := budgetcmd.NewBudgetCommandService(budgetRepo, marker, publisher)
	querySvc := budgetqry.NewBudgetQueryService(budgetRepo)

	budgetHandler := handler.NewBudgetHandler(commandSvc, querySvc)

	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": serviceName})
	})

	api := router.Group("/api/budgets", middleware.AuthMiddleware(tokens))
	{
		api.POST("", budgetHandler.CreateBudget)
		api.GET("/user/:userId", budgetHandler.ListBudgets)
		api.DELETE("/:budgetId", budgetHandler.DeleteBudget)
		api.DELETE("/user/:userId/all", budgetHandler.DeleteAllByUser)
		api.DELETE("/user/:userId/category/:category", budgetHandler.DeleteByCategory)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Track spending from the transaction stream.
	go func() {
		subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
			Group:    "budget-service-group",
			Consumer: "budget-consumer-1",
			Stream:   events.TransactionEventsStream,
			Handler:  commandSvc.HandleTransactionEvent,
		})
		if err := subscriber.Start(ctx); err != nil {
			log.Printf("Subscriber stopped: %v", err)
		}
	}()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	selfURL := "http://localhost:" + cfg.Port
	go registry.NewClient(cfg.RegistryURL).Heartbeat(ctx, serviceName, selfURL, registry.DefaultTTL)

	log.Printf("Budget service starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
