package main

import (
	"context"
	"log"

	"github.com/Sarthak8822/Finance/internal/report/client"
	"github.com/Sarthak8822/Finance/internal/report/handler"
	"github.com/Sarthak8822/Finance/internal/report/service"
	"github.com/Sarthak8822/Finance/internal/shared/config"
	"github.com/Sarthak8822/Finance/internal/shared/middleware"
	"github.com/Sarthak8822/Finance/internal/shared/registry"
	"github.com/Sarthak8822/Finance/internal/shared/token"
	"github.com/gin-gonic/gin"
)

const serviceName = "report-service"

func main() {
	cfg := config.Load("8084")

	tokens := token.New(cfg.JWTSecret, cfg.TokenTTL)

	reg := registry.NewClient(cfg.RegistryURL).
		WithFallback("transaction-service", cfg.TransactionServiceURL)

	reportSvc := service.NewReportService(client.NewTransactionClient(reg, tokens))
	reportHandler := handler.NewReportHandler(reportSvc)

	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": serviceName})
	})

	api := router.Group("/api/reports", middleware.AuthMiddleware(tokens))
	{
		api.GET("/monthly/:userId", reportHandler.GetMonthlyReport)
	}

	selfURL := "http://localhost:" + cfg.Port
	go reg.Heartbeat(context.Background(), serviceName, selfURL, registry.DefaultTTL)

	log.Printf("Report service starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
