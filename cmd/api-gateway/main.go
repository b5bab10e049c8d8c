package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"

	"github.com/Sarthak8822/Finance/internal/shared/config"
	"github.com/Sarthak8822/Finance/internal/shared/middleware"
	redisClient "github.com/Sarthak8822/Finance/internal/shared/redis"
	"github.com/Sarthak8822/Finance/internal/shared/registry"
	"github.com/Sarthak8822/Finance/internal/shared/token"
	"github.com/gin-gonic/gin"
)

const requestsPerMinute = 120

func main() {
	cfg := config.Load("8080")

	redis, err := redisClient.NewClient(cfg.RedisAddr, "", cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	tokens := token.New(cfg.JWTSecret, cfg.TokenTTL)

	reg := registry.NewClient(cfg.RegistryURL).
		WithFallback("user-service", cfg.UserServiceURL).
		WithFallback("transaction-service", cfg.TransactionServiceURL).
		WithFallback("budget-service", cfg.BudgetServiceURL).
		WithFallback("report-service", cfg.ReportServiceURL)

	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RateLimitMiddleware(redis.Client, requestsPerMinute))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "api-gateway"})
	})

	auth := middleware.AuthMiddleware(tokens)
	users := proxyTo(reg, "user-service")
	transactions := proxyTo(reg, "transaction-service")
	budgets := proxyTo(reg, "budget-service")
	reports := proxyTo(reg, "report-service")

	// Registration and login are the only unauthenticated routes.
	router.POST("/api/users/register", users)
	router.POST("/api/users/login", users)

	router.GET("/api/users/:userId", auth, users)
	router.GET("/api/users/username/:username", auth, users)
	router.PUT("/api/users/:userId", auth, users)
	router.PUT("/api/users/:userId/deactivate", auth, users)
	router.PUT("/api/users/:userId/reactivate", auth, users)
	router.DELETE("/api/users/:userId", auth, users)

	router.POST("/api/transactions", auth, transactions)
	router.GET("/api/transactions/user/:userId", auth, transactions)
	router.GET("/api/transactions/user/:userId/type/:type", auth, transactions)
	router.GET("/api/transactions/user/:userId/summary", auth, transactions)
	router.GET("/api/transactions/user/:userId/date-range", auth, transactions)
	router.PUT("/api/transactions/:transactionId", auth, transactions)
	router.DELETE("/api/transactions/:transactionId", auth, transactions)
	router.DELETE("/api/transactions/user/:userId/all", auth, transactions)
	router.DELETE("/api/transactions/user/:userId/category/:category", auth, transactions)

	router.POST("/api/budgets", auth, budgets)
	router.GET("/api/budgets/user/:userId", auth, budgets)
	router.DELETE("/api/budgets/:budgetId", auth, budgets)
	router.DELETE("/api/budgets/user/:userId/all", auth, budgets)
	router.DELETE("/api/budgets/user/:userId/category/:category", auth, budgets)

	router.GET("/api/reports/monthly/:userId", auth, reports)

	log.Printf("API Gateway starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func proxyTo(reg *registry.Client, serviceName string) gin.HandlerFunc {
	client := &http.Client{}
	return func(c *gin.Context) {
		serviceURL, err := reg.Resolve(context.Background(), serviceName)
		if err != nil {
			log.Printf("Failed to resolve %s: %v", serviceName, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Service unavailable"})
			return
		}

		targetURL := serviceURL + c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			targetURL += "?" + c.Request.URL.RawQuery
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		req, err := http.NewRequest(c.Request.Method, targetURL, bytes.NewBuffer(bodyBytes))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
			return
		}

		for key, values := range c.Request.Header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}

		// Forward the authenticated subject to the backing service.
		if username, ok := middleware.GetUsername(c); ok {
			req.Header.Set("X-Username", username)
		}

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("Error proxying request to %s: %v", serviceName, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Service unavailable"})
			return
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read response"})
			return
		}

		for key, values := range resp.Header {
			for _, value := range values {
				c.Header(key, value)
			}
		}
		c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), respBody)
	}
}
