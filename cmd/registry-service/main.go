package main

import (
	"log"

	"github.com/Sarthak8822/Finance/internal/shared/middleware"
	"github.com/Sarthak8822/Finance/internal/shared/registry"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

func main() {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8761")
	port := v.GetString("PORT")

	store := registry.NewStore(registry.DefaultTTL)

	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "registry-service"})
	})

	registry.NewHandler(store).RegisterRoutes(router)

	log.Printf("Registry service starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
