package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RouteRegistrar регистрирует свои маршруты в группе /api/v1
type RouteRegistrar interface {
	RegisterRoutes(api *gin.RouterGroup)
}

// NewRouter создает gin router с middleware и маршрутами всех обработчиков
func NewRouter(registrars ...RouteRegistrar) *gin.Engine {
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(corsMiddleware())

	api := router.Group("/api/v1")
	for _, r := range registrars {
		r.RegisterRoutes(api)
	}

	// Базовый маршрут для проверки
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Rail Risk API Server",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	return router
}

// requestIDMiddleware проставляет X-Request-ID, если клиент его не передал
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// corsMiddleware добавляет заголовки CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
