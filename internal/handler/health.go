package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthCheck проверяет одну зависимость сервиса
type HealthCheck func(ctx context.Context) error

// HealthHandler отвечает на проверку здоровья сервиса
type HealthHandler struct {
	checks map[string]HealthCheck
	logger *logrus.Logger
}

// NewHealthHandler создает обработчик; checks - проверки по имени зависимости
func NewHealthHandler(checks map[string]HealthCheck, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger}
}

// RegisterRoutes регистрирует маршруты API
func (h *HealthHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/health", h.CheckHealth)
}

// CheckHealth проверяет состояние сервиса и его зависимостей
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(gin.H, len(names))
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Errorf("Зависимость %s недоступна: %v", name, err)
			deps[name] = gin.H{"status": "unhealthy", "error": err.Error()}
			healthy = false
			continue
		}
		deps[name] = gin.H{"status": "healthy"}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":       "unhealthy",
			"dependencies": deps,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"message":      "Сервис работает нормально",
		"dependencies": deps,
	})
}
