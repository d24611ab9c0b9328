package handler

import (
	"errors"
	"net/http"

	"rail-risk-go/internal/repository"
	"rail-risk-go/internal/segment"
	"rail-risk-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusFor возвращает HTTP статус для ошибки сервиса
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, segment.ErrUnknownStation),
		errors.Is(err, segment.ErrNoCoordinates):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrRunNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError пишет ошибку в ответ. Внутренние ошибки не раскрываются клиенту.
func respondError(c *gin.Context, logger *logrus.Logger, err error, message string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Errorf("%s: %v", message, err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	logger.Warnf("%s: %v", message, err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON разбирает тело запроса, при ошибке отвечает 400
func bindJSON(c *gin.Context, logger *logrus.Logger, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		logger.Warnf("Ошибка разбора JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат JSON: " + err.Error()})
		return false
	}
	return true
}
