package handler

import (
	"net/http"
	"strconv"

	"rail-risk-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RunHandler обрабатывает HTTP запросы журнала расчетов
type RunHandler struct {
	runService *service.RunService
	logger     *logrus.Logger
}

// NewRunHandler создает новый экземпляр RunHandler
func NewRunHandler(runService *service.RunService, logger *logrus.Logger) *RunHandler {
	return &RunHandler{
		runService: runService,
		logger:     logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *RunHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/runs", h.ListRuns)
	api.GET("/runs/:id", h.GetRun)
	api.DELETE("/runs/:id", h.DeleteRun)
}

// ListRuns возвращает список расчетов с пагинацией
func (h *RunHandler) ListRuns(c *gin.Context) {
	h.logger.Info("Получен запрос на получение журнала расчетов")

	// Получаем параметры пагинации
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 || size > 100 {
		size = 10
	}

	runs, total, err := h.runService.ListRuns(c.Query("kind"), page, size)
	if err != nil {
		respondError(c, h.logger, err, "Ошибка получения журнала расчетов")
		return
	}

	c.JSON(http.StatusOK, service.ListRunsResponse{
		Runs:  runs,
		Total: total,
		Page:  page,
		Size:  size,
	})
}

// GetRun возвращает запись журнала по ID
func (h *RunHandler) GetRun(c *gin.Context) {
	runID := c.Param("id")
	h.logger.Infof("Получен запрос записи журнала с ID: %s", runID)

	run, err := h.runService.GetRunByID(runID)
	if err != nil {
		respondError(c, h.logger, err, "Ошибка получения записи журнала")
		return
	}

	c.JSON(http.StatusOK, run)
}

// DeleteRun удаляет запись журнала по ID
func (h *RunHandler) DeleteRun(c *gin.Context) {
	runID := c.Param("id")
	h.logger.Infof("Получен запрос на удаление записи журнала с ID: %s", runID)

	if err := h.runService.DeleteRun(runID); err != nil {
		respondError(c, h.logger, err, "Ошибка удаления записи журнала")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Запись журнала удалена"})
}
