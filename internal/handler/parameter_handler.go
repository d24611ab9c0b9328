package handler

import (
	"net/http"
	"strconv"

	"rail-risk-go/internal/segment"
	"rail-risk-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ParameterHandler обрабатывает HTTP запросы расчета показателей и арбитража
type ParameterHandler struct {
	parameterService *service.ParameterService
	decisionService  *service.DecisionService
	logger           *logrus.Logger
}

// NewParameterHandler создает новый экземпляр ParameterHandler
func NewParameterHandler(parameterService *service.ParameterService, decisionService *service.DecisionService, logger *logrus.Logger) *ParameterHandler {
	return &ParameterHandler{
		parameterService: parameterService,
		decisionService:  decisionService,
		logger:           logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *ParameterHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/compute", h.Compute)
	api.POST("/trains/parameters", h.ComputeTrains)
	api.POST("/stations/parameters", h.ComputeStations)
	api.POST("/track/parameters", h.ComputeTrack)
	api.POST("/track/segments", h.Segments)
	api.GET("/track/edges/:source/:target/metrics", h.EdgeMetrics)
	api.POST("/decide", h.Decide)
	api.POST("/proximity", h.Proximity)
}

// Compute обрабатывает запрос полного расчета показателей сети
func (h *ParameterHandler) Compute(c *gin.Context) {
	h.logger.Info("Получен запрос на полный расчет показателей")

	var req service.ComputeRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	resp, err := h.parameterService.Compute(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Ошибка расчета показателей")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ComputeTrains возвращает показатели поездов p1..p20
func (h *ParameterHandler) ComputeTrains(c *gin.Context) {
	var req service.TrainsRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	resp, err := h.parameterService.ComputeTrains(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Ошибка расчета показателей поездов")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ComputeStations возвращает показатели станций
func (h *ParameterHandler) ComputeStations(c *gin.Context) {
	var req service.StationsRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	resp, err := h.parameterService.ComputeStations(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Ошибка расчета показателей станций")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stations": resp})
}

// ComputeTrack возвращает сетевые показатели пути p21..p40
func (h *ParameterHandler) ComputeTrack(c *gin.Context) {
	var req service.TrackRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	resp, err := h.parameterService.ComputeTrack(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Ошибка расчета показателей пути")
		return
	}

	c.JSON(http.StatusOK, gin.H{"track": resp})
}

// Segments разбивает ребро на участки. С ?format=geojson отвечает FeatureCollection.
func (h *ParameterHandler) Segments(c *gin.Context) {
	var req service.SegmentsRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	segs, err := h.parameterService.Segments(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Ошибка разбиения ребра")
		return
	}

	if c.Query("format") == "geojson" {
		c.JSON(http.StatusOK, segment.ToFeatureCollection(segs))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"segments": segs,
		"total":    len(segs),
	})
}

// EdgeMetrics возвращает метрики одного ребра
func (h *ParameterHandler) EdgeMetrics(c *gin.Context) {
	var distanceKm *float64
	if raw := c.Query("distance_km"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат distance_km"})
			return
		}
		distanceKm = &d
	}

	metrics, err := h.parameterService.EdgeMetrics(c.Param("source"), c.Param("target"), distanceKm)
	if err != nil {
		respondError(c, h.logger, err, "Ошибка расчета метрик ребра")
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// Decide обрабатывает запрос арбитража двух поездов
func (h *ParameterHandler) Decide(c *gin.Context) {
	h.logger.Info("Получен запрос арбитража")

	var req service.DecideRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	resp, err := h.decisionService.Decide(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Ошибка арбитража")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Proximity проверяет все пары поездов на опасное сближение
func (h *ParameterHandler) Proximity(c *gin.Context) {
	var req service.ProximityRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	c.JSON(http.StatusOK, h.decisionService.Proximity(c.Request.Context(), req))
}
