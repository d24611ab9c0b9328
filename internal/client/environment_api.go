package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"rail-risk-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// EnvironmentAPIClient клиент внешнего сервиса окружения станций и участков
type EnvironmentAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewEnvironmentAPIClient создает новый клиент сервиса окружения
func NewEnvironmentAPIClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *EnvironmentAPIClient {
	return &EnvironmentAPIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// StationEnvironment запрашивает окружение станции
func (c *EnvironmentAPIClient) StationEnvironment(ctx context.Context, stationID string) (models.Environment, error) {
	endpoint := fmt.Sprintf("%s/environment/stations/%s", c.baseURL, url.PathEscape(stationID))

	var env models.Environment
	if err := c.getJSON(ctx, endpoint, &env); err != nil {
		return nil, fmt.Errorf("station %s: %w", stationID, err)
	}
	return env, nil
}

// SegmentEnvironment запрашивает окружение участка пути
func (c *EnvironmentAPIClient) SegmentEnvironment(ctx context.Context, segmentID string, distanceMeters float64) (models.Environment, error) {
	q := url.Values{}
	q.Set("distance_m", strconv.FormatFloat(distanceMeters, 'f', -1, 64))
	endpoint := fmt.Sprintf("%s/environment/segments/%s?%s", c.baseURL, url.PathEscape(segmentID), q.Encode())

	var env models.Environment
	if err := c.getJSON(ctx, endpoint, &env); err != nil {
		return nil, fmt.Errorf("segment %s: %w", segmentID, err)
	}
	return env, nil
}

// CheckHealth проверяет состояние сервиса окружения
func (c *EnvironmentAPIClient) CheckHealth(ctx context.Context) error {
	c.logger.Debug("Проверка здоровья сервиса окружения")

	var health map[string]any
	return c.getJSON(ctx, c.baseURL+"/health", &health)
}

func (c *EnvironmentAPIClient) getJSON(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debugf("Отправка GET запроса на %s", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("environment API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
