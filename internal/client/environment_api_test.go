package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *EnvironmentAPIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewEnvironmentAPIClient(srv.URL, 2*time.Second, logger)
}

func TestEnvironmentAPIClient_Station(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/environment/stations/NDLS", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"weather_risk": 0.4, "zone": "north"})
	})

	env, err := c.StationEnvironment(context.Background(), "NDLS")
	require.NoError(t, err)
	assert.Equal(t, 0.4, env["weather_risk"])
	assert.Equal(t, "north", env["zone"])
}

func TestEnvironmentAPIClient_Segment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/environment/segments/DEL-AGC-7", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("distance_m"))
		_ = json.NewEncoder(w).Encode(map[string]any{"terrain": "plain"})
	})

	env, err := c.SegmentEnvironment(context.Background(), "DEL-AGC-7", 100)
	require.NoError(t, err)
	assert.Equal(t, "plain", env["terrain"])
}

func TestEnvironmentAPIClient_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.StationEnvironment(context.Background(), "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	assert.Error(t, c.CheckHealth(context.Background()))
}

func TestEnvironmentAPIClient_Health(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	assert.NoError(t, c.CheckHealth(context.Background()))
}
