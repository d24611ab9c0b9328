package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rail-risk-go/internal/environment"
	"rail-risk-go/internal/repository"
	"rail-risk-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const network = `{
	"stations": {
		"A": {"lat": 28.0, "lon": 77.0},
		"B": {"lat": 28.0022483, "lon": 77.0, "avg_dwell_s": 0, "safety_buffer_s": 0}
	},
	"edges": [["A", "B"]]
}`

func setupRouter(t *testing.T, checks map[string]HealthCheck) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	runs := service.NewRunService(repository.NewMemoryRunRepository(0), logger)
	gen := environment.NewLocalGenerator()
	opts := service.DefaultOptions()

	return NewRouter(
		NewParameterHandler(
			service.NewParameterService(gen, runs, opts, logger),
			service.NewDecisionService(gen, runs, opts, logger),
			logger,
		),
		NewRunHandler(runs, logger),
		NewHealthHandler(checks, logger),
	)
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestCompute(t *testing.T) {
	r := setupRouter(t, nil)

	body := `{"trains":[{"id":"T1","speed":100,"progress":0.5}],` + strings.TrimPrefix(network, "{")
	w, out := do(t, r, http.MethodPost, "/api/v1/compute", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	trains := out["trains"].(map[string]any)
	assert.Equal(t, 0.5, trains["T1"].(map[string]any)["p1"])

	track := out["track"].(map[string]any)
	assert.Len(t, track, 20)
	assert.Contains(t, track, "p40")

	stations := out["stations"].(map[string]any)
	assert.Equal(t, "unbounded", stations["B"].(map[string]any)["station_capacity_trains_per_hr"])
	assert.NotEmpty(t, out["run_id"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCompute_InvalidJSON(t *testing.T) {
	r := setupRouter(t, nil)
	w, out := do(t, r, http.MethodPost, "/api/v1/compute", `{"trains": 5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, out["error"], "JSON")
}

func TestTrackParameters_NoEdges(t *testing.T) {
	r := setupRouter(t, nil)
	w, out := do(t, r, http.MethodPost, "/api/v1/track/parameters", `{"stations":[{"id":"A"}],"edges":[]}`)
	require.Equal(t, http.StatusOK, w.Code)

	track := out["track"].(map[string]any)
	require.Len(t, track, 20)
	for k, v := range track {
		assert.Equal(t, 0.0, v, k)
	}
}

func TestSegments_UnknownStationIsBadRequest(t *testing.T) {
	r := setupRouter(t, nil)
	body := `{"stations":[{"id":"A","lat":28,"lon":77}],"source":"A","target":"Q"}`
	w, out := do(t, r, http.MethodPost, "/api/v1/track/segments", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, out["error"], "Q")
}

func TestSegments_GeoJSON(t *testing.T) {
	r := setupRouter(t, nil)
	body := `{"stations":[{"id":"A","lat":28,"lon":77},{"id":"B","lat":28.0022483,"lon":77}],"source":"A","target":"B"}`

	w, out := do(t, r, http.MethodPost, "/api/v1/track/segments", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, out["total"])

	w, out = do(t, r, http.MethodPost, "/api/v1/track/segments?format=geojson", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "FeatureCollection", out["type"])
	assert.Len(t, out["features"], 2)
}

func TestEdgeMetrics(t *testing.T) {
	r := setupRouter(t, nil)

	w, out := do(t, r, http.MethodGet, "/api/v1/track/edges/DEL/AGC/metrics?distance_km=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DEL-AGC", out["edge_id"])
	assert.Equal(t, 5.0, out["distance_km"])
	assert.Equal(t, "sha256-be64-v1", out["scheme"])

	w, _ = do(t, r, http.MethodGet, "/api/v1/track/edges/DEL/AGC/metrics?distance_km=far", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecide(t *testing.T) {
	r := setupRouter(t, nil)

	body := `{"trains":[
		{"id":"T1","lat":28.0,"lon":77.0,"speed":100,"priority":1},
		{"id":"T2","lat":28.009,"lon":77.0,"speed":80,"priority":1}
	],` + strings.TrimPrefix(network, "{")

	w, out := do(t, r, http.MethodPost, "/api/v1/decide", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "STOP_ONE", out["action"])
	assert.Equal(t, "T2", out["stop_train"])
	assert.Equal(t, "T2", out["stop_train_id"])
	assert.Equal(t, "T1", out["let_pass_id"])
	assert.Equal(t, "Train A faster", out["reason"])
	assert.NotContains(t, out, "segments")

	w, out = do(t, r, http.MethodPost, "/api/v1/decide", `{"trains":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "NO_ACTION", out["action"])
	assert.Equal(t, "Not enough trains", out["error"])
}

func TestProximity(t *testing.T) {
	r := setupRouter(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/proximity",
		strings.NewReader(`{"trains":[{"id":"T1","name":"A","lat":28,"lon":77},{"id":"T2","name":"B","lat":28.0001,"lon":77}]}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var alerts []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "STOP", alerts[0]["action"])
	assert.Equal(t, []any{"A", "B"}, alerts[0]["affected_trains"])
}

func TestRuns(t *testing.T) {
	r := setupRouter(t, nil)

	_, out := do(t, r, http.MethodPost, "/api/v1/track/parameters", network)
	_, out = do(t, r, http.MethodPost, "/api/v1/compute", network)
	runID := out["run_id"].(string)

	w, list := do(t, r, http.MethodGet, "/api/v1/runs?size=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, list["total"])
	assert.Len(t, list["runs"], 1)

	w, run := do(t, r, http.MethodGet, "/api/v1/runs/"+runID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "compute", run["kind"])
	assert.NotEmpty(t, run["payload"])

	w, _ = do(t, r, http.MethodDelete, "/api/v1/runs/"+runID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/runs/"+runID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	r := setupRouter(t, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
	})
	w, out := do(t, r, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", out["status"])

	r = setupRouter(t, map[string]HealthCheck{
		"environment_api": func(context.Context) error { return errors.New("connection refused") },
	})
	w, out = do(t, r, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", out["status"])
}

func TestCORSPreflight(t *testing.T) {
	r := setupRouter(t, nil)
	w, _ := do(t, r, http.MethodOptions, "/api/v1/compute", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
