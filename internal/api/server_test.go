package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bootdw/adapters/rng"
	"bootdw/adapters/stats/autocorr"
	"bootdw/app"
	"bootdw/domain/serialcorr"
	"bootdw/internal"
	"bootdw/internal/config"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	runner := autocorr.NewRunner(rng.NewAdapter())
	battery := app.NewBatteryService(runner, nil)
	cfg := &config.Config{
		Bootstrap: config.BootstrapConfig{DefaultReplicates: 199, DefaultSeed: 42},
	}
	return NewServer(runner, battery, cfg, internal.NewLogger(internal.LogLevelError))
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	server := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestRunTest_ClassicalDW(t *testing.T) {
	server := testServer(t)

	rec := postJSON(t, server.Router(), "/api/v1/tests", map[string]interface{}{
		"response":    []float64{1, 2, 1, 3, 2, 4, 3, 5, 4, 6},
		"method":      "dw",
		"alternative": "greater",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result serialcorr.TestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, serialcorr.MethodDW, result.Method)
	assert.InDelta(t, 0.8433734939759036, result.Statistic, 1e-8)
	assert.Nil(t, result.PValue)
	assert.Equal(t, int64(42), result.Seed, "omitted seed falls back to the configured default")
}

func TestRunTest_BootstrapWithExplicitParams(t *testing.T) {
	server := testServer(t)

	rec := postJSON(t, server.Router(), "/api/v1/tests", map[string]interface{}{
		"response":    []float64{1, 2, 1, 3, 2, 4, 3, 5, 4, 6, 5, 7, 6, 8, 7, 9},
		"method":      "bdw",
		"alternative": "greater",
		"n_bootstrap": 299,
		"seed":        7,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result serialcorr.TestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 299, result.NumBootstrap)
	assert.Equal(t, int64(7), result.Seed)
	require.NotNil(t, result.PValue)
	assert.False(t, math.IsNaN(*result.PValue))
}

func TestRunTest_UnknownMethod(t *testing.T) {
	server := testServer(t)

	rec := postJSON(t, server.Router(), "/api/v1/tests", map[string]interface{}{
		"response": []float64{1, 2, 3},
		"method":   "breusch_godfrey",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunTest_InvalidBootstrapCount(t *testing.T) {
	server := testServer(t)

	rec := postJSON(t, server.Router(), "/api/v1/tests", map[string]interface{}{
		"response":    []float64{1, 2, 1, 3, 2, 4, 3, 5},
		"method":      "b_rho",
		"n_bootstrap": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunTest_SingularDesignIsUnprocessable(t *testing.T) {
	server := testServer(t)

	rec := postJSON(t, server.Router(), "/api/v1/tests", map[string]interface{}{
		"response": []float64{1, 2, 3, 4, 5},
		"design":   [][]float64{{1, 2}, {2, 4}, {3, 6}, {4, 8}, {5, 10}},
		"method":   "dw",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRunTest_MalformedBody(t *testing.T) {
	server := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tests", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunBatteryEndpoint(t *testing.T) {
	server := testServer(t)

	rec := postJSON(t, server.Router(), "/api/v1/batteries", map[string]interface{}{
		"dataset_key": "smoke",
		"response":    []float64{1, 2, 1, 3, 2, 4, 3, 5, 4, 6, 5, 7},
		"alternative": "greater",
		"n_bootstrap": 199,
		"seed":        3,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var battery app.BatteryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &battery))
	assert.Len(t, battery.Results, 4, "empty methods list runs the full battery")
	assert.NotEmpty(t, battery.Fingerprint)
	assert.Equal(t, "smoke", string(battery.DatasetKey))
}

func TestRunBatteryEndpoint_BadMethodName(t *testing.T) {
	server := testServer(t)

	rec := postJSON(t, server.Router(), "/api/v1/batteries", map[string]interface{}{
		"dataset_key": "smoke",
		"response":    []float64{1, 2, 3, 4, 5},
		"methods":     []string{"dw", "nope"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
