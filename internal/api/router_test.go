package api

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterServesHealthMetricsAndSample(t *testing.T) {
	r := NewRouter(slog.Default(), []string{"*"})
	r.GET("/v1/sample-resume", SampleResume)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))

	w = doJSON(t, r, http.MethodGet, "/v1/sample-resume", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sample := decode(t, w)["resume"].(map[string]any)
	assert.Equal(t, "Jane Doe", sample["personal_info"].(map[string]any)["name"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "airesume_http_requests_total")
}
