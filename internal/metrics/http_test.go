package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "test_app"))
	router.GET("/v1/secrets/:secret_key", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"secret": "x"})
	})
	router.POST("/v1/secrets", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"secret_key": "k"})
	})

	for _, key := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/secrets/"+key, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/secrets", nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	output := scrape(t, provider)

	assertBizMetricLine(t, output, `test_app_http_requests_total`,
		`method="GET".*path="/v1/secrets/:secret_key".*status_code="200"`, `3`)
	assertBizMetricLine(t, output, `test_app_http_requests_total`,
		`method="POST".*path="/v1/secrets".*status_code="201"`, `1`)
	assertBizMetricLine(t, output, `test_app_http_requests_total`,
		`path="unknown".*status_code="404"`, `1`)
	assert.NotContains(t, output, `path="/v1/secrets/a"`)
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "route pattern", input: "/v1/secrets/:secret_key", expected: "/v1/secrets/:secret_key"},
		{name: "static route", input: "/health", expected: "/health"},
		{name: "unmatched route", input: "", expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}
