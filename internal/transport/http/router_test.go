package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"

	"hotpicks/internal/platform/metrics"
	"hotpicks/internal/platform/middleware"
	"hotpicks/pkg/testutil"
)

type pingHandler struct{}

func (pingHandler) Register(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
}

func newTestRouter(checks map[string]HealthCheck) http.Handler {
	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:        metrics.NewWith(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		HealthChecks:   checks,
		Handlers:       []Registrar{pingHandler{}},
	})
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	return testutil.Serve(h, httptest.NewRequest(method, target, nil))
}

func TestRouterRegistersModuleRoutes(t *testing.T) {
	rr := serve(newTestRouter(nil), http.MethodGet, "/ping")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestRouterHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		rr := serve(newTestRouter(map[string]HealthCheck{
			"redis": func(context.Context) error { return nil },
		}), http.MethodGet, "/healthz")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("degraded", func(t *testing.T) {
		rr := serve(newTestRouter(map[string]HealthCheck{
			"postgres": func(context.Context) error { return errors.New("connection refused") },
		}), http.MethodGet, "/healthz")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"status":"degraded","checks":{"postgres":"connection refused"}}`, rr.Body.String())
	})
}

func TestRouterErrorsUseEnvelope(t *testing.T) {
	router := newTestRouter(nil)

	testutil.AssertError(t, serve(router, http.MethodGet, "/nope"), http.StatusNotFound, "not_found")

	rr := serve(router, http.MethodPost, "/ping")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouterRecoversPanics(t *testing.T) {
	rr := serve(newTestRouter(nil), http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRouterExposesMetrics(t *testing.T) {
	router := newTestRouter(nil)
	serve(router, http.MethodGet, "/ping")

	rr := serve(router, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `hotpicks_http_requests_total{method="GET",route="/ping",status="204"} 1`)
}
