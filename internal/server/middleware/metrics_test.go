package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cartkeeper/internal/server/handlers"
)

var _ handlers.CartMetrics = (*Metrics)(nil)

func TestMetrics_Middleware(t *testing.T) {
	m := NewMetrics()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/cart/{user_id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /api/v1/cart/{user_id}/add", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	handler := m.Middleware(mux)

	for _, userID := range []string{"user-1", "user-2", "user-3"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/cart/"+userID, nil))
	}
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/cart/user-1/add", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/unknown", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "GET /api/v1/cart/{user_id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodPost, "POST /api/v1/cart/{user_id}/add", "409")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "unmatched", "404")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.requests), "route label must not contain user ids")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestMetrics_CartOperations(t *testing.T) {
	m := NewMetrics()

	m.ObserveCartOperation(handlers.OperationAdd, handlers.OutcomeOK)
	m.ObserveCartOperation(handlers.OperationAdd, handlers.OutcomeOK)
	m.ObserveCartOperation(handlers.OperationAdd, handlers.OutcomeConflict)
	m.ObserveCartOperation(handlers.OperationCheckout, handlers.OutcomeDisabled)
	m.ObserveRateLimited()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cartOps.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartOps.WithLabelValues("add", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartOps.WithLabelValues("checkout", "disabled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveCartOperation(handlers.OperationRemove, handlers.OutcomeOK)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `cartkeeper_cart_operations_total{operation="remove",outcome="ok"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
