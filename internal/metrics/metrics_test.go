package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/recipes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.DELETE("/api/recipes/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	return r
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := newRouter()

	for _, id := range []string{"1", "2", "3"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/recipes/"+id, http.NoBody))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/recipes/:id", "200"))
	assert.GreaterOrEqual(t, got, 3.0)
	assert.NotZero(t, testutil.CollectAndCount(httpRequestDuration))
}

func TestMiddleware_StatusAndUnknownRoute(t *testing.T) {
	r := newRouter()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/recipes/9", http.NoBody))
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("DELETE", "/api/recipes/:id", "404")), 1.0)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody))
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "404")), 1.0)
}

func TestDiscoveryCounters(t *testing.T) {
	before := testutil.ToFloat64(discoveryProbes.WithLabelValues(OutcomeMatch))
	ObserveProbe(OutcomeMatch)
	assert.Equal(t, before+1, testutil.ToFloat64(discoveryProbes.WithLabelValues(OutcomeMatch)))

	p := testutil.ToFloat64(discoveryPromotions)
	AddPromotions(2)
	AddPromotions(0)
	assert.Equal(t, p+2, testutil.ToFloat64(discoveryPromotions))
}
