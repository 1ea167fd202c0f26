package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"auctionhouse/internal/clock"
)

type routeRecord struct {
	method, route string
	status        int
}

type fakeRecorder struct{ calls []routeRecord }

func (f *fakeRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.calls = append(f.calls, routeRecord{method, route, status})
}

func TestRequestTimePinsNow(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestTime(clock.Fixed(fixed)))
	var seen time.Time
	r.GET("/", func(c *gin.Context) { seen = clock.Now(c.Request.Context()) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, fixed.Equal(seen))
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	rec := &fakeRecorder{}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(rec))
	r.GET("/auctions/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/auctions/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, []routeRecord{
		{http.MethodGet, "/auctions/:id", http.StatusOK},
		{http.MethodGet, "unmatched", http.StatusNotFound},
	}, rec.calls)
}
