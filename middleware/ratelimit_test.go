package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newRateLimitRouter(r rate.Limit, b int) *gin.Engine {
	eng := gin.New()
	eng.Use(RateLimit(r, b))
	eng.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return eng
}

func limitedGet(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_AllowsFirst(t *testing.T) {
	r := newRateLimitRouter(100, 5)
	assert.Equal(t, http.StatusOK, limitedGet(r, "10.0.0.1"))
}

func TestRateLimit_Burst(t *testing.T) {
	r := newRateLimitRouter(0.001, 3) // near-zero refill so the bucket stays empty
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, limitedGet(r, "10.0.1.1"), "request %d should pass", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, limitedGet(r, "10.0.1.1"))
}

func TestRateLimit_PerIP(t *testing.T) {
	r := newRateLimitRouter(0.001, 1)

	assert.Equal(t, http.StatusOK, limitedGet(r, "10.1.1.1"))
	assert.Equal(t, http.StatusOK, limitedGet(r, "10.1.1.2"))
	assert.Equal(t, http.StatusTooManyRequests, limitedGet(r, "10.1.1.1"))
}

func TestVisitorTableSweep(t *testing.T) {
	table := &visitorTable{visitors: make(map[string]*visitor), rps: 1, burst: 1}
	table.get("10.2.0.1")
	table.get("10.2.0.2")
	assert.Len(t, table.visitors, 2)

	table.sweep(0)
	assert.Empty(t, table.visitors)
}
