package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newAdminRouter(key string) *gin.Engine {
	r := gin.New()
	r.Use(AdminKey(key))
	r.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func adminGet(r *gin.Engine, key string) int {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if key != "" {
		req.Header.Set(AdminKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAdminKey_Valid(t *testing.T) {
	r := newAdminRouter("sekret")
	assert.Equal(t, http.StatusOK, adminGet(r, "sekret"))
}

func TestAdminKey_Invalid(t *testing.T) {
	r := newAdminRouter("sekret")
	assert.Equal(t, http.StatusUnauthorized, adminGet(r, "wrong"))
}

func TestAdminKey_Missing(t *testing.T) {
	r := newAdminRouter("sekret")
	assert.Equal(t, http.StatusUnauthorized, adminGet(r, ""))
}

func TestAdminKey_Disabled(t *testing.T) {
	r := newAdminRouter("")
	assert.Equal(t, http.StatusForbidden, adminGet(r, "anything"))
}
