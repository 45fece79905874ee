package rest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogList(t *testing.T) {
	e := setupEnv(t)
	w := e.do(t, http.MethodGet, "/api/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	items := body["items"].([]interface{})
	assert.NotEmpty(t, items)
}

func TestCatalogItem(t *testing.T) {
	e := setupEnv(t)
	w := e.do(t, http.MethodGet, "/api/catalog/dragon", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	item := body["item"].(map[string]interface{})
	assert.Equal(t, "Dragon", item["name"])
	assert.Equal(t, float64(20), item["housing_cost"])

	w = e.do(t, http.MethodGet, "/api/catalog/kraken", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogQuote(t *testing.T) {
	e := setupEnv(t)
	w := e.do(t, http.MethodGet, "/api/catalog/barbarian/quote?owned=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(100), body["next_price"]) // 50 + 2*25
	assert.Equal(t, float64(225), body["bulk_total"]) // 50 + 75 + 100

	w = e.do(t, http.MethodGet, "/api/catalog/barbarian/quote?owned=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
