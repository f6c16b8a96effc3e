package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) { c.Set("request_id", "req-1") }, h, func(c *gin.Context) {
		c.Header("X-Reached", "yes")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestOK(t *testing.T) {
	w := serve(func(c *gin.Context) { OK(c, 0, map[string]int{"n": 1}, "fine") })
	require.Equal(t, http.StatusOK, w.Code)

	var body Envelope[map[string]int]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "req-1", body.RequestID)
	assert.Equal(t, 1, body.Data["n"])
	assert.Nil(t, body.Error)
}

func TestFailAborts(t *testing.T) {
	w := serve(func(c *gin.Context) { Fail(c, http.StatusConflict, "taken", []string{"email"}) })
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, w.Header().Get("X-Reached"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "taken", body["message"])
	assert.NotContains(t, body, "data")
	assert.Equal(t, []any{"email"}, body["error"])
}

func TestFailDefaultsToBadRequest(t *testing.T) {
	w := serve(func(c *gin.Context) { Fail(c, 0, "bad", nil) })
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
