package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callSystem(t *testing.T, handle func(*gin.Context)) map[string]any {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/system", nil)
	handle(c)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is an object")
	return data
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("swissbill", "1.2.3")
	h.startTime = time.Now().Add(-90 * time.Second)

	data := callSystem(t, h.GetSystemInfo)
	assert.Equal(t, "swissbill", data["name"])
	assert.Equal(t, "1.2.3", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.Equal(t, "1m30s", data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	data := callSystem(t, NewSystemHandler("swissbill", "dev").Ping)
	assert.Equal(t, "pong", data["message"])

	_, err := time.Parse(time.RFC3339, data["timestamp"].(string))
	assert.NoError(t, err)
}
