package middleware

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyz-asif/skycast/internal/pkg/logger"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(200, c.GetString(ContextRequestID)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	generated := w.Header().Get(HeaderRequestID)
	require.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("http://localhost:5173"))
	r.GET("/x", func(c *gin.Context) { c.Status(200) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)
	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogger_MasksSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger.Init(logger.Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { logger.Init(logger.Config{Level: "info", Format: "json"}) })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger())
	r.POST("/auth/login", func(c *gin.Context) { c.Status(401) })
	r.GET("/health", func(c *gin.Context) { c.Status(200) })

	body := `{"email":"a@b.io","password":"hunter22"}`
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"status":401`)
	assert.Contains(t, out, "a@b.io")
	assert.NotContains(t, out, "hunter22")
	assert.Contains(t, out, "********")

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))
	assert.Empty(t, buf.String())
}

func TestHideSensitiveFields_Nested(t *testing.T) {
	in := map[string]interface{}{
		"user":  map[string]interface{}{"accessToken": "t", "name": "n"},
		"items": []interface{}{map[string]interface{}{"apiKey": "k"}},
	}
	out := hideSensitiveFields(in).(map[string]interface{})

	assert.Equal(t, "********", out["user"].(map[string]interface{})["accessToken"])
	assert.Equal(t, "n", out["user"].(map[string]interface{})["name"])
	assert.Equal(t, "********", out["items"].([]interface{})[0].(map[string]interface{})["apiKey"])
}
