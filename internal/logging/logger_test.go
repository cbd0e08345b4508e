package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug", "json").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("loud", "json").GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, New("info", "text").Formatter)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", "json")
	log.Out = &buf

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(log))
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request complete", entry["message"])
	assert.Equal(t, "info", entry["severity"])
	assert.Equal(t, "GET", entry["http.req.method"])
	assert.Equal(t, "/healthz", entry["http.req.path"])
	assert.Equal(t, float64(http.StatusOK), entry["http.resp.status"])
	assert.NotEmpty(t, entry["http.req.id"])
	assert.Contains(t, entry, "timestamp")
}
