package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paymentengine/internal/api/middleware"
)

func requestIDRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())

	var seen string
	router.GET("/ping", func(c *gin.Context) {
		seen = middleware.RequestIDFrom(c)
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func TestRequestIDGeneratesUUIDWhenAbsent(t *testing.T) {
	router, seen := requestIDRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	header := w.Header().Get(middleware.RequestIDHeader)
	require.NotEmpty(t, header)
	_, err := uuid.Parse(header)
	assert.NoError(t, err)
	assert.Equal(t, header, *seen)
}

func TestRequestIDPreservesCallerSuppliedID(t *testing.T) {
	router, seen := requestIDRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "caller-supplied-id")
	router.ServeHTTP(w, req)

	assert.Equal(t, "caller-supplied-id", w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "caller-supplied-id", *seen)
}
