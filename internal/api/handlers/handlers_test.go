package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paymentengine/internal/api/handlers"
	"paymentengine/internal/disputeindex"
	"paymentengine/internal/domain"
	"paymentengine/internal/journal"
	"paymentengine/internal/registry"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRegistry(t *testing.T) *registry.ClientRegistry {
	t.Helper()
	j := journal.NewInMemoryJournal()
	idx := disputeindex.NewInMemory()
	return registry.WithNamespace(j, idx, t.Name())
}

func TestGetAccountHandlerReturnsState(t *testing.T) {
	reg := newTestRegistry(t)
	defer reg.ShutdownAll()
	require.Nil(t, reg.ProcessCommand(context.Background(), domain.NewDepositCommand(1, 1, domain.MustAmount("25.0000")), "k1"))

	router := gin.New()
	router.GET("/accounts/:id", handlers.MakeGetAccountHandler(reg))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/accounts/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "25.0000", body["available"])
	assert.Equal(t, false, body["locked"])
}

func TestGetAccountHandlerUnknownClientReturns404(t *testing.T) {
	reg := newTestRegistry(t)
	defer reg.ShutdownAll()

	router := gin.New()
	router.GET("/accounts/:id", handlers.MakeGetAccountHandler(reg))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/accounts/99", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAccountHandlerRejectsNonNumericID(t *testing.T) {
	reg := newTestRegistry(t)
	defer reg.ShutdownAll()

	router := gin.New()
	router.GET("/accounts/:id", handlers.MakeGetAccountHandler(reg))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/accounts/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAccountsHandlerReturnsAllWatchedClients(t *testing.T) {
	reg := newTestRegistry(t)
	defer reg.ShutdownAll()
	require.Nil(t, reg.ProcessCommand(context.Background(), domain.NewDepositCommand(1, 1, domain.MustAmount("10.0000")), "k1"))
	require.Nil(t, reg.ProcessCommand(context.Background(), domain.NewDepositCommand(2, 2, domain.MustAmount("20.0000")), "k2"))

	router := gin.New()
	router.GET("/accounts", handlers.MakeListAccountsHandler(reg))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Accounts []map[string]interface{} `json:"accounts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Accounts, 2)
}

func TestHealthHandlerReturnsOK(t *testing.T) {
	router := gin.New()
	router.GET("/health", handlers.Health)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
