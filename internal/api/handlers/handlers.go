// Package handlers implements the read-only HTTP facade's Gin handlers:
// per-client and all-client account state lookups backed by a
// registry.ClientRegistry. Read-only GETs only; commands never arrive over
// HTTP — they come in through an ingest.Source.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"paymentengine/internal/api/middleware"
	"paymentengine/internal/domain"
	"paymentengine/internal/pkg/logging"
	"paymentengine/internal/registry"
)

// stateResponse is the JSON shape returned for one client's account.
type stateResponse struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

func toStateResponse(id domain.ClientID, s domain.AccountState) stateResponse {
	return stateResponse{
		Client:    uint16(id),
		Available: s.AvailableAmount().String(),
		Held:      s.HeldAmount().String(),
		Total:     s.TotalAmount().String(),
		Locked:    s.IsFrozen(),
	}
}

// MakeGetAccountHandler returns the handler for GET /accounts/:id.
func MakeGetAccountHandler(reg *registry.ClientRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		id, err := strconv.ParseUint(idStr, 10, 16)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
			return
		}

		clientID := domain.ClientID(id)
		state, ok, err := reg.GetState(c.Request.Context(), clientID)
		if err != nil {
			logging.Error("account state read failed", err, map[string]interface{}{
				"request_id": middleware.RequestIDFrom(c), "client": clientID,
			})
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}

		c.JSON(http.StatusOK, toStateResponse(clientID, state))
	}
}

// MakeListAccountsHandler returns the handler for GET /accounts.
func MakeListAccountsHandler(reg *registry.ClientRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		states, err := reg.GetAllStates(c.Request.Context())
		if err != nil {
			logging.Error("account list read failed", err, map[string]interface{}{
				"request_id": middleware.RequestIDFrom(c),
			})
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
			return
		}

		responses := make([]stateResponse, 0, len(states))
		for id, state := range states {
			responses = append(responses, toStateResponse(id, state))
		}
		c.JSON(http.StatusOK, gin.H{"accounts": responses})
	}
}

// Health reports liveness for load balancer probes.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
