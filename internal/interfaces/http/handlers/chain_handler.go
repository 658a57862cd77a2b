package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cover-chain.backend/internal/domain/entities"
	"cover-chain.backend/internal/usecases"
)

// ChainHandler handles chain endpoints
type ChainHandler struct {
	registry *usecases.ChainRegistry
}

// NewChainHandler creates a new chain handler
func NewChainHandler(registry *usecases.ChainRegistry) *ChainHandler {
	return &ChainHandler{registry: registry}
}

// ListChains lists all enabled chains
// GET /api/v1/chains
func (h *ChainHandler) ListChains(c *gin.Context) {
	chains := h.registry.ListSupportedChains()
	if chains == nil {
		chains = []entities.Chain{}
	}
	c.JSON(http.StatusOK, gin.H{"chains": chains})
}
