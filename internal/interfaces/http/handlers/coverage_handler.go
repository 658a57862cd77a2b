package handlers

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"cover-chain.backend/internal/domain/entities"
)

// CoverageHandler handles coverage portfolio endpoints
type CoverageHandler struct{}

// NewCoverageHandler creates a new coverage handler
func NewCoverageHandler() *CoverageHandler {
	return &CoverageHandler{}
}

// GetSummary returns the coverage positions held by an address.
// Policy indexing from chain events is not built yet, so the summary is
// empty but well-formed; clients can integrate against the final shape.
// GET /api/v1/coverage/summary/:address
func (h *CoverageHandler) GetSummary(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address"})
		return
	}

	c.JSON(http.StatusOK, entities.CoverageSummary{
		Address:  common.HexToAddress(address).Hex(),
		Active:   []entities.CoveragePolicy{},
		Expired:  []entities.CoveragePolicy{},
		Currency: "USD",
	})
}
