package handlers

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cover-chain.backend/internal/interfaces/http/middleware"
	"cover-chain.backend/internal/interfaces/http/response"
	"cover-chain.backend/internal/usecases"
)

// BridgeHandler handles cross-chain coverage endpoints
type BridgeHandler struct {
	coordinator *usecases.BridgeCoordinator
}

// NewBridgeHandler creates a new bridge handler
func NewBridgeHandler(coordinator *usecases.BridgeCoordinator) *BridgeHandler {
	return &BridgeHandler{coordinator: coordinator}
}

// EstimateFee quotes the relay fee for a source/destination pair
// GET /api/v1/bridge/fee?sourceChainId=&destChainId=&amount=
func (h *BridgeHandler) EstimateFee(c *gin.Context) {
	sourceChainID, err := strconv.ParseInt(c.Query("sourceChainId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sourceChainId"})
		return
	}
	destChainID, err := strconv.ParseInt(c.Query("destChainId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid destChainId"})
		return
	}

	amount := big.NewInt(0)
	if raw := c.Query("amount"); raw != "" {
		parsed, ok := new(big.Int).SetString(raw, 10)
		if !ok || parsed.Sign() < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		amount = parsed
	}

	fee, err := h.coordinator.EstimateFee(c.Request.Context(), sourceChainID, destChainID, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sourceChainId": sourceChainID,
		"destChainId":   destChainID,
		"feeWei":        fee.String(),
	})
}

// SendCoverage accepts an outbound coverage-bridging request. The holder is
// taken from the authenticated principal, never from the request body.
// POST /api/v1/bridge/coverage
func (h *BridgeHandler) SendCoverage(c *gin.Context) {
	var input struct {
		SourceChainID  int64  `json:"sourceChainId" binding:"required"`
		DestChainID    int64  `json:"destChainId" binding:"required"`
		CoverageAmount string `json:"coverageAmount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holder, ok := middleware.GetHolderAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	msg, err := h.coordinator.SendCoverage(c.Request.Context(), usecases.SendCoverageInput{
		SourceChainID:  input.SourceChainID,
		DestChainID:    input.DestChainID,
		Holder:         holder,
		CoverageAmount: input.CoverageAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// GetMessage returns the lifecycle record for a messageId
// GET /api/v1/bridge/messages/:id
func (h *BridgeHandler) GetMessage(c *gin.Context) {
	msg, err := h.coordinator.GetMessage(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
