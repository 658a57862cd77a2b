package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cover-chain.backend/internal/domain/entities"
	"cover-chain.backend/internal/interfaces/http/response"
	"cover-chain.backend/internal/observability"
	"cover-chain.backend/internal/usecases"
)

// QuoteHandler handles premium quote endpoints
type QuoteHandler struct {
	engine *usecases.RiskEngine
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(engine *usecases.RiskEngine) *QuoteHandler {
	return &QuoteHandler{engine: engine}
}

// Quote prices a coverage request
// POST /api/v1/insurance/quote
func (h *QuoteHandler) Quote(c *gin.Context) {
	var input entities.RiskComputationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.engine.ComputePremium(input)
	if err != nil {
		response.Error(c, err)
		return
	}
	observability.RecordPremiumQuote()

	// Quotes are deterministic for identical inputs; allow short-lived
	// client-side caching.
	c.Header("Cache-Control", "public, max-age=10")
	c.JSON(http.StatusOK, gin.H{
		"asset":                input.Asset,
		"coverageAmount":       input.CoverageAmount,
		"duration":             input.DurationDays,
		"coverageType":         input.CoverageType,
		"riskScoreBasisPoints": result.RiskScoreBasisPoints,
		"premium":              result.Premium,
		"premiumPercentage":    result.PremiumPercentage,
		"factors":              result.Factors,
	})
}
