package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cover-chain.backend/internal/domain/entities"
	"cover-chain.backend/internal/usecases"
)

// PriceHandler handles price feed endpoints
type PriceHandler struct {
	aggregator *usecases.PriceAggregator
}

// NewPriceHandler creates a new price handler
func NewPriceHandler(aggregator *usecases.PriceAggregator) *PriceHandler {
	return &PriceHandler{aggregator: aggregator}
}

// GetPrices returns quotes for a comma-separated symbol list. Fresh cache
// entries are served directly; only the misses go to the price service in
// one batch.
// GET /api/v1/prices?symbols=ETH,BTC
func (h *PriceHandler) GetPrices(c *gin.Context) {
	raw := c.Query("symbols")
	if strings.TrimSpace(raw) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbols query parameter is required"})
		return
	}

	symbols := strings.Split(raw, ",")
	prices := make(map[string]entities.PriceQuoteDisplay, len(symbols))

	var misses []string
	for _, s := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(s))
		if symbol == "" {
			continue
		}
		if quote, ok := h.aggregator.GetCachedPrice(symbol); ok {
			prices[symbol] = quote
			continue
		}
		misses = append(misses, symbol)
	}

	if len(misses) > 0 {
		fetched := h.aggregator.FetchPrices(c.Request.Context(), misses)
		for symbol, quote := range fetched {
			prices[symbol] = quote
		}
	}

	c.JSON(http.StatusOK, gin.H{"prices": prices})
}
