package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"cover-chain.backend/internal/usecases"
)

func quoteRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewQuoteHandler(usecases.NewRiskEngine())
	r.POST("/api/v1/insurance/quote", h.Quote)
	return r
}

func TestQuote_Success(t *testing.T) {
	r := quoteRouter()

	body := `{"asset":"ETH","coverageAmount":"100000","duration":30,"coverageType":"price_protection"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insurance/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "public, max-age=10", w.Header().Get("Cache-Control"))

	var resp struct {
		RiskScoreBasisPoints int64  `json:"riskScoreBasisPoints"`
		Premium              string `json:"premium"`
		Factors              struct {
			AssetMultiplier string `json:"assetMultiplier"`
		} `json:"factors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(973), resp.RiskScoreBasisPoints)
	require.Equal(t, "1.2", resp.Factors.AssetMultiplier)
}

func TestQuote_MissingFields(t *testing.T) {
	r := quoteRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/insurance/quote", strings.NewReader(`{"asset":"ETH"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuote_BadAmount(t *testing.T) {
	r := quoteRouter()

	body := `{"asset":"ETH","coverageAmount":"many","duration":30,"coverageType":"price_protection"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insurance/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
