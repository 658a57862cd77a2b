package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"cover-chain.backend/internal/domain/entities"
	domainerrors "cover-chain.backend/internal/domain/errors"
	"cover-chain.backend/internal/interfaces/http/middleware"
	"cover-chain.backend/internal/usecases"
)

const testHolder = "0x1111111111111111111111111111111111111111"

type bridgeRepoStub struct {
	mu       sync.Mutex
	messages map[string]*entities.BridgeMessage
}

func newBridgeRepoStub() *bridgeRepoStub {
	return &bridgeRepoStub{messages: make(map[string]*entities.BridgeMessage)}
}

func (r *bridgeRepoStub) Create(ctx context.Context, msg *entities.BridgeMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *msg
	r.messages[msg.MessageID] = &clone
	return nil
}

func (r *bridgeRepoStub) GetByMessageID(ctx context.Context, messageID string) (*entities.BridgeMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[messageID]
	if !ok {
		return nil, domainerrors.NotFound("bridge message " + messageID + " not found")
	}
	clone := *msg
	return &clone, nil
}

func (r *bridgeRepoStub) Update(ctx context.Context, msg *entities.BridgeMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *msg
	r.messages[msg.MessageID] = &clone
	return nil
}

func (r *bridgeRepoStub) ListByStatus(ctx context.Context, status entities.BridgeMessageStatus, limit int) ([]*entities.BridgeMessage, error) {
	return nil, nil
}

func (r *bridgeRepoStub) ListUnconfirmedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*entities.BridgeMessage, error) {
	return nil, nil
}

func bridgeRouter(authenticated bool) (*gin.Engine, *bridgeRepoStub) {
	gin.SetMode(gin.TestMode)
	registry := usecases.NewChainRegistry([]entities.Chain{
		{ChainID: 11155111, ChainSelector: "16015286601757825753", Name: "Ethereum Sepolia", IsActive: true},
		{ChainID: 296, ChainSelector: "222782988166878823", Name: "Hedera Testnet", IsActive: true},
	})
	repo := newBridgeRepoStub()
	coordinator := usecases.NewBridgeCoordinator(registry, repo, nil, usecases.DefaultBridgeFeePolicy())
	h := NewBridgeHandler(coordinator)

	r := gin.New()
	if authenticated {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.HolderAddressKey, testHolder)
			c.Next()
		})
	}
	r.GET("/api/v1/bridge/fee", h.EstimateFee)
	r.GET("/api/v1/bridge/messages/:id", h.GetMessage)
	r.POST("/api/v1/bridge/coverage", h.SendCoverage)
	return r, repo
}

func TestBridgeEstimateFee(t *testing.T) {
	r, _ := bridgeRouter(false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bridge/fee?sourceChainId=11155111&destChainId=296&amount=1000", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		FeeWei string `json:"feeWei"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// 200000 * 20 gwei + 1e15
	require.Equal(t, "5000000000000000", resp.FeeWei)
}

func TestBridgeEstimateFee_BadParams(t *testing.T) {
	r, _ := bridgeRouter(false)

	for _, query := range []string{
		"?destChainId=296",
		"?sourceChainId=11155111",
		"?sourceChainId=11155111&destChainId=296&amount=-5",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bridge/fee"+query, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, "query %s", query)
	}
}

func TestBridgeEstimateFee_UnsupportedChain(t *testing.T) {
	r, _ := bridgeRouter(false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bridge/fee?sourceChainId=11155111&destChainId=999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendCoverage_CreatesMessage(t *testing.T) {
	r, repo := bridgeRouter(true)

	body := `{"sourceChainId":11155111,"destChainId":296,"coverageAmount":"5000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bridge/coverage", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message entities.BridgeMessage `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, entities.BridgeMessagePending, resp.Message.Status)
	require.Equal(t, testHolder, resp.Message.Holder)

	stored, err := repo.GetByMessageID(context.Background(), resp.Message.MessageID)
	require.NoError(t, err)
	require.Equal(t, entities.BridgeMessagePending, stored.Status)
}

func TestSendCoverage_RequiresAuthentication(t *testing.T) {
	r, _ := bridgeRouter(false)

	body := `{"sourceChainId":11155111,"destChainId":296,"coverageAmount":"5000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bridge/coverage", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSendCoverage_BadBody(t *testing.T) {
	r, _ := bridgeRouter(true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bridge/coverage", strings.NewReader(`{"sourceChainId":11155111}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMessage(t *testing.T) {
	r, repo := bridgeRouter(false)

	require.NoError(t, repo.Create(context.Background(), &entities.BridgeMessage{
		MessageID:      "0xabc",
		Status:         entities.BridgeMessageSent,
		SourceChainID:  11155111,
		DestChainID:    296,
		Holder:         testHolder,
		CoverageAmount: "5000",
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bridge/messages/0xabc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"0xabc"`)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/bridge/messages/0xmissing", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
