package usecases

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"cover-chain.backend/internal/domain/entities"
	domainerrors "cover-chain.backend/internal/domain/errors"
	"cover-chain.backend/internal/domain/repositories"
	"cover-chain.backend/internal/observability"
	"cover-chain.backend/pkg/logger"
)

// FeeQuoter asks the bridge contract for a live relay fee quote.
type FeeQuoter interface {
	QuoteFee(ctx context.Context, destChainSelector string, amount *big.Int) (*big.Int, error)
}

// BridgeFeePolicy is the closed-form relay fee estimate:
// baseGas*gasPriceWei + flatRelayFeeWei. A deliberate placeholder for a
// live gas oracle; swapping one in does not change the coordinator contract.
type BridgeFeePolicy struct {
	BaseGas         uint64
	GasPriceWei     *big.Int
	FlatRelayFeeWei *big.Int
	QuoteTimeout    time.Duration
}

// DefaultBridgeFeePolicy returns the default closed-form parameters.
func DefaultBridgeFeePolicy() BridgeFeePolicy {
	return BridgeFeePolicy{
		BaseGas:         DefaultBridgeBaseGas,
		GasPriceWei:     big.NewInt(DefaultBridgeGasPriceWei),
		FlatRelayFeeWei: big.NewInt(DefaultBridgeFlatRelayWei),
		QuoteTimeout:    DefaultFeeQuoteTimeout,
	}
}

// SendCoverageInput describes an outbound coverage-bridging request.
type SendCoverageInput struct {
	SourceChainID  int64  `json:"sourceChainId" binding:"required"`
	DestChainID    int64  `json:"destChainId" binding:"required"`
	Holder         string `json:"holder" binding:"required"`
	CoverageAmount string `json:"coverageAmount" binding:"required"`
}

// BridgeCoordinator orchestrates cross-chain coverage sends: selector
// resolution via the registry, fee estimation and per-message lifecycle
// tracking. Transitions for a given messageId are serialized; messages for
// different ids never block one another.
type BridgeCoordinator struct {
	registry *ChainRegistry
	repo     repositories.BridgeMessageRepository
	quoter   FeeQuoter // nil means closed-form estimates only
	policy   BridgeFeePolicy

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewBridgeCoordinator creates a coordinator. quoter may be nil.
func NewBridgeCoordinator(registry *ChainRegistry, repo repositories.BridgeMessageRepository, quoter FeeQuoter, policy BridgeFeePolicy) *BridgeCoordinator {
	if policy.GasPriceWei == nil {
		policy = DefaultBridgeFeePolicy()
	}
	return &BridgeCoordinator{
		registry: registry,
		repo:     repo,
		quoter:   quoter,
		policy:   policy,
		locks:    make(map[string]*sync.Mutex),
	}
}

// EstimateFee returns the relay fee in wei for bridging coverage between
// two chains. When a live quoter is configured it is tried first with a
// timeout; any quoter failure falls back to the closed form.
func (c *BridgeCoordinator) EstimateFee(ctx context.Context, sourceChainID, destChainID int64, amount *big.Int) (*big.Int, error) {
	if !c.registry.IsSupported(sourceChainID) {
		return nil, fmt.Errorf("source chain %d: %w", sourceChainID, domainerrors.ErrUnsupportedChain)
	}
	if !c.registry.IsSupported(destChainID) {
		return nil, fmt.Errorf("destination chain %d: %w", destChainID, domainerrors.ErrUnsupportedChain)
	}

	if c.quoter != nil {
		selector, _ := c.registry.SelectorFor(destChainID)
		quoteCtx, cancel := context.WithTimeout(ctx, c.policy.QuoteTimeout)
		defer cancel()
		if fee, err := c.quoter.QuoteFee(quoteCtx, selector, amount); err == nil {
			return fee, nil
		} else {
			logger.Warn(ctx, "live fee quote failed, using closed-form estimate",
				zap.Int64("destChainId", destChainID), zap.Error(err))
		}
	}

	fee := new(big.Int).Mul(new(big.Int).SetUint64(c.policy.BaseGas), c.policy.GasPriceWei)
	fee.Add(fee, c.policy.FlatRelayFeeWei)
	return fee, nil
}

// SendCoverage validates the request, assigns an opaque messageId and
// records a pending message. The transport outcome arrives later through
// MarkSent/MarkReceived/MarkFailed; there is no retry transition — a
// caller retries by submitting a brand-new message.
func (c *BridgeCoordinator) SendCoverage(ctx context.Context, input SendCoverageInput) (*entities.BridgeMessage, error) {
	if !c.registry.IsSupported(input.SourceChainID) {
		return nil, fmt.Errorf("source chain %d: %w", input.SourceChainID, domainerrors.ErrUnsupportedChain)
	}
	if !c.registry.IsSupported(input.DestChainID) {
		return nil, fmt.Errorf("destination chain %d: %w", input.DestChainID, domainerrors.ErrUnsupportedChain)
	}
	amount, err := decimal.NewFromString(input.CoverageAmount)
	if err != nil || amount.Sign() <= 0 {
		return nil, domainerrors.BadRequest(fmt.Sprintf("invalid coverage amount %q", input.CoverageAmount))
	}
	if input.Holder == "" {
		return nil, domainerrors.BadRequest("holder address required")
	}

	now := time.Now()
	msg := &entities.BridgeMessage{
		MessageID:      newMessageID(input, now),
		Status:         entities.BridgeMessagePending,
		SourceChainID:  input.SourceChainID,
		DestChainID:    input.DestChainID,
		Holder:         input.Holder,
		CoverageAmount: amount.String(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := c.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	observability.RecordBridgeMessage(string(entities.BridgeMessagePending))
	logger.Info(ctx, "coverage bridge message created",
		zap.String("messageId", msg.MessageID),
		zap.Int64("sourceChainId", msg.SourceChainID),
		zap.Int64("destChainId", msg.DestChainID))
	return msg, nil
}

// GetMessage returns the lifecycle record for a messageId.
func (c *BridgeCoordinator) GetMessage(ctx context.Context, messageID string) (*entities.BridgeMessage, error) {
	return c.repo.GetByMessageID(ctx, messageID)
}

// MarkSent records source-chain confirmation of the relay request.
func (c *BridgeCoordinator) MarkSent(ctx context.Context, messageID, txHash string) error {
	return c.transition(ctx, messageID, entities.BridgeMessageSent, func(msg *entities.BridgeMessage) {
		if txHash != "" {
			msg.TxHash = null.StringFrom(txHash)
		}
	})
}

// MarkReceived records destination-chain processing (terminal, success).
func (c *BridgeCoordinator) MarkReceived(ctx context.Context, messageID string) error {
	return c.transition(ctx, messageID, entities.BridgeMessageReceived, nil)
}

// MarkFailed records a transport failure (terminal). A late confirmation
// arriving afterwards is rejected by the state machine.
func (c *BridgeCoordinator) MarkFailed(ctx context.Context, messageID, reason string) error {
	return c.transition(ctx, messageID, entities.BridgeMessageFailed, func(msg *entities.BridgeMessage) {
		if reason != "" {
			msg.FailureReason = null.StringFrom(reason)
		}
	})
}

func (c *BridgeCoordinator) transition(ctx context.Context, messageID string, next entities.BridgeMessageStatus, mutate func(*entities.BridgeMessage)) error {
	lock := c.messageLock(messageID)
	lock.Lock()
	defer lock.Unlock()

	msg, err := c.repo.GetByMessageID(ctx, messageID)
	if err != nil {
		return err
	}
	if err := msg.TransitionTo(next); err != nil {
		observability.RecordBridgeTransitionReject()
		return err
	}
	if mutate != nil {
		mutate(msg)
	}
	if err := c.repo.Update(ctx, msg); err != nil {
		return err
	}
	observability.RecordBridgeMessage(string(next))
	if msg.Status.IsTerminal() {
		c.releaseLock(messageID)
	}
	return nil
}

// messageLock returns the per-message mutex, creating it on first use.
func (c *BridgeCoordinator) messageLock(messageID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[messageID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[messageID] = lock
	}
	return lock
}

// releaseLock drops the mutex for a terminal message; any straggler
// transition recreates it and is then rejected by the state machine.
func (c *BridgeCoordinator) releaseLock(messageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, messageID)
}

// newMessageID derives an opaque hash token for a new message.
func newMessageID(input SendCoverageInput, at time.Time) string {
	seed := fmt.Sprintf("%d:%d:%s:%s:%d:%s",
		input.SourceChainID, input.DestChainID, input.Holder,
		input.CoverageAmount, at.UnixNano(), uuid.New())
	return "0x" + fmt.Sprintf("%x", crypto.Keccak256([]byte(seed)))
}
