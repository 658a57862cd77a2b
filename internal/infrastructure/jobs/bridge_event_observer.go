package jobs

import (
	"context"
	"errors"
	"log"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"cover-chain.backend/internal/domain/entities"
	"cover-chain.backend/internal/domain/repositories"
	"cover-chain.backend/internal/infrastructure/blockchain"
	"cover-chain.backend/internal/observability"
	"cover-chain.backend/internal/usecases"
)

// Bridge contract event signatures. The messageId rides in topic[1].
var (
	coverageSentTopic     = crypto.Keccak256Hash([]byte("CrossChainCoverageSent(bytes32,uint64,address)"))
	coverageReceivedTopic = crypto.Keccak256Hash([]byte("CrossChainCoverageReceived(bytes32,uint64)"))
)

const expiryBatchSize = 100

// BridgeEventObserverJob drives bridge message lifecycles from two sources:
// contract events confirm sends and receipts, and a confirmation window
// fails messages that never confirmed. Late or duplicate events are
// rejected by the message state machine, so replaying a block range is safe.
type BridgeEventObserverJob struct {
	coordinator *usecases.BridgeCoordinator
	repo        repositories.BridgeMessageRepository
	client      *blockchain.EVMClient // nil disables log scanning
	contract    string
	window      time.Duration
	interval    time.Duration
	stop        chan struct{}

	lastBlock uint64
}

func NewBridgeEventObserverJob(
	coordinator *usecases.BridgeCoordinator,
	repo repositories.BridgeMessageRepository,
	client *blockchain.EVMClient,
	contractAddress string,
	confirmationWindow time.Duration,
) *BridgeEventObserverJob {
	if confirmationWindow <= 0 {
		confirmationWindow = usecases.DefaultConfirmationWindow
	}
	return &BridgeEventObserverJob{
		coordinator: coordinator,
		repo:        repo,
		client:      client,
		contract:    contractAddress,
		window:      confirmationWindow,
		interval:    30 * time.Second,
		stop:        make(chan struct{}),
	}
}

func (j *BridgeEventObserverJob) Start(ctx context.Context) {
	log.Println("🕐 Starting bridge event observer job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Bridge event observer job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Bridge event observer job stopped")
			return
		case <-ticker.C:
			if j.client != nil {
				j.scanEvents(ctx)
			}
			j.expireUnconfirmed(ctx)
		}
	}
}

func (j *BridgeEventObserverJob) Stop() {
	close(j.stop)
}

func (j *BridgeEventObserverJob) scanEvents(ctx context.Context) {
	head, err := j.client.GetBlockNumber(ctx)
	if err != nil {
		log.Printf("❌ Error fetching block number: %v", err)
		return
	}
	if j.lastBlock == 0 {
		// First tick observes forward only.
		j.lastBlock = head
		return
	}
	if head <= j.lastBlock {
		return
	}

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(j.lastBlock + 1),
		ToBlock:   new(big.Int).SetUint64(head),
		Addresses: []common.Address{common.HexToAddress(j.contract)},
		Topics:    [][]common.Hash{{coverageSentTopic, coverageReceivedTopic}},
	}

	logs, err := j.client.FilterLogs(ctx, query)
	if err != nil {
		log.Printf("❌ Error filtering bridge events: %v", err)
		return
	}
	j.lastBlock = head

	for _, evt := range logs {
		if len(evt.Topics) < 2 {
			continue
		}
		messageID := evt.Topics[1].Hex()

		var err error
		switch evt.Topics[0] {
		case coverageSentTopic:
			err = j.coordinator.MarkSent(ctx, messageID, evt.TxHash.Hex())
		case coverageReceivedTopic:
			err = j.coordinator.MarkReceived(ctx, messageID)
		default:
			continue
		}
		// Replays and out-of-order deliveries surface as transition
		// rejections; only log the unexpected.
		if err != nil && !errors.Is(err, entities.ErrTerminalMessage) && !errors.Is(err, entities.ErrInvalidTransition) {
			log.Printf("❌ Error applying bridge event for %s: %v", messageID, err)
		}
	}
}

func (j *BridgeEventObserverJob) expireUnconfirmed(ctx context.Context) {
	cutoff := time.Now().Add(-j.window)
	stale, err := j.repo.ListUnconfirmedBefore(ctx, cutoff, expiryBatchSize)
	if err != nil {
		log.Printf("❌ Error fetching unconfirmed bridge messages: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	log.Printf("🔄 Failing %d unconfirmed bridge messages...", len(stale))

	expired := 0
	for _, msg := range stale {
		if err := j.coordinator.MarkFailed(ctx, msg.MessageID, "confirmation window elapsed"); err != nil {
			if errors.Is(err, entities.ErrTerminalMessage) || errors.Is(err, entities.ErrInvalidTransition) {
				continue
			}
			log.Printf("❌ Error failing bridge message %s: %v", msg.MessageID, err)
			continue
		}
		observability.RecordBridgeMessageExpired()
		expired++
	}

	if expired > 0 {
		log.Printf("✅ Failed %d unconfirmed bridge messages", expired)
	}
}
