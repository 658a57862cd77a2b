package blockchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	dialEVMClient    = ethclient.Dial
	getClientChainID = func(client *ethclient.Client, ctx context.Context) (*big.Int, error) {
		return client.ChainID(ctx)
	}
)

// EVMClient provides EVM blockchain interaction
type EVMClient struct {
	client  *ethclient.Client
	chainID *big.Int
	rpcURL  string
	// testCallView / testFilterLogs / testBlockNumber allow deterministic
	// unit tests without network sockets.
	testCallView    func(ctx context.Context, to string, data []byte) ([]byte, error)
	testFilterLogs  func(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	testBlockNumber func(ctx context.Context) (uint64, error)
}

// NewEVMClient creates a new EVM client
func NewEVMClient(rpcURL string) (*EVMClient, error) {
	client, err := dialEVMClient(rpcURL)
	if err != nil {
		return nil, err
	}

	chainID, err := getClientChainID(client, context.Background())
	if err != nil {
		return nil, err
	}

	return &EVMClient{
		client:  client,
		chainID: chainID,
		rpcURL:  rpcURL,
	}, nil
}

// NewEVMClientWithCallView creates an EVM client that uses injected call and
// log implementations. Intended for unit tests where RPC sockets are
// unavailable.
func NewEVMClientWithCallView(
	chainID *big.Int,
	callViewFn func(ctx context.Context, to string, data []byte) ([]byte, error),
	filterLogsFn func(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error),
) *EVMClient {
	if chainID == nil {
		chainID = big.NewInt(1)
	}
	return &EVMClient{
		chainID:        chainID,
		testCallView:   callViewFn,
		testFilterLogs: filterLogsFn,
	}
}

// NewEVMClientWithHooks additionally injects the block number source, for
// tests that drive log scanning.
func NewEVMClientWithHooks(
	chainID *big.Int,
	callViewFn func(ctx context.Context, to string, data []byte) ([]byte, error),
	filterLogsFn func(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error),
	blockNumberFn func(ctx context.Context) (uint64, error),
) *EVMClient {
	client := NewEVMClientWithCallView(chainID, callViewFn, filterLogsFn)
	client.testBlockNumber = blockNumberFn
	return client
}

// ChainID returns the chain ID
func (c *EVMClient) ChainID() *big.Int {
	return c.chainID
}

// GetBlockNumber gets the latest block number
func (c *EVMClient) GetBlockNumber(ctx context.Context) (uint64, error) {
	if c.testBlockNumber != nil {
		return c.testBlockNumber(ctx)
	}
	return c.client.BlockNumber(ctx)
}

// GetTransactionReceipt gets transaction receipt
func (c *EVMClient) GetTransactionReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	hash := common.HexToHash(txHash)
	return c.client.TransactionReceipt(ctx, hash)
}

// CallView executes a read-only contract call
func (c *EVMClient) CallView(ctx context.Context, to string, data []byte) ([]byte, error) {
	if c.testCallView != nil {
		return c.testCallView(ctx, to, data)
	}
	addr := common.HexToAddress(to)
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	return c.client.CallContract(ctx, msg, nil)
}

// FilterLogs queries event logs matching the filter
func (c *EVMClient) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	if c.testFilterLogs != nil {
		return c.testFilterLogs(ctx, q)
	}
	return c.client.FilterLogs(ctx, q)
}

// Close closes the client connection
func (c *EVMClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
