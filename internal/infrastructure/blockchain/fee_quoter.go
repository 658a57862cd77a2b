package blockchain

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// computeSelectorHex computes the 4-byte EVM function selector from a canonical
// function signature and returns it as a "0x"-prefixed hex string.
func computeSelectorHex(sig string) string {
	return "0x" + hex.EncodeToString(crypto.Keccak256([]byte(sig))[:4])
}

// getCoverageFee(uint64,uint256) -> uint256 fee in wei
var coverageFeeSelector = computeSelectorHex("getCoverageFee(uint64,uint256)")

// BridgeFeeQuoter reads the relay fee from the coverage bridge contract via
// a view call. It satisfies the coordinator's quoter contract; the
// coordinator falls back to its closed-form estimate on any error here.
type BridgeFeeQuoter struct {
	client          *EVMClient
	contractAddress string
}

func NewBridgeFeeQuoter(client *EVMClient, contractAddress string) *BridgeFeeQuoter {
	return &BridgeFeeQuoter{
		client:          client,
		contractAddress: contractAddress,
	}
}

// QuoteFee calls getCoverageFee on the bridge contract. The destination is
// identified by its decimal selector token, the amount in wei.
func (q *BridgeFeeQuoter) QuoteFee(ctx context.Context, destChainSelector string, amount *big.Int) (*big.Int, error) {
	selector, err := strconv.ParseUint(destChainSelector, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chain selector %q: %w", destChainSelector, err)
	}
	if amount == nil {
		amount = big.NewInt(0)
	}

	data, err := packCoverageFeeCall(selector, amount)
	if err != nil {
		return nil, err
	}

	raw, err := q.client.CallView(ctx, q.contractAddress, data)
	if err != nil {
		return nil, err
	}
	return unpackFeeReturn(raw)
}

func packCoverageFeeCall(destSelector uint64, amount *big.Int) ([]byte, error) {
	uint64Type, err := abi.NewType("uint64", "", nil)
	if err != nil {
		return nil, err
	}
	uint256Type, err := abi.NewType("uint256", "", nil)
	if err != nil {
		return nil, err
	}
	args := abi.Arguments{{Type: uint64Type}, {Type: uint256Type}}
	packed, err := args.Pack(destSelector, amount)
	if err != nil {
		return nil, err
	}

	selectorBytes, err := hex.DecodeString(coverageFeeSelector[2:])
	if err != nil {
		return nil, err
	}
	return append(selectorBytes, packed...), nil
}

func unpackFeeReturn(raw []byte) (*big.Int, error) {
	uint256Type, err := abi.NewType("uint256", "", nil)
	if err != nil {
		return nil, err
	}
	outputs := abi.Arguments{{Type: uint256Type}}
	values, err := outputs.Unpack(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed fee return: %w", err)
	}
	fee, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected fee return type %T", values[0])
	}
	return fee, nil
}
