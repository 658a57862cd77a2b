package signing

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

var (
	ErrNoSigningKey      = errors.New("signing key unavailable")
	ErrMalformedPayload  = errors.New("malformed authorization payload")
	ErrUnknownTypeName   = errors.New("unknown authorization type")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrSignatureTooShort = errors.New("signature must be 65 bytes")
)

// TypeName selects one of the supported typed-message shapes.
type TypeName string

const (
	TypePermit          TypeName = "Permit"
	TypeMetaTransaction TypeName = "MetaTransaction"
	TypeClaim           TypeName = "Claim"
)

// Domain binds a signature to a specific application, contract and chain
// so it cannot be replayed elsewhere.
type Domain struct {
	Name              string
	Version           string
	ChainID           int64
	VerifyingContract string
}

// SignatureParts is the {v, r, s} decomposition of a 65-byte signature.
type SignatureParts struct {
	V uint8
	R [32]byte
	S [32]byte
}

// RHex returns r as a 0x-prefixed hex string.
func (p SignatureParts) RHex() string { return "0x" + hex.EncodeToString(p.R[:]) }

// SHex returns s as a 0x-prefixed hex string.
func (p SignatureParts) SHex() string { return "0x" + hex.EncodeToString(p.S[:]) }

// Field layouts for the three supported shapes. Order matters: it is part
// of the EIP-712 type hash.
var typeFields = map[TypeName][]apitypes.Type{
	TypePermit: {
		{Name: "owner", Type: "address"},
		{Name: "spender", Type: "address"},
		{Name: "value", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "deadline", Type: "uint256"},
	},
	TypeMetaTransaction: {
		{Name: "from", Type: "address"},
		{Name: "to", Type: "address"},
		{Name: "value", Type: "uint256"},
		{Name: "data", Type: "bytes"},
		{Name: "nonce", Type: "uint256"},
	},
	TypeClaim: {
		{Name: "policyId", Type: "bytes32"},
		{Name: "claimAmount", Type: "uint256"},
		{Name: "evidenceHash", Type: "bytes32"},
	},
}

// buildTypedData assembles the EIP-712 envelope for one authorization.
// Fields must match the shape's layout exactly; missing or extra fields
// are rejected so a signature is bound to the full tuple.
func buildTypedData(domain Domain, typeName TypeName, fields map[string]interface{}) (*apitypes.TypedData, error) {
	layout, ok := typeFields[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTypeName, typeName)
	}
	if domain.Name == "" || domain.Version == "" || !common.IsHexAddress(domain.VerifyingContract) {
		return nil, fmt.Errorf("%w: incomplete domain", ErrMalformedPayload)
	}
	if len(fields) != len(layout) {
		return nil, fmt.Errorf("%w: expected %d fields for %s, got %d", ErrMalformedPayload, len(layout), typeName, len(fields))
	}

	message := apitypes.TypedDataMessage{}
	for _, f := range layout {
		raw, ok := fields[f.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing field %q", ErrMalformedPayload, f.Name)
		}
		encoded, err := encodeFieldValue(f.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrMalformedPayload, f.Name, err)
		}
		message[f.Name] = encoded
	}

	return &apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			string(typeName): layout,
		},
		PrimaryType: string(typeName),
		Domain: apitypes.TypedDataDomain{
			Name:              domain.Name,
			Version:           domain.Version,
			ChainId:           math.NewHexOrDecimal256(domain.ChainID),
			VerifyingContract: domain.VerifyingContract,
		},
		Message: message,
	}, nil
}

// encodeFieldValue coerces JSON-decoded field values into the shapes the
// typed-data hasher accepts.
func encodeFieldValue(solType string, raw interface{}) (interface{}, error) {
	switch solType {
	case "address":
		s, ok := raw.(string)
		if !ok || !common.IsHexAddress(s) {
			return nil, fmt.Errorf("not a hex address: %v", raw)
		}
		return s, nil
	case "uint256":
		n, err := toBigInt(raw)
		if err != nil {
			return nil, err
		}
		if n.Sign() < 0 {
			return nil, fmt.Errorf("negative value %s for uint256", n)
		}
		return (*math.HexOrDecimal256)(n), nil
	case "bytes32":
		b, err := toHexBytes(raw)
		if err != nil {
			return nil, err
		}
		if len(b) != 32 {
			return nil, fmt.Errorf("bytes32 needs 32 bytes, got %d", len(b))
		}
		return "0x" + hex.EncodeToString(b), nil
	case "bytes":
		b, err := toHexBytes(raw)
		if err != nil {
			return nil, err
		}
		return "0x" + hex.EncodeToString(b), nil
	default:
		return nil, fmt.Errorf("unsupported field type %s", solType)
	}
}

func toBigInt(raw interface{}) (*big.Int, error) {
	switch v := raw.(type) {
	case string:
		base := 10
		s := v
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			base = 16
			s = s[2:]
		}
		n, ok := new(big.Int).SetString(s, base)
		if !ok {
			return nil, fmt.Errorf("not a numeric string: %q", v)
		}
		return n, nil
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("non-integral number %v", v)
		}
		return big.NewInt(int64(v)), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case *big.Int:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported numeric value %T", raw)
	}
}

func toHexBytes(raw interface{}) ([]byte, error) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X")
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("not a hex string: %q", v)
		}
		return b, nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported bytes value %T", raw)
	}
}

// HashAuthorization computes the EIP-712 digest for one authorization.
func HashAuthorization(domain Domain, typeName TypeName, fields map[string]interface{}) ([]byte, error) {
	td, err := buildTypedData(domain, typeName, fields)
	if err != nil {
		return nil, err
	}
	hash, _, err := apitypes.TypedDataAndHash(*td)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return hash, nil
}

// Sign produces a 65-byte recoverable signature over the typed message.
// Deterministic for identical (domain, typeName, fields, key).
func Sign(domain Domain, typeName TypeName, fields map[string]interface{}, key *ecdsa.PrivateKey) ([]byte, error) {
	if key == nil {
		return nil, ErrNoSigningKey
	}
	hash, err := HashAuthorization(domain, typeName, fields)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(hash, key)
	if err != nil {
		return nil, err
	}
	// Ethereum convention: v in {27, 28}
	sig[64] += 27
	return sig, nil
}

// RecoverSigner returns the address that produced the signature over the
// exact (domain, typeName, fields) tuple. Any mutation of the payload
// yields a different address; a corrupt signature fails closed.
func RecoverSigner(domain Domain, typeName TypeName, fields map[string]interface{}, sig []byte) (common.Address, error) {
	if len(sig) != 65 {
		return common.Address{}, fmt.Errorf("%w: got %d bytes", ErrSignatureTooShort, len(sig))
	}
	hash, err := HashAuthorization(domain, typeName, fields)
	if err != nil {
		return common.Address{}, err
	}

	v := sig[64]
	if v == 27 || v == 28 {
		v -= 27
	}
	if v > 1 {
		return common.Address{}, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, sig[64])
	}

	normalized := make([]byte, 65)
	copy(normalized, sig)
	normalized[64] = v

	pub, err := crypto.SigToPub(hash, normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// SplitSignature decomposes a 65-byte signature into {v, r, s}.
// Pure; no validation beyond length.
func SplitSignature(sig []byte) (SignatureParts, error) {
	if len(sig) != 65 {
		return SignatureParts{}, fmt.Errorf("%w: got %d bytes", ErrSignatureTooShort, len(sig))
	}
	var parts SignatureParts
	copy(parts.R[:], sig[0:32])
	copy(parts.S[:], sig[32:64])
	parts.V = sig[64]
	return parts, nil
}
