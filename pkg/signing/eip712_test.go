package signing

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var testDomain = Domain{
	Name:              "CoverChain",
	Version:           "1",
	ChainID:           11155111,
	VerifyingContract: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
}

func permitFields() map[string]interface{} {
	return map[string]interface{}{
		"owner":    "0x1111111111111111111111111111111111111111",
		"spender":  "0x2222222222222222222222222222222222222222",
		"value":    "1000000000000000000",
		"nonce":    float64(7), // as JSON decoding delivers numbers
		"deadline": "1900000000",
	}
}

func claimFields() map[string]interface{} {
	return map[string]interface{}{
		"policyId":     "0x" + strings.Repeat("11", 32),
		"claimAmount":  "500",
		"evidenceHash": "0x" + strings.Repeat("22", 32),
	}
}

func TestSignAndRecover_Roundtrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	expected := crypto.PubkeyToAddress(key.PublicKey)

	sig, err := Sign(testDomain, TypePermit, permitFields(), key)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	require.Contains(t, []byte{27, 28}, sig[64])

	recovered, err := RecoverSigner(testDomain, TypePermit, permitFields(), sig)
	require.NoError(t, err)
	require.Equal(t, expected, recovered)
}

func TestSign_Deterministic(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	first, err := Sign(testDomain, TypeClaim, claimFields(), key)
	require.NoError(t, err)
	second, err := Sign(testDomain, TypeClaim, claimFields(), key)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRecoverSigner_FieldMutationChangesSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	sig, err := Sign(testDomain, TypePermit, permitFields(), key)
	require.NoError(t, err)

	mutated := permitFields()
	mutated["value"] = "2000000000000000000"

	recovered, err := RecoverSigner(testDomain, TypePermit, mutated, sig)
	require.NoError(t, err)
	require.NotEqual(t, signer, recovered)
}

func TestRecoverSigner_DomainBindsSignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	sig, err := Sign(testDomain, TypePermit, permitFields(), key)
	require.NoError(t, err)

	otherChain := testDomain
	otherChain.ChainID = 1

	recovered, err := RecoverSigner(otherChain, TypePermit, permitFields(), sig)
	require.NoError(t, err)
	require.NotEqual(t, signer, recovered, "signature must not replay on another chain")
}

func TestRecoverSigner_CorruptSignatureFailsClosed(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := Sign(testDomain, TypePermit, permitFields(), key)
	require.NoError(t, err)

	short := sig[:64]
	_, err = RecoverSigner(testDomain, TypePermit, permitFields(), short)
	require.ErrorIs(t, err, ErrSignatureTooShort)

	bad := make([]byte, 65)
	copy(bad, sig)
	bad[64] = 99
	_, err = RecoverSigner(testDomain, TypePermit, permitFields(), bad)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestBuildTypedData_RejectsFieldDrift(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	missing := permitFields()
	delete(missing, "deadline")
	_, err = Sign(testDomain, TypePermit, missing, key)
	require.ErrorIs(t, err, ErrMalformedPayload)

	extra := permitFields()
	extra["bonus"] = "1"
	_, err = Sign(testDomain, TypePermit, extra, key)
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestSign_UnknownTypeName(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	_, err = Sign(testDomain, TypeName("Withdrawal"), map[string]interface{}{}, key)
	require.ErrorIs(t, err, ErrUnknownTypeName)
}

func TestSign_NilKey(t *testing.T) {
	_, err := Sign(testDomain, TypePermit, permitFields(), nil)
	require.ErrorIs(t, err, ErrNoSigningKey)
}

func TestMetaTransaction_Roundtrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	fields := map[string]interface{}{
		"from":  "0x1111111111111111111111111111111111111111",
		"to":    "0x3333333333333333333333333333333333333333",
		"value": "0",
		"data":  "0xdeadbeef",
		"nonce": "42",
	}

	sig, err := Sign(testDomain, TypeMetaTransaction, fields, key)
	require.NoError(t, err)

	recovered, err := RecoverSigner(testDomain, TypeMetaTransaction, fields, sig)
	require.NoError(t, err)
	require.Equal(t, signer, recovered)
}

func TestSplitSignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := Sign(testDomain, TypePermit, permitFields(), key)
	require.NoError(t, err)

	parts, err := SplitSignature(sig)
	require.NoError(t, err)
	require.Equal(t, sig[64], parts.V)
	require.Equal(t, sig[:32], parts.R[:])
	require.Equal(t, sig[32:64], parts.S[:])
	require.Len(t, parts.RHex(), 66)
	require.Len(t, parts.SHex(), 66)

	_, err = SplitSignature(sig[:10])
	require.ErrorIs(t, err, ErrSignatureTooShort)
}

func TestHashAuthorization_RejectsBadValues(t *testing.T) {
	fields := permitFields()
	fields["owner"] = "not-an-address"
	_, err := HashAuthorization(testDomain, TypePermit, fields)
	require.ErrorIs(t, err, ErrMalformedPayload)

	fields = permitFields()
	fields["value"] = "-5"
	_, err = HashAuthorization(testDomain, TypePermit, fields)
	require.ErrorIs(t, err, ErrMalformedPayload)

	badDomain := testDomain
	badDomain.VerifyingContract = "nope"
	_, err = HashAuthorization(badDomain, TypePermit, permitFields())
	require.ErrorIs(t, err, ErrMalformedPayload)
}
