package handlers

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"cover-chain.backend/pkg/signing"
)

var verifyDomain = signing.Domain{
	Name:              "CoverChain",
	Version:           "1",
	ChainID:           11155111,
	VerifyingContract: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
}

func authorizationRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/authorizations/verify", NewAuthorizationHandler().Verify)
	return r
}

func verifyRequest(t *testing.T, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	r := authorizationRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/authorizations/verify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signedPermitPayload(t *testing.T) (map[string]interface{}, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	fields := map[string]interface{}{
		"owner":    signer.Hex(),
		"spender":  "0x2222222222222222222222222222222222222222",
		"value":    "1000000000000000000",
		"nonce":    float64(7),
		"deadline": "1900000000",
	}

	sig, err := signing.Sign(verifyDomain, signing.TypePermit, fields, key)
	require.NoError(t, err)

	payload := map[string]interface{}{
		"domain": map[string]interface{}{
			"name":              verifyDomain.Name,
			"version":           verifyDomain.Version,
			"chainId":           verifyDomain.ChainID,
			"verifyingContract": verifyDomain.VerifyingContract,
		},
		"typeName":  "Permit",
		"fields":    fields,
		"signature": "0x" + hex.EncodeToString(sig),
	}
	return payload, signer.Hex()
}

func TestVerify_RecoversSigner(t *testing.T) {
	payload, signer := signedPermitPayload(t)

	w := verifyRequest(t, payload)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Signer string `json:"signer"`
		Valid  bool   `json:"valid"`
		V      uint8  `json:"v"`
		R      string `json:"r"`
		S      string `json:"s"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, signer, resp.Signer)
	require.True(t, resp.Valid)
	require.Contains(t, []uint8{27, 28}, resp.V)
	require.Len(t, resp.R, 66)
	require.Len(t, resp.S, 66)
}

func TestVerify_ExpectedSignerMatch(t *testing.T) {
	payload, signer := signedPermitPayload(t)
	payload["expectedSigner"] = signer

	w := verifyRequest(t, payload)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"valid":true`)
}

func TestVerify_ExpectedSignerMismatch(t *testing.T) {
	payload, _ := signedPermitPayload(t)
	payload["expectedSigner"] = "0x9999999999999999999999999999999999999999"

	w := verifyRequest(t, payload)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), `"valid":false`)
}

func TestVerify_MutatedFieldChangesSigner(t *testing.T) {
	payload, signer := signedPermitPayload(t)
	fields := payload["fields"].(map[string]interface{})
	fields["value"] = "2000000000000000000"
	payload["expectedSigner"] = signer

	w := verifyRequest(t, payload)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerify_BadSignatureHex(t *testing.T) {
	payload, _ := signedPermitPayload(t)
	payload["signature"] = "0xzzzz"

	w := verifyRequest(t, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerify_CorruptSignatureFailsClosed(t *testing.T) {
	payload, _ := signedPermitPayload(t)
	payload["signature"] = "0x" + "11"

	w := verifyRequest(t, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), `"valid":false`)
}

func TestVerify_MissingBodyFields(t *testing.T) {
	w := verifyRequest(t, map[string]interface{}{"typeName": "Permit"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
