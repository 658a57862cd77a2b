package handlers

import (
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"cover-chain.backend/internal/domain/entities"
	"cover-chain.backend/internal/observability"
	"cover-chain.backend/pkg/signing"
)

// AuthorizationHandler handles typed-signature verification endpoints
type AuthorizationHandler struct{}

// NewAuthorizationHandler creates a new authorization handler
func NewAuthorizationHandler() *AuthorizationHandler {
	return &AuthorizationHandler{}
}

// Verify recovers the signer of a typed authorization. Verification fails
// closed: malformed payloads and corrupt signatures are rejected, never
// treated as "unknown signer".
// POST /api/v1/authorizations/verify
func (h *AuthorizationHandler) Verify(c *gin.Context) {
	var input entities.VerifyAuthorizationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sig, err := hex.DecodeString(strings.TrimPrefix(input.Signature, "0x"))
	if err != nil {
		observability.RecordSignatureVerification(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature is not valid hex"})
		return
	}

	domain := signing.Domain{
		Name:              input.Domain.Name,
		Version:           input.Domain.Version,
		ChainID:           input.Domain.ChainID,
		VerifyingContract: input.Domain.VerifyingContract,
	}

	signer, err := signing.RecoverSigner(domain, signing.TypeName(input.TypeName), input.Fields, sig)
	if err != nil {
		observability.RecordSignatureVerification(false)
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	parts, err := signing.SplitSignature(sig)
	if err != nil {
		observability.RecordSignatureVerification(false)
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}

	result := gin.H{
		"signer": signer.Hex(),
		"v":      parts.V,
		"r":      parts.RHex(),
		"s":      parts.SHex(),
	}

	if input.ExpectedSigner != "" {
		matches := common.IsHexAddress(input.ExpectedSigner) &&
			common.HexToAddress(input.ExpectedSigner) == signer
		result["valid"] = matches
		observability.RecordSignatureVerification(matches)
		if !matches {
			c.JSON(http.StatusUnauthorized, result)
			return
		}
	} else {
		result["valid"] = true
		observability.RecordSignatureVerification(true)
	}

	c.JSON(http.StatusOK, result)
}
