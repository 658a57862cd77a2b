package entities

// VerifyAuthorizationInput is the payload for off-chain signature verification.
// Fields must be the exact typed values the signature was produced over;
// any mutation makes recovery return a different address.
type VerifyAuthorizationInput struct {
	Domain struct {
		Name              string `json:"name" binding:"required"`
		Version           string `json:"version" binding:"required"`
		ChainID           int64  `json:"chainId" binding:"required"`
		VerifyingContract string `json:"verifyingContract" binding:"required"`
	} `json:"domain" binding:"required"`
	TypeName  string                 `json:"typeName" binding:"required"`
	Fields    map[string]interface{} `json:"fields" binding:"required"`
	Signature string                 `json:"signature" binding:"required"`
	// ExpectedSigner, when set, turns recovery into a yes/no check.
	ExpectedSigner string `json:"expectedSigner,omitempty"`
}
