package entities

// Chain represents a blockchain network supported by the coverage service.
// ChainSelector is the protocol-level token a cross-chain relay uses to
// identify the network; it is distinct from the native chain ID.
type Chain struct {
	ChainID       int64  `json:"chainId"`
	ChainSelector string `json:"chainSelector"`
	Name          string `json:"name"`
	IsActive      bool   `json:"isActive"`
}
