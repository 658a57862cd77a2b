package usecases

import (
	"cover-chain.backend/internal/domain/entities"
)

// ChainRegistry is a static directory of supported chains and their
// cross-chain selectors. The table is loaded once at process start and
// read-only afterwards, so all operations are total.
type ChainRegistry struct {
	chains []entities.Chain
	byID   map[int64]entities.Chain
}

// NewChainRegistry builds a registry from a closed chain table.
// Insertion order is preserved for listing.
func NewChainRegistry(chains []entities.Chain) *ChainRegistry {
	byID := make(map[int64]entities.Chain, len(chains))
	for _, c := range chains {
		byID[c.ChainID] = c
	}
	return &ChainRegistry{
		chains: chains,
		byID:   byID,
	}
}

// ListSupportedChains returns enabled chains in table order.
// Disabled chains are never returned.
func (r *ChainRegistry) ListSupportedChains() []entities.Chain {
	out := make([]entities.Chain, 0, len(r.chains))
	for _, c := range r.chains {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out
}

// SelectorFor returns the cross-chain selector token for a chain ID.
func (r *ChainRegistry) SelectorFor(chainID int64) (string, bool) {
	c, ok := r.byID[chainID]
	if !ok {
		return "", false
	}
	return c.ChainSelector, true
}

// ChainForSelector returns the first chain carrying the selector.
// Selectors are expected unique but uniqueness is not enforced.
func (r *ChainRegistry) ChainForSelector(selector string) (entities.Chain, bool) {
	for _, c := range r.chains {
		if c.ChainSelector == selector {
			return c, true
		}
	}
	return entities.Chain{}, false
}

// IsSupported reports whether the chain exists in the table and is enabled.
func (r *ChainRegistry) IsSupported(chainID int64) bool {
	c, ok := r.byID[chainID]
	return ok && c.IsActive
}
