package usecases

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cover-chain.backend/internal/config"
	"cover-chain.backend/internal/domain/entities"
)

func TestChainRegistry_DisabledChainsNeverListed(t *testing.T) {
	registry := NewChainRegistry(config.DefaultChains())

	listed := registry.ListSupportedChains()
	require.NotEmpty(t, listed)

	hederaCount := 0
	for _, c := range listed {
		require.NotEqual(t, int64(80002), c.ChainID, "disabled chain must not be listed")
		require.True(t, c.IsActive)
		if c.ChainID == 296 {
			hederaCount++
		}
	}
	require.Equal(t, 1, hederaCount, "hedera testnet listed exactly once")
}

func TestChainRegistry_SelectorResolvesRegardlessOfEnabled(t *testing.T) {
	registry := NewChainRegistry(config.DefaultChains())

	selector, ok := registry.SelectorFor(80002)
	require.True(t, ok, "selector lookup works for disabled chains")
	require.Equal(t, "16281711391670634445", selector)

	require.False(t, registry.IsSupported(80002), "disabled chain is not supported")
	require.True(t, registry.IsSupported(11155111))
}

func TestChainRegistry_UnknownChain(t *testing.T) {
	registry := NewChainRegistry(config.DefaultChains())

	_, ok := registry.SelectorFor(999999)
	require.False(t, ok)
	require.False(t, registry.IsSupported(999999))

	_, ok = registry.ChainForSelector("0")
	require.False(t, ok)
}

func TestChainRegistry_SelectorRoundtrip(t *testing.T) {
	registry := NewChainRegistry(config.DefaultChains())

	selector, ok := registry.SelectorFor(296)
	require.True(t, ok)

	chain, ok := registry.ChainForSelector(selector)
	require.True(t, ok)
	require.Equal(t, int64(296), chain.ChainID)
	require.Equal(t, "Hedera Testnet", chain.Name)
}

func TestChainRegistry_ListPreservesTableOrder(t *testing.T) {
	table := []entities.Chain{
		{ChainID: 3, ChainSelector: "30", Name: "c", IsActive: true},
		{ChainID: 1, ChainSelector: "10", Name: "a", IsActive: true},
		{ChainID: 2, ChainSelector: "20", Name: "b", IsActive: false},
	}
	registry := NewChainRegistry(table)

	listed := registry.ListSupportedChains()
	require.Len(t, listed, 2)
	require.Equal(t, int64(3), listed[0].ChainID)
	require.Equal(t, int64(1), listed[1].ChainID)
}
