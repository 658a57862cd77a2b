package config

import (
	"github.com/shopspring/decimal"

	"cover-chain.backend/internal/domain/entities"
)

// DefaultChains is the supported chain table. Polygon Amoy is present but
// disabled: its relay lane is not provisioned, and listing it would let
// clients request bridges that can never confirm.
func DefaultChains() []entities.Chain {
	return []entities.Chain{
		{ChainID: 11155111, ChainSelector: "16015286601757825753", Name: "Ethereum Sepolia", IsActive: true},
		{ChainID: 296, ChainSelector: "222782988166878823", Name: "Hedera Testnet", IsActive: true},
		{ChainID: 84532, ChainSelector: "10344971235874465080", Name: "Base Sepolia", IsActive: true},
		{ChainID: 43113, ChainSelector: "14767482510784806043", Name: "Avalanche Fuji", IsActive: true},
		{ChainID: 80002, ChainSelector: "16281711391670634445", Name: "Polygon Amoy", IsActive: false},
	}
}

// DefaultFeedIDs maps asset symbols to price service feed identifiers.
func DefaultFeedIDs() map[string]string {
	return map[string]string{
		"BTC":   "0xe62df6c8b4a85fe1a67db44dc12de5db330f7ac66b72dc658afedf0f4a415b43",
		"ETH":   "0xff61491a931112ddf1bd8147cd1b641375f79f5825126d665480874634fd0ace",
		"USDC":  "0xeaa020c61cc479712813461ce153894a96a6c00b21ed0cfc2798d1f9a9e9c94a",
		"USDT":  "0x2b89b9dc8fdf9f34709a5b106b472f0f39bb6ca9ce04b0fd7f2e971688e2e53b",
		"DAI":   "0xb0948a5e5313200c632b51bb5ca32f6de0d36e9950a942d19751e833f70dabfd",
		"SOL":   "0xef0d8b6fda2ceba41da15d4095d1da392a0d2f8ed0c6c7bc0f4cfac8c280b56d",
		"BNB":   "0x2f95862b045670cd22bee3114c39763a4a08beeb663b145d283c31d7d1101c4f",
		"LINK":  "0x8ac0c70fff57e9aefdf5edf44b51d62c2d433653cbb2cf5cc06bb115af04d221",
		"AVAX":  "0x93da3352f9f1d105fdfe4971cfa80e9dd777bfc5d0f683ebb6e1294b92137bb7",
		"MATIC": "0x5de33a9112c2b700b8d30b8a3402c103578ccfa2765696471cc672bd5cf6ac52",
	}
}

// DefaultFallbackPrices is the static reference table served when the price
// service is unreachable, keyed by feed identifier. Values are periodically
// refreshed by hand; they are availability insurance, not market data.
func DefaultFallbackPrices() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"0xe62df6c8b4a85fe1a67db44dc12de5db330f7ac66b72dc658afedf0f4a415b43": decimal.RequireFromString("60000"),
		"0xff61491a931112ddf1bd8147cd1b641375f79f5825126d665480874634fd0ace": decimal.RequireFromString("3000"),
		"0xeaa020c61cc479712813461ce153894a96a6c00b21ed0cfc2798d1f9a9e9c94a": decimal.RequireFromString("1"),
		"0x2b89b9dc8fdf9f34709a5b106b472f0f39bb6ca9ce04b0fd7f2e971688e2e53b": decimal.RequireFromString("1"),
		"0xb0948a5e5313200c632b51bb5ca32f6de0d36e9950a942d19751e833f70dabfd": decimal.RequireFromString("1"),
		"0xef0d8b6fda2ceba41da15d4095d1da392a0d2f8ed0c6c7bc0f4cfac8c280b56d": decimal.RequireFromString("150"),
		"0x2f95862b045670cd22bee3114c39763a4a08beeb663b145d283c31d7d1101c4f": decimal.RequireFromString("550"),
		"0x8ac0c70fff57e9aefdf5edf44b51d62c2d433653cbb2cf5cc06bb115af04d221": decimal.RequireFromString("15"),
		"0x93da3352f9f1d105fdfe4971cfa80e9dd777bfc5d0f683ebb6e1294b92137bb7": decimal.RequireFromString("30"),
		"0x5de33a9112c2b700b8d30b8a3402c103578ccfa2765696471cc672bd5cf6ac52": decimal.RequireFromString("0.5"),
	}
}
