package usecases

import "time"

// Pricing configuration
const (
	// PriceCacheTTL bounds how long a cached quote may be served.
	PriceCacheTTL = 30 * time.Second

	// FallbackConfidenceRatio sets the confidence assigned to static
	// reference prices (1% of price).
	FallbackConfidenceRatio = "0.01"
)

// Relay fee placeholder policy. The closed-form estimate is a documented
// stand-in for a live gas oracle; the coordinator contract does not change
// when one is plugged in.
const (
	DefaultBridgeBaseGas      = 200_000
	DefaultBridgeGasPriceWei  = 20_000_000_000 // 20 gwei
	DefaultBridgeFlatRelayWei = 1_000_000_000_000_000
	DefaultFeeQuoteTimeout    = 5 * time.Second
	DefaultConfirmationWindow = 30 * time.Minute
)
