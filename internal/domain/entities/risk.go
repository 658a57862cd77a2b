package entities

import "github.com/shopspring/decimal"

// CoverageType identifies the kind of parametric protection being priced.
type CoverageType string

const (
	CoverageTypePriceProtection  CoverageType = "price_protection"
	CoverageTypeSmartContract    CoverageType = "smart_contract"
	CoverageTypeBridgeProtection CoverageType = "bridge_protection"
	CoverageTypeDepegProtection  CoverageType = "depeg_protection"
)

// RiskComputationInput carries the parameters of a premium computation.
// CoverageAmount is a decimal string to preserve precision across the
// boundary with on-chain fixed-point units.
type RiskComputationInput struct {
	Asset          string       `json:"asset" binding:"required"`
	CoverageAmount string       `json:"coverageAmount" binding:"required"`
	DurationDays   int64        `json:"duration"`
	CoverageType   CoverageType `json:"coverageType" binding:"required"`
}

// RiskFactors reports the individual multipliers that produced a risk score.
type RiskFactors struct {
	BaseRate           decimal.Decimal `json:"baseRate"`
	DurationMultiplier decimal.Decimal `json:"durationMultiplier"`
	AssetMultiplier    decimal.Decimal `json:"assetMultiplier"`
	TypeMultiplier     decimal.Decimal `json:"typeMultiplier"`
}

// RiskResult is the outcome of a premium computation. Premium is
// settlement-grade decimal arithmetic; RiskScoreBasisPoints and
// PremiumPercentage are display-oriented.
type RiskResult struct {
	RiskScoreBasisPoints int64           `json:"riskScoreBasisPoints"`
	Premium              decimal.Decimal `json:"premium"`
	PremiumPercentage    decimal.Decimal `json:"premiumPercentage"`
	Factors              RiskFactors     `json:"factors"`
}
