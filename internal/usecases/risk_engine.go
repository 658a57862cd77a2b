package usecases

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"cover-chain.backend/internal/domain/entities"
	domainerrors "cover-chain.backend/internal/domain/errors"
)

var (
	riskBaseRate      = decimal.RequireFromString("0.05")
	daysPerYear       = decimal.NewFromInt(365)
	neutralMultiplier = decimal.NewFromInt(1)
	basisPointScale   = decimal.NewFromInt(10000)
	percentScale      = decimal.NewFromInt(100)
)

// defaultAssetMultipliers is the volatility-ratio table, keyed by upper-case
// symbol. Stablecoins sit near 0.1-0.2, majors around 1.0-1.2, higher
// volatility assets up to 1.5.
func defaultAssetMultipliers() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"USDC":  decimal.RequireFromString("0.1"),
		"USDT":  decimal.RequireFromString("0.1"),
		"DAI":   decimal.RequireFromString("0.2"),
		"BTC":   decimal.RequireFromString("1.0"),
		"ETH":   decimal.RequireFromString("1.2"),
		"BNB":   decimal.RequireFromString("1.1"),
		"LINK":  decimal.RequireFromString("1.2"),
		"SOL":   decimal.RequireFromString("1.3"),
		"AVAX":  decimal.RequireFromString("1.3"),
		"MATIC": decimal.RequireFromString("1.4"),
		"DOGE":  decimal.RequireFromString("1.5"),
	}
}

func defaultTypeMultipliers() map[entities.CoverageType]decimal.Decimal {
	return map[entities.CoverageType]decimal.Decimal{
		entities.CoverageTypePriceProtection:  decimal.RequireFromString("1.5"),
		entities.CoverageTypeSmartContract:    decimal.RequireFromString("1.2"),
		entities.CoverageTypeBridgeProtection: decimal.RequireFromString("1.3"),
		entities.CoverageTypeDepegProtection:  decimal.RequireFromString("1.4"),
	}
}

// RiskEngine derives risk scores and premiums from tunable multiplier
// tables. It holds no mutable state beyond the tables and performs no I/O;
// every computation is total and deterministic for well-formed input.
type RiskEngine struct {
	baseRate         decimal.Decimal
	assetMultipliers map[string]decimal.Decimal
	typeMultipliers  map[entities.CoverageType]decimal.Decimal
}

// NewRiskEngine creates an engine with the default multiplier tables.
func NewRiskEngine() *RiskEngine {
	return &RiskEngine{
		baseRate:         riskBaseRate,
		assetMultipliers: defaultAssetMultipliers(),
		typeMultipliers:  defaultTypeMultipliers(),
	}
}

// AssetMultiplier looks up the volatility multiplier, case-insensitively.
// An unrecognized symbol maps to the neutral multiplier 1.0: pricing must
// never be blocked on an unknown label.
func (e *RiskEngine) AssetMultiplier(asset string) decimal.Decimal {
	if m, ok := e.assetMultipliers[strings.ToUpper(strings.TrimSpace(asset))]; ok {
		return m
	}
	return neutralMultiplier
}

// TypeMultiplier looks up the coverage-type multiplier; unrecognized types
// map to 1.0 for the same reason as AssetMultiplier.
func (e *RiskEngine) TypeMultiplier(coverageType entities.CoverageType) decimal.Decimal {
	if m, ok := e.typeMultipliers[coverageType]; ok {
		return m
	}
	return neutralMultiplier
}

// ComputePremium prices a coverage request:
//
//	riskScore = baseRate * (1 + durationDays/365) * assetMult * typeMult
//	premium   = coverageAmount * riskScore
//
// Premium arithmetic is exact decimal; the basis-point and percentage
// fields are integer/display projections of the same score.
func (e *RiskEngine) ComputePremium(input entities.RiskComputationInput) (*entities.RiskResult, error) {
	amount, err := decimal.NewFromString(input.CoverageAmount)
	if err != nil {
		return nil, domainerrors.BadRequest(fmt.Sprintf("invalid coverage amount %q", input.CoverageAmount))
	}
	if amount.Sign() < 0 {
		return nil, domainerrors.BadRequest("coverage amount must not be negative")
	}
	if input.DurationDays < 0 {
		return nil, domainerrors.BadRequest("duration must not be negative")
	}

	durationMult := neutralMultiplier.Add(decimal.NewFromInt(input.DurationDays).Div(daysPerYear))
	assetMult := e.AssetMultiplier(input.Asset)
	typeMult := e.TypeMultiplier(input.CoverageType)

	riskScore := e.baseRate.Mul(durationMult).Mul(assetMult).Mul(typeMult)
	premium := amount.Mul(riskScore)

	return &entities.RiskResult{
		RiskScoreBasisPoints: riskScore.Mul(basisPointScale).IntPart(),
		Premium:              premium,
		PremiumPercentage:    riskScore.Mul(percentScale),
		Factors: entities.RiskFactors{
			BaseRate:           e.baseRate,
			DurationMultiplier: durationMult,
			AssetMultiplier:    assetMult,
			TypeMultiplier:     typeMult,
		},
	}, nil
}
