package entities

import "github.com/shopspring/decimal"

// PriceQuote is a normalized price observation for a single asset.
// Price and Confidence are already scaled by 10^Exponent; callers never
// apply the exponent themselves.
type PriceQuote struct {
	Price       decimal.Decimal `json:"price"`
	Confidence  decimal.Decimal `json:"confidence"`
	Exponent    int32           `json:"exponent"`
	PublishTime int64           `json:"publishTime"`
}

// PriceQuoteDisplay is the quote shape handed to API consumers.
// Change24h is a stub pending historical price data; it is always zero.
type PriceQuoteDisplay struct {
	PriceQuote
	Change24h decimal.Decimal `json:"change24h"`
}
