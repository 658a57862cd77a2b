package usecases

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cover-chain.backend/internal/domain/entities"
	"cover-chain.backend/internal/observability"
	"cover-chain.backend/pkg/logger"
)

// PriceFetcher issues one batched quote fetch against the remote price
// service. Implementations must carry a timeout.
type PriceFetcher interface {
	FetchFeeds(ctx context.Context, feedIDs []string) (map[string]entities.PriceQuote, error)
}

type cachedPrice struct {
	quote     entities.PriceQuoteDisplay
	timestamp time.Time
}

var fallbackConfidenceRatio = decimal.RequireFromString(FallbackConfidenceRatio)

// PriceAggregator resolves symbols to feed identifiers, fetches quotes in
// one batch, caches results per symbol and degrades to static reference
// prices when the remote service is unavailable. Its contract is "always
// return a best-effort price for resolvable symbols"; a fetch failure is
// never surfaced to the caller.
type PriceAggregator struct {
	fetcher  PriceFetcher
	feedIDs  map[string]string          // upper-case symbol -> feed identifier
	fallback map[string]decimal.Decimal // feed identifier -> reference price
	ttl      time.Duration

	mu    sync.RWMutex
	cache map[string]cachedPrice

	now func() time.Time
}

// NewPriceAggregator builds an aggregator over static symbol and fallback
// tables. The tables are read-only after construction; the cache is owned
// exclusively by the aggregator.
func NewPriceAggregator(fetcher PriceFetcher, feedIDs map[string]string, fallback map[string]decimal.Decimal, ttl time.Duration) *PriceAggregator {
	if ttl <= 0 {
		ttl = PriceCacheTTL
	}
	return &PriceAggregator{
		fetcher:  fetcher,
		feedIDs:  feedIDs,
		fallback: fallback,
		ttl:      ttl,
		cache:    make(map[string]cachedPrice),
		now:      time.Now,
	}
}

// FetchPrices resolves, fetches and caches quotes for a symbol batch.
// Unresolvable symbols are dropped silently; symbols with no live or
// fallback price are absent from the result. Absence means "unknown",
// never "zero".
func (a *PriceAggregator) FetchPrices(ctx context.Context, symbols []string) map[string]entities.PriceQuoteDisplay {
	resolved := make(map[string]string, len(symbols)) // canonical symbol -> feed id
	ids := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" {
			continue
		}
		if _, dup := resolved[symbol]; dup {
			continue
		}
		id, ok := a.feedIDs[symbol]
		if !ok {
			continue
		}
		resolved[symbol] = id
		ids = append(ids, id)
	}

	result := make(map[string]entities.PriceQuoteDisplay, len(resolved))
	if len(ids) == 0 {
		return result
	}

	quotes, err := a.fetcher.FetchFeeds(ctx, ids)
	if err != nil {
		logger.Warn(ctx, "price fetch failed, serving fallback prices", zap.Error(err))
		observability.RecordOracleFetch("fallback")
		quotes = a.fallbackQuotes(ids)
	} else {
		observability.RecordOracleFetch("live")
	}

	fetchedAt := a.now()
	for symbol, id := range resolved {
		quote, ok := quotes[id]
		if !ok {
			continue
		}
		display := entities.PriceQuoteDisplay{
			PriceQuote: quote,
			// 24h change pending historical data upstream; explicit zero.
			Change24h: decimal.Zero,
		}
		a.mu.Lock()
		a.cache[symbol] = cachedPrice{quote: display, timestamp: fetchedAt}
		a.mu.Unlock()
		result[symbol] = display
	}
	return result
}

// GetCachedPrice serves a previously fetched quote while it is younger
// than the TTL. Stale entries are retained but never served; this method
// never triggers a refresh.
func (a *PriceAggregator) GetCachedPrice(symbol string) (entities.PriceQuoteDisplay, bool) {
	key := strings.ToUpper(strings.TrimSpace(symbol))

	a.mu.RLock()
	entry, ok := a.cache[key]
	a.mu.RUnlock()

	if !ok || a.now().Sub(entry.timestamp) >= a.ttl {
		observability.RecordPriceCacheLookup(false)
		return entities.PriceQuoteDisplay{}, false
	}
	observability.RecordPriceCacheLookup(true)
	return entry.quote, true
}

// fallbackQuotes builds degraded quotes from the static reference table:
// confidence is 1% of price and the publish time is now.
func (a *PriceAggregator) fallbackQuotes(ids []string) map[string]entities.PriceQuote {
	now := a.now().Unix()
	out := make(map[string]entities.PriceQuote, len(ids))
	for _, id := range ids {
		price, ok := a.fallback[id]
		if !ok {
			continue
		}
		out[id] = entities.PriceQuote{
			Price:       price,
			Confidence:  price.Mul(fallbackConfidenceRatio),
			Exponent:    0,
			PublishTime: now,
		}
	}
	return out
}
