// Package oracle fetches price feeds from a Hermes-compatible price service.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cover-chain.backend/internal/domain/entities"
	domainerrors "cover-chain.backend/internal/domain/errors"
)

const (
	latestFeedsPath = "/api/latest_price_feeds"
	defaultTimeout  = 10 * time.Second
)

// ClientOptions parameterise the price service client.
type ClientOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client fetches batched price feeds over HTTP. It satisfies the
// aggregator's fetcher contract; any error here makes the aggregator fall
// back to static reference prices, so errors are returned, never retried.
type Client struct {
	opts    ClientOptions
	client  *http.Client
	baseURL string
}

// NewClient constructs a price service client.
func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://hermes.pyth.network"
	}

	return &Client{
		opts:    opts,
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// FetchFeeds retrieves the latest quotes for a feed identifier batch in one
// request. The result is keyed by the "0x"-prefixed feed identifier; feeds
// the service does not know are absent from the map, not an error.
func (c *Client) FetchFeeds(ctx context.Context, feedIDs []string) (map[string]entities.PriceQuote, error) {
	if len(feedIDs) == 0 {
		return map[string]entities.PriceQuote{}, nil
	}

	query := url.Values{}
	for _, id := range feedIDs {
		query.Add("ids[]", strings.TrimPrefix(id, "0x"))
	}
	endpoint := c.baseURL + latestFeedsPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrOracleUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: price service returned %d: %s",
			domainerrors.ErrOracleUnavailable, resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var feeds []priceFeedResponse
	if err := json.Unmarshal(payload, &feeds); err != nil {
		return nil, fmt.Errorf("%w: malformed price payload: %v", domainerrors.ErrOracleUnavailable, err)
	}

	out := make(map[string]entities.PriceQuote, len(feeds))
	for _, feed := range feeds {
		quote, err := feed.toQuote()
		if err != nil {
			// One bad feed must not poison the batch.
			continue
		}
		out["0x"+strings.TrimPrefix(strings.ToLower(feed.ID), "0x")] = quote
	}
	return out, nil
}

type priceFeedResponse struct {
	ID    string `json:"id"`
	Price struct {
		Price       string `json:"price"`
		Conf        string `json:"conf"`
		Expo        int32  `json:"expo"`
		PublishTime int64  `json:"publish_time"`
	} `json:"price"`
}

// toQuote normalizes the fixed-point wire format: price and conf are scaled
// by 10^expo into plain decimals, the raw exponent is kept for reference.
func (f priceFeedResponse) toQuote() (entities.PriceQuote, error) {
	rawPrice, err := decimal.NewFromString(f.Price.Price)
	if err != nil {
		return entities.PriceQuote{}, fmt.Errorf("parse price for feed %s: %w", f.ID, err)
	}
	rawConf, err := decimal.NewFromString(f.Price.Conf)
	if err != nil {
		return entities.PriceQuote{}, fmt.Errorf("parse confidence for feed %s: %w", f.ID, err)
	}
	return entities.PriceQuote{
		Price:       rawPrice.Shift(f.Price.Expo),
		Confidence:  rawConf.Shift(f.Price.Expo),
		Exponent:    f.Price.Expo,
		PublishTime: f.Price.PublishTime,
	}, nil
}
