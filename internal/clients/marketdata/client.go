// Package marketdata implements the market data gateway: quotes and
// historical return series fetched from an upstream HTTP service.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	requestTimeout = 10 * time.Second
	retryBackoff   = 500 * time.Millisecond
)

// Client is an HTTP market data client. It batches quote lookups, rate
// limits upstream calls, retries transient failures once with backoff, and
// reads through an optional quote cache. Implements domain.MarketDataClient.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	cache   *QuoteCache
	log     zerolog.Logger
}

// NewClient creates a market data client. cache may be nil to disable
// read-through caching. requestsPerSecond bounds the upstream call rate.
func NewClient(baseURL string, requestsPerSecond float64, cache *QuoteCache, log zerolog.Logger) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &Client{
		client:  &http.Client{Timeout: requestTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		cache:   cache,
		log:     log.With().Str("client", "marketdata").Logger(),
	}
}

// GetQuote returns the current quote for one ticker.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	quotes, err := c.GetQuotes(ctx, []string{ticker})
	if err != nil {
		return nil, err
	}
	quote, ok := quotes[ticker]
	if !ok {
		return nil, &domain.NotFoundError{Ticker: ticker}
	}
	return &quote, nil
}

// GetQuotes fetches quotes for all tickers in one upstream call, serving
// fresh cache entries without touching the network. Tickers the upstream
// does not know are absent from the result map.
func (c *Client) GetQuotes(ctx context.Context, tickers []string) (map[string]domain.Quote, error) {
	result := make(map[string]domain.Quote, len(tickers))

	var misses []string
	for _, ticker := range tickers {
		if c.cache != nil {
			if quote, ok := c.cache.Get(ctx, ticker); ok {
				result[ticker] = *quote
				continue
			}
		}
		misses = append(misses, ticker)
	}
	if len(misses) == 0 {
		return result, nil
	}

	endpoint := fmt.Sprintf("%s/v1/quotes?symbols=%s",
		c.baseURL, url.QueryEscape(strings.Join(misses, ",")))

	var response quotesResponse
	if err := c.getJSON(ctx, "quotes", endpoint, &response); err != nil {
		return nil, err
	}

	for _, payload := range response.Quotes {
		if payload.RegularPrice <= 0 {
			continue
		}
		quote := domain.Quote{
			Ticker:           strings.ToUpper(payload.Symbol),
			Price:            payload.RegularPrice,
			PriorClose:       payload.PreviousClose,
			Volume:           payload.Volume,
			MarketCap:        payload.MarketCap,
			PERatio:          payload.TrailingPE,
			DividendYield:    payload.DividendYield,
			FiftyTwoWeekHigh: payload.FiftyTwoWeekHigh,
			FiftyTwoWeekLow:  payload.FiftyTwoWeekLow,
		}
		result[quote.Ticker] = quote
		if c.cache != nil {
			c.cache.Put(ctx, quote)
		}
	}

	c.log.Debug().
		Int("requested", len(tickers)).
		Int("fetched", len(misses)).
		Int("resolved", len(result)).
		Msg("Fetched quotes")

	return result, nil
}

// GetReturnSeries returns the periodic return series for one ticker,
// oldest first.
func (c *Client) GetReturnSeries(ctx context.Context, ticker string, granularity domain.Granularity, lookback int) ([]float64, error) {
	endpoint := fmt.Sprintf("%s/v1/returns?symbol=%s&granularity=%s&lookback=%s",
		c.baseURL, url.QueryEscape(ticker), granularity, strconv.Itoa(lookback))

	var response returnsResponse
	if err := c.getJSON(ctx, "returns", endpoint, &response); err != nil {
		return nil, err
	}
	if len(response.Returns) == 0 {
		return nil, &domain.NotFoundError{Ticker: ticker}
	}
	return response.Returns, nil
}

// getJSON performs a rate-limited GET, retrying once with backoff on
// transient failures (timeouts and 5xx responses) before escalating.
func (c *Client) getJSON(ctx context.Context, op, endpoint string, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			c.log.Warn().Err(lastErr).Str("op", op).Msg("Retrying upstream call")
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		err := c.doGET(ctx, endpoint, out)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		lastErr = err
	}

	return &domain.UpstreamTimeoutError{Op: op, Err: lastErr}
}

func (c *Client) doGET(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &transientStatusError{status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode upstream response: %w", err)
	}
	return nil
}

// transientStatusError marks 5xx responses as retryable.
type transientStatusError struct {
	status int
}

func (e *transientStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.status)
}

// isTransient reports whether an error is worth one retry: network
// timeouts and upstream 5xx responses qualify, caller cancellation and
// malformed payloads do not.
func isTransient(err error) bool {
	var statusErr *transientStatusError
	if errors.As(err, &statusErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
