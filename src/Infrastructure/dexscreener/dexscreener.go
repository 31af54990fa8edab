// Package dexscreener implements a typed HTTP client for the DexScreener
// public API.
//
// Coverage: token-pair search only.
//
// Notes:
// - No authentication required
// - Responses are plain JSON documents, no envelope
// - Liquidity figures are reported in USD
package dexscreener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var DefaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

type Client struct {
	BaseURL   *url.URL
	HTTP      *http.Client
	UserAgent string
	Logger    zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.HTTP = h } }
func WithUserAgent(ua string) Option       { return func(c *Client) { c.UserAgent = ua } }
func WithLogger(l zerolog.Logger) Option   { return func(c *Client) { c.Logger = l } }

func NewClient(baseUrl string, opts ...Option) (*Client, error) {
	if baseUrl == "" {
		return nil, errors.New("base url is required")
	}

	u, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{
		BaseURL:   u,
		HTTP:      DefaultHTTPClient,
		UserAgent: "metaswap/1.0",
		Logger:    log.Logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// TokenDescriptor is the base or quote side of a pair.
type TokenDescriptor struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Liquidity is the pool liquidity snapshot for a pair.
type Liquidity struct {
	USD decimal.Decimal `json:"usd"`
}

// Pair is one trading pool row from the search endpoint. ChainID here is
// DexScreener's chain *name* ("ethereum", "bsc", ...), not a numeric id.
type Pair struct {
	ChainID   string          `json:"chainId"`
	DexID     string          `json:"dexId"`
	PairAddr  string          `json:"pairAddress"`
	BaseToken TokenDescriptor `json:"baseToken"`
	Liquidity Liquidity       `json:"liquidity"`
}

type searchResponse struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []Pair `json:"pairs"`
}

// Search queries pairs matching the free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]Pair, error) {
	q := url.Values{}
	q.Set("q", query)

	var out searchResponse
	if err := c.do(ctx, http.MethodGet, "/latest/dex/search", q, &out); err != nil {
		return nil, err
	}
	return out.Pairs, nil
}

func (c *Client) do(ctx context.Context, method, p string, q url.Values, out any) error {
	u := *c.BaseURL
	u.Path = path.Join(u.Path, p)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	c.Logger.Debug().
		Str("method", method).
		Str("url", u.String()).
		Int("status", resp.StatusCode).
		Str("duration", time.Since(start).String()).
		Msg("dexscreener response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http error %d: %s", resp.StatusCode, string(b))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}
