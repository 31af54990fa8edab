// Package oneinch implements a typed HTTP client for the 1inch
// Aggregation Protocol v6 API.
//
// Coverage:
// - Quote (GET /swap/v6.0/{chain}/quote)
// - Swap calldata (GET /swap/v6.0/{chain}/swap)
//
// Notes:
// - Authentication is a Bearer API key
// - Chains are addressed by numeric id in the URL path
// - Errors come back as {error, description, statusCode}
package oneinch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var DefaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

type Client struct {
	BaseURL *url.URL
	HTTP    *http.Client
	APIKey  string
	Logger  zerolog.Logger
}

type Option func(*Client)

func WithAPIKey(key string) Option         { return func(c *Client) { c.APIKey = key } }
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.HTTP = h } }
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
		BaseURL: u,
		HTTP:    DefaultHTTPClient,
		Logger:  log.Logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// HasAPIKey reports whether the client is configured for authenticated calls.
func (c *Client) HasAPIKey() bool { return c.APIKey != "" }

type apiError struct {
	Error       string `json:"error"`
	Description string `json:"description"`
	StatusCode  int    `json:"statusCode"`
}

type QuoteData struct {
	DstAmount string `json:"dstAmount"`
	Gas       uint64 `json:"gas"`
}

// GetQuote returns the expected output amount for the pair.
func (c *Client) GetQuote(ctx context.Context, chainID, src, dst, amount string) (*QuoteData, error) {
	q := url.Values{}
	q.Set("src", src)
	q.Set("dst", dst)
	q.Set("amount", amount)
	q.Set("includeGas", "true")

	var out QuoteData
	if err := c.do(ctx, path.Join("swap/v6.0", chainID, "quote"), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type SwapTx struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	Gas      uint64 `json:"gas"`
	GasPrice string `json:"gasPrice"`
}

type SwapData struct {
	DstAmount string `json:"dstAmount"`
	Tx        SwapTx `json:"tx"`
}

// GetSwap returns executable calldata for the pair. Slippage is a
// percentage, e.g. 0.5 for 0.5%.
func (c *Client) GetSwap(ctx context.Context, chainID, src, dst, amount, from string, slippage float64) (*SwapData, error) {
	q := url.Values{}
	q.Set("src", src)
	q.Set("dst", dst)
	q.Set("amount", amount)
	q.Set("from", from)
	q.Set("origin", from)
	q.Set("slippage", strconv.FormatFloat(slippage, 'f', -1, 64))

	var out SwapData
	if err := c.do(ctx, path.Join("swap/v6.0", chainID, "swap"), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, p string, q url.Values, out any) error {
	u := *c.BaseURL
	u.Path = path.Join(u.Path, p)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
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
		Str("url", u.String()).
		Int("status", resp.StatusCode).
		Str("duration", time.Since(start).String()).
		Msg("1inch response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		if json.Unmarshal(b, &ae) == nil && ae.Description != "" {
			return fmt.Errorf("1inch api error %d: %s", resp.StatusCode, ae.Description)
		}
		return fmt.Errorf("http error %d: %s", resp.StatusCode, string(b))
	}

	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}
