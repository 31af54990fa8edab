// Package openocean implements a typed HTTP client for the OpenOcean
// aggregator API (v3).
//
// Coverage:
// - Quote (GET /v3/{chain}/quote)
// - Swap calldata (GET /v3/{chain}/swap_quote)
//
// Notes:
// - Responses follow a {code, data} envelope; code 200 is success
// - Chains are addressed by name in the URL path ("eth", "bsc", ...)
// - Amounts in requests are human-readable decimals, not base units
package openocean

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

type responseEnvelope[T any] struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
	Data  T      `json:"data"`
}

type QuoteRequest struct {
	ChainName       string
	InTokenAddress  string
	OutTokenAddress string
	Amount          string // human-readable decimal, e.g. "1.5"
	GasPrice        string
	Slippage        string // percentage, e.g. "1"
}

type QuoteData struct {
	InToken      TokenMeta `json:"inToken"`
	OutToken     TokenMeta `json:"outToken"`
	InAmount     string    `json:"inAmount"`
	OutAmount    string    `json:"outAmount"`
	EstimatedGas uint64    `json:"estimatedGas"`
}

type TokenMeta struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// GetQuote returns the expected output amount for the pair.
func (c *Client) GetQuote(ctx context.Context, req QuoteRequest) (*QuoteData, error) {
	q := url.Values{}
	q.Set("inTokenAddress", req.InTokenAddress)
	q.Set("outTokenAddress", req.OutTokenAddress)
	q.Set("amount", req.Amount)
	if req.GasPrice != "" {
		q.Set("gasPrice", req.GasPrice)
	}
	if req.Slippage != "" {
		q.Set("slippage", req.Slippage)
	}

	var out QuoteData
	if err := c.do(ctx, path.Join("v3", req.ChainName, "quote"), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type SwapRequest struct {
	QuoteRequest
	Account string
}

type SwapData struct {
	InAmount     string `json:"inAmount"`
	OutAmount    string `json:"outAmount"`
	To           string `json:"to"`
	Data         string `json:"data"`
	Value        string `json:"value"`
	EstimatedGas uint64 `json:"estimatedGas"`
}

// GetSwapQuote returns executable calldata for the pair.
func (c *Client) GetSwapQuote(ctx context.Context, req SwapRequest) (*SwapData, error) {
	q := url.Values{}
	q.Set("inTokenAddress", req.InTokenAddress)
	q.Set("outTokenAddress", req.OutTokenAddress)
	q.Set("amount", req.Amount)
	q.Set("account", req.Account)
	if req.GasPrice != "" {
		q.Set("gasPrice", req.GasPrice)
	}
	if req.Slippage != "" {
		q.Set("slippage", req.Slippage)
	}

	var out SwapData
	if err := c.do(ctx, path.Join("v3", req.ChainName, "swap_quote"), q, &out); err != nil {
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
		req.Header.Set("apikey", c.APIKey)
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
		Msg("openocean response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http error %d: %s", resp.StatusCode, string(b))
	}

	var env responseEnvelope[json.RawMessage]
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Code != 200 {
		return fmt.Errorf("openocean api error %d: %s", env.Code, env.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}
