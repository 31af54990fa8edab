// Package okx implements a strongly-typed HTTP client for the OKX DEX
// aggregator API.
//
// Coverage:
// - Supported chain listing
// - Swap quotes
// - Swap transaction building
//
// Notes:
// - Responses follow a {code, msg, data} envelope; code "0" means success
// - Authenticated endpoints require the OK-ACCESS-* header quartet, with
//   an HMAC-SHA256 signature over timestamp+method+path+body
package okx

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var DefaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

type Client struct {
	BaseURL    *url.URL
	HTTP       *http.Client
	APIKey     string
	SecretKey  string
	Passphrase string
	Logger     zerolog.Logger
}

type Option func(*Client)

func WithCredentials(apiKey, secretKey, passphrase string) Option {
	return func(c *Client) {
		c.APIKey = apiKey
		c.SecretKey = secretKey
		c.Passphrase = passphrase
	}
}
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

// HasCredentials reports whether the full OK-ACCESS header quartet can be
// produced.
func (c *Client) HasCredentials() bool {
	return c.APIKey != "" && c.SecretKey != "" && c.Passphrase != ""
}

// responseEnvelope is the standard OKX response structure.
type responseEnvelope[T any] struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []T    `json:"data"`
}

type Chain struct {
	ChainID   string `json:"chainId"`
	ChainName string `json:"chainName"`
}

type QuoteRequest struct {
	ChainID          string
	FromTokenAddress string
	ToTokenAddress   string
	Amount           string // base units of the source token
}

type QuoteData struct {
	ToTokenAmount  string `json:"toTokenAmount"`
	TradeFee       string `json:"tradeFee"`
	EstimateGasFee string `json:"estimateGasFee"`
}

type SwapRequest struct {
	QuoteRequest
	SlippagePercent   string // e.g. "0.5"
	UserWalletAddress string
}

type SwapTx struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	Gas      string `json:"gas"`
	GasPrice string `json:"gasPrice"`
}

type SwapData struct {
	RouterResult QuoteData `json:"routerResult"`
	Tx           SwapTx    `json:"tx"`
}

// GetSupportedChains lists the chains the aggregator currently routes on.
func (c *Client) GetSupportedChains(ctx context.Context) ([]Chain, error) {
	return doJSON[Chain](c, ctx, "/api/v5/dex/aggregator/supported/chain", nil)
}

// GetQuote fetches a routing quote for the pair.
func (c *Client) GetQuote(ctx context.Context, req QuoteRequest) (*QuoteData, error) {
	q := url.Values{}
	q.Set("chainId", req.ChainID)
	q.Set("fromTokenAddress", req.FromTokenAddress)
	q.Set("toTokenAddress", req.ToTokenAddress)
	q.Set("amount", req.Amount)

	data, err := doJSON[QuoteData](c, ctx, "/api/v5/dex/aggregator/quote", q)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("okx returned no quote data")
	}
	return &data[0], nil
}

// GetSwapTransaction builds the unsigned swap transaction. On Solana
// chains Tx.Data carries a base64-serialized transaction instead of call
// data.
func (c *Client) GetSwapTransaction(ctx context.Context, req SwapRequest) (*SwapData, error) {
	q := url.Values{}
	q.Set("chainId", req.ChainID)
	q.Set("fromTokenAddress", req.FromTokenAddress)
	q.Set("toTokenAddress", req.ToTokenAddress)
	q.Set("amount", req.Amount)
	q.Set("slippage", req.SlippagePercent)
	q.Set("userWalletAddress", req.UserWalletAddress)

	data, err := doJSON[SwapData](c, ctx, "/api/v5/dex/aggregator/swap", q)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("okx returned no swap data")
	}
	return &data[0], nil
}

func (c *Client) do(ctx context.Context, requestPath string, q url.Values, out any) error {
	u := *c.BaseURL
	u.Path = requestPath
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	c.sign(req)

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
		Msg("okx response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http error %d: %s", resp.StatusCode, string(b))
	}

	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}
	return nil
}

// sign attaches the OK-ACCESS authentication headers.
func (c *Client) sign(req *http.Request) {
	if !c.HasCredentials() {
		return
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	payload := timestamp + req.Method + req.URL.RequestURI()

	mac := hmac.New(sha256.New, []byte(c.SecretKey))
	mac.Write([]byte(payload))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req.Header.Set("OK-ACCESS-KEY", c.APIKey)
	req.Header.Set("OK-ACCESS-SIGN", signature)
	req.Header.Set("OK-ACCESS-TIMESTAMP", timestamp)
	req.Header.Set("OK-ACCESS-PASSPHRASE", c.Passphrase)
}

func doJSON[T any](c *Client, ctx context.Context, requestPath string, q url.Values) ([]T, error) {
	var env responseEnvelope[T]
	if err := c.do(ctx, requestPath, q, &env); err != nil {
		return nil, err
	}
	if env.Code != "0" {
		return nil, fmt.Errorf("okx api error %s: %s", env.Code, env.Msg)
	}
	return env.Data, nil
}
