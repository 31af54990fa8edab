// Package kyber implements a typed HTTP client for the KyberSwap
// Aggregator API.
//
// Coverage:
// - Route discovery (GET .../routes)
// - Route building into calldata (POST .../route/build)
//
// Notes:
// - Responses follow a {code, message, data} envelope; code 0 is success
// - Chains are addressed by name in the URL path ("ethereum", "bsc", ...)
// - The x-client-id header identifies the integrator
package kyber

import (
	"bytes"
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
	BaseURL  *url.URL
	HTTP     *http.Client
	ClientID string
	Logger   zerolog.Logger
}

type Option func(*Client)

func WithClientID(id string) Option         { return func(c *Client) { c.ClientID = id } }
func WithHTTPClient(h *http.Client) Option  { return func(c *Client) { c.HTTP = h } }
func WithLogger(l zerolog.Logger) Option    { return func(c *Client) { c.Logger = l } }

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
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// RouteSummary is Kyber's opaque routing descriptor. It is returned by
// the routes endpoint and must be passed back verbatim to route/build.
type RouteSummary struct {
	TokenIn   string          `json:"tokenIn"`
	AmountIn  string          `json:"amountIn"`
	TokenOut  string          `json:"tokenOut"`
	AmountOut string          `json:"amountOut"`
	Gas       string          `json:"gas"`
	GasUSD    string          `json:"gasUsd"`
	ExtraFee  ExtraFee        `json:"extraFee"`
	Route     json.RawMessage `json:"route"`
}

type ExtraFee struct {
	FeeAmount   string `json:"feeAmount"`
	ChargeFeeBy string `json:"chargeFeeBy"`
}

type RoutesData struct {
	RouteSummary  RouteSummary `json:"routeSummary"`
	RouterAddress string       `json:"routerAddress"`
}

// GetRoutes finds the best route for the pair on a chain.
func (c *Client) GetRoutes(ctx context.Context, chainName, tokenIn, tokenOut, amountIn string) (*RoutesData, error) {
	q := url.Values{}
	q.Set("tokenIn", tokenIn)
	q.Set("tokenOut", tokenOut)
	q.Set("amountIn", amountIn)

	var out RoutesData
	if err := c.do(ctx, http.MethodGet, path.Join(chainName, "api/v1/routes"), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type BuildRouteRequest struct {
	RouteSummary      RouteSummary `json:"routeSummary"`
	Sender            string       `json:"sender"`
	Recipient         string       `json:"recipient"`
	SlippageTolerance int64        `json:"slippageTolerance"` // basis points
}

type BuildRouteData struct {
	AmountOut        string `json:"amountOut"`
	Gas              string `json:"gas"`
	Data             string `json:"data"`
	RouterAddress    string `json:"routerAddress"`
	TransactionValue string `json:"transactionValue"`
}

// BuildRoute turns a discovered route into executable calldata.
func (c *Client) BuildRoute(ctx context.Context, chainName string, req BuildRouteRequest) (*BuildRouteData, error) {
	var out BuildRouteData
	if err := c.do(ctx, http.MethodPost, path.Join(chainName, "api/v1/route/build"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, p string, q url.Values, body any, out any) error {
	u := *c.BaseURL
	u.Path = path.Join(u.Path, p)
	u.RawQuery = q.Encode()

	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.ClientID != "" {
		req.Header.Set("x-client-id", c.ClientID)
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
		Msg("kyber response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http error %d: %s", resp.StatusCode, string(b))
	}

	var env responseEnvelope[json.RawMessage]
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Code != 0 {
		return fmt.Errorf("kyber api error %d: %s", env.Code, env.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}
