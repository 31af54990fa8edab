// Package http provides HTTP handlers for swap operations
//
// Schemes: http
// Host: localhost:8080
// BasePath: /api/v1
// Version: 1.0.0
//
// Consumes:
// - application/json
//
// Produces:
// - application/json
//
// swagger:meta
package http

import (
	"time"

	"github.com/shopspring/decimal"

	swapdomain "github.com/MMN3003/metaswap/src/swap/domain"
	tokendomain "github.com/MMN3003/metaswap/src/token/domain"
)

// Envelope wraps every response body.
// swagger:model Envelope
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// SwapRequestBody is the payload for quote and swap requests. Amounts are
// human-readable decimal strings; base-unit scaling happens server side.
// swagger:model SwapRequestBody
type SwapRequestBody struct {
	ChainIn        string `json:"chainIn" example:"1"`
	TokenIn        string `json:"tokenIn" example:"0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"`
	ChainOut       string `json:"chainOut" example:"1"`
	TokenOut       string `json:"tokenOut" example:"0xdAC17F958D2ee523a2206206994597C13D831ec7"`
	NormalAmountIn string `json:"normalAmountIn" example:"0.5"`
	Slippage       string `json:"slippage,omitempty" example:"0.5"` // percentage
}

func (b SwapRequestBody) toDomain() (swapdomain.SwapRequest, error) {
	req := swapdomain.SwapRequest{
		ChainIn:  swapdomain.ChainID(b.ChainIn),
		TokenIn:  b.TokenIn,
		ChainOut: swapdomain.ChainID(b.ChainOut),
		TokenOut: b.TokenOut,
		AmountIn: b.NormalAmountIn,
	}
	if b.Slippage != "" {
		s, err := decimal.NewFromString(b.Slippage)
		if err != nil {
			return swapdomain.SwapRequest{}, err
		}
		req.Slippage = &s
	}
	return req, nil
}

// QuoteResponseBody is the winning quote for a pair.
// swagger:model QuoteResponseBody
type QuoteResponseBody struct {
	Provider     string          `json:"provider" example:"okx"`
	AmountOut    string          `json:"amountOut" example:"1250000"` // base units
	Fee          decimal.Decimal `json:"fee" example:"0.3"`
	EstimatedGas uint64          `json:"estimatedGas" example:"210000"`
}

func quoteResponseFromDomain(q *swapdomain.ProviderQuote) QuoteResponseBody {
	return QuoteResponseBody{
		Provider:     q.ProviderName,
		AmountOut:    q.Quote.OutputAmount.String(),
		Fee:          q.Quote.Fee,
		EstimatedGas: q.Quote.EstimatedGas,
	}
}

// SwapResponseBody is the settled outcome of an executed swap.
// swagger:model SwapResponseBody
type SwapResponseBody struct {
	TxHash   string `json:"txHash" example:"0xabc..."`
	Status   string `json:"status" example:"success"`
	Provider string `json:"provider" example:"okx"`
}

func swapResponseFromDomain(r *swapdomain.ExecutionResult) SwapResponseBody {
	return SwapResponseBody{
		TxHash:   r.TransactionHash,
		Status:   string(r.Status),
		Provider: r.ProviderName,
	}
}

// ProviderDto describes one active liquidity source.
// swagger:model ProviderDto
type ProviderDto struct {
	Name   string   `json:"name" example:"okx"`
	Chains []string `json:"chains" example:"1,56,501"`
}

func providersFromDomain(infos []swapdomain.ProviderInfo) []ProviderDto {
	dtos := make([]ProviderDto, len(infos))
	for i, info := range infos {
		chains := make([]string, len(info.SupportedChains))
		for j, c := range info.SupportedChains {
			chains[j] = string(c)
		}
		dtos[i] = ProviderDto{Name: info.Name, Chains: chains}
	}
	return dtos
}

// TokenDto is one token-search result row.
// swagger:model TokenDto
type TokenDto struct {
	Address      string          `json:"address" example:"0xdAC17F958D2ee523a2206206994597C13D831ec7"`
	Symbol       string          `json:"symbol" example:"USDT"`
	Name         string          `json:"name" example:"Tether USD"`
	ChainID      string          `json:"chainId" example:"1"`
	LiquidityUSD decimal.Decimal `json:"liquidityUsd" example:"1200000"`
}

func tokensFromDomain(tokens []tokendomain.Token) []TokenDto {
	dtos := make([]TokenDto, len(tokens))
	for i, t := range tokens {
		dtos[i] = TokenDto{
			Address:      t.Address,
			Symbol:       t.Symbol,
			Name:         t.Name,
			ChainID:      t.ChainID,
			LiquidityUSD: t.LiquidityUSD,
		}
	}
	return dtos
}

// ExecutionDto is one persisted swap execution.
// swagger:model ExecutionDto
type ExecutionDto struct {
	ID        uint            `json:"id" example:"42"`
	RequestID string          `json:"requestId" example:"b9f..."`
	Provider  string          `json:"provider" example:"okx"`
	FromChain string          `json:"fromChain" example:"1"`
	FromToken string          `json:"fromToken"`
	ToChain   string          `json:"toChain" example:"1"`
	ToToken   string          `json:"toToken"`
	AmountIn  decimal.Decimal `json:"amountIn" example:"0.5"`
	TxHash    string          `json:"txHash" example:"0xabc..."`
	Status    string          `json:"status" example:"success"`
	CreatedAt time.Time       `json:"createdAt"`
}

func executionsFromDomain(records []swapdomain.ExecutionRecord) []ExecutionDto {
	dtos := make([]ExecutionDto, len(records))
	for i, r := range records {
		dtos[i] = ExecutionDto{
			ID:        r.ID,
			RequestID: r.RequestID,
			Provider:  r.ProviderName,
			FromChain: string(r.FromChain),
			FromToken: r.FromToken,
			ToChain:   string(r.ToChain),
			ToToken:   r.ToToken,
			AmountIn:  r.AmountIn,
			TxHash:    r.TxHash,
			Status:    string(r.Status),
			CreatedAt: r.CreatedAt,
		}
	}
	return dtos
}
