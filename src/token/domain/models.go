package domain

import "github.com/shopspring/decimal"

// Token is a search result row. ChainID is the canonical numeric chain id.
type Token struct {
	Address      string
	Symbol       string
	Name         string
	ChainID      string
	LiquidityUSD decimal.Decimal
}
