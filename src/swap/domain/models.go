package domain

import (
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ChainID identifies a blockchain network by its canonical numeric id
// (OKX convention: Solana is "501").
type ChainID string

const (
	ChainEthereum  ChainID = "1"
	ChainOptimism  ChainID = "10"
	ChainBSC       ChainID = "56"
	ChainPolygon   ChainID = "137"
	ChainBase      ChainID = "8453"
	ChainArbitrum  ChainID = "42161"
	ChainAvalanche ChainID = "43114"
	ChainSolana    ChainID = "501"
)

// TxFamily is the transaction format family a chain belongs to.
type TxFamily string

const (
	FamilyEVM    TxFamily = "evm"
	FamilySolana TxFamily = "solana"
)

func (c ChainID) Family() TxFamily {
	if c == ChainSolana {
		return FamilySolana
	}
	return FamilyEVM
}

// NativeTokenAddress is the pseudo-address aggregators use for the
// chain's native currency.
const NativeTokenAddress = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// NativeTokenDecimals applies to every supported EVM native currency.
const NativeTokenDecimals = 18

// TokenRef identifies a token on a specific chain. Decimals must be
// resolved before any amount math on the token is valid.
type TokenRef struct {
	Address  string
	ChainID  ChainID
	Decimals int
}

func (t TokenRef) IsNative() bool {
	return strings.EqualFold(t.Address, NativeTokenAddress)
}

// SwapParams are fully normalized swap inputs. Amount is always in base
// units of FromToken.
type SwapParams struct {
	FromToken TokenRef
	ToToken   TokenRef
	Amount    *big.Int
	Slippage  decimal.Decimal // percentage in [0,100]
	Recipient string
}

// SwapQuote is a provider's non-binding estimate. OutputAmount is in base
// units of the destination token.
type SwapQuote struct {
	OutputAmount *big.Int
	Fee          decimal.Decimal
	EstimatedGas uint64
}

// ProviderQuote tags a quote with the provider that produced it. It lives
// only for one selection round.
type ProviderQuote struct {
	ProviderName string
	Quote        SwapQuote
}

// UnsignedTransaction is the chain-family sum type returned by providers.
// The orchestrator checks Family() once before driving chain-specific
// signing.
type UnsignedTransaction interface {
	Family() TxFamily
	Chain() ChainID
}

// EVMTransaction is an unsigned EVM call. Value is in native currency
// units (not wei); conversion to base units happens at submission.
type EVMTransaction struct {
	ChainID  ChainID
	To       string
	Data     []byte
	Value    decimal.Decimal
	GasLimit uint64
}

func (t EVMTransaction) Family() TxFamily { return FamilyEVM }
func (t EVMTransaction) Chain() ChainID   { return t.ChainID }

// SolanaTransaction carries a serialized unsigned Solana transaction.
type SolanaTransaction struct {
	ChainID          ChainID
	SerializedBase64 string
}

func (t SolanaTransaction) Family() TxFamily { return FamilySolana }
func (t SolanaTransaction) Chain() ChainID   { return t.ChainID }

// ExecutionStatus is the terminal outcome of a swap execution.
type ExecutionStatus string

const (
	ExecutionSucceeded ExecutionStatus = "success"
	ExecutionFailed    ExecutionStatus = "failed"
)

// ExecutionResult is returned after an on-chain swap settles.
type ExecutionResult struct {
	TransactionHash string
	Status          ExecutionStatus
	ProviderName    string
}

// TxReceipt is the minimal confirmation view the orchestrator needs.
type TxReceipt struct {
	Hash   string
	Status uint64 // 1 = success, 0 = reverted
}

// TokenInfo is a token-search result row.
type TokenInfo struct {
	Address      string
	Symbol       string
	Name         string
	ChainID      ChainID
	LiquidityUSD decimal.Decimal
}

// ExecutionRecord is the persisted trace of one execution request.
type ExecutionRecord struct {
	ID           uint
	RequestID    string
	ProviderName string
	FromChain    ChainID
	FromToken    string
	ToChain      ChainID
	ToToken      string
	AmountIn     decimal.Decimal
	TxHash       string
	Status       ExecutionStatus
	CreatedAt    time.Time
}
