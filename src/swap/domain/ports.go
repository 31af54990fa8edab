package domain

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"
)

// SwapProvider is the capability contract every liquidity source satisfies.
// Availability, support and quote failures are always recovered by the
// caller; only GetUnsignedTransaction failures are fatal for a request.
type SwapProvider interface {
	// IsInit reports whether the provider is configured and reachable.
	IsInit(ctx context.Context) (bool, error)

	// IsSwapSupported reports whether the provider can route the pair.
	IsSwapSupported(ctx context.Context, from, to TokenRef) (bool, error)

	// GetSwapQuote returns a non-binding estimate for the swap.
	GetSwapQuote(ctx context.Context, params SwapParams) (*SwapQuote, error)

	// GetUnsignedTransaction builds the transaction that executes the swap.
	GetUnsignedTransaction(ctx context.Context, params SwapParams) (UnsignedTransaction, error)

	Name() string
	SupportedChains() []ChainID
}

// Signer is the external wallet service driving on-chain execution.
type Signer interface {
	WalletAddress() string
	Family() TxFamily

	// ApproveERC20IfNot ensures the spender's allowance is at least amount,
	// submitting a max-uint256 approval and waiting for it to confirm when
	// it is not. Returns the approval tx hash, or "" when no approval was
	// needed.
	ApproveERC20IfNot(ctx context.Context, chain ChainID, tokenAddress, spenderAddress string, amount *big.Int) (string, error)

	// BuildAndSendTransaction signs and broadcasts the transaction. An
	// empty hash means the wallet produced no signed result.
	BuildAndSendTransaction(ctx context.Context, tx EVMTransaction) (string, error)

	// WaitForTransaction blocks until the hash is mined. A nil receipt
	// means no receipt could be obtained.
	WaitForTransaction(ctx context.Context, chain ChainID, txHash string) (*TxReceipt, error)
}

// TokenAdapter resolves token metadata for the normalizer.
type TokenAdapter interface {
	GetDecimals(ctx context.Context, tokenAddress string, chain ChainID) (int, error)
}

// ExecutionRepository persists terminal execution outcomes.
type ExecutionRepository interface {
	SaveExecution(ctx context.Context, rec *ExecutionRecord) (*ExecutionRecord, error)
	ListRecent(ctx context.Context, limit int) ([]ExecutionRecord, error)
}

// SwapUsecase is what the HTTP delivery layer consumes.
type SwapUsecase interface {
	Quote(ctx context.Context, req SwapRequest) (*ProviderQuote, error)
	Swap(ctx context.Context, req SwapRequest) (*ExecutionResult, error)
	SwapWithProvider(ctx context.Context, providerName string, req SwapRequest) (*ExecutionResult, error)
	ListActiveProviders(ctx context.Context) []ProviderInfo
	ListRecentExecutions(ctx context.Context, limit int) ([]ExecutionRecord, error)
}

// SwapRequest is the raw, pre-normalization request shape.
type SwapRequest struct {
	ChainIn  ChainID
	TokenIn  string
	ChainOut ChainID
	TokenOut string
	AmountIn string           // human-readable decimal string
	Slippage *decimal.Decimal // nil = use configured default
}

// ProviderInfo describes an active provider to API consumers.
type ProviderInfo struct {
	Name            string
	SupportedChains []ChainID
}
