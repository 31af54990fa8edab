package domain

import "context"

// TokenUseCase resolves token metadata and serves token search.
type TokenUseCase interface {
	// GetDecimals resolves the decimals of a token on a chain.
	GetDecimals(ctx context.Context, tokenAddress string, chainID string) (int, error)

	// Search returns liquid token candidates matching a free-text query.
	Search(ctx context.Context, query string) ([]Token, error)
}
