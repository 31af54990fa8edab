package token

import (
	"context"

	"github.com/MMN3003/metaswap/src/swap/domain"
	tokendomain "github.com/MMN3003/metaswap/src/token/domain"
)

var _ domain.TokenAdapter = (*TokenPort)(nil)

// NewTokenPort exposes the token module's metadata lookup to the swap
// module.
func NewTokenPort(tokenService tokendomain.TokenUseCase) *TokenPort {
	return &TokenPort{tokenService: tokenService}
}

type TokenPort struct {
	tokenService tokendomain.TokenUseCase
}

func (t *TokenPort) GetDecimals(ctx context.Context, tokenAddress string, chain domain.ChainID) (int, error) {
	return t.tokenService.GetDecimals(ctx, tokenAddress, string(chain))
}
