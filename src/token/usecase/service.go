package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/MMN3003/metaswap/src/Infrastructure/dexscreener"
	"github.com/MMN3003/metaswap/src/Infrastructure/evm"
	"github.com/MMN3003/metaswap/src/Infrastructure/solana"
	"github.com/MMN3003/metaswap/src/logger"
	"github.com/MMN3003/metaswap/src/token/domain"
	"github.com/shopspring/decimal"
)

// Search results below this pool liquidity are noise and get dropped.
var minSearchLiquidityUSD = decimal.NewFromInt(50_000)

const (
	nativeEVMAddress    = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"
	nativeSolanaAddress = "11111111111111111111111111111111"

	solanaChainID = "501"
)

// chainNames maps DexScreener chain names to canonical numeric chain ids.
// Pairs on chains outside this table are dropped from search results.
var chainNames = map[string]string{
	"ethereum":  "1",
	"optimism":  "10",
	"bsc":       "56",
	"polygon":   "137",
	"base":      "8453",
	"arbitrum":  "42161",
	"avalanche": "43114",
	"solana":    solanaChainID,
}

var _ domain.TokenUseCase = (*Service)(nil)

type Service struct {
	dexClient *dexscreener.Client
	evmClient *evm.Client
	solClient *solana.Client
	logger    *logger.Logger
}

func NewService(dexClient *dexscreener.Client, evmClient *evm.Client, solClient *solana.Client, logg *logger.Logger) *Service {
	return &Service{
		dexClient: dexClient,
		evmClient: evmClient,
		solClient: solClient,
		logger:    logg,
	}
}

// GetDecimals resolves token decimals: native currencies are fixed by
// convention, SPL mints come from Solana RPC, everything else from the
// token contract itself.
func (s *Service) GetDecimals(ctx context.Context, tokenAddress string, chainID string) (int, error) {
	if chainID == solanaChainID {
		if tokenAddress == nativeSolanaAddress {
			return 9, nil
		}
		if s.solClient == nil {
			return 0, fmt.Errorf("solana metadata lookups are not configured")
		}
		d, err := s.solClient.MintDecimals(ctx, tokenAddress)
		if err != nil {
			return 0, err
		}
		return int(d), nil
	}

	if strings.EqualFold(tokenAddress, nativeEVMAddress) {
		return 18, nil
	}

	d, err := s.evmClient.Decimals(ctx, chainID, tokenAddress)
	if err != nil {
		return 0, err
	}
	return int(d), nil
}

// Search returns liquid tokens matching the query: pools under the
// liquidity floor are dropped, chains we cannot map are dropped, and each
// token address appears once (first, most liquid occurrence wins —
// DexScreener orders by liquidity).
func (s *Service) Search(ctx context.Context, query string) ([]domain.Token, error) {
	pairs, err := s.dexClient.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("token search failed: %w", err)
	}

	seen := make(map[string]bool, len(pairs))
	out := make([]domain.Token, 0, len(pairs))
	for _, p := range pairs {
		if p.Liquidity.USD.LessThan(minSearchLiquidityUSD) {
			continue
		}
		chainID, ok := chainNames[p.ChainID]
		if !ok {
			s.logger.Debugf("dropping token %s on unmapped chain %q", p.BaseToken.Symbol, p.ChainID)
			continue
		}
		key := strings.ToLower(p.BaseToken.Address)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, domain.Token{
			Address:      p.BaseToken.Address,
			Symbol:       p.BaseToken.Symbol,
			Name:         p.BaseToken.Name,
			ChainID:      chainID,
			LiquidityUSD: p.Liquidity.USD,
		})
	}
	return out, nil
}
