package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/MMN3003/metaswap/src/logger"
	"github.com/MMN3003/metaswap/src/swap/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	slippageMin = decimal.Zero
	slippageMax = decimal.NewFromInt(100)
)

// Normalizer turns a raw swap request into fully populated SwapParams:
// chain defaults applied, decimals resolved, the human-readable amount
// scaled to base units exactly once.
type Normalizer struct {
	tokens          domain.TokenAdapter
	defaultChain    domain.ChainID
	defaultSlippage decimal.Decimal
	logger          *logger.Logger
}

func NewNormalizer(tokens domain.TokenAdapter, defaultChain domain.ChainID, defaultSlippage decimal.Decimal, logg *logger.Logger) *Normalizer {
	return &Normalizer{
		tokens:          tokens,
		defaultChain:    defaultChain,
		defaultSlippage: defaultSlippage,
		logger:          logg,
	}
}

func (n *Normalizer) Normalize(ctx context.Context, req domain.SwapRequest) (*domain.SwapParams, error) {
	chainIn := req.ChainIn
	if chainIn == "" {
		chainIn = n.defaultChain
	}
	chainOut := req.ChainOut
	if chainOut == "" {
		chainOut = n.defaultChain
	}

	slippage := n.defaultSlippage
	if req.Slippage != nil {
		slippage = *req.Slippage
	}
	if slippage.LessThan(slippageMin) || slippage.GreaterThan(slippageMax) {
		return nil, domain.ErrInvalidSlippage
	}

	amount, err := decimal.NewFromString(req.AmountIn)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, req.AmountIn)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}

	from := domain.TokenRef{Address: req.TokenIn, ChainID: chainIn}
	to := domain.TokenRef{Address: req.TokenOut, ChainID: chainOut}

	// The two metadata lookups are independent network calls.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := n.tokens.GetDecimals(gctx, from.Address, from.ChainID)
		if err != nil {
			return fmt.Errorf("%w: %s on chain %s: %v", domain.ErrInvalidToken, from.Address, from.ChainID, err)
		}
		from.Decimals = d
		return nil
	})
	g.Go(func() error {
		d, err := n.tokens.GetDecimals(gctx, to.Address, to.ChainID)
		if err != nil {
			return fmt.Errorf("%w: %s on chain %s: %v", domain.ErrInvalidToken, to.Address, to.ChainID, err)
		}
		to.Decimals = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Exact fixed-point scaling; never goes through floats.
	scaled := amount.Shift(int32(from.Decimals))
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("%w: precision of %s exceeds token decimals (%d)",
			domain.ErrInvalidAmount, req.AmountIn, from.Decimals)
	}

	return &domain.SwapParams{
		FromToken: from,
		ToToken:   to,
		Amount:    scaled.BigInt(),
		Slippage:  slippage,
	}, nil
}

// decimalFromBase is the inverse of the scaling above, for display and
// persistence.
func decimalFromBase(amount *big.Int, decimals int) decimal.Decimal {
	return decimal.NewFromBigInt(amount, -int32(decimals))
}
