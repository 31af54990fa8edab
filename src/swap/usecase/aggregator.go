package usecase

import (
	"context"
	"time"

	"github.com/MMN3003/metaswap/src/logger"
	"github.com/MMN3003/metaswap/src/swap/domain"
	"golang.org/x/sync/errgroup"
)

// Aggregator solicits quotes from all given providers concurrently. One
// provider failing or hanging never cancels its siblings: every fan-out
// branch recovers its own errors and the round waits for all of them.
type Aggregator struct {
	timeout time.Duration
	logger  *logger.Logger
}

func NewAggregator(timeout time.Duration, logg *logger.Logger) *Aggregator {
	return &Aggregator{timeout: timeout, logger: logg}
}

// CollectQuotes returns the successful quotes in provider registration
// order. The result may be empty; deciding what that means is the
// caller's job.
func (a *Aggregator) CollectQuotes(ctx context.Context, providers []domain.SwapProvider, params domain.SwapParams) []domain.ProviderQuote {
	results := make([]*domain.ProviderQuote, len(providers))

	g := new(errgroup.Group)
	for i, provider := range providers {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			supported, err := provider.IsSwapSupported(callCtx, params.FromToken, params.ToToken)
			if err != nil {
				a.logger.Debugf("[%s] pair support check failed, skipping: %v", provider.Name(), err)
				return nil
			}
			if !supported {
				a.logger.Debugf("[%s] pair %s -> %s not supported, skipping",
					provider.Name(), params.FromToken.Address, params.ToToken.Address)
				return nil
			}

			quote, err := provider.GetSwapQuote(callCtx, params)
			if err != nil {
				a.logger.Warnf("[%s] quote failed, skipping: %v", provider.Name(), err)
				return nil
			}

			results[i] = &domain.ProviderQuote{ProviderName: provider.Name(), Quote: *quote}
			return nil
		})
	}
	_ = g.Wait() // branches never return errors; Wait only fans in

	out := make([]domain.ProviderQuote, 0, len(providers))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}
