package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/MMN3003/metaswap/src/logger"
	"github.com/MMN3003/metaswap/src/swap/domain"
	"golang.org/x/sync/errgroup"
)

// Pool holds the statically registered providers in registration order.
// Registration order is the tie-breaker for quote selection, so every
// method that filters providers preserves it.
type Pool struct {
	providers []domain.SwapProvider
	timeout   time.Duration
	logger    *logger.Logger
}

func NewPool(providers []domain.SwapProvider, timeout time.Duration, logg *logger.Logger) *Pool {
	return &Pool{providers: providers, timeout: timeout, logger: logg}
}

func (p *Pool) Providers() []domain.SwapProvider {
	return p.providers
}

// ActiveProviders evaluates IsInit on every provider concurrently and
// returns the passing subset in registration order. Health can change
// between requests, so nothing is cached.
func (p *Pool) ActiveProviders(ctx context.Context) []domain.SwapProvider {
	active := make([]bool, len(p.providers))

	g := new(errgroup.Group)
	for i, provider := range p.providers {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()

			ok, err := provider.IsInit(callCtx)
			if err != nil {
				p.logger.Warnf("[%s] availability check failed: %v", provider.Name(), err)
				return nil
			}
			active[i] = ok
			return nil
		})
	}
	_ = g.Wait() // per-provider failures are recovered above

	out := make([]domain.SwapProvider, 0, len(p.providers))
	for i, provider := range p.providers {
		if active[i] {
			out = append(out, provider)
		}
	}
	return out
}

// FindActive returns the named provider if it is currently active.
func (p *Pool) FindActive(ctx context.Context, name string) domain.SwapProvider {
	for _, provider := range p.ActiveProviders(ctx) {
		if strings.EqualFold(provider.Name(), name) {
			return provider
		}
	}
	return nil
}
