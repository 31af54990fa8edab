package usecase

import (
	"github.com/MMN3003/metaswap/src/swap/domain"
)

// SelectBestQuote folds the quotes left to right into a single winner:
// higher output amount wins, an exact output tie goes to the lower fee,
// and any remaining tie keeps the earlier entry. Quotes arrive in provider
// registration order, so ties are stable across rounds. Returns nil on an
// empty set.
func SelectBestQuote(quotes []domain.ProviderQuote) *domain.ProviderQuote {
	if len(quotes) == 0 {
		return nil
	}

	best := quotes[0]
	for _, q := range quotes[1:] {
		cmp := q.Quote.OutputAmount.Cmp(best.Quote.OutputAmount)
		switch {
		case cmp > 0:
			best = q
		case cmp == 0 && q.Quote.Fee.LessThan(best.Quote.Fee):
			best = q
		}
	}
	return &best
}
