package usecase

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/MMN3003/metaswap/src/swap/domain"
)

func testParams() domain.SwapParams {
	return domain.SwapParams{
		FromToken: domain.TokenRef{Address: "0xusdc", ChainID: domain.ChainEthereum, Decimals: 6},
		ToToken:   domain.TokenRef{Address: "0xweth", ChainID: domain.ChainEthereum, Decimals: 18},
		Amount:    big.NewInt(1_000_000),
	}
}

func TestCollectQuotesKeepsRegistrationOrder(t *testing.T) {
	agg := NewAggregator(time.Second, testLogger)

	quotes := agg.CollectQuotes(context.Background(), []domain.SwapProvider{
		activeProvider("okx", 100, "0"),
		activeProvider("kyber", 200, "0"),
		activeProvider("1inch", 300, "0"),
	}, testParams())

	if len(quotes) != 3 {
		t.Fatalf("len(quotes) = %d, want 3", len(quotes))
	}
	for i, want := range []string{"okx", "kyber", "1inch"} {
		if quotes[i].ProviderName != want {
			t.Errorf("quotes[%d] = %s, want %s", i, quotes[i].ProviderName, want)
		}
	}
}

func TestCollectQuotesIsolatesFailures(t *testing.T) {
	failing := activeProvider("failing", 0, "0")
	failing.quoteErr = errors.New("upstream 500")

	unsupported := activeProvider("unsupported", 0, "0")
	unsupported.pairOK = false

	probeErr := activeProvider("probe-err", 0, "0")
	probeErr.pairErr = errors.New("probe timeout")

	agg := NewAggregator(time.Second, testLogger)
	quotes := agg.CollectQuotes(context.Background(), []domain.SwapProvider{
		failing,
		activeProvider("healthy", 150, "0"),
		unsupported,
		probeErr,
	}, testParams())

	if len(quotes) != 1 {
		t.Fatalf("len(quotes) = %d, want 1", len(quotes))
	}
	if quotes[0].ProviderName != "healthy" {
		t.Errorf("surviving quote = %s, want healthy", quotes[0].ProviderName)
	}
	if quotes[0].Quote.OutputAmount.Int64() != 150 {
		t.Errorf("OutputAmount = %d, want 150", quotes[0].Quote.OutputAmount.Int64())
	}
}

func TestCollectQuotesAllFail(t *testing.T) {
	a := activeProvider("a", 0, "0")
	a.quoteErr = errors.New("down")
	b := activeProvider("b", 0, "0")
	b.quoteErr = errors.New("down")

	agg := NewAggregator(time.Second, testLogger)
	quotes := agg.CollectQuotes(context.Background(), []domain.SwapProvider{a, b}, testParams())

	if len(quotes) != 0 {
		t.Errorf("len(quotes) = %d, want 0", len(quotes))
	}
}

func TestCollectQuotesEmptyProviderSet(t *testing.T) {
	agg := NewAggregator(time.Second, testLogger)
	if quotes := agg.CollectQuotes(context.Background(), nil, testParams()); len(quotes) != 0 {
		t.Errorf("len(quotes) = %d, want 0", len(quotes))
	}
}
