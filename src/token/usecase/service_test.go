package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MMN3003/metaswap/src/Infrastructure/dexscreener"
	"github.com/MMN3003/metaswap/src/logger"
)

const searchPayload = `{
  "schemaVersion": "1.0.0",
  "pairs": [
    {
      "chainId": "ethereum",
      "dexId": "uniswap",
      "pairAddress": "0xPAIR1",
      "baseToken": {"address": "0xAAA", "name": "Alpha", "symbol": "ALPHA"},
      "liquidity": {"usd": 900000}
    },
    {
      "chainId": "ethereum",
      "dexId": "sushiswap",
      "pairAddress": "0xPAIR2",
      "baseToken": {"address": "0xaaa", "name": "Alpha", "symbol": "ALPHA"},
      "liquidity": {"usd": 150000}
    },
    {
      "chainId": "ethereum",
      "dexId": "uniswap",
      "pairAddress": "0xPAIR3",
      "baseToken": {"address": "0xBBB", "name": "Beta", "symbol": "BETA"},
      "liquidity": {"usd": 10000}
    },
    {
      "chainId": "tron",
      "dexId": "sunswap",
      "pairAddress": "0xPAIR4",
      "baseToken": {"address": "0xCCC", "name": "Gamma", "symbol": "GAMMA"},
      "liquidity": {"usd": 500000}
    },
    {
      "chainId": "solana",
      "dexId": "raydium",
      "pairAddress": "PAIR5",
      "baseToken": {"address": "So1Mint", "name": "Delta", "symbol": "DELTA"},
      "liquidity": {"usd": 75000}
    }
  ]
}`

func newSearchService(t *testing.T, payload string) *Service {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/dex/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") == "" {
			t.Error("missing q parameter")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	dex, err := dexscreener.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewService(dex, nil, nil, logger.New("prod"))
}

func TestSearchFiltersAndDeduplicates(t *testing.T) {
	svc := newSearchService(t, searchPayload)

	tokens, err := svc.Search(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// ALPHA kept once (duplicate address dropped), BETA dropped for
	// liquidity, GAMMA dropped for unmapped chain, DELTA kept.
	if len(tokens) != 2 {
		t.Fatalf("len(tokens) = %d, want 2: %+v", len(tokens), tokens)
	}

	if tokens[0].Symbol != "ALPHA" || tokens[0].ChainID != "1" {
		t.Errorf("tokens[0] = %+v, want ALPHA on chain 1", tokens[0])
	}
	if tokens[0].Address != "0xAAA" {
		t.Errorf("dedupe should keep the first (most liquid) occurrence, got %s", tokens[0].Address)
	}
	if tokens[1].Symbol != "DELTA" || tokens[1].ChainID != "501" {
		t.Errorf("tokens[1] = %+v, want DELTA on chain 501", tokens[1])
	}
}

func TestSearchEmptyResult(t *testing.T) {
	svc := newSearchService(t, `{"schemaVersion":"1.0.0","pairs":[]}`)

	tokens, err := svc.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("len(tokens) = %d, want 0", len(tokens))
	}
}

func TestGetDecimalsNativeConventions(t *testing.T) {
	svc := NewService(nil, nil, nil, logger.New("prod"))

	d, err := svc.GetDecimals(context.Background(), nativeEVMAddress, "1")
	if err != nil {
		t.Fatalf("GetDecimals(native evm): %v", err)
	}
	if d != 18 {
		t.Errorf("native EVM decimals = %d, want 18", d)
	}

	d, err = svc.GetDecimals(context.Background(), nativeSolanaAddress, solanaChainID)
	if err != nil {
		t.Fatalf("GetDecimals(native sol): %v", err)
	}
	if d != 9 {
		t.Errorf("native SOL decimals = %d, want 9", d)
	}
}
