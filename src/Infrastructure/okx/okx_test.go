package okx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestGetQuote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v5/dex/aggregator/quote" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("chainId") != "1" || q.Get("amount") != "1500000" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"code":"0","msg":"","data":[
			{"toTokenAmount":"420000000000000000","tradeFee":"0.3","estimateGasFee":"135000"}
		]}`))
	})

	quote, err := c.GetQuote(context.Background(), QuoteRequest{
		ChainID:          "1",
		FromTokenAddress: "0xusdc",
		ToTokenAddress:   "0xweth",
		Amount:           "1500000",
	})
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}

	if quote.ToTokenAmount != "420000000000000000" {
		t.Errorf("ToTokenAmount = %s", quote.ToTokenAmount)
	}
	if quote.TradeFee != "0.3" {
		t.Errorf("TradeFee = %s", quote.TradeFee)
	}
}

func TestGetQuoteAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"50011","msg":"rate limit reached","data":[]}`))
	})

	_, err := c.GetQuote(context.Background(), QuoteRequest{ChainID: "1"})
	if err == nil {
		t.Fatal("expected error for non-zero code")
	}
	if !strings.Contains(err.Error(), "rate limit reached") {
		t.Errorf("err = %v, want the upstream message", err)
	}
}

func TestGetQuoteEmptyData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"0","msg":"","data":[]}`))
	})

	if _, err := c.GetQuote(context.Background(), QuoteRequest{ChainID: "1"}); err == nil {
		t.Fatal("expected error for empty data array")
	}
}

func TestSignAttachesAccessHeaders(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"code":"0","msg":"","data":[{"chainId":"1","chainName":"Ethereum"}]}`))
	}, WithCredentials("key", "secret", "phrase"))

	if _, err := c.GetSupportedChains(context.Background()); err != nil {
		t.Fatalf("GetSupportedChains: %v", err)
	}

	if got.Get("OK-ACCESS-KEY") != "key" {
		t.Errorf("OK-ACCESS-KEY = %q, want key", got.Get("OK-ACCESS-KEY"))
	}
	if got.Get("OK-ACCESS-PASSPHRASE") != "phrase" {
		t.Errorf("OK-ACCESS-PASSPHRASE = %q, want phrase", got.Get("OK-ACCESS-PASSPHRASE"))
	}
	if got.Get("OK-ACCESS-SIGN") == "" || got.Get("OK-ACCESS-TIMESTAMP") == "" {
		t.Error("signature headers missing")
	}
}

func TestAnonymousRequestsCarryNoAccessHeaders(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"code":"0","msg":"","data":[]}`))
	})

	if _, err := c.GetSupportedChains(context.Background()); err != nil {
		t.Fatalf("GetSupportedChains: %v", err)
	}
	if got.Get("OK-ACCESS-KEY") != "" {
		t.Error("unauthenticated client should not send OK-ACCESS headers")
	}
}
