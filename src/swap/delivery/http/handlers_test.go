package http

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MMN3003/metaswap/src/logger"
	swapdomain "github.com/MMN3003/metaswap/src/swap/domain"
	tokendomain "github.com/MMN3003/metaswap/src/token/domain"
)

type fakeUsecase struct {
	quote   *swapdomain.ProviderQuote
	result  *swapdomain.ExecutionResult
	err     error
	records []swapdomain.ExecutionRecord
}

var _ swapdomain.SwapUsecase = (*fakeUsecase)(nil)

func (f *fakeUsecase) Quote(context.Context, swapdomain.SwapRequest) (*swapdomain.ProviderQuote, error) {
	return f.quote, f.err
}

func (f *fakeUsecase) Swap(context.Context, swapdomain.SwapRequest) (*swapdomain.ExecutionResult, error) {
	return f.result, f.err
}

func (f *fakeUsecase) SwapWithProvider(context.Context, string, swapdomain.SwapRequest) (*swapdomain.ExecutionResult, error) {
	return f.result, f.err
}

func (f *fakeUsecase) ListActiveProviders(context.Context) []swapdomain.ProviderInfo {
	return []swapdomain.ProviderInfo{
		{Name: "okx", SupportedChains: []swapdomain.ChainID{swapdomain.ChainEthereum, swapdomain.ChainSolana}},
	}
}

func (f *fakeUsecase) ListRecentExecutions(context.Context, int) ([]swapdomain.ExecutionRecord, error) {
	return f.records, f.err
}

type fakeTokens struct{}

var _ tokendomain.TokenUseCase = (*fakeTokens)(nil)

func (fakeTokens) GetDecimals(context.Context, string, string) (int, error) { return 6, nil }

func (fakeTokens) Search(context.Context, string) ([]tokendomain.Token, error) {
	return []tokendomain.Token{
		{Address: "0xAAA", Symbol: "ALPHA", Name: "Alpha", ChainID: "1", LiquidityUSD: decimal.NewFromInt(900_000)},
	}, nil
}

func newTestRouter(uc swapdomain.SwapUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(uc, fakeTokens{}, logger.New("prod")).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, target, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v: %s", err, w.Body.String())
	}
	return w, env
}

const validBody = `{"chainIn":"1","tokenIn":"0xusdc","chainOut":"1","tokenOut":"0xweth","normalAmountIn":"1.5"}`

func TestQuoteEndpoint(t *testing.T) {
	uc := &fakeUsecase{
		quote: &swapdomain.ProviderQuote{
			ProviderName: "okx",
			Quote: swapdomain.SwapQuote{
				OutputAmount: big.NewInt(420),
				Fee:          decimal.RequireFromString("0.3"),
				EstimatedGas: 135000,
			},
		},
	}

	w, env := doRequest(t, newTestRouter(uc), http.MethodPost, "/api/v1/quote", validBody)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !env.Success {
		t.Error("Success = false, want true")
	}

	data := env.Data.(map[string]any)
	if data["provider"] != "okx" {
		t.Errorf("provider = %v, want okx", data["provider"])
	}
	if data["amountOut"] != "420" {
		t.Errorf("amountOut = %v, want 420", data["amountOut"])
	}
}

func TestQuoteRejectsMalformedBody(t *testing.T) {
	w, env := doRequest(t, newTestRouter(&fakeUsecase{}), http.MethodPost, "/api/v1/quote", `{broken`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if env.Success {
		t.Error("Success = true, want false")
	}
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid amount", swapdomain.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid slippage", swapdomain.ErrInvalidSlippage, http.StatusBadRequest},
		{"no valid quote", &swapdomain.NoValidQuoteError{}, http.StatusUnprocessableEntity},
		{"unknown provider", &swapdomain.UnsupportedProviderError{Provider: "jupiter"}, http.StatusNotFound},
		{
			"execution failure",
			&swapdomain.ExecutionError{Stage: swapdomain.StageSubmitting, Provider: "okx", Err: swapdomain.ErrSubmissionFailed},
			http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doRequest(t, newTestRouter(&fakeUsecase{err: tt.err}), http.MethodPost, "/api/v1/swap", validBody)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if env.Success {
				t.Error("Success = true, want false")
			}
			if env.Message == "" {
				t.Error("Message should carry the failure cause")
			}
		})
	}
}

func TestSwapEndpoint(t *testing.T) {
	uc := &fakeUsecase{
		result: &swapdomain.ExecutionResult{
			TransactionHash: "0xhash",
			Status:          swapdomain.ExecutionSucceeded,
			ProviderName:    "kyber",
		},
	}

	w, env := doRequest(t, newTestRouter(uc), http.MethodPost, "/api/v1/swap", validBody)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	data := env.Data.(map[string]any)
	if data["txHash"] != "0xhash" || data["status"] != "success" || data["provider"] != "kyber" {
		t.Errorf("unexpected payload %v", data)
	}
}

func TestListProvidersEndpoint(t *testing.T) {
	w, env := doRequest(t, newTestRouter(&fakeUsecase{}), http.MethodGet, "/api/v1/providers", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	providers := env.Data.([]any)
	if len(providers) != 1 {
		t.Fatalf("len(providers) = %d, want 1", len(providers))
	}
	p := providers[0].(map[string]any)
	if p["name"] != "okx" {
		t.Errorf("name = %v, want okx", p["name"])
	}
}

func TestSearchTokensEndpoint(t *testing.T) {
	r := newTestRouter(&fakeUsecase{})

	w, _ := doRequest(t, r, http.MethodGet, "/api/v1/tokens/search", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing q: status = %d, want 400", w.Code)
	}

	w, env := doRequest(t, r, http.MethodGet, "/api/v1/tokens/search?q=alpha", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	tokens := env.Data.([]any)
	if len(tokens) != 1 {
		t.Fatalf("len(tokens) = %d, want 1", len(tokens))
	}
}

func TestListSwapsEndpoint(t *testing.T) {
	uc := &fakeUsecase{records: []swapdomain.ExecutionRecord{
		{ID: 1, ProviderName: "okx", TxHash: "0xaaa", Status: swapdomain.ExecutionSucceeded},
	}}

	w, env := doRequest(t, newTestRouter(uc), http.MethodGet, "/api/v1/swaps?limit=5", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	records := env.Data.([]any)
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
}
