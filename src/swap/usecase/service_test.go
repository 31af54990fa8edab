package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MMN3003/metaswap/src/swap/domain"
)

func newTestService(providers []domain.SwapProvider, signer *fakeSigner, repo *fakeExecutionRepo) *Service {
	tokens := &fakeTokenAdapter{decimals: map[string]int{
		"0xusdc":                  6,
		"0xweth":                  18,
		domain.NativeTokenAddress: 18,
	}}
	pool := NewPool(providers, time.Second, testLogger)
	norm := NewNormalizer(tokens, domain.ChainEthereum, decimal.RequireFromString("0.5"), testLogger)
	agg := NewAggregator(time.Second, testLogger)
	return NewService(pool, norm, agg, signer, repo, time.Second, testLogger)
}

func evmSigner() *fakeSigner {
	return &fakeSigner{wallet: "0xwallet", family: domain.FamilyEVM, sendHash: "0xhash"}
}

func swapReq(tokenIn, amount string) domain.SwapRequest {
	return domain.SwapRequest{
		ChainIn:  domain.ChainEthereum,
		TokenIn:  tokenIn,
		ChainOut: domain.ChainEthereum,
		TokenOut: "0xweth",
		AmountIn: amount,
	}
}

func routerTx() domain.EVMTransaction {
	return domain.EVMTransaction{
		ChainID:  domain.ChainEthereum,
		To:       "0xrouter",
		Data:     []byte{0x12, 0x34},
		Value:    decimal.Zero,
		GasLimit: 210_000,
	}
}

func TestQuotePicksBestProvider(t *testing.T) {
	svc := newTestService([]domain.SwapProvider{
		activeProvider("okx", 100, "0"),
		activeProvider("kyber", 300, "0"),
		activeProvider("1inch", 200, "0"),
	}, evmSigner(), &fakeExecutionRepo{})

	got, err := svc.Quote(context.Background(), swapReq("0xusdc", "1"))
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if got.ProviderName != "kyber" {
		t.Errorf("winner = %s, want kyber", got.ProviderName)
	}
	if got.Quote.OutputAmount.Int64() != 300 {
		t.Errorf("OutputAmount = %d, want 300", got.Quote.OutputAmount.Int64())
	}
}

func TestQuoteNoActiveProviders(t *testing.T) {
	svc := newTestService([]domain.SwapProvider{
		&fakeProvider{name: "down", initOK: false},
	}, evmSigner(), &fakeExecutionRepo{})

	_, err := svc.Quote(context.Background(), swapReq("0xusdc", "1"))

	var noQuote *domain.NoValidQuoteError
	if !errors.As(err, &noQuote) {
		t.Fatalf("err = %v, want NoValidQuoteError", err)
	}
	if len(noQuote.Providers) != 0 {
		t.Errorf("Providers = %v, want empty", noQuote.Providers)
	}
}

func TestQuoteAllQuotesFail(t *testing.T) {
	broken := activeProvider("broken", 0, "0")
	broken.quoteErr = errors.New("upstream 500")

	svc := newTestService([]domain.SwapProvider{broken}, evmSigner(), &fakeExecutionRepo{})

	_, err := svc.Quote(context.Background(), swapReq("0xusdc", "1"))

	var noQuote *domain.NoValidQuoteError
	if !errors.As(err, &noQuote) {
		t.Fatalf("err = %v, want NoValidQuoteError", err)
	}
	if len(noQuote.Providers) != 1 || noQuote.Providers[0] != "broken" {
		t.Errorf("Providers = %v, want [broken]", noQuote.Providers)
	}
}

func TestSwapWithUnknownProvider(t *testing.T) {
	svc := newTestService([]domain.SwapProvider{
		activeProvider("okx", 100, "0"),
	}, evmSigner(), &fakeExecutionRepo{})

	_, err := svc.SwapWithProvider(context.Background(), "jupiter", swapReq("0xusdc", "1"))

	var unsupported *domain.UnsupportedProviderError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedProviderError", err)
	}
	if unsupported.Provider != "jupiter" {
		t.Errorf("Provider = %s, want jupiter", unsupported.Provider)
	}
}

func TestSwapRejectsForeignTransactionFamily(t *testing.T) {
	p := activeProvider("okx", 100, "0")
	p.unsigned = domain.SolanaTransaction{ChainID: domain.ChainSolana, SerializedBase64: "AAEC"}

	signer := evmSigner()
	svc := newTestService([]domain.SwapProvider{p}, signer, &fakeExecutionRepo{})

	_, err := svc.Swap(context.Background(), swapReq("0xusdc", "1"))

	var signerErr *domain.UnsupportedSignerError
	if !errors.As(err, &signerErr) {
		t.Fatalf("err = %v, want UnsupportedSignerError", err)
	}
	if signer.approveCalls != 0 || signer.sendCalls != 0 {
		t.Errorf("signer was driven (approve=%d send=%d) despite family mismatch",
			signer.approveCalls, signer.sendCalls)
	}
}

func TestSwapApprovesRouterForERC20(t *testing.T) {
	p := activeProvider("okx", 100, "0")
	p.unsigned = routerTx()

	signer := evmSigner()
	repo := &fakeExecutionRepo{}
	svc := newTestService([]domain.SwapProvider{p}, signer, repo)

	result, err := svc.Swap(context.Background(), swapReq("0xusdc", "1.5"))
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}

	if signer.approveCalls != 1 {
		t.Errorf("approveCalls = %d, want 1", signer.approveCalls)
	}
	if signer.lastSpender != "0xrouter" {
		t.Errorf("approval spender = %s, want the router", signer.lastSpender)
	}
	if result.Status != domain.ExecutionSucceeded {
		t.Errorf("Status = %s, want %s", result.Status, domain.ExecutionSucceeded)
	}
	if result.TransactionHash != "0xhash" {
		t.Errorf("TransactionHash = %s, want 0xhash", result.TransactionHash)
	}
}

func TestSwapSkipsApprovalForNativeToken(t *testing.T) {
	p := activeProvider("okx", 100, "0")
	p.unsigned = routerTx()

	signer := evmSigner()
	svc := newTestService([]domain.SwapProvider{p}, signer, &fakeExecutionRepo{})

	_, err := svc.Swap(context.Background(), swapReq(domain.NativeTokenAddress, "0.5"))
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}

	if signer.approveCalls != 0 {
		t.Errorf("approveCalls = %d, want 0 for native input", signer.approveCalls)
	}
	if signer.sendCalls != 1 {
		t.Errorf("sendCalls = %d, want 1", signer.sendCalls)
	}
}

func TestSwapEmptySubmitHash(t *testing.T) {
	p := activeProvider("okx", 100, "0")
	p.unsigned = routerTx()

	signer := evmSigner()
	signer.sendHash = ""
	svc := newTestService([]domain.SwapProvider{p}, signer, &fakeExecutionRepo{})

	_, err := svc.Swap(context.Background(), swapReq("0xusdc", "1"))
	if !errors.Is(err, domain.ErrSubmissionFailed) {
		t.Fatalf("err = %v, want ErrSubmissionFailed", err)
	}

	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("err = %v, want ExecutionError", err)
	}
	if execErr.Stage != domain.StageSubmitting {
		t.Errorf("Stage = %s, want %s", execErr.Stage, domain.StageSubmitting)
	}
}

func TestSwapRevertedReceipt(t *testing.T) {
	p := activeProvider("okx", 100, "0")
	p.unsigned = routerTx()

	signer := evmSigner()
	signer.receipt = &domain.TxReceipt{Hash: "0xhash", Status: 0}

	repo := &fakeExecutionRepo{}
	svc := newTestService([]domain.SwapProvider{p}, signer, repo)

	result, err := svc.Swap(context.Background(), swapReq("0xusdc", "1"))
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if result.Status != domain.ExecutionFailed {
		t.Errorf("Status = %s, want %s", result.Status, domain.ExecutionFailed)
	}
	if len(repo.saved) != 1 || repo.saved[0].Status != domain.ExecutionFailed {
		t.Errorf("reverted execution was not recorded as failed")
	}
}

func TestSwapRecordsExecution(t *testing.T) {
	p := activeProvider("okx", 100, "0")
	p.unsigned = routerTx()

	repo := &fakeExecutionRepo{}
	svc := newTestService([]domain.SwapProvider{p}, evmSigner(), repo)

	if _, err := svc.Swap(context.Background(), swapReq("0xusdc", "1.5")); err != nil {
		t.Fatalf("Swap: %v", err)
	}

	if len(repo.saved) != 1 {
		t.Fatalf("len(saved) = %d, want 1", len(repo.saved))
	}
	rec := repo.saved[0]
	if rec.ProviderName != "okx" {
		t.Errorf("ProviderName = %s, want okx", rec.ProviderName)
	}
	if rec.TxHash != "0xhash" {
		t.Errorf("TxHash = %s, want 0xhash", rec.TxHash)
	}
	if !rec.AmountIn.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("AmountIn = %s, want 1.5", rec.AmountIn)
	}
	if rec.RequestID == "" {
		t.Error("RequestID should be populated")
	}
}

func TestSwapTieOnOutputGoesToLowerFee(t *testing.T) {
	cheap := activeProvider("cheap", 100, "0.1")
	cheap.unsigned = routerTx()
	pricey := activeProvider("pricey", 100, "0.9")
	pricey.unsigned = routerTx()

	svc := newTestService([]domain.SwapProvider{pricey, cheap}, evmSigner(), &fakeExecutionRepo{})

	result, err := svc.Swap(context.Background(), swapReq("0xusdc", "1"))
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if result.ProviderName != "cheap" {
		t.Errorf("executed via %s, want cheap", result.ProviderName)
	}
}
