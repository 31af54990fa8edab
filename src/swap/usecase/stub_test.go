package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/MMN3003/metaswap/src/logger"
	"github.com/MMN3003/metaswap/src/swap/domain"
)

var testLogger = logger.New("prod")

type fakeProvider struct {
	name     string
	chains   []domain.ChainID
	initOK   bool
	initErr  error
	pairOK   bool
	pairErr  error
	quote    *domain.SwapQuote
	quoteErr error
	unsigned domain.UnsignedTransaction
	buildErr error
}

var _ domain.SwapProvider = (*fakeProvider)(nil)

func (f *fakeProvider) Name() string                     { return f.name }
func (f *fakeProvider) SupportedChains() []domain.ChainID { return f.chains }

func (f *fakeProvider) IsInit(context.Context) (bool, error) {
	return f.initOK, f.initErr
}

func (f *fakeProvider) IsSwapSupported(context.Context, domain.TokenRef, domain.TokenRef) (bool, error) {
	return f.pairOK, f.pairErr
}

func (f *fakeProvider) GetSwapQuote(context.Context, domain.SwapParams) (*domain.SwapQuote, error) {
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return f.quote, nil
}

func (f *fakeProvider) GetUnsignedTransaction(context.Context, domain.SwapParams) (domain.UnsignedTransaction, error) {
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	return f.unsigned, nil
}

// activeProvider returns a healthy provider quoting a fixed output.
func activeProvider(name string, out int64, fee string) *fakeProvider {
	return &fakeProvider{
		name:   name,
		chains: []domain.ChainID{domain.ChainEthereum},
		initOK: true,
		pairOK: true,
		quote: &domain.SwapQuote{
			OutputAmount: big.NewInt(out),
			Fee:          decimal.RequireFromString(fee),
		},
	}
}

type fakeSigner struct {
	wallet       string
	family       domain.TxFamily
	approveHash  string
	approveErr   error
	approveCalls int
	lastSpender  string
	sendHash     string
	sendErr      error
	sendCalls    int
	receipt      *domain.TxReceipt
	receiptErr   error
}

var _ domain.Signer = (*fakeSigner)(nil)

func (f *fakeSigner) WalletAddress() string   { return f.wallet }
func (f *fakeSigner) Family() domain.TxFamily { return f.family }

func (f *fakeSigner) ApproveERC20IfNot(_ context.Context, _ domain.ChainID, _, spender string, _ *big.Int) (string, error) {
	f.approveCalls++
	f.lastSpender = spender
	return f.approveHash, f.approveErr
}

func (f *fakeSigner) BuildAndSendTransaction(context.Context, domain.EVMTransaction) (string, error) {
	f.sendCalls++
	return f.sendHash, f.sendErr
}

func (f *fakeSigner) WaitForTransaction(_ context.Context, _ domain.ChainID, hash string) (*domain.TxReceipt, error) {
	if f.receiptErr != nil {
		return nil, f.receiptErr
	}
	if f.receipt != nil {
		return f.receipt, nil
	}
	return &domain.TxReceipt{Hash: hash, Status: 1}, nil
}

type fakeTokenAdapter struct {
	decimals map[string]int
}

var _ domain.TokenAdapter = (*fakeTokenAdapter)(nil)

func (f *fakeTokenAdapter) GetDecimals(_ context.Context, address string, _ domain.ChainID) (int, error) {
	d, ok := f.decimals[address]
	if !ok {
		return 0, fmt.Errorf("unknown token %s", address)
	}
	return d, nil
}

type fakeExecutionRepo struct {
	saved []domain.ExecutionRecord
}

var _ domain.ExecutionRepository = (*fakeExecutionRepo)(nil)

func (f *fakeExecutionRepo) SaveExecution(_ context.Context, rec *domain.ExecutionRecord) (*domain.ExecutionRecord, error) {
	f.saved = append(f.saved, *rec)
	return rec, nil
}

func (f *fakeExecutionRepo) ListRecent(_ context.Context, limit int) ([]domain.ExecutionRecord, error) {
	if limit > len(f.saved) {
		limit = len(f.saved)
	}
	return f.saved[:limit], nil
}
