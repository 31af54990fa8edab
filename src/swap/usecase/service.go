package usecase

import (
	"context"
	"time"

	"github.com/MMN3003/metaswap/src/logger"
	"github.com/MMN3003/metaswap/src/swap/domain"
	"github.com/google/uuid"
)

var _ domain.SwapUsecase = (*Service)(nil)

// Service is the quote-aggregation and swap-execution orchestrator. It is
// stateless across requests; the only process-wide state is the read-only
// provider registry held by the pool.
type Service struct {
	pool       *Pool
	normalizer *Normalizer
	aggregator *Aggregator
	signer     domain.Signer
	executions domain.ExecutionRepository
	timeout    time.Duration
	logger     *logger.Logger
}

func NewService(
	pool *Pool,
	normalizer *Normalizer,
	aggregator *Aggregator,
	signer domain.Signer,
	executions domain.ExecutionRepository,
	timeout time.Duration,
	logg *logger.Logger,
) *Service {
	return &Service{
		pool:       pool,
		normalizer: normalizer,
		aggregator: aggregator,
		signer:     signer,
		executions: executions,
		timeout:    timeout,
		logger:     logg,
	}
}

// Quote returns the winning quote across all active providers without any
// side effects.
func (s *Service) Quote(ctx context.Context, req domain.SwapRequest) (*domain.ProviderQuote, error) {
	params, err := s.normalizer.Normalize(ctx, req)
	if err != nil {
		return nil, err
	}

	_, winner, err := s.bestQuote(ctx, *params)
	if err != nil {
		return nil, err
	}
	return winner, nil
}

// Swap executes against whichever active provider quotes best.
func (s *Service) Swap(ctx context.Context, req domain.SwapRequest) (*domain.ExecutionResult, error) {
	params, err := s.normalizer.Normalize(ctx, req)
	if err != nil {
		return nil, &domain.ExecutionError{Stage: domain.StageNormalizing, Err: err}
	}

	active, winner, err := s.bestQuote(ctx, *params)
	if err != nil {
		return nil, err
	}

	var chosen domain.SwapProvider
	for _, p := range active {
		if p.Name() == winner.ProviderName {
			chosen = p
			break
		}
	}
	// The winner always comes from the active set; a miss here means a
	// provider lied about its name.
	if chosen == nil {
		return nil, &domain.NoValidQuoteError{Providers: providerNames(active)}
	}

	s.logger.Infof("best quote %s out for %s from [%s]",
		winner.Quote.OutputAmount.String(), params.FromToken.Address, winner.ProviderName)

	return s.execute(ctx, chosen, *params)
}

// SwapWithProvider executes against an explicitly named provider,
// bypassing quote comparison.
func (s *Service) SwapWithProvider(ctx context.Context, providerName string, req domain.SwapRequest) (*domain.ExecutionResult, error) {
	provider := s.pool.FindActive(ctx, providerName)
	if provider == nil {
		return nil, &domain.UnsupportedProviderError{Provider: providerName}
	}

	params, err := s.normalizer.Normalize(ctx, req)
	if err != nil {
		return nil, &domain.ExecutionError{Stage: domain.StageNormalizing, Provider: providerName, Err: err}
	}

	return s.execute(ctx, provider, *params)
}

// ListActiveProviders re-evaluates provider availability and reports the
// passing subset.
func (s *Service) ListActiveProviders(ctx context.Context) []domain.ProviderInfo {
	active := s.pool.ActiveProviders(ctx)
	out := make([]domain.ProviderInfo, 0, len(active))
	for _, p := range active {
		out = append(out, domain.ProviderInfo{Name: p.Name(), SupportedChains: p.SupportedChains()})
	}
	return out
}

func (s *Service) ListRecentExecutions(ctx context.Context, limit int) ([]domain.ExecutionRecord, error) {
	return s.executions.ListRecent(ctx, limit)
}

// bestQuote runs the quoting and selecting stages against the current
// active set.
func (s *Service) bestQuote(ctx context.Context, params domain.SwapParams) ([]domain.SwapProvider, *domain.ProviderQuote, error) {
	active := s.pool.ActiveProviders(ctx)
	quotes := s.aggregator.CollectQuotes(ctx, active, params)

	winner := SelectBestQuote(quotes)
	if winner == nil {
		return nil, nil, &domain.NoValidQuoteError{Providers: providerNames(active)}
	}
	return active, winner, nil
}

// execute drives approve -> build -> sign -> submit -> confirm for the
// chosen provider. No step retries; every failure carries its stage and
// provider so the caller can retry the whole request.
func (s *Service) execute(ctx context.Context, provider domain.SwapProvider, params domain.SwapParams) (*domain.ExecutionResult, error) {
	name := provider.Name()

	// The signer wallet always receives the swapped output.
	params.Recipient = s.signer.WalletAddress()

	buildCtx, cancel := context.WithTimeout(ctx, s.timeout)
	unsigned, err := provider.GetUnsignedTransaction(buildCtx, params)
	cancel()
	if err != nil {
		return nil, &domain.ExecutionError{Stage: domain.StageBuilding, Provider: name, Err: err}
	}

	if unsigned.Family() != s.signer.Family() {
		return nil, &domain.ExecutionError{
			Stage:    domain.StageBuilding,
			Provider: name,
			Err:      &domain.UnsupportedSignerError{Family: unsigned.Family()},
		}
	}

	tx, ok := unsigned.(domain.EVMTransaction)
	if !ok {
		return nil, &domain.ExecutionError{
			Stage:    domain.StageBuilding,
			Provider: name,
			Err:      &domain.UnsupportedSignerError{Family: unsigned.Family()},
		}
	}

	// Native currency needs no allowance; everything else gets the
	// max-uint256 approval so later swaps of the same pair skip this step.
	if !params.FromToken.IsNative() {
		approveHash, err := s.signer.ApproveERC20IfNot(ctx, tx.ChainID, params.FromToken.Address, tx.To, params.Amount)
		if err != nil {
			return nil, &domain.ExecutionError{Stage: domain.StageApproving, Provider: name, Err: err}
		}
		if approveHash != "" {
			s.logger.Infof("[%s] approval confirmed: %s", name, approveHash)
		}
	}

	hash, err := s.signer.BuildAndSendTransaction(ctx, tx)
	if err != nil {
		return nil, &domain.ExecutionError{Stage: domain.StageSubmitting, Provider: name, Err: err}
	}
	if hash == "" {
		return nil, &domain.ExecutionError{Stage: domain.StageSubmitting, Provider: name, Err: domain.ErrSubmissionFailed}
	}

	receipt, err := s.signer.WaitForTransaction(ctx, tx.ChainID, hash)
	if err != nil {
		return nil, &domain.ExecutionError{Stage: domain.StageConfirming, Provider: name, Err: err}
	}
	if receipt == nil {
		return nil, &domain.ExecutionError{Stage: domain.StageConfirming, Provider: name, Err: domain.ErrReceiptNotFound}
	}

	status := domain.ExecutionFailed
	if receipt.Status == 1 {
		status = domain.ExecutionSucceeded
	}

	result := &domain.ExecutionResult{
		TransactionHash: receipt.Hash,
		Status:          status,
		ProviderName:    name,
	}
	s.record(ctx, params, result)
	return result, nil
}

// record persists the terminal outcome. Failures here must not break the
// user flow.
func (s *Service) record(ctx context.Context, params domain.SwapParams, result *domain.ExecutionResult) {
	if s.executions == nil {
		return
	}
	amountIn := decimalFromBase(params.Amount, params.FromToken.Decimals)
	_, err := s.executions.SaveExecution(ctx, &domain.ExecutionRecord{
		RequestID:    uuid.New().String(),
		ProviderName: result.ProviderName,
		FromChain:    params.FromToken.ChainID,
		FromToken:    params.FromToken.Address,
		ToChain:      params.ToToken.ChainID,
		ToToken:      params.ToToken.Address,
		AmountIn:     amountIn,
		TxHash:       result.TransactionHash,
		Status:       result.Status,
	})
	if err != nil {
		s.logger.Errorf("failed to record execution %s: %v", result.TransactionHash, err)
	}
}

func providerNames(providers []domain.SwapProvider) []string {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	return names
}
