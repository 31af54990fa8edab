package provider

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MMN3003/metaswap/src/Infrastructure/kyber"
	"github.com/MMN3003/metaswap/src/logger"
	"github.com/MMN3003/metaswap/src/swap/domain"
)

// kyberChainNames maps domain chain ids to Kyber's path segments.
var kyberChainNames = map[domain.ChainID]string{
	domain.ChainEthereum:  "ethereum",
	domain.ChainOptimism:  "optimism",
	domain.ChainBSC:       "bsc",
	domain.ChainPolygon:   "polygon",
	domain.ChainBase:      "base",
	domain.ChainArbitrum:  "arbitrum",
	domain.ChainAvalanche: "avalanche",
}

type KyberProvider struct {
	client *kyber.Client
	logger *logger.Logger
}

var _ domain.SwapProvider = (*KyberProvider)(nil)

func NewKyberProvider(client *kyber.Client, l *logger.Logger) *KyberProvider {
	return &KyberProvider{client: client, logger: l}
}

func (p *KyberProvider) Name() string { return "kyber" }

func (p *KyberProvider) SupportedChains() []domain.ChainID {
	return []domain.ChainID{
		domain.ChainEthereum,
		domain.ChainOptimism,
		domain.ChainBSC,
		domain.ChainPolygon,
		domain.ChainBase,
		domain.ChainArbitrum,
		domain.ChainAvalanche,
	}
}

// IsInit is config-only: Kyber's route endpoints need no credentials.
func (p *KyberProvider) IsInit(_ context.Context) (bool, error) {
	return p.client != nil, nil
}

func (p *KyberProvider) IsSwapSupported(_ context.Context, from, to domain.TokenRef) (bool, error) {
	if from.ChainID != to.ChainID {
		return false, nil
	}
	_, ok := kyberChainNames[from.ChainID]
	return ok, nil
}

func (p *KyberProvider) GetSwapQuote(ctx context.Context, params domain.SwapParams) (*domain.SwapQuote, error) {
	chainName, ok := kyberChainNames[params.FromToken.ChainID]
	if !ok {
		return nil, fmt.Errorf("kyber: unsupported chain %s", params.FromToken.ChainID)
	}

	routes, err := p.client.GetRoutes(ctx, chainName,
		params.FromToken.Address, params.ToToken.Address, params.Amount.String())
	if err != nil {
		return nil, err
	}

	out, err := parseBigInt(routes.RouteSummary.AmountOut)
	if err != nil {
		return nil, fmt.Errorf("kyber amountOut: %w", err)
	}

	fee := decimal.Zero
	if routes.RouteSummary.GasUSD != "" {
		if fee, err = decimal.NewFromString(routes.RouteSummary.GasUSD); err != nil {
			return nil, fmt.Errorf("kyber gasUsd: %w", err)
		}
	}

	return &domain.SwapQuote{
		OutputAmount: out,
		Fee:          fee,
		EstimatedGas: parseGas(routes.RouteSummary.Gas),
	}, nil
}

func (p *KyberProvider) GetUnsignedTransaction(ctx context.Context, params domain.SwapParams) (domain.UnsignedTransaction, error) {
	chainName, ok := kyberChainNames[params.FromToken.ChainID]
	if !ok {
		return nil, fmt.Errorf("kyber: unsupported chain %s", params.FromToken.ChainID)
	}

	routes, err := p.client.GetRoutes(ctx, chainName,
		params.FromToken.Address, params.ToToken.Address, params.Amount.String())
	if err != nil {
		return nil, err
	}

	built, err := p.client.BuildRoute(ctx, chainName, kyber.BuildRouteRequest{
		RouteSummary:      routes.RouteSummary,
		Sender:            params.Recipient,
		Recipient:         params.Recipient,
		SlippageTolerance: params.Slippage.Mul(decimal.NewFromInt(100)).IntPart(),
	})
	if err != nil {
		return nil, err
	}

	calldata, err := parseHexData(built.Data)
	if err != nil {
		return nil, fmt.Errorf("kyber calldata: %w", err)
	}
	value, err := weiToNative(built.TransactionValue)
	if err != nil {
		return nil, fmt.Errorf("kyber tx value: %w", err)
	}

	return domain.EVMTransaction{
		ChainID:  params.FromToken.ChainID,
		To:       built.RouterAddress,
		Data:     calldata,
		Value:    value,
		GasLimit: parseGas(built.Gas),
	}, nil
}
