package provider

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MMN3003/metaswap/src/Infrastructure/openocean"
	"github.com/MMN3003/metaswap/src/logger"
	"github.com/MMN3003/metaswap/src/swap/domain"
)

// openoceanChainNames maps domain chain ids to OpenOcean's path segments.
var openoceanChainNames = map[domain.ChainID]string{
	domain.ChainEthereum:  "eth",
	domain.ChainOptimism:  "optimism",
	domain.ChainBSC:       "bsc",
	domain.ChainPolygon:   "polygon",
	domain.ChainBase:      "base",
	domain.ChainArbitrum:  "arbitrum",
	domain.ChainAvalanche: "avax",
}

type OpenOceanProvider struct {
	client *openocean.Client
	logger *logger.Logger
}

var _ domain.SwapProvider = (*OpenOceanProvider)(nil)

func NewOpenOceanProvider(client *openocean.Client, l *logger.Logger) *OpenOceanProvider {
	return &OpenOceanProvider{client: client, logger: l}
}

func (p *OpenOceanProvider) Name() string { return "openocean" }

func (p *OpenOceanProvider) SupportedChains() []domain.ChainID {
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

// IsInit is config-only: the public endpoints work without a key.
func (p *OpenOceanProvider) IsInit(_ context.Context) (bool, error) {
	return p.client != nil, nil
}

func (p *OpenOceanProvider) IsSwapSupported(_ context.Context, from, to domain.TokenRef) (bool, error) {
	if from.ChainID != to.ChainID {
		return false, nil
	}
	_, ok := openoceanChainNames[from.ChainID]
	return ok, nil
}

func (p *OpenOceanProvider) GetSwapQuote(ctx context.Context, params domain.SwapParams) (*domain.SwapQuote, error) {
	chainName, ok := openoceanChainNames[params.FromToken.ChainID]
	if !ok {
		return nil, fmt.Errorf("openocean: unsupported chain %s", params.FromToken.ChainID)
	}

	data, err := p.client.GetQuote(ctx, openocean.QuoteRequest{
		ChainName:       chainName,
		InTokenAddress:  params.FromToken.Address,
		OutTokenAddress: params.ToToken.Address,
		Amount:          baseToHuman(params.Amount, params.FromToken.Decimals),
		Slippage:        params.Slippage.String(),
	})
	if err != nil {
		return nil, err
	}

	out, err := parseBigInt(data.OutAmount)
	if err != nil {
		return nil, fmt.Errorf("openocean outAmount: %w", err)
	}

	return &domain.SwapQuote{
		OutputAmount: out,
		Fee:          decimal.Zero,
		EstimatedGas: data.EstimatedGas,
	}, nil
}

func (p *OpenOceanProvider) GetUnsignedTransaction(ctx context.Context, params domain.SwapParams) (domain.UnsignedTransaction, error) {
	chainName, ok := openoceanChainNames[params.FromToken.ChainID]
	if !ok {
		return nil, fmt.Errorf("openocean: unsupported chain %s", params.FromToken.ChainID)
	}

	data, err := p.client.GetSwapQuote(ctx, openocean.SwapRequest{
		QuoteRequest: openocean.QuoteRequest{
			ChainName:       chainName,
			InTokenAddress:  params.FromToken.Address,
			OutTokenAddress: params.ToToken.Address,
			Amount:          baseToHuman(params.Amount, params.FromToken.Decimals),
			Slippage:        params.Slippage.String(),
		},
		Account: params.Recipient,
	})
	if err != nil {
		return nil, err
	}

	calldata, err := parseHexData(data.Data)
	if err != nil {
		return nil, fmt.Errorf("openocean calldata: %w", err)
	}
	value, err := weiToNative(data.Value)
	if err != nil {
		return nil, fmt.Errorf("openocean tx value: %w", err)
	}

	return domain.EVMTransaction{
		ChainID:  params.FromToken.ChainID,
		To:       data.To,
		Data:     calldata,
		Value:    value,
		GasLimit: data.EstimatedGas,
	}, nil
}
