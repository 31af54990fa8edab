package provider

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MMN3003/metaswap/src/Infrastructure/oneinch"
	"github.com/MMN3003/metaswap/src/logger"
	"github.com/MMN3003/metaswap/src/swap/domain"
)

var oneinchChains = []domain.ChainID{
	domain.ChainEthereum,
	domain.ChainOptimism,
	domain.ChainBSC,
	domain.ChainPolygon,
	domain.ChainBase,
	domain.ChainArbitrum,
	domain.ChainAvalanche,
}

type OneInchProvider struct {
	client *oneinch.Client
	logger *logger.Logger
}

var _ domain.SwapProvider = (*OneInchProvider)(nil)

func NewOneInchProvider(client *oneinch.Client, l *logger.Logger) *OneInchProvider {
	return &OneInchProvider{client: client, logger: l}
}

func (p *OneInchProvider) Name() string { return "1inch" }

func (p *OneInchProvider) SupportedChains() []domain.ChainID { return oneinchChains }

// IsInit requires an API key: every v6 endpoint rejects anonymous calls.
func (p *OneInchProvider) IsInit(_ context.Context) (bool, error) {
	return p.client.HasAPIKey(), nil
}

func (p *OneInchProvider) IsSwapSupported(_ context.Context, from, to domain.TokenRef) (bool, error) {
	return sameChainPair(oneinchChains, from, to), nil
}

func (p *OneInchProvider) GetSwapQuote(ctx context.Context, params domain.SwapParams) (*domain.SwapQuote, error) {
	data, err := p.client.GetQuote(ctx, string(params.FromToken.ChainID),
		params.FromToken.Address, params.ToToken.Address, params.Amount.String())
	if err != nil {
		return nil, err
	}

	out, err := parseBigInt(data.DstAmount)
	if err != nil {
		return nil, fmt.Errorf("1inch dstAmount: %w", err)
	}

	return &domain.SwapQuote{
		OutputAmount: out,
		Fee:          decimal.Zero,
		EstimatedGas: data.Gas,
	}, nil
}

func (p *OneInchProvider) GetUnsignedTransaction(ctx context.Context, params domain.SwapParams) (domain.UnsignedTransaction, error) {
	slippage, _ := params.Slippage.Float64()

	data, err := p.client.GetSwap(ctx, string(params.FromToken.ChainID),
		params.FromToken.Address, params.ToToken.Address, params.Amount.String(),
		params.Recipient, slippage)
	if err != nil {
		return nil, err
	}

	calldata, err := parseHexData(data.Tx.Data)
	if err != nil {
		return nil, fmt.Errorf("1inch calldata: %w", err)
	}
	value, err := weiToNative(data.Tx.Value)
	if err != nil {
		return nil, fmt.Errorf("1inch tx value: %w", err)
	}

	return domain.EVMTransaction{
		ChainID:  params.FromToken.ChainID,
		To:       data.Tx.To,
		Data:     calldata,
		Value:    value,
		GasLimit: data.Tx.Gas,
	}, nil
}
