package provider

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/MMN3003/metaswap/src/Infrastructure/okx"
	"github.com/MMN3003/metaswap/src/logger"
	"github.com/MMN3003/metaswap/src/swap/domain"
)

// okxChains is the subset of OKX DEX aggregator chains this service
// routes to. OKX is the only adapted provider with Solana coverage.
var okxChains = []domain.ChainID{
	domain.ChainEthereum,
	domain.ChainOptimism,
	domain.ChainBSC,
	domain.ChainPolygon,
	domain.ChainBase,
	domain.ChainArbitrum,
	domain.ChainAvalanche,
	domain.ChainSolana,
}

type OKXProvider struct {
	client *okx.Client
	logger *logger.Logger
}

var _ domain.SwapProvider = (*OKXProvider)(nil)

func NewOKXProvider(client *okx.Client, l *logger.Logger) *OKXProvider {
	return &OKXProvider{client: client, logger: l}
}

func (p *OKXProvider) Name() string { return "okx" }

func (p *OKXProvider) SupportedChains() []domain.ChainID { return okxChains }

// IsInit requires signing credentials and a reachable aggregator API.
func (p *OKXProvider) IsInit(ctx context.Context) (bool, error) {
	if !p.client.HasCredentials() {
		return false, nil
	}
	if _, err := p.client.GetSupportedChains(ctx); err != nil {
		return false, fmt.Errorf("okx chain listing: %w", err)
	}
	return true, nil
}

func (p *OKXProvider) IsSwapSupported(_ context.Context, from, to domain.TokenRef) (bool, error) {
	return sameChainPair(okxChains, from, to), nil
}

func (p *OKXProvider) GetSwapQuote(ctx context.Context, params domain.SwapParams) (*domain.SwapQuote, error) {
	data, err := p.client.GetQuote(ctx, okx.QuoteRequest{
		ChainID:          string(params.FromToken.ChainID),
		FromTokenAddress: params.FromToken.Address,
		ToTokenAddress:   params.ToToken.Address,
		Amount:           params.Amount.String(),
	})
	if err != nil {
		return nil, err
	}

	out, err := parseBigInt(data.ToTokenAmount)
	if err != nil {
		return nil, fmt.Errorf("okx toTokenAmount: %w", err)
	}

	fee := decimal.Zero
	if data.TradeFee != "" {
		if fee, err = decimal.NewFromString(data.TradeFee); err != nil {
			return nil, fmt.Errorf("okx tradeFee: %w", err)
		}
	}

	return &domain.SwapQuote{
		OutputAmount: out,
		Fee:          fee,
		EstimatedGas: parseGas(data.EstimateGasFee),
	}, nil
}

func (p *OKXProvider) GetUnsignedTransaction(ctx context.Context, params domain.SwapParams) (domain.UnsignedTransaction, error) {
	data, err := p.client.GetSwapTransaction(ctx, okx.SwapRequest{
		QuoteRequest: okx.QuoteRequest{
			ChainID:          string(params.FromToken.ChainID),
			FromTokenAddress: params.FromToken.Address,
			ToTokenAddress:   params.ToToken.Address,
			Amount:           params.Amount.String(),
		},
		SlippagePercent:   params.Slippage.String(),
		UserWalletAddress: params.Recipient,
	})
	if err != nil {
		return nil, err
	}

	if params.FromToken.ChainID.Family() == domain.FamilySolana {
		// OKX returns a fully serialized Solana transaction in the data
		// field. Reject garbage before it reaches the signer.
		if _, err := solana.TransactionFromBase64(data.Tx.Data); err != nil {
			return nil, fmt.Errorf("okx solana payload: %w", err)
		}
		return domain.SolanaTransaction{
			ChainID:          params.FromToken.ChainID,
			SerializedBase64: data.Tx.Data,
		}, nil
	}

	calldata, err := parseHexData(data.Tx.Data)
	if err != nil {
		return nil, fmt.Errorf("okx calldata: %w", err)
	}
	value, err := weiToNative(data.Tx.Value)
	if err != nil {
		return nil, fmt.Errorf("okx tx value: %w", err)
	}

	return domain.EVMTransaction{
		ChainID:  params.FromToken.ChainID,
		To:       data.Tx.To,
		Data:     calldata,
		Value:    value,
		GasLimit: parseGas(data.Tx.Gas),
	}, nil
}
