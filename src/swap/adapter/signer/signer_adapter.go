package signer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/MMN3003/metaswap/src/Infrastructure/evm"
	"github.com/MMN3003/metaswap/src/swap/domain"
)

var _ domain.Signer = (*SignerPort)(nil)

// NewSignerPort exposes the EVM wallet client as the swap module's signer.
func NewSignerPort(evmClient *evm.Client) *SignerPort {
	return &SignerPort{evm: evmClient}
}

type SignerPort struct {
	evm *evm.Client
}

func (s *SignerPort) WalletAddress() string {
	return s.evm.WalletAddress().Hex()
}

func (s *SignerPort) Family() domain.TxFamily {
	return domain.FamilyEVM
}

func (s *SignerPort) ApproveERC20IfNot(ctx context.Context, chain domain.ChainID, tokenAddress, spenderAddress string, amount *big.Int) (string, error) {
	allowance, err := s.evm.Allowance(ctx, string(chain), tokenAddress, spenderAddress)
	if err != nil {
		return "", err
	}
	if allowance.Cmp(amount) >= 0 {
		return "", nil
	}
	return s.evm.ApproveMax(ctx, string(chain), tokenAddress, spenderAddress)
}

func (s *SignerPort) BuildAndSendTransaction(ctx context.Context, tx domain.EVMTransaction) (string, error) {
	// The provider-supplied value is in native currency units; the wire
	// format wants wei.
	valueWei := tx.Value.Shift(domain.NativeTokenDecimals)
	if !valueWei.IsInteger() {
		return "", fmt.Errorf("transaction value %s has sub-wei precision", tx.Value)
	}
	return s.evm.SendTransaction(ctx, string(tx.ChainID), tx.To, tx.Data, valueWei.BigInt(), tx.GasLimit)
}

func (s *SignerPort) WaitForTransaction(ctx context.Context, chain domain.ChainID, txHash string) (*domain.TxReceipt, error) {
	receipt, err := s.evm.WaitForReceipt(ctx, string(chain), txHash)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, nil
	}
	return &domain.TxReceipt{
		Hash:   receipt.TxHash.Hex(),
		Status: receipt.Status,
	}, nil
}
