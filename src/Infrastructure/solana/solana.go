// Package solana wraps the little Solana RPC surface the service needs:
// SPL mint decimals lookups.
package solana

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// mintDecimalsOffset is the byte offset of the decimals field in an SPL
// mint account's data.
const mintDecimalsOffset = 44

var ErrMintNotFound = errors.New("mint account not found")

type Client struct {
	rpc *rpc.Client
}

func NewClient(rpcURL string) (*Client, error) {
	if rpcURL == "" {
		return nil, errors.New("rpc url is required")
	}
	return &Client{rpc: rpc.New(rpcURL)}, nil
}

// MintDecimals reads the decimals of an SPL token mint.
func (c *Client) MintDecimals(ctx context.Context, mintAddress string) (uint8, error) {
	mint, err := solana.PublicKeyFromBase58(mintAddress)
	if err != nil {
		return 0, fmt.Errorf("invalid mint address: %w", err)
	}

	info, err := c.rpc.GetAccountInfo(ctx, mint)
	if err != nil {
		return 0, fmt.Errorf("failed to get mint account info: %w", err)
	}
	if info.Value == nil {
		return 0, ErrMintNotFound
	}

	data := info.Value.Data.GetBinary()
	if len(data) <= mintDecimalsOffset {
		return 0, fmt.Errorf("invalid mint account data for %s", mintAddress)
	}
	return data[mintDecimalsOffset], nil
}
