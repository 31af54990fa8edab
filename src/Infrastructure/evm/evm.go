// Package evm encapsulates every direct EVM-chain interaction: the hot
// wallet, ERC-20 metadata and allowance calls, approvals, and raw
// transaction submission/confirmation.
package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const erc20ABI = `[
	{
		"constant": false,
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "decimals",
		"outputs": [{"name": "", "type": "uint8"}],
		"type": "function"
	}
]`

// Errors
var (
	ErrMissingEnvVars    = errors.New("missing required environment variables")
	ErrConnectNetwork    = errors.New("failed to connect to network")
	ErrInvalidPrivateKey = errors.New("failed to parse private key")
	ErrParseABI          = errors.New("failed to parse ABI")
	ErrUnsupportedChain  = errors.New("no RPC endpoint configured for chain")
	ErrContractCall      = errors.New("failed to call contract function")
	ErrSendTransaction   = errors.New("failed to send transaction")
	ErrMineTransaction   = errors.New("failed to mine transaction")
)

// MaxUint256 is the approval amount used for every allowance grant, so a
// token/spender pair only ever needs one approval.
var MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Config holds the hot wallet key and one RPC endpoint per chain id.
type Config struct {
	PrivateKey string
	RPCURLs    map[string]string

	// ReceiptPollInterval controls how often WaitForReceipt polls.
	ReceiptPollInterval time.Duration
}

// Client encapsulates the wallet and its per-chain RPC connections.
type Client struct {
	clients    map[string]*ethclient.Client
	chainIDs   map[string]*big.Int
	wallet     common.Address
	privateKey *ecdsa.PrivateKey
	erc20      abi.ABI
	poll       time.Duration
}

func NewClient(ctx context.Context, config Config) (*Client, error) {
	if config.PrivateKey == "" || len(config.RPCURLs) == 0 {
		return nil, fmt.Errorf("%w: SIGNER_PRIVATE_KEY or SIGNER_RPC_URLS", ErrMissingEnvVars)
	}

	key := strings.TrimPrefix(config.PrivateKey, "0x")
	privateKey, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	wallet := crypto.PubkeyToAddress(privateKey.PublicKey)

	erc20Parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("%w: ERC20 ABI: %v", ErrParseABI, err)
	}

	clients := make(map[string]*ethclient.Client, len(config.RPCURLs))
	chainIDs := make(map[string]*big.Int, len(config.RPCURLs))
	for chain, rpcURL := range config.RPCURLs {
		client, err := ethclient.DialContext(ctx, rpcURL)
		if err != nil {
			for _, c := range clients {
				c.Close()
			}
			return nil, fmt.Errorf("%w: chain %s: %v", ErrConnectNetwork, chain, err)
		}
		id, ok := new(big.Int).SetString(chain, 10)
		if !ok {
			client.Close()
			return nil, fmt.Errorf("%w: non-numeric chain id %q", ErrConnectNetwork, chain)
		}
		clients[chain] = client
		chainIDs[chain] = id
	}

	poll := config.ReceiptPollInterval
	if poll == 0 {
		poll = 2 * time.Second
	}

	return &Client{
		clients:    clients,
		chainIDs:   chainIDs,
		wallet:     wallet,
		privateKey: privateKey,
		erc20:      erc20Parsed,
		poll:       poll,
	}, nil
}

func (c *Client) Close() {
	for _, client := range c.clients {
		client.Close()
	}
}

func (c *Client) WalletAddress() common.Address { return c.wallet }

func (c *Client) clientFor(chain string) (*ethclient.Client, *big.Int, error) {
	client, ok := c.clients[chain]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}
	return client, c.chainIDs[chain], nil
}

// Decimals calls decimals() on an ERC-20 contract.
func (c *Client) Decimals(ctx context.Context, chain, tokenAddress string) (uint8, error) {
	client, _, err := c.clientFor(chain)
	if err != nil {
		return 0, err
	}

	data, err := c.erc20.Pack("decimals")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrContractCall, err)
	}

	token := common.HexToAddress(tokenAddress)
	raw, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: decimals(%s): %v", ErrContractCall, tokenAddress, err)
	}

	out, err := c.erc20.Unpack("decimals", raw)
	if err != nil || len(out) == 0 {
		return 0, fmt.Errorf("%w: decode decimals(%s): %v", ErrContractCall, tokenAddress, err)
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("%w: decimals(%s) returned unexpected type", ErrContractCall, tokenAddress)
	}
	return decimals, nil
}

// Allowance calls allowance(wallet, spender) on an ERC-20 contract.
func (c *Client) Allowance(ctx context.Context, chain, tokenAddress, spenderAddress string) (*big.Int, error) {
	client, _, err := c.clientFor(chain)
	if err != nil {
		return nil, err
	}

	data, err := c.erc20.Pack("allowance", c.wallet, common.HexToAddress(spenderAddress))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContractCall, err)
	}

	token := common.HexToAddress(tokenAddress)
	raw, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: allowance(%s): %v", ErrContractCall, tokenAddress, err)
	}

	out, err := c.erc20.Unpack("allowance", raw)
	if err != nil || len(out) == 0 {
		return nil, fmt.Errorf("%w: decode allowance(%s): %v", ErrContractCall, tokenAddress, err)
	}
	allowance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: allowance(%s) returned unexpected type", ErrContractCall, tokenAddress)
	}
	return allowance, nil
}

// ApproveMax grants the spender a max-uint256 allowance and waits for the
// approval to mine.
func (c *Client) ApproveMax(ctx context.Context, chain, tokenAddress, spenderAddress string) (string, error) {
	data, err := c.erc20.Pack("approve", common.HexToAddress(spenderAddress), MaxUint256)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrContractCall, err)
	}

	hash, err := c.SendTransaction(ctx, chain, tokenAddress, data, big.NewInt(0), 0)
	if err != nil {
		return "", err
	}

	receipt, err := c.WaitForReceipt(ctx, chain, hash)
	if err != nil {
		return "", err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("%w: approval %s reverted", ErrMineTransaction, hash)
	}
	return hash, nil
}

// SendTransaction signs and broadcasts a legacy transaction from the hot
// wallet. A zero gasLimit means "estimate with a 20% buffer".
func (c *Client) SendTransaction(ctx context.Context, chain, to string, data []byte, valueWei *big.Int, gasLimit uint64) (string, error) {
	client, chainID, err := c.clientFor(chain)
	if err != nil {
		return "", err
	}

	toAddr := common.HexToAddress(to)

	nonce, err := client.PendingNonceAt(ctx, c.wallet)
	if err != nil {
		return "", fmt.Errorf("%w: nonce: %v", ErrSendTransaction, err)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: gas price: %v", ErrSendTransaction, err)
	}

	if gasLimit == 0 {
		estimated, err := client.EstimateGas(ctx, ethereum.CallMsg{
			From:  c.wallet,
			To:    &toAddr,
			Value: valueWei,
			Data:  data,
		})
		if err != nil {
			return "", fmt.Errorf("%w: gas estimate: %v", ErrSendTransaction, err)
		}
		gasLimit = estimated * 120 / 100
	}

	tx := types.NewTransaction(nonce, toAddr, valueWei, gasLimit, gasPrice, data)
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), c.privateKey)
	if err != nil {
		return "", fmt.Errorf("%w: sign: %v", ErrSendTransaction, err)
	}

	if err := client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendTransaction, err)
	}
	return signedTx.Hash().Hex(), nil
}

// WaitForReceipt polls for the receipt of a submitted hash until the
// context expires.
func (c *Client) WaitForReceipt(ctx context.Context, chain, txHash string) (*types.Receipt, error) {
	client, _, err := c.clientFor(chain)
	if err != nil {
		return nil, err
	}

	hash := common.HexToHash(txHash)
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		receipt, err := client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("%w: %v", ErrMineTransaction, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrMineTransaction, txHash, ctx.Err())
		case <-ticker.C:
		}
	}
}
