// Package provider adapts aggregator API clients to the swap domain's
// SwapProvider contract. Each adapter owns the mapping between domain
// chain ids and the vendor's addressing scheme, and the translation of
// vendor payloads into domain quotes and unsigned transactions.
package provider

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MMN3003/metaswap/src/swap/domain"
)

func parseBigInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not a base-10 integer: %q", s)
	}
	return v, nil
}

func parseHexData(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("bad calldata hex: %w", err)
	}
	return b, nil
}

// weiToNative converts a base-unit value string into native currency
// units. Empty and "0" both mean no attached value.
func weiToNative(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := parseBigInt(s)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(v, -int32(domain.NativeTokenDecimals)), nil
}

func parseGas(s string) uint64 {
	if s == "" {
		return 0
	}
	g, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return g
}

func containsChain(chains []domain.ChainID, c domain.ChainID) bool {
	for _, x := range chains {
		if x == c {
			return true
		}
	}
	return false
}

// sameChainPair enforces that both legs live on one supported chain.
// None of the adapted aggregators route across chains.
func sameChainPair(chains []domain.ChainID, from, to domain.TokenRef) bool {
	return from.ChainID == to.ChainID && containsChain(chains, from.ChainID)
}

// baseToHuman renders a base-unit amount as a human-readable decimal
// string, for vendors that refuse base units in requests.
func baseToHuman(amount *big.Int, decimals int) string {
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}
