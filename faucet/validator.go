package faucet

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/faucet/logger"
	"github.com/tranvictor/faucet/networks"
)

type Network struct {
	Name     string
	ChainID  uint64
	Expected uint64
}

// Mismatch reports whether the connected chain differs from the expected
// one. An expected id of 0 never mismatches.
func (n Network) Mismatch() bool {
	return n.Expected != 0 && n.ChainID != n.Expected
}

// CheckNetwork reads the chain id. A mismatch is logged and reported, never
// returned as an error.
func CheckNetwork(ctx context.Context, w Wallet, expected uint64) (Network, error) {
	id, err := w.ChainID(ctx)
	if err != nil {
		return Network{}, &ConnectionError{Err: fmt.Errorf("couldn't get chain id: %w", err)}
	}
	n := Network{Name: "unknown", ChainID: id.Uint64(), Expected: expected}
	if known, err := networks.GetNetworkByID(n.ChainID); err == nil {
		n.Name = known.GetName()
	}
	logger.Infow("connected to network", "name", n.Name, "chainId", n.ChainID)
	if n.Mismatch() {
		logger.Warnw("connected to unexpected network",
			"chainId", n.ChainID, "expectedChainId", expected)
	}
	return n, nil
}

// CheckContract fails with ContractNotFoundError when contract has no code.
func CheckContract(ctx context.Context, w Wallet, contract common.Address) error {
	code, err := w.CodeAt(ctx, contract)
	if err != nil {
		return &ConnectionError{Err: fmt.Errorf("couldn't get contract code: %w", err)}
	}
	logger.Debugw("contract code", "address", contract.Hex(), "size", len(code))
	if len(code) == 0 {
		return &ContractNotFoundError{Address: contract}
	}
	return nil
}
