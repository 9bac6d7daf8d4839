package faucet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Wallet is a connected account plus the chain access it was connected
// through.
type Wallet interface {
	Address() common.Address
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, contract common.Address) ([]byte, error)
	// Call executes a read-only call. A nil block means latest.
	Call(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error)
	// Transact signs and broadcasts a transaction calling to with data.
	Transact(ctx context.Context, to common.Address, data []byte) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	Close()
}

// Connector connects a wallet. It is invoked once per Load.
type Connector func(ctx context.Context) (Wallet, error)
