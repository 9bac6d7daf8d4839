package faucet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	fcommon "github.com/tranvictor/faucet/common"
	"github.com/tranvictor/faucet/logger"
)

// ReadBalance calls getBalance(who) on the faucet contract.
func ReadBalance(ctx context.Context, w Wallet, contract, who common.Address) (*big.Int, error) {
	data, err := packGetBalance(who)
	if err != nil {
		return nil, &BalanceReadError{Address: who, Err: err}
	}
	out, err := w.Call(ctx, ethereum.CallMsg{
		From: w.Address(),
		To:   &contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, &BalanceReadError{Address: who, Err: err}
	}
	amount, err := unpackBalance(out)
	if err != nil {
		return nil, &BalanceReadError{Address: who, Err: err}
	}
	logger.Debugw("balance read", "address", who.Hex(), "amount", amount.String())
	return amount, nil
}

// Reading is the outcome of one balance read. Exactly one of Amount and Err
// is set once a read completed; both are nil before the first read.
type Reading struct {
	Amount *big.Int
	Err    error
}

func (r Reading) OK() bool {
	return r.Err == nil && r.Amount != nil
}

// Text is the amount in whole tokens, or "" when there is none.
func (r Reading) Text() string {
	if !r.OK() {
		return ""
	}
	return fcommon.FormatUnits(r.Amount, fcommon.TokenDecimals)
}
