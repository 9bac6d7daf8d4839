package cmd

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/faucet/wallet"
)

func newReadOnlyForTest(opts wallet.Options) (*wallet.Wallet, error) {
	return wallet.NewReadOnly(context.Background(), common.Address{}, opts)
}
