package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tranvictor/faucet/logger"
)

type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

type TxInfo struct {
	Status  string // "done", "reverted" or "error"
	Receipt *types.Receipt
	Err     error
}

// TxMonitor polls the chain until a tx is mined or its context ends.
type TxMonitor struct {
	reader   ReceiptReader
	interval time.Duration
}

func NewTxMonitor(r ReceiptReader, interval time.Duration) *TxMonitor {
	return &TxMonitor{reader: r, interval: interval}
}

func (m *TxMonitor) periodicCheck(ctx context.Context, tx common.Hash, info chan<- TxInfo) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		receipt, err := m.reader.TransactionReceipt(ctx, tx)
		switch {
		case err == nil && receipt != nil:
			status := "done"
			if receipt.Status != types.ReceiptStatusSuccessful {
				status = "reverted"
			}
			info <- TxInfo{Status: status, Receipt: receipt}
			return
		case err != nil && !errors.Is(err, ethereum.NotFound):
			logger.Debugw("Couldn't get receipt yet", "tx", tx.Hex(), "err", err)
		}

		select {
		case <-ctx.Done():
			info <- TxInfo{Status: "error", Err: fmt.Errorf("gave up waiting for tx %s: %w", tx.Hex(), ctx.Err())}
			return
		case <-ticker.C:
		}
	}
}

func (m *TxMonitor) MakeWaitChannel(ctx context.Context, tx common.Hash) <-chan TxInfo {
	result := make(chan TxInfo, 1)
	go m.periodicCheck(ctx, tx, result)
	return result
}

// BlockingWait returns the receipt of a mined tx, reverted or not.
func (m *TxMonitor) BlockingWait(ctx context.Context, tx common.Hash) (*types.Receipt, error) {
	info := <-m.MakeWaitChannel(ctx, tx)
	if info.Err != nil {
		return nil, info.Err
	}
	return info.Receipt, nil
}
