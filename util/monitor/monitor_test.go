package monitor

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedReceipts struct {
	mu      sync.Mutex
	pending int
	status  uint64
	calls   int
}

func (s *scriptedReceipts) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.pending {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{Status: s.status, TxHash: hash, BlockNumber: big.NewInt(7)}, nil
}

func TestBlockingWaitReturnsMinedReceipt(t *testing.T) {
	r := &scriptedReceipts{pending: 2, status: types.ReceiptStatusSuccessful}
	m := NewTxMonitor(r, time.Millisecond)

	hash := common.HexToHash("0x01")
	receipt, err := m.BlockingWait(context.Background(), hash)
	require.NoError(t, err)
	assert.Equal(t, hash, receipt.TxHash)
	assert.Equal(t, 3, r.calls)
}

func TestWaitReportsReverted(t *testing.T) {
	r := &scriptedReceipts{status: types.ReceiptStatusFailed}
	m := NewTxMonitor(r, time.Millisecond)

	info := <-m.MakeWaitChannel(context.Background(), common.HexToHash("0x02"))
	assert.Equal(t, "reverted", info.Status)
	assert.NoError(t, info.Err)
}

func TestBlockingWaitGivesUpWithContext(t *testing.T) {
	r := &scriptedReceipts{pending: 1 << 30}
	m := NewTxMonitor(r, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := m.BlockingWait(ctx, common.HexToHash("0x03"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
