package broadcaster

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/tranvictor/faucet/common"
	"github.com/tranvictor/faucet/logger"
)

// Broadcaster takes a signed tx and try to broadcast it to all
// nodes that it manages as fast as possible. It reports whether the tx
// reached at least 1 node.
type Broadcaster struct {
	clients map[string]*rpc.Client
	timeout time.Duration
}

func NewBroadcaster(ctx context.Context, nodes map[string]string, timeout time.Duration) (*Broadcaster, error) {
	clients := map[string]*rpc.Client{}
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		client, err := rpc.DialContext(ctx, nodes[name])
		if err != nil {
			logger.Warnw("Couldn't connect to node", "node", name, "err", err)
			continue
		}
		clients[name] = client
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("couldn't connect to any of %d nodes", len(nodes))
	}
	return &Broadcaster{clients: clients, timeout: timeout}, nil
}

func (b *Broadcaster) Close() {
	for _, c := range b.clients {
		c.Close()
	}
}

func (b *Broadcaster) broadcast(ctx context.Context, name string, client *rpc.Client, data string) error {
	if err := client.CallContext(ctx, nil, "eth_sendRawTransaction", data); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (b *Broadcaster) BroadcastTx(ctx context.Context, tx *types.Transaction) (string, bool, error) {
	data, err := tx.MarshalBinary()
	if err != nil {
		return "", false, fmt.Errorf("tx is not valid, couldn't use rlp to encode it: %w", err)
	}
	_, ok, err := b.Broadcast(ctx, hexutil.Encode(data))
	return tx.Hash().Hex(), ok, err
}

// Broadcast sends data, the hex encoded signed tx, to every node.
func (b *Broadcaster) Broadcast(ctx context.Context, data string) (int, bool, error) {
	timeout, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	parallelTasks := []func() error{}
	for name := range b.clients {
		name, cli := name, b.clients[name]
		parallelTasks = append(parallelTasks, func() error {
			return b.broadcast(timeout, name, cli, data)
		})
	}
	numErrs, err := common.RunParallel(parallelTasks...)
	if numErrs == len(b.clients) {
		return numErrs, false, err
	}
	if err != nil {
		logger.Debugw("Some nodes rejected the tx", "failed", numErrs, "err", err)
	}
	return numErrs, true, nil
}
