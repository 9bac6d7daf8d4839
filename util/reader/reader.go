package reader

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// EthReader fans every read out to all of its nodes and returns the first
// successful answer. It only fails when every node failed.
type EthReader struct {
	nodes []EthereumNode
}

func NewEthReader(nodes map[string]string, timeout time.Duration) (*EthReader, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no nodes configured")
	}
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	ns := make([]EthereumNode, 0, len(nodes))
	for _, name := range names {
		ns = append(ns, NewOneNodeReader(name, nodes[name], timeout))
	}
	return &EthReader{nodes: ns}, nil
}

func NewEthReaderWithNodes(nodes ...EthereumNode) *EthReader {
	return &EthReader{nodes: nodes}
}

func (er *EthReader) Nodes() []EthereumNode {
	return er.nodes
}

func (er *EthReader) Close() {
	for _, n := range er.nodes {
		n.Close()
	}
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type result[T any] struct {
	value T
	err   error
}

// firstSuccess runs fn on every node concurrently.
func firstSuccess[T any](ctx context.Context, er *EthReader, fn func(context.Context, EthereumNode) (T, error)) (T, error) {
	var zero T
	if len(er.nodes) == 0 {
		return zero, fmt.Errorf("no nodes configured")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resCh := make(chan result[T], len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			v, err := fn(ctx, n)
			resCh <- result[T]{value: v, err: wrapError(err, n.NodeName())}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		r := <-resCh
		if r.err == nil {
			return r.value, nil
		}
		errs = append(errs, r.err)
	}
	return zero, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) ChainID(ctx context.Context) (*big.Int, error) {
	return firstSuccess(ctx, er, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.ChainID(ctx)
	})
}

func (er *EthReader) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	return firstSuccess(ctx, er, func(ctx context.Context, n EthereumNode) ([]byte, error) {
		return n.CodeAt(ctx, address)
	})
}

func (er *EthReader) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	return firstSuccess(ctx, er, func(ctx context.Context, n EthereumNode) ([]byte, error) {
		return n.CallContract(ctx, msg, block)
	})
}

func (er *EthReader) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return firstSuccess(ctx, er, func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.EstimateGas(ctx, msg)
	})
}

func (er *EthReader) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return firstSuccess(ctx, er, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.SuggestGasPrice(ctx)
	})
}

func (er *EthReader) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return firstSuccess(ctx, er, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.SuggestGasTipCap(ctx)
	})
}

func (er *EthReader) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return firstSuccess(ctx, er, func(ctx context.Context, n EthereumNode) (*types.Header, error) {
		return n.HeaderByNumber(ctx, number)
	})
}

func (er *EthReader) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	return firstSuccess(ctx, er, func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.PendingNonceAt(ctx, address)
	})
}

func (er *EthReader) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return firstSuccess(ctx, er, func(ctx context.Context, n EthereumNode) (*types.Receipt, error) {
		return n.TransactionReceipt(ctx, hash)
	})
}
