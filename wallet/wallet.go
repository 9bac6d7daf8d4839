// Package wallet unlocks a local key and binds it to a set of JSON-RPC
// nodes. A Wallet reads through every node and broadcasts to all of them.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tranvictor/faucet/accounts"
	"github.com/tranvictor/faucet/faucet"
	"github.com/tranvictor/faucet/logger"
	"github.com/tranvictor/faucet/util/account"
	"github.com/tranvictor/faucet/util/broadcaster"
	"github.com/tranvictor/faucet/util/monitor"
	"github.com/tranvictor/faucet/util/reader"
)

const ImportHint = "import a key with `faucet wallet import`"

var (
	ErrUserRejected = errors.New("user rejected the transaction")
	ErrReadOnly     = errors.New("wallet is read only")
)

// PassphraseFunc asks for the passphrase of the keystore at path.
type PassphraseFunc func(path string) (string, error)

type Options struct {
	PrivateKey  string
	Keystore    string
	KeystoreDir string
	From        string

	Nodes        map[string]string
	RPCTimeout   time.Duration
	PollInterval time.Duration

	// GasLimit skips gas estimation when set.
	GasLimit      uint64
	ExtraGasLimit uint64

	Passphrase PassphraseFunc
	// ConfirmTx is shown every unsigned tx. Returning false aborts it.
	ConfirmTx func(tx *types.Transaction) bool
}

type Wallet struct {
	opts        Options
	address     common.Address
	account     *account.Account
	chainID     *big.Int
	reader      *reader.EthReader
	broadcaster *broadcaster.Broadcaster
	monitor     *monitor.TxMonitor
}

var _ faucet.Wallet = (*Wallet)(nil)

// Connect unlocks the first available key source and dials the nodes.
// Key sources, in order: private key, keystore file, keystore directory.
func Connect(ctx context.Context, opts Options) (*Wallet, error) {
	acc, err := unlock(opts)
	if err != nil {
		return nil, err
	}
	w, err := dial(ctx, opts)
	if err != nil {
		return nil, err
	}
	w.account = acc
	w.address = acc.Address()
	bc, err := broadcaster.NewBroadcaster(ctx, opts.Nodes, opts.RPCTimeout)
	if err != nil {
		w.Close()
		return nil, &faucet.ConnectionError{Err: err}
	}
	w.broadcaster = bc
	logger.Infow("wallet connected", "address", w.address.Hex(), "chainId", w.chainID)
	return w, nil
}

// NewReadOnly dials the nodes for an address without unlocking any key.
func NewReadOnly(ctx context.Context, address common.Address, opts Options) (*Wallet, error) {
	w, err := dial(ctx, opts)
	if err != nil {
		return nil, err
	}
	w.address = address
	return w, nil
}

func dial(ctx context.Context, opts Options) (*Wallet, error) {
	r, err := reader.NewEthReader(opts.Nodes, opts.RPCTimeout)
	if err != nil {
		return nil, &faucet.ConnectionError{Err: err}
	}
	chainID, err := r.ChainID(ctx)
	if err != nil {
		r.Close()
		return nil, &faucet.ConnectionError{Err: err}
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Wallet{
		opts:    opts,
		chainID: chainID,
		reader:  r,
		monitor: monitor.NewTxMonitor(r, interval),
	}, nil
}

func unlock(opts Options) (*account.Account, error) {
	if opts.PrivateKey != "" {
		acc, err := account.NewPrivateKeyAccount(opts.PrivateKey)
		if err != nil {
			return nil, &faucet.ConnectionError{Err: err}
		}
		return acc, nil
	}

	path := opts.Keystore
	if path == "" {
		accs, err := accounts.ListKeystores(opts.KeystoreDir)
		if err != nil {
			return nil, &faucet.ConnectionError{Err: err}
		}
		if len(accs) == 0 {
			return nil, &faucet.NoWalletError{Hint: ImportHint}
		}
		desc, err := accounts.FindKeystore(opts.KeystoreDir, opts.From)
		if err != nil {
			return nil, &faucet.NoWalletError{Hint: err.Error()}
		}
		path = desc.Keypath
	}

	if opts.Passphrase == nil {
		return nil, &faucet.ConnectionError{Err: fmt.Errorf("no way to ask the passphrase of %s", path)}
	}
	pwd, err := opts.Passphrase(path)
	if err != nil {
		return nil, &faucet.ConnectionError{Err: err}
	}
	acc, err := account.NewKeystoreAccount(path, pwd)
	if err != nil {
		return nil, &faucet.ConnectionError{Err: fmt.Errorf("unlocking keystore %s failed: %w", path, err)}
	}
	return acc, nil
}

func (w *Wallet) Address() common.Address {
	return w.address
}

func (w *Wallet) ChainID(ctx context.Context) (*big.Int, error) {
	return w.reader.ChainID(ctx)
}

func (w *Wallet) CodeAt(ctx context.Context, contract common.Address) ([]byte, error) {
	return w.reader.CodeAt(ctx, contract)
}

func (w *Wallet) Call(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	return w.reader.CallContract(ctx, msg, block)
}

func (w *Wallet) Transact(ctx context.Context, to common.Address, data []byte) (*types.Transaction, error) {
	if w.account == nil {
		return nil, ErrReadOnly
	}
	gas := w.opts.GasLimit
	if gas == 0 {
		estimated, err := w.reader.EstimateGas(ctx, ethereum.CallMsg{
			From: w.address,
			To:   &to,
			Data: data,
		})
		if err != nil {
			return nil, fmt.Errorf("couldn't estimate gas: %w", err)
		}
		gas = estimated + w.opts.ExtraGasLimit
	}
	nonce, err := w.reader.PendingNonceAt(ctx, w.address)
	if err != nil {
		return nil, fmt.Errorf("couldn't get nonce: %w", err)
	}
	tx, err := w.buildTx(ctx, nonce, to, gas, data)
	if err != nil {
		return nil, err
	}
	if w.opts.ConfirmTx != nil && !w.opts.ConfirmTx(tx) {
		return nil, ErrUserRejected
	}

	signed, err := w.account.SignTx(tx, w.chainID)
	if err != nil {
		return nil, err
	}
	hash, ok, err := w.broadcaster.BroadcastTx(ctx, signed)
	if !ok {
		return nil, fmt.Errorf("couldn't broadcast tx %s: %w", hash, err)
	}
	logger.Infow("tx broadcasted", "tx", hash, "nonce", nonce, "gas", gas)
	return signed, nil
}

// buildTx makes a dynamic fee tx when the chain reports a base fee and a
// legacy tx otherwise.
func (w *Wallet) buildTx(ctx context.Context, nonce uint64, to common.Address, gas uint64, data []byte) (*types.Transaction, error) {
	head, err := w.reader.HeaderByNumber(ctx, nil)
	if err != nil {
		logger.Debugw("couldn't get latest header, using legacy tx", "err", err)
	}
	if err == nil && head.BaseFee != nil {
		tip, err := w.reader.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, fmt.Errorf("couldn't get gas tip: %w", err)
		}
		feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   w.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gas,
			To:        &to,
			Value:     big.NewInt(0),
			Data:      data,
		}), nil
	}
	price, err := w.reader.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("couldn't get gas price: %w", err)
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: price,
		Gas:      gas,
		To:       &to,
		Value:    big.NewInt(0),
		Data:     data,
	}), nil
}

func (w *Wallet) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return w.monitor.BlockingWait(ctx, tx.Hash())
}

func (w *Wallet) Close() {
	if w.broadcaster != nil {
		w.broadcaster.Close()
	}
	w.reader.Close()
}
