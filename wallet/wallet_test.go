package wallet

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	gethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/faucet/accounts"
	"github.com/tranvictor/faucet/faucet"
	"github.com/tranvictor/faucet/logger/loggertest"
	"github.com/tranvictor/faucet/util/rpctest"
)

const (
	devKey  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	chainID = 12227332
)

var (
	devAddress = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	contract   = common.HexToAddress("0x868491ee560156dfB0CEE6b5E2bf3191F1D0B180")
)

func init() {
	accounts.ScryptN = gethkeystore.LightScryptN
	accounts.ScryptP = gethkeystore.LightScryptP
}

// newNode serves the calls Connect and a legacy Transact need.
func newNode(t *testing.T) (*rpctest.Server, *[]string) {
	loggertest.Use(t)
	srv := rpctest.NewServer(t)
	srv.Result("eth_chainId", hexutil.EncodeUint64(chainID))
	srv.Result("eth_estimateGas", hexutil.EncodeUint64(30000))
	srv.Result("eth_getTransactionCount", hexutil.EncodeUint64(3))
	srv.Result("eth_gasPrice", hexutil.EncodeUint64(1000000000))
	srv.Fail("eth_getBlockByNumber", &rpctest.Error{Code: -32000, Message: "header not available"})

	var mu sync.Mutex
	sent := []string{}
	srv.Handle("eth_sendRawTransaction", func(params []json.RawMessage) (interface{}, *rpctest.Error) {
		var raw string
		if err := json.Unmarshal(params[0], &raw); err != nil {
			return nil, &rpctest.Error{Code: -32602, Message: err.Error()}
		}
		mu.Lock()
		defer mu.Unlock()
		sent = append(sent, raw)
		tx := new(types.Transaction)
		if err := tx.UnmarshalBinary(common.FromHex(raw)); err != nil {
			return nil, &rpctest.Error{Code: -32602, Message: err.Error()}
		}
		return tx.Hash().Hex(), nil
	})
	return srv, &sent
}

func options(srv *rpctest.Server) Options {
	return Options{
		PrivateKey:    devKey,
		Nodes:         map[string]string{"test": srv.URL},
		RPCTimeout:    time.Second,
		PollInterval:  5 * time.Millisecond,
		ExtraGasLimit: 50000,
	}
}

func TestConnectWithoutKeySource(t *testing.T) {
	srv, _ := newNode(t)
	opts := options(srv)
	opts.PrivateKey = ""
	opts.KeystoreDir = t.TempDir()

	_, err := Connect(context.Background(), opts)
	var noWallet *faucet.NoWalletError
	require.ErrorAs(t, err, &noWallet)
	assert.Equal(t, ImportHint, noWallet.Hint)
}

func TestConnectUnknownFrom(t *testing.T) {
	srv, _ := newNode(t)
	dir := t.TempDir()
	_, err := accounts.StorePrivateKeyWithKeystore(dir, devKey, "pass")
	require.NoError(t, err)

	opts := options(srv)
	opts.PrivateKey = ""
	opts.KeystoreDir = dir
	opts.From = "0x0000000000000000000000000000000000000001"

	_, err = Connect(context.Background(), opts)
	var noWallet *faucet.NoWalletError
	require.ErrorAs(t, err, &noWallet)
}

func TestConnectWithKeystore(t *testing.T) {
	srv, _ := newNode(t)
	dir := t.TempDir()
	_, err := accounts.StorePrivateKeyWithKeystore(dir, devKey, "pass")
	require.NoError(t, err)

	opts := options(srv)
	opts.PrivateKey = ""
	opts.KeystoreDir = dir

	opts.Passphrase = func(string) (string, error) { return "wrong", nil }
	_, err = Connect(context.Background(), opts)
	var conn *faucet.ConnectionError
	require.ErrorAs(t, err, &conn)

	var asked string
	opts.Passphrase = func(path string) (string, error) {
		asked = path
		return "pass", nil
	}
	w, err := Connect(context.Background(), opts)
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, devAddress, w.Address())
	assert.True(t, strings.HasPrefix(asked, dir))
}

func TestConnectNodeDown(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.Fail("eth_chainId", &rpctest.Error{Code: -32000, Message: "unavailable"})

	_, err := Connect(context.Background(), options(srv))
	var conn *faucet.ConnectionError
	require.ErrorAs(t, err, &conn)
	assert.Equal(t, faucet.ConnectionMessage, faucet.UserMessage(err))
}

func TestTransactBuildsSignsAndBroadcasts(t *testing.T) {
	srv, sent := newNode(t)
	opts := options(srv)
	var confirmed *types.Transaction
	opts.ConfirmTx = func(tx *types.Transaction) bool {
		confirmed = tx
		return true
	}
	w, err := Connect(context.Background(), opts)
	require.NoError(t, err)
	defer w.Close()

	data := []byte{0x01, 0x02, 0x03, 0x04}
	tx, err := w.Transact(context.Background(), contract, data)
	require.NoError(t, err)
	require.NotNil(t, confirmed)

	assert.Equal(t, uint64(3), tx.Nonce())
	assert.Equal(t, uint64(80000), tx.Gas())
	assert.Equal(t, contract, *tx.To())
	assert.Equal(t, data, tx.Data())
	assert.Equal(t, uint8(types.LegacyTxType), tx.Type())

	sender, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	require.NoError(t, err)
	assert.Equal(t, devAddress, sender)
	require.Len(t, *sent, 1)
}

func TestTransactHonorsDeclinedConfirmation(t *testing.T) {
	srv, sent := newNode(t)
	opts := options(srv)
	opts.ConfirmTx = func(*types.Transaction) bool { return false }
	w, err := Connect(context.Background(), opts)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Transact(context.Background(), contract, nil)
	assert.ErrorIs(t, err, ErrUserRejected)
	assert.Empty(t, *sent)
}

func TestTransactSurfacesRevertReason(t *testing.T) {
	srv, sent := newNode(t)
	typ, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: typ}}.Pack(faucet.AlreadyRequestedReason)
	require.NoError(t, err)
	srv.Fail("eth_estimateGas", &rpctest.Error{
		Code:    3,
		Message: "execution reverted",
		Data:    hexutil.Encode(append(common.FromHex("0x08c379a0"), packed...)),
	})

	w, err := Connect(context.Background(), options(srv))
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Transact(context.Background(), contract, nil)
	require.Error(t, err)
	reason, ok := faucet.RevertReason(err)
	assert.True(t, ok)
	assert.Equal(t, faucet.AlreadyRequestedReason, reason)
	assert.Empty(t, *sent)
}

func TestWaitMined(t *testing.T) {
	srv, _ := newNode(t)
	w, err := Connect(context.Background(), options(srv))
	require.NoError(t, err)
	defer w.Close()

	tx, err := w.Transact(context.Background(), contract, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	polls := 0
	srv.Handle("eth_getTransactionReceipt", func([]json.RawMessage) (interface{}, *rpctest.Error) {
		mu.Lock()
		defer mu.Unlock()
		polls++
		if polls < 3 {
			return nil, nil
		}
		return map[string]interface{}{
			"type":              "0x0",
			"status":            "0x1",
			"cumulativeGasUsed": "0x5208",
			"gasUsed":           "0x5208",
			"logsBloom":         hexutil.Encode(make([]byte, types.BloomByteLength)),
			"logs":              []interface{}{},
			"transactionHash":   tx.Hash().Hex(),
			"transactionIndex":  "0x0",
			"blockNumber":       "0x2a",
			"blockHash":         common.Hash{1}.Hex(),
			"effectiveGasPrice": "0x3b9aca00",
		}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	receipt, err := w.WaitMined(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	assert.Equal(t, uint64(42), receipt.BlockNumber.Uint64())
}

func TestReadOnlyWalletCannotTransact(t *testing.T) {
	srv, _ := newNode(t)
	w, err := NewReadOnly(context.Background(), devAddress, options(srv))
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, devAddress, w.Address())
	_, err = w.Transact(context.Background(), contract, nil)
	assert.ErrorIs(t, err, ErrReadOnly)
}
