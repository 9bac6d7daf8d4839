package faucet

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

var (
	testUser     = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	testContract = common.HexToAddress("0x868491ee560156dfB0CEE6b5E2bf3191F1D0B180")
	oneToken     = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

// revertError looks like the error go-ethereum's rpc client returns for a
// reverted call.
type revertError struct {
	msg  string
	data interface{}
}

func (e *revertError) Error() string          { return e.msg }
func (e *revertError) ErrorData() interface{} { return e.data }

func revertData(t testing.TB, reason string) string {
	typ, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: typ}}.Pack(reason)
	require.NoError(t, err)
	return hexutil.Encode(append(common.FromHex("0x08c379a0"), packed...))
}

func newRevert(t testing.TB, reason string) error {
	return &revertError{msg: "execution reverted", data: revertData(t, reason)}
}

type fakeWallet struct {
	mu sync.Mutex

	addr     common.Address
	chainID  uint64
	chainErr error
	code     []byte
	codeErr  error

	balances   map[common.Address]*big.Int
	balanceErr map[common.Address]error

	onTransact    func(f *fakeWallet)
	transactErr   error
	waitErr       error
	receiptStatus uint64
	replayErr     error
	replayBlock   *big.Int

	balanceCalls int
	transacts    int
	closed       bool
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		addr:    testUser,
		chainID: 12227332,
		code:    []byte{0x60, 0x80},
		balances: map[common.Address]*big.Int{
			testUser:     big.NewInt(0),
			testContract: new(big.Int).Mul(big.NewInt(1000), oneToken),
		},
		balanceErr:    map[common.Address]error{},
		receiptStatus: types.ReceiptStatusSuccessful,
	}
}

func (f *fakeWallet) connector() Connector {
	return func(context.Context) (Wallet, error) { return f, nil }
}

func (f *fakeWallet) Address() common.Address { return f.addr }

func (f *fakeWallet) ChainID(context.Context) (*big.Int, error) {
	if f.chainErr != nil {
		return nil, f.chainErr
	}
	return new(big.Int).SetUint64(f.chainID), nil
}

func (f *fakeWallet) CodeAt(context.Context, common.Address) ([]byte, error) {
	return f.code, f.codeErr
}

func (f *fakeWallet) Call(_ context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	method := faucetABI.Methods["getBalance"]
	if bytes.HasPrefix(msg.Data, method.ID) {
		args, err := method.Inputs.Unpack(msg.Data[4:])
		if err != nil {
			return nil, err
		}
		who := args[0].(common.Address)

		f.mu.Lock()
		defer f.mu.Unlock()
		f.balanceCalls++
		if err := f.balanceErr[who]; err != nil {
			return nil, err
		}
		amount := f.balances[who]
		if amount == nil {
			amount = big.NewInt(0)
		}
		return method.Outputs.Pack(amount)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.replayBlock = block
	return nil, f.replayErr
}

func (f *fakeWallet) Transact(_ context.Context, to common.Address, data []byte) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transactErr != nil {
		return nil, f.transactErr
	}
	f.transacts++
	if f.onTransact != nil {
		f.onTransact(f)
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    uint64(f.transacts),
		To:       &to,
		Gas:      60000,
		GasPrice: big.NewInt(1),
		Data:     data,
	}), nil
}

func (f *fakeWallet) WaitMined(_ context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	return &types.Receipt{
		Status:      f.receiptStatus,
		TxHash:      tx.Hash(),
		BlockNumber: big.NewInt(42),
	}, nil
}

func (f *fakeWallet) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeWallet) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeWallet) balanceCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balanceCalls
}

// manualTicker hands out a channel the test ticks by hand.
type manualTicker struct {
	mu      sync.Mutex
	c       chan time.Time
	started int
	stopped int
}

func newManualTicker() *manualTicker {
	return &manualTicker{c: make(chan time.Time)}
}

func (m *manualTicker) new(time.Duration) (<-chan time.Time, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
	return m.c, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.stopped++
	}
}

func (m *manualTicker) tick(t testing.TB) {
	select {
	case m.c <- time.Now():
	case <-time.After(time.Second):
		t.Fatal("nobody is listening to the ticker")
	}
}

func (m *manualTicker) counts() (started, stopped int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started, m.stopped
}

var errBoom = errors.New("boom")
