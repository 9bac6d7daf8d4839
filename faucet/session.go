package faucet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/errgroup"

	"github.com/tranvictor/faucet/logger"
)

var ErrClosed = errors.New("faucet session is closed")

type Config struct {
	Contract        common.Address
	ExpectedChainID uint64
	CooldownSeconds int
	TickInterval    time.Duration
	// WalletTimeout bounds the connect step and every request flow.
	WalletTimeout time.Duration
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithObserver subscribes fn before the session is used.
func WithObserver(fn func(State)) Option {
	return func(s *Session) { s.subscribe(fn) }
}

func withTicker(t tickerFunc) Option {
	return func(s *Session) { s.newTicker = t }
}

// Session holds the faucet state of one connected wallet. All methods are
// safe for concurrent use. Observers receive snapshots outside the lock,
// possibly from several goroutines.
type Session struct {
	cfg       Config
	connect   Connector
	now       func() time.Time
	newTicker tickerFunc

	mu        sync.Mutex
	state     State
	wallet    Wallet
	timer     *cooldownTimer
	observers map[int]func(State)
	nextObs   int
	closed    bool
}

func NewSession(cfg Config, connect Connector, opts ...Option) *Session {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.WalletTimeout <= 0 {
		cfg.WalletTimeout = 2 * time.Minute
	}
	s := &Session{
		cfg:       cfg,
		connect:   connect,
		now:       time.Now,
		newTicker: newTimeTicker,
		observers: map[int]func(State){},
		state: State{
			Loading:  true,
			Contract: cfg.Contract,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every state change and returns a function that
// removes it.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.subscribe(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Session) subscribe(fn func(State)) int {
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return id
}

// update applies fn under the lock and notifies observers afterwards.
func (s *Session) update(fn func(st *State)) State {
	snap, _ := s.tryUpdate(func(st *State) error {
		fn(st)
		return nil
	})
	return snap
}

// tryUpdate is update for changes guarded by a precondition. When fn fails
// it must leave st untouched, and observers are not notified.
func (s *Session) tryUpdate(fn func(st *State) error) (State, error) {
	s.mu.Lock()
	if err := fn(&s.state); err != nil {
		snap := s.state
		s.mu.Unlock()
		return snap, err
	}
	s.state.Version++
	snap := s.state
	observers := make([]func(State), 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
	return snap, nil
}

// Load runs the connect pipeline: connect the wallet, check the network,
// check the contract code, then read both balances. A step only runs if the
// previous one succeeded.
func (s *Session) Load(ctx context.Context) error {
	var old Wallet
	_, err := s.tryUpdate(func(st *State) error {
		if s.closed {
			return ErrClosed
		}
		if st.Request == Requesting {
			return ErrNotIdle
		}
		old = s.wallet
		s.wallet = nil
		st.Loading = true
		st.Loaded = false
		st.Fatal = nil
		st.ErrorMessage = ""
		st.Address = common.Address{}
		st.Network = Network{}
		st.UserBalance = Reading{}
		st.ContractBalance = Reading{}
		return nil
	})
	if err != nil {
		return err
	}
	if old != nil {
		old.Close()
	}

	cctx, cancel := context.WithTimeout(ctx, s.cfg.WalletTimeout)
	w, err := s.connect(cctx)
	cancel()
	if err != nil {
		return s.fail(asLoadError(err))
	}

	network, err := CheckNetwork(ctx, w, s.cfg.ExpectedChainID)
	if err != nil {
		w.Close()
		return s.fail(err)
	}
	s.update(func(st *State) {
		st.Address = w.Address()
		st.Network = network
	})

	if err = CheckContract(ctx, w, s.cfg.Contract); err != nil {
		w.Close()
		return s.fail(err)
	}

	user, contract, _ := s.readBalances(ctx, w)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		w.Close()
		return ErrClosed
	}
	s.wallet = w
	s.mu.Unlock()

	s.update(func(st *State) {
		st.UserBalance = user
		st.ContractBalance = contract
		st.Loading = false
		st.Loaded = true
	})
	logger.Infow("faucet loaded",
		"address", w.Address().Hex(),
		"network", network.Name,
		"contract", s.cfg.Contract.Hex(),
	)
	return nil
}

func asLoadError(err error) error {
	var noWallet *NoWalletError
	var conn *ConnectionError
	if errors.As(err, &noWallet) || errors.As(err, &conn) {
		return err
	}
	return &ConnectionError{Err: err}
}

func (s *Session) fail(err error) error {
	logger.Errorw("faucet load failed", "error", err)
	s.update(func(st *State) {
		st.Loading = false
		st.Loaded = false
		st.Fatal = err
		st.ErrorMessage = UserMessage(err)
	})
	return err
}

func readInto(ctx context.Context, w Wallet, contract, who common.Address, out *Reading) error {
	amount, err := ReadBalance(ctx, w, contract, who)
	if err != nil {
		logger.Warnw("balance read failed", "address", who.Hex(), "error", err)
		*out = Reading{Err: err}
		return err
	}
	*out = Reading{Amount: amount}
	return nil
}

// readBalances reads the user and the contract balance concurrently. A
// failed read does not cancel the other one.
func (s *Session) readBalances(ctx context.Context, w Wallet) (user, contract Reading, err error) {
	var g errgroup.Group
	g.Go(func() error {
		return readInto(ctx, w, s.cfg.Contract, w.Address(), &user)
	})
	g.Go(func() error {
		return readInto(ctx, w, s.cfg.Contract, s.cfg.Contract, &contract)
	})
	err = g.Wait()
	return user, contract, err
}

func (s *Session) loadedWallet() (Wallet, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if !s.state.Loaded || s.state.Fatal != nil || s.wallet == nil {
		return nil, ErrNotLoaded
	}
	return s.wallet, nil
}

// Refresh re-reads both balances.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	w, err := s.loadedWallet()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.update(func(st *State) { st.ErrorMessage = "" })

	user, contract, err := s.readBalances(ctx, w)
	s.update(func(st *State) {
		st.UserBalance = user
		st.ContractBalance = contract
	})
	return err
}

// RequestTokens submits requestTokens() and waits for it to be mined. On
// success the cooldown starts and both balances are re-read. Any failure is
// returned as *RequestRejectedError; only the "already requested" rejection
// starts the cooldown.
func (s *Session) RequestTokens(ctx context.Context) error {
	var w Wallet
	_, err := s.tryUpdate(func(st *State) error {
		loaded, err := s.loadedWallet()
		if err != nil {
			return err
		}
		if st.Request != Idle {
			return ErrNotIdle
		}
		w = loaded
		st.Request = Requesting
		st.ErrorMessage = ""
		return nil
	})
	if err != nil {
		return err
	}

	rctx, cancel := context.WithTimeout(ctx, s.cfg.WalletTimeout)
	receipt, err := s.submit(rctx, w)
	cancel()
	if err != nil {
		return s.reject(err)
	}

	s.update(func(st *State) {
		st.LastRequest = s.now()
		st.LastTxHash = receipt.TxHash
		s.armCooldown(st)
	})
	logger.Infow("tokens requested", "tx", receipt.TxHash.Hex(), "block", receipt.BlockNumber)

	user, contract, _ := s.readBalances(ctx, w)
	s.update(func(st *State) {
		st.UserBalance = user
		st.ContractBalance = contract
	})
	return nil
}

func (s *Session) submit(ctx context.Context, w Wallet) (*types.Receipt, error) {
	data, err := packRequestTokens()
	if err != nil {
		return nil, err
	}
	tx, err := w.Transact(ctx, s.cfg.Contract, data)
	if err != nil {
		return nil, err
	}
	logger.Infow("request submitted", "tx", tx.Hash().Hex())

	receipt, err := w.WaitMined(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("couldn't confirm tx %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return nil, s.replay(ctx, w, data, receipt)
	}
	return receipt, nil
}

// replay re-executes a reverted request at its block to recover the revert
// reason.
func (s *Session) replay(ctx context.Context, w Wallet, data []byte, receipt *types.Receipt) error {
	_, err := w.Call(ctx, ethereum.CallMsg{
		From: w.Address(),
		To:   &s.cfg.Contract,
		Data: data,
	}, receipt.BlockNumber)
	if err == nil {
		return fmt.Errorf("tx %s reverted", receipt.TxHash.Hex())
	}
	return fmt.Errorf("tx %s reverted: %w", receipt.TxHash.Hex(), err)
}

func (s *Session) reject(err error) error {
	rejected := &RequestRejectedError{Err: err}
	if reason, ok := RevertReason(err); ok {
		rejected.Reason = reason
	}
	logger.Warnw("token request rejected", "reason", rejected.Reason, "error", err)

	s.update(func(st *State) {
		if rejected.AlreadyRequested() {
			st.ErrorMessage = AlreadyRequestedMessage
			s.armCooldown(st)
			return
		}
		st.ErrorMessage = RequestFailedMessage
		st.Request = Idle
	})
	return rejected
}

// armCooldown must be called with s.mu held, st being &s.state.
func (s *Session) armCooldown(st *State) {
	if s.cfg.CooldownSeconds <= 0 {
		st.Request = Idle
		st.CooldownSeconds = 0
		return
	}
	st.Request = CoolingDown
	st.CooldownSeconds = s.cfg.CooldownSeconds
	if s.timer == nil && !s.closed {
		s.timer = startCooldownTimer(s.newTicker, s.cfg.TickInterval, s.tick)
		logger.Infow("cooldown started", "seconds", st.CooldownSeconds)
	}
}

func (s *Session) tick(t *cooldownTimer) {
	s.mu.Lock()
	stale := s.timer != t
	s.mu.Unlock()
	if stale {
		t.Stop()
		return
	}

	s.update(func(st *State) {
		if s.timer != t {
			return
		}
		if st.CooldownSeconds > 0 {
			st.CooldownSeconds--
		}
		if st.CooldownSeconds == 0 {
			st.Request = Idle
			s.timer = nil
			t.Stop()
			logger.Infow("cooldown finished")
		}
	})
}

// Close stops the cooldown timer and closes the wallet. The session cannot
// be loaded again afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	w := s.wallet
	s.wallet = nil
	s.mu.Unlock()
	if w != nil {
		w.Close()
	}
}
