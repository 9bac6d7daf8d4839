package faucet

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type RequestState int

const (
	Idle RequestState = iota
	Requesting
	CoolingDown
)

func (r RequestState) String() string {
	switch r {
	case Idle:
		return "idle"
	case Requesting:
		return "requesting"
	case CoolingDown:
		return "cooling-down"
	default:
		return "unknown"
	}
}

const (
	RequestLabel    = "Request Tokens"
	RequestingLabel = "Requesting..."
)

// State is a snapshot of a Session. Version grows with every change so
// observers can drop snapshots delivered out of order.
type State struct {
	Version uint64

	// Loading is true until the first load attempt finished.
	Loading bool
	// Loaded is true when the last load attempt reached the balance reads.
	Loaded bool
	// Fatal is the error that ended the last load attempt.
	Fatal error

	Address  common.Address
	Contract common.Address
	Network  Network

	UserBalance     Reading
	ContractBalance Reading

	Request         RequestState
	CooldownSeconds int
	ErrorMessage    string
	LastRequest     time.Time
	LastTxHash      common.Hash
}

// Connected reports whether the state carries a wallet address.
func (s State) Connected() bool {
	return s.Address != (common.Address{})
}

// ButtonEnabled is true iff no request is in flight, no cooldown runs and
// the last load did not fail.
func (s State) ButtonEnabled() bool {
	return s.Request == Idle && s.Fatal == nil
}

func (s State) ButtonLabel() string {
	switch s.Request {
	case Requesting:
		return RequestingLabel
	case CoolingDown:
		return "Try again in " + FormatCooldown(s.CooldownSeconds)
	default:
		return RequestLabel
	}
}

// SameView reports whether s and o differ only by the countdown value.
func (s State) SameView(o State) bool {
	s.Version, o.Version = 0, 0
	s.CooldownSeconds, o.CooldownSeconds = 0, 0
	return s.Loading == o.Loading &&
		s.Loaded == o.Loaded &&
		s.Fatal == o.Fatal &&
		s.Address == o.Address &&
		s.Network == o.Network &&
		sameReading(s.UserBalance, o.UserBalance) &&
		sameReading(s.ContractBalance, o.ContractBalance) &&
		s.Request == o.Request &&
		s.ErrorMessage == o.ErrorMessage &&
		s.LastRequest.Equal(o.LastRequest) &&
		s.LastTxHash == o.LastTxHash
}

func sameReading(a, b Reading) bool {
	if a.Err != b.Err {
		return false
	}
	if a.Amount == nil || b.Amount == nil {
		return a.Amount == b.Amount
	}
	return a.Amount.Cmp(b.Amount) == 0
}
