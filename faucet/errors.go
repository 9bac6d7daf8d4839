package faucet

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Messages shown to the user.
const (
	NoWalletMessage         = "Please install a wallet to use this app"
	ConnectionMessage       = "Error connecting to wallet or fetching balance. Please try again."
	ContractNotFoundMessage = "Contract not found at the specified address"
	AlreadyRequestedMessage = "You have already requested tokens. Please try again later."
	RequestFailedMessage    = "Error requesting tokens. Please try again."
)

var (
	ErrNotLoaded = errors.New("faucet session is not loaded")
	ErrNotIdle   = errors.New("a request is in flight or the cooldown is running")
)

// NoWalletError means there is no key source to connect with.
type NoWalletError struct {
	Hint string
}

func (e *NoWalletError) Error() string {
	if e.Hint == "" {
		return NoWalletMessage
	}
	return fmt.Sprintf("%s (%s)", NoWalletMessage, e.Hint)
}

type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("couldn't connect wallet: %s", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

type ContractNotFoundError struct {
	Address common.Address
}

func (e *ContractNotFoundError) Error() string {
	return fmt.Sprintf("no contract code at %s", e.Address.Hex())
}

type BalanceReadError struct {
	Address common.Address
	Err     error
}

func (e *BalanceReadError) Error() string {
	return fmt.Sprintf("couldn't read balance of %s: %s", e.Address.Hex(), e.Err)
}

func (e *BalanceReadError) Unwrap() error { return e.Err }

// RequestRejectedError is returned when a requestTokens submission fails for
// any reason. Reason holds the decoded revert reason when there is one.
type RequestRejectedError struct {
	Reason string
	Err    error
}

func (e *RequestRejectedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("request rejected: %s", e.Reason)
	}
	return fmt.Sprintf("request failed: %s", e.Err)
}

func (e *RequestRejectedError) Unwrap() error { return e.Err }

func (e *RequestRejectedError) AlreadyRequested() bool {
	return e.Reason == AlreadyRequestedReason
}

// UserMessage maps a load failure to the text shown to the user.
func UserMessage(err error) string {
	var noWallet *NoWalletError
	var notFound *ContractNotFoundError
	switch {
	case errors.As(err, &noWallet):
		return noWallet.Error()
	case errors.As(err, &notFound):
		return ContractNotFoundMessage
	default:
		return ConnectionMessage
	}
}
