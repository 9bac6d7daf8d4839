package faucet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevertReason(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		reason string
		ok     bool
	}{
		{"nil", nil, "", false},
		{"rpc error data", newRevert(t, AlreadyRequestedReason), AlreadyRequestedReason, true},
		{"wrapped rpc error data", fmt.Errorf("tx reverted: %w", newRevert(t, "Faucet is empty")), "Faucet is empty", true},
		{"message only", errors.New("execution reverted: Tokens already requested"), AlreadyRequestedReason, true},
		{"undecodable data falls back to message", &revertError{msg: "execution reverted: nope", data: "0x1234"}, "nope", true},
		{"bare revert", errors.New("execution reverted"), "", false},
		{"unrelated", errors.New("connection refused"), "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			reason, ok := RevertReason(c.err)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.reason, reason)
		})
	}
}

func TestRequestRejectedError(t *testing.T) {
	already := &RequestRejectedError{Reason: AlreadyRequestedReason, Err: errBoom}
	assert.True(t, already.AlreadyRequested())
	assert.ErrorIs(t, already, errBoom)
	assert.Contains(t, already.Error(), AlreadyRequestedReason)

	other := &RequestRejectedError{Err: errBoom}
	assert.False(t, other.AlreadyRequested())
	assert.Contains(t, other.Error(), "boom")
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, NoWalletMessage, UserMessage(&NoWalletError{}))
	assert.Equal(t, ContractNotFoundMessage, UserMessage(fmt.Errorf("load: %w", &ContractNotFoundError{})))
	assert.Equal(t, ConnectionMessage, UserMessage(&ConnectionError{Err: errBoom}))
	assert.Equal(t, ConnectionMessage, UserMessage(errBoom))
}
