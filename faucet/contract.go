package faucet

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const ABI = `[
	{"inputs":[],"name":"requestTokens","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"getBalance","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

var faucetABI = mustParseABI(ABI)

func mustParseABI(s string) abi.ABI {
	a, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return a
}

func packRequestTokens() ([]byte, error) {
	return faucetABI.Pack("requestTokens")
}

func packGetBalance(who common.Address) ([]byte, error) {
	return faucetABI.Pack("getBalance", who)
}

func unpackBalance(data []byte) (*big.Int, error) {
	out, err := faucetABI.Unpack("getBalance", data)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode getBalance result: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("getBalance returned %d values", len(out))
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}
