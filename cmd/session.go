package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	fcommon "github.com/tranvictor/faucet/common"
	"github.com/tranvictor/faucet/config"
	"github.com/tranvictor/faucet/faucet"
	"github.com/tranvictor/faucet/ui"
	"github.com/tranvictor/faucet/wallet"
)

func walletOptions(c config.Config, u ui.UI) (wallet.Options, error) {
	nodes, err := c.ResolveNodes()
	if err != nil {
		return wallet.Options{}, err
	}
	return wallet.Options{
		PrivateKey:    c.PrivateKey,
		Keystore:      c.Keystore,
		KeystoreDir:   c.KeystoreDir,
		From:          c.From,
		Nodes:         nodes,
		RPCTimeout:    c.RPCTimeout,
		PollInterval:  c.PollInterval,
		GasLimit:      c.GasLimit,
		ExtraGasLimit: c.ExtraGasLimit,
		Passphrase:    askPassphrase(u),
		ConfirmTx:     confirmTx(u, c.AssumeYes),
	}, nil
}

func askPassphrase(u ui.UI) wallet.PassphraseFunc {
	return func(path string) (string, error) {
		u.Info("Using keystore: %s", path)
		return u.Secret("Enter passphrase: "), nil
	}
}

// confirmTx shows the unsigned tx and asks before signing it.
func confirmTx(u ui.UI, assumeYes bool) func(tx *types.Transaction) bool {
	return func(tx *types.Transaction) bool {
		u.Section("Confirm tx data before signing")
		rows := [][2]string{
			{"To", tx.To().Hex()},
			{"Nonce", fmt.Sprintf("%d", tx.Nonce())},
			{"Gas limit", fmt.Sprintf("%d", tx.Gas())},
		}
		if tx.Type() == types.DynamicFeeTxType {
			rows = append(rows,
				[2]string{"Max fee", fcommon.FormatUnits(tx.GasFeeCap(), 9) + " gwei"},
				[2]string{"Tip", fcommon.FormatUnits(tx.GasTipCap(), 9) + " gwei"},
			)
		} else {
			rows = append(rows, [2]string{"Gas price", fcommon.FormatUnits(tx.GasPrice(), 9) + " gwei"})
		}
		rows = append(rows, [2]string{"Data", hexutil.Encode(tx.Data())})
		u.Indent().KeyValue(rows)
		if assumeYes {
			return true
		}
		return u.Confirm("Sign and broadcast this tx?", true)
	}
}

func newSession(c config.Config, u ui.UI, opts ...faucet.Option) (*faucet.Session, error) {
	wopts, err := walletOptions(c, u)
	if err != nil {
		return nil, err
	}
	connect := func(ctx context.Context) (faucet.Wallet, error) {
		w, err := wallet.Connect(ctx, wopts)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	return faucet.NewSession(faucet.Config{
		Contract:        c.ContractAddr(),
		ExpectedChainID: c.ExpectedChainID,
		CooldownSeconds: c.CooldownSeconds,
		TickInterval:    c.TickInterval,
		WalletTimeout:   c.WalletTimeout,
	}, connect, opts...), nil
}

func printJSON(u ui.UI, v interface{}) error {
	enc := json.NewEncoder(u.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
