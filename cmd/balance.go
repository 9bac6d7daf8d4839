package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/tranvictor/faucet/accounts"
	fcommon "github.com/tranvictor/faucet/common"
	"github.com/tranvictor/faucet/config"
	"github.com/tranvictor/faucet/faucet"
	"github.com/tranvictor/faucet/util/account"
	"github.com/tranvictor/faucet/wallet"
)

// defaultAddress finds the wallet address without unlocking anything.
func defaultAddress(c config.Config) (common.Address, error) {
	switch {
	case c.From != "":
		return common.HexToAddress(c.From), nil
	case c.PrivateKey != "":
		acc, err := account.NewPrivateKeyAccount(c.PrivateKey)
		if err != nil {
			return common.Address{}, err
		}
		return acc.Address(), nil
	case c.Keystore != "":
		addr, err := accounts.VerifyKeystore(c.Keystore)
		if err != nil {
			return common.Address{}, err
		}
		return common.HexToAddress(addr), nil
	}
	acc, err := accounts.FindKeystore(c.KeystoreDir, "")
	if err != nil {
		return common.Address{}, &faucet.NoWalletError{Hint: wallet.ImportHint}
	}
	return common.HexToAddress(acc.Address), nil
}

type balanceResult struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show the faucet token balance of an address",
	Long:  `Without an address, the balance of your wallet is shown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var who common.Address
		if len(args) == 1 {
			if !common.IsHexAddress(args[0]) {
				return fmt.Errorf("%q is not an address", args[0])
			}
			who = common.HexToAddress(args[0])
		} else {
			addr, err := defaultAddress(cfg)
			if err != nil {
				return err
			}
			who = addr
		}
		appUI.Interpret(who.Hex())

		opts, err := walletOptions(cfg, appUI)
		if err != nil {
			return err
		}
		w, err := wallet.NewReadOnly(cmd.Context(), who, opts)
		if err != nil {
			return err
		}
		defer w.Close()

		stop := appUI.Spinner("Reading balance...")
		amount, err := faucet.ReadBalance(cmd.Context(), w, cfg.ContractAddr(), who)
		stop()
		if err != nil {
			return err
		}
		res := balanceResult{
			Address: who.Hex(),
			Balance: fcommon.FormatUnits(amount, fcommon.TokenDecimals),
		}
		if flags.json {
			return printJSON(appUI, res)
		}
		appUI.KeyValue([][2]string{
			{"Address", res.Address},
			{"Balance", res.Balance},
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
