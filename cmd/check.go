package cmd

import (
	"context"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/tranvictor/faucet/config"
	"github.com/tranvictor/faucet/faucet"
	"github.com/tranvictor/faucet/ui"
	"github.com/tranvictor/faucet/wallet"
)

// runCheck validates the network and the contract of c through w.
func runCheck(ctx context.Context, u ui.UI, w faucet.Wallet, c config.Config) error {
	n, err := faucet.CheckNetwork(ctx, w, c.ExpectedChainID)
	if err != nil {
		return err
	}
	u.KeyValue([][2]string{
		{"Network", n.Name},
		{"Chain ID", u.Style(ui.StyledText{Text: strconv.FormatUint(n.ChainID, 10), Severity: chainSeverity(n)})},
		{"Contract", c.ContractAddr().Hex()},
	})
	if n.Mismatch() {
		u.Warn("The faucet expects chain id %d", n.Expected)
	}
	if err = faucet.CheckContract(ctx, w, c.ContractAddr()); err != nil {
		u.Error("%s", faucet.UserMessage(err))
		return err
	}
	u.Success("Contract found")
	return nil
}

func chainSeverity(n faucet.Network) ui.Severity {
	if n.Mismatch() {
		return ui.SeverityWarn
	}
	return ui.SeveritySuccess
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the network and that the faucet contract exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := walletOptions(cfg, appUI)
		if err != nil {
			return err
		}
		w, err := wallet.NewReadOnly(cmd.Context(), common.Address{}, opts)
		if err != nil {
			return err
		}
		defer w.Close()
		return runCheck(cmd.Context(), appUI, w, cfg)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
