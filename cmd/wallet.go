package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tranvictor/faucet/accounts"
	"github.com/tranvictor/faucet/ui"
	"github.com/tranvictor/faucet/util/account"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage your wallets",
	Long:  ``,
}

// importWallet asks for a private key and a passphrase and stores the key
// as a keystore file in dir.
func importWallet(u ui.UI, dir string) (string, error) {
	key := u.Secret("Private key (hex): ")
	addr, _, err := account.PrivateKeyFromHex(key)
	if err != nil {
		return "", err
	}
	u.Interpret(addr)

	pwd := u.Secret("New passphrase: ")
	if pwd == "" {
		return "", fmt.Errorf("passphrase must not be empty")
	}
	if again := u.Secret("Repeat passphrase: "); again != pwd {
		return "", fmt.Errorf("passphrases do not match")
	}
	return accounts.StorePrivateKeyWithKeystore(dir, key, pwd)
}

var importWalletCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a private key as an encrypted keystore",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := importWallet(appUI, cfg.KeystoreDir)
		if err != nil {
			return err
		}
		appUI.Success("Keystore saved to %s", path)
		return nil
	},
}

func listWallets(u ui.UI, dir string) error {
	accs, err := accounts.ListKeystores(dir)
	if err != nil {
		return err
	}
	if len(accs) == 0 {
		u.Warn("No keystore in %s. Use \"faucet wallet import\" to add one.", dir)
		return nil
	}
	rows := make([][]string, 0, len(accs))
	for i, acc := range accs {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), acc.Address, acc.Keypath})
	}
	u.Table([]string{"#", "Address", "Keystore"}, rows)
	return nil
}

var listWalletCmd = &cobra.Command{
	Use:   "list",
	Short: "List keystore accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listWallets(appUI, cfg.KeystoreDir)
	},
}

func init() {
	walletCmd.AddCommand(importWalletCmd)
	walletCmd.AddCommand(listWalletCmd)
	rootCmd.AddCommand(walletCmd)
}
