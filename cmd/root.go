// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.


package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tranvictor/faucet/config"
	"github.com/tranvictor/faucet/logger"
	"github.com/tranvictor/faucet/ui"
)

var (
	appUI ui.UI = ui.NewTerminalUI()
	cfg         = config.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "faucet",
	Short: "Request test tokens from a faucet contract",
	Long: `faucet connects a local wallet to an EVM chain, shows your balance and the
faucet contract's balance, and sends requestTokens() transactions for you.

After a successful request, or when the contract answers "Tokens already
requested", the request action is locked for one hour (configurable with
--cooldown). The lock lives only as long as the running session.

Wallets are keystore files under ~/.faucet/keystores (see "faucet wallet
import"), a keystore given with --keystore, or a raw private key in the
` + config.PrivateKeyEnv + ` env var.

Every setting can come from a YAML file (--config), FAUCET_* env vars or flags,
flags winning over env vars and env vars over the file.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, &c)
	if err = c.Validate(); err != nil {
		return err
	}
	if err = logger.InitFromStrings(c.LogLevel, c.LogFormat); err != nil {
		return err
	}
	cfg = c
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		appUI.Error("%s", err)
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd)
}
