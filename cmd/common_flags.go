package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/faucet/config"
)

// flagValues holds raw flag values. Only flags set on the command line
// override the loaded config.
type flagValues struct {
	configPath  string
	network     string
	node        string
	contract    string
	chainID     uint64
	keystoreDir string
	keystore    string
	from        string
	logLevel    string
	logFormat   string
	cooldown    int
	gasLimit    uint64
	extraGas    uint64
	assumeYes   bool
	json        bool
}

var flags flagValues

func addGlobalFlags(c *cobra.Command) {
	d := config.Default()
	c.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a YAML config file")
	c.PersistentFlags().
		StringVarP(&flags.network, "network", "k", d.Network, "Network to connect to. See \"faucet networks list\".")
	c.PersistentFlags().
		StringVar(&flags.node, "node", "", "JSON-RPC node URL. Overrides the nodes of --network.")
	c.PersistentFlags().
		StringVar(&flags.contract, "contract", d.ContractAddress, "Faucet contract address")
	c.PersistentFlags().
		Uint64Var(&flags.chainID, "chain-id", d.ExpectedChainID, "Expected chain id. A different chain only triggers a warning. 0 disables the check.")
	c.PersistentFlags().
		StringVar(&flags.keystoreDir, "keystore-dir", d.KeystoreDir, "Directory holding keystore files")
	c.PersistentFlags().
		StringVar(&flags.keystore, "keystore", "", "Keystore file to unlock. Overrides --keystore-dir.")
	c.PersistentFlags().
		StringVarP(&flags.from, "from", "f", "", "Account to use when --keystore-dir holds several keystores")
	c.PersistentFlags().
		StringVar(&flags.logLevel, "log-level", d.LogLevel, "Log level: debug, info, warn or error")
	c.PersistentFlags().
		StringVar(&flags.logFormat, "log-format", d.LogFormat, "Log format: console or json")
	c.PersistentFlags().
		BoolVar(&flags.json, "json", false, "Print results as JSON")
}

func AddCommonFlagsToTransactionalCmds(c *cobra.Command) {
	d := config.Default()
	c.PersistentFlags().
		Uint64VarP(&flags.gasLimit, "gas", "g", 0, "Gas limit for the tx. If default value is used, we will use ethereum nodes to estimate the gas limit and add --extragas to it")
	c.PersistentFlags().
		Uint64VarP(&flags.extraGas, "extragas", "G", d.ExtraGasLimit, "Extra gas limit added to the estimated gas limit")
	c.PersistentFlags().
		IntVar(&flags.cooldown, "cooldown", d.CooldownSeconds, "Seconds the request action stays locked after a request")
	c.PersistentFlags().
		BoolVarP(&flags.assumeYes, "yes", "y", false, "Sign and broadcast without asking for confirmation")
}

func applyFlags(c *cobra.Command, cfg *config.Config) {
	f := c.Flags()
	if f.Changed("network") {
		cfg.Network = flags.network
		cfg.Nodes = nil
	}
	if f.Changed("node") {
		cfg.Nodes = map[string]string{"flag-node": flags.node}
	}
	if f.Changed("contract") {
		cfg.ContractAddress = flags.contract
	}
	if f.Changed("chain-id") {
		cfg.ExpectedChainID = flags.chainID
	}
	if f.Changed("keystore-dir") {
		cfg.KeystoreDir = flags.keystoreDir
	}
	if f.Changed("keystore") {
		cfg.Keystore = flags.keystore
	}
	if f.Changed("from") {
		cfg.From = flags.from
	}
	if f.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if f.Changed("log-format") {
		cfg.LogFormat = flags.logFormat
	}
	if f.Changed("cooldown") {
		cfg.CooldownSeconds = flags.cooldown
	}
	if f.Changed("gas") {
		cfg.GasLimit = flags.gasLimit
	}
	if f.Changed("extragas") {
		cfg.ExtraGasLimit = flags.extraGas
	}
	if f.Changed("yes") {
		cfg.AssumeYes = flags.assumeYes
	}
}
