// Package config describes everything the faucet needs at construction
// time. Values come from defaults, an optional YAML file, FAUCET_* env vars
// and command line flags, in increasing priority.
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/tranvictor/faucet/networks"
)

const (
	DefaultContractAddress = "0x868491ee560156dfB0CEE6b5E2bf3191F1D0B180"
	DefaultExpectedChainID = 12227332
	DefaultNetwork         = "neox-testnet"
	DefaultCooldownSeconds = 3600
)

// env vars, checked after the config file
const (
	ContractEnv    = "FAUCET_CONTRACT"
	ChainIDEnv     = "FAUCET_CHAIN_ID"
	NetworkEnv     = "FAUCET_NETWORK"
	NodeEnv        = "FAUCET_NODE"
	PrivateKeyEnv  = "FAUCET_PRIVATE_KEY"
	KeystoreDirEnv = "FAUCET_KEYSTORE_DIR"
	FromEnv        = "FAUCET_FROM"
	LogLevelEnv    = "FAUCET_LOG_LEVEL"
)

type Config struct {
	// ContractAddress is the faucet contract to query and call.
	ContractAddress string `yaml:"contractAddress"`
	// ExpectedChainID is only used for the advisory network mismatch warning.
	// Zero disables the check.
	ExpectedChainID uint64 `yaml:"expectedChainId"`

	Network string            `yaml:"network"`
	Nodes   map[string]string `yaml:"nodes"`

	KeystoreDir string `yaml:"keystoreDir"`
	Keystore    string `yaml:"keystore"`
	From        string `yaml:"from"`
	PrivateKey  string `yaml:"-"`

	CooldownSeconds int           `yaml:"cooldownSeconds"`
	TickInterval    time.Duration `yaml:"tickInterval"`
	WalletTimeout   time.Duration `yaml:"walletTimeout"`
	RPCTimeout      time.Duration `yaml:"rpcTimeout"`
	PollInterval    time.Duration `yaml:"pollInterval"`

	GasLimit      uint64 `yaml:"gasLimit"`
	ExtraGasLimit uint64 `yaml:"extraGasLimit"`
	AssumeYes     bool   `yaml:"assumeYes"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

func DefaultKeystoreDir() string {
	usr, err := user.Current()
	if err != nil {
		return filepath.Join(".faucet", "keystores")
	}
	return filepath.Join(usr.HomeDir, ".faucet", "keystores")
}

func Default() Config {
	return Config{
		ContractAddress: DefaultContractAddress,
		ExpectedChainID: DefaultExpectedChainID,
		Network:         DefaultNetwork,
		KeystoreDir:     DefaultKeystoreDir(),
		CooldownSeconds: DefaultCooldownSeconds,
		TickInterval:    time.Second,
		WalletTimeout:   2 * time.Minute,
		RPCTimeout:      4 * time.Second,
		PollInterval:    2 * time.Second,
		ExtraGasLimit:   50000,
		LogLevel:        "warn",
		LogFormat:       "console",
	}
}

// Load reads the YAML file at path on top of the defaults, then applies env
// vars. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("couldn't read config file: %w", err)
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("couldn't parse config file %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(ContractEnv)); v != "" {
		c.ContractAddress = v
	}
	if v := strings.TrimSpace(os.Getenv(ChainIDEnv)); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number: %w", ChainIDEnv, err)
		}
		c.ExpectedChainID = id
	}
	if v := strings.TrimSpace(os.Getenv(NetworkEnv)); v != "" {
		c.Network = v
	}
	if v := strings.TrimSpace(os.Getenv(NodeEnv)); v != "" {
		c.Nodes = map[string]string{"env-node": v}
	}
	if v := strings.TrimSpace(os.Getenv(PrivateKeyEnv)); v != "" {
		c.PrivateKey = v
	}
	if v := strings.TrimSpace(os.Getenv(KeystoreDirEnv)); v != "" {
		c.KeystoreDir = v
	}
	if v := strings.TrimSpace(os.Getenv(FromEnv)); v != "" {
		c.From = v
	}
	if v := strings.TrimSpace(os.Getenv(LogLevelEnv)); v != "" {
		c.LogLevel = v
	}
	return nil
}

func (c Config) Validate() error {
	if !common.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("contract address %q is not a valid address", c.ContractAddress)
	}
	if c.CooldownSeconds < 0 {
		return fmt.Errorf("cooldown must not be negative, got %d", c.CooldownSeconds)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.WalletTimeout <= 0 || c.RPCTimeout <= 0 || c.PollInterval <= 0 {
		return fmt.Errorf("timeouts and poll interval must be positive")
	}
	if c.From != "" && !common.IsHexAddress(c.From) {
		return fmt.Errorf("from %q is not a valid address", c.From)
	}
	return nil
}

func (c Config) ContractAddr() common.Address {
	return common.HexToAddress(c.ContractAddress)
}

// ResolveNodes returns the explicit nodes if any, otherwise the nodes of the
// configured network.
func (c Config) ResolveNodes() (map[string]string, error) {
	if len(c.Nodes) > 0 {
		return c.Nodes, nil
	}
	n, err := networks.GetNetwork(c.Network)
	if err != nil {
		return nil, err
	}
	nodes := networks.GetNodes(n)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("network %s has no nodes configured", n.GetName())
	}
	return nodes, nil
}
