package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/faucet/networks"
	"github.com/tranvictor/faucet/ui"
)

var (
	NetworkConfig string
	NetworkForce  bool
)

// readNetworkConfig accepts either a json string or a path to a json file.
func readNetworkConfig(config string) (networks.Network, error) {
	config = strings.TrimSpace(config)
	if config == "" {
		return nil, fmt.Errorf("pass the network config with --config")
	}
	if strings.HasPrefix(config, "{") && strings.HasSuffix(config, "}") {
		n, err := networks.NewNetworkFromJSON([]byte(config))
		if err != nil {
			return nil, fmt.Errorf("the provided json is not valid: %w", err)
		}
		return n, nil
	}
	content, err := os.ReadFile(config)
	if err != nil {
		return nil, fmt.Errorf("couldn't read the provided json file: %w", err)
	}
	n, err := networks.NewNetworkFromJSON(content)
	if err != nil {
		return nil, fmt.Errorf("the provided json is not a valid network config: %w", err)
	}
	return n, nil
}

// askNetworkConfig prompts until the user enters a valid network json or a
// path to one.
func askNetworkConfig(u ui.UI) (networks.Network, error) {
	u.Info("Paste the network config json, or the path to a json file:")
	config := u.Ask(func(s string) error {
		_, err := readNetworkConfig(s)
		return err
	})
	return readNetworkConfig(config)
}

func addNetwork(u ui.UI, config string, force bool) error {
	var newNetwork networks.Network
	var err error
	if strings.TrimSpace(config) == "" {
		newNetwork, err = askNetworkConfig(u)
	} else {
		newNetwork, err = readNetworkConfig(config)
	}
	if err != nil {
		return err
	}
	allNames := append([]string{newNetwork.GetName()}, newNetwork.GetAlternativeNames()...)
	for _, name := range allNames {
		if _, err := networks.GetNetwork(name); err == nil {
			if !force {
				return fmt.Errorf("network with name %s already exists, use --force to replace it", name)
			}
			u.Warn("Network with name %s already exists. It will be replaced.", name)
		}
	}
	path, err := networks.AddNetwork(newNetwork)
	if err != nil {
		return fmt.Errorf("failed to add the new network: %w", err)
	}
	u.Success("Network %s with chain ID %d saved to %s", newNetwork.GetName(), newNetwork.GetChainID(), path)
	return nil
}

var addNetworkCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new network to the supported networks list locally",
	Long: `Without --config the config is asked for interactively. --config flag takes a network config json filepath OR a json string. The json should be in the following format:
	{
		"name": "network_name",
		"alternative_names": ["alternative_name_1", "alternative_name_2"],
		"chain_id": 1,
		"native_token_symbol": "ETH",
		"native_token_decimal": 18,
		"block_time": 12,
		"node_variable_name": "MY_NETWORK_NODE",
		"default_nodes": {
			"node_name_1": "node_url_1",
			"node_name_2": "node_url_2"
		}
	}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return addNetwork(appUI, NetworkConfig, NetworkForce)
	},
}

func listNetworks(u ui.UI) {
	rows := [][]string{}
	for _, n := range networks.GetSupportedNetworks() {
		nodes := networks.GetNodes(n)
		names := make([]string, 0, len(nodes))
		for name := range nodes {
			names = append(names, name)
		}
		sort.Strings(names)
		urls := make([]string, 0, len(names))
		for _, name := range names {
			urls = append(urls, fmt.Sprintf("%s: %s", name, nodes[name]))
		}
		rows = append(rows, []string{
			n.GetName(),
			fmt.Sprintf("%d", n.GetChainID()),
			n.GetNativeTokenSymbol(),
			strings.Join(urls, ", "),
		})
	}
	u.Table([]string{"Name", "Chain ID", "Symbol", "RPC nodes"}, rows)
	u.Info("To add a network: faucet networks add --config <json>")
	u.Info("To delete a network, delete its json file in %s", networks.CustomNetworksDir())
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of supported networks",
	Run: func(cmd *cobra.Command, args []string) {
		listNetworks(appUI)
	},
}

var networkCmd = &cobra.Command{
	Use:     "networks",
	Aliases: []string{"network"},
	Short:   "Manage the networks the faucet knows",
	Run: func(cmd *cobra.Command, args []string) {
		listNetworks(appUI)
	},
}

func init() {
	addNetworkCmd.PersistentFlags().StringVarP(&NetworkConfig, "config", "c", "", "Path to the network config json file, or the json itself")
	addNetworkCmd.PersistentFlags().BoolVar(&NetworkForce, "force", false, "Replace the network if it already exists")

	networkCmd.AddCommand(listNetworkCmd)
	networkCmd.AddCommand(addNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}
