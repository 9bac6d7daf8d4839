package networks

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tranvictor/faucet/logger"
)

// Insert more Network implementation here to support
// more chains
var supportedNetworks = []Network{
	NeoXTestnet,
	NeoXMainnet,
	EthereumMainnet,
	Sepolia,
	BSCTestnet,
	Localhost,
}

var ErrNetworkNotFound = fmt.Errorf("network not found")

// CustomNetworksDir is where user supplied network json files live.
var CustomNetworksDir = func() string {
	usr, err := user.Current()
	if err != nil {
		return filepath.Join(".faucet", "networks")
	}
	return filepath.Join(usr.HomeDir, ".faucet", "networks")
}

type networks struct {
	mu           sync.RWMutex
	networks     map[string]Network
	networksByID map[uint64]Network
}

var (
	globalOnce              sync.Once
	globalSupportedNetworks *networks
)

func registry() *networks {
	globalOnce.Do(func() {
		globalSupportedNetworks = newSupportedNetworks(CustomNetworksDir())
	})
	return globalSupportedNetworks
}

func newSupportedNetworks(customDir string) *networks {
	result := &networks{
		networks:     map[string]Network{},
		networksByID: map[uint64]Network{},
	}
	for _, n := range supportedNetworks {
		if err := result.add(n, false); err != nil {
			panic(err)
		}
	}

	customNetworks, err := loadCustomNetworks(customDir)
	if err != nil {
		logger.Warnw("Failed to load custom networks, continuing with built-in networks", "dir", customDir, "err", err)
		return result
	}
	for _, n := range customNetworks {
		if err := result.add(n, true); err != nil {
			logger.Warnw("Ignoring custom network", "name", n.GetName(), "err", err)
		}
	}
	return result
}

func (n *networks) add(network Network, replace bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := append([]string{network.GetName()}, network.GetAlternativeNames()...)
	if !replace {
		for _, name := range names {
			if _, found := n.networks[name]; found {
				return fmt.Errorf("network with name or alternative name of '%s' already exists", name)
			}
		}
	}
	for _, name := range names {
		n.networks[name] = network
	}
	n.networksByID[network.GetChainID()] = network
	return nil
}

func (n *networks) getNetwork(name string) (Network, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res, found := n.networks[strings.ToLower(strings.TrimSpace(name))]
	if !found {
		return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) getNetworkByID(id uint64) (Network, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res, found := n.networksByID[id]
	if !found {
		return nil, fmt.Errorf("network id %d: %w", id, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) list() []Network {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res := []Network{}
	for _, network := range n.networksByID {
		res = append(res, network)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].GetName() < res[j].GetName() })
	return res
}

func loadCustomNetworks(dir string) ([]Network, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob json files in %s: %w", dir, err)
	}

	result := []Network{}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", file, err)
		}
		network, err := NewNetworkFromJSON(content)
		if err != nil {
			logger.Warnw("Failed to parse custom network, skipping it", "file", file, "err", err)
			continue
		}
		result = append(result, network)
	}
	return result, nil
}

func GetSupportedNetworks() []Network {
	return registry().list()
}

func GetNetwork(name string) (Network, error) {
	return registry().getNetwork(name)
}

func GetNetworkByID(id uint64) (Network, error) {
	return registry().getNetworkByID(id)
}

// AddNetwork registers the network and stores it in the custom networks
// directory so later runs pick it up.
func AddNetwork(network Network) (string, error) {
	if err := registry().add(network, true); err != nil {
		return "", err
	}
	content, err := json.MarshalIndent(network, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal network %s: %w", network.GetName(), err)
	}
	dir := CustomNetworksDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.json", network.GetName()))
	return path, os.WriteFile(path, content, 0o644)
}
