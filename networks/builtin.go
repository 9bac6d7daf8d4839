package networks

var NeoXTestnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "neox-testnet",
	AlternativeNames:   []string{"neox-t4"},
	ChainID:            12227332,
	NativeTokenSymbol:  "GAS",
	NativeTokenDecimal: 18,
	BlockTime:          15,
	NodeVariableName:   "NEOX_TESTNET_NODE",
	DefaultNodes: map[string]string{
		"ngd-seed1": "https://neoxt4seed1.ngd.network",
	},
})

var NeoXMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "neox",
	AlternativeNames:   []string{"neox-mainnet"},
	ChainID:            47763,
	NativeTokenSymbol:  "GAS",
	NativeTokenDecimal: 18,
	BlockTime:          15,
	NodeVariableName:   "NEOX_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"banelabs": "https://mainnet-1.rpc.banelabs.org",
	},
})

var EthereumMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "mainnet",
	AlternativeNames:   []string{"ethereum"},
	ChainID:            1,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          12,
	NodeVariableName:   "ETHEREUM_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"publicnode": "https://ethereum-rpc.publicnode.com",
	},
})

var Sepolia Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "sepolia",
	ChainID:            11155111,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          12,
	NodeVariableName:   "ETHEREUM_SEPOLIA_NODE",
	DefaultNodes: map[string]string{
		"publicnode": "https://ethereum-sepolia-rpc.publicnode.com",
	},
})

var BSCTestnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "bsc-test",
	AlternativeNames:   []string{"bsc-testnet"},
	ChainID:            97,
	NativeTokenSymbol:  "BNB",
	NativeTokenDecimal: 18,
	BlockTime:          3,
	NodeVariableName:   "BSC_TESTNET_NODE",
	DefaultNodes: map[string]string{
		"binance1": "https://data-seed-prebsc-1-s1.binance.org:8545",
		"binance2": "https://data-seed-prebsc-2-s1.binance.org:8545",
	},
})

// Localhost matches anvil and hardhat defaults.
var Localhost Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "localhost",
	AlternativeNames:   []string{"anvil", "hardhat"},
	ChainID:            31337,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          1,
	NodeVariableName:   "LOCALHOST_NODE",
	DefaultNodes: map[string]string{
		"local": "http://127.0.0.1:8545",
	},
})
