package util

import "github.com/tranvictor/faucet/ui"

// FaucetDisplay is the human-readable view-model of a faucet session.
// StyledText fields carry Severity annotations used only by the terminal
// print phase; JSON consumers receive clean plain strings.
type FaucetDisplay struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`

	Address         string        `json:"address,omitempty"`
	UserBalance     ui.StyledText `json:"userBalance"` // serializes as string
	Network         string        `json:"network,omitempty"`
	Contract        string        `json:"contract"`
	ContractBalance ui.StyledText `json:"contractBalance"` // serializes as string

	Button ButtonDisplay `json:"button"`

	LastRequest string `json:"lastRequest,omitempty"`
	LastTx      string `json:"lastTx,omitempty"`
}

type ButtonDisplay struct {
	Label           string `json:"label"`
	Enabled         bool   `json:"enabled"`
	CooldownSeconds int    `json:"cooldownSeconds,omitempty"`
	// Reconnect is set when only a new load can enable the button.
	Reconnect bool `json:"reconnect,omitempty"`
}
