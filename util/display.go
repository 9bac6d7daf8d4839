package util

import (
	"fmt"
	"time"

	"github.com/tranvictor/faucet/faucet"
	"github.com/tranvictor/faucet/ui"
)

const (
	LoadingText      = "Loading..."
	unavailableText  = "unavailable"
	notReadText      = "-"
	lastRequestStamp = time.DateTime
)

// ── Build phase (pure: no UI side-effects) ──────────────────────────────────

func styledReading(r faucet.Reading) ui.StyledText {
	switch {
	case r.OK():
		return ui.StyledText{Text: r.Text(), Severity: ui.SeveritySuccess}
	case r.Err != nil:
		return ui.StyledText{Text: unavailableText, Severity: ui.SeverityError}
	default:
		return ui.StyledText{Text: notReadText, Severity: ui.SeverityInfo}
	}
}

func networkWarning(n faucet.Network) string {
	if !n.Mismatch() {
		return ""
	}
	return fmt.Sprintf(
		"Connected to %s (chain id %d) but the faucet expects chain id %d",
		n.Name, n.ChainID, n.Expected,
	)
}

// BuildFaucetDisplay turns a session snapshot into its view-model.
func BuildFaucetDisplay(st faucet.State) FaucetDisplay {
	d := FaucetDisplay{
		Loading:         st.Loading,
		Error:           st.ErrorMessage,
		Contract:        st.Contract.Hex(),
		UserBalance:     styledReading(st.UserBalance),
		ContractBalance: styledReading(st.ContractBalance),
		Button: ButtonDisplay{
			Label:   st.ButtonLabel(),
			Enabled:   st.ButtonEnabled(),
			Reconnect: st.Fatal != nil,
		},
	}
	if st.Request == faucet.CoolingDown {
		d.Button.CooldownSeconds = st.CooldownSeconds
	}
	if st.Connected() {
		d.Address = st.Address.Hex()
	}
	if st.Network.ChainID != 0 {
		d.Network = fmt.Sprintf("%s (%d)", st.Network.Name, st.Network.ChainID)
		d.Warning = networkWarning(st.Network)
	}
	if !st.LastRequest.IsZero() {
		d.LastRequest = st.LastRequest.Local().Format(lastRequestStamp)
	}
	if st.LastTxHash != ([32]byte{}) {
		d.LastTx = st.LastTxHash.Hex()
	}
	return d
}

// ── Print phase ─────────────────────────────────────────────────────────────

// PrintFaucetDisplay renders d. The error banner shows alongside the
// balances rather than replacing them.
func PrintFaucetDisplay(u ui.UI, d FaucetDisplay) {
	if d.Loading {
		u.Info(LoadingText)
		return
	}
	u.Section("Token Faucet")
	if d.Error != "" {
		u.Error("%s", d.Error)
	}
	if d.Warning != "" {
		u.Warn("%s", d.Warning)
	}
	if d.Address != "" {
		u.Table(
			[]string{"Your Address", "Your Balance"},
			[][]string{{d.Address, u.Style(d.UserBalance)}},
		)
	}

	rows := [][2]string{}
	if d.Network != "" {
		rows = append(rows, [2]string{"Network", d.Network})
	}
	rows = append(rows,
		[2]string{"Contract", d.Contract},
		[2]string{"Contract Balance", u.Style(d.ContractBalance)},
	)
	u.KeyValue(rows)

	switch {
	case d.Button.Enabled:
		u.Success("[ %s ]", d.Button.Label)
	case d.Button.Reconnect:
		u.Info("[ %s ] (reconnect)", d.Button.Label)
	default:
		u.Info("[ %s ] (disabled)", d.Button.Label)
	}

	if d.LastRequest != "" {
		u.Info("Last request: %s", d.LastRequest)
	}
	if d.LastTx != "" {
		u.Critical("Last tx: %s", d.LastTx)
	}
}

// DisplayFaucet builds and prints st.
func DisplayFaucet(u ui.UI, st faucet.State) {
	PrintFaucetDisplay(u, BuildFaucetDisplay(st))
}
