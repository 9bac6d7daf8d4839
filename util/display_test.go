package util

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/faucet/faucet"
	"github.com/tranvictor/faucet/ui"
)

var (
	user     = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	contract = common.HexToAddress("0x868491ee560156dfB0CEE6b5E2bf3191F1D0B180")
)

func tokens(s string) *big.Int {
	v, _ := new(big.Int).SetString(s, 10)
	return v
}

func loadedState() faucet.State {
	return faucet.State{
		Loaded:          true,
		Address:         user,
		Contract:        contract,
		Network:         faucet.Network{Name: "neox-testnet", ChainID: 12227332, Expected: 12227332},
		UserBalance:     faucet.Reading{Amount: tokens("1500000000000000000")},
		ContractBalance: faucet.Reading{Amount: tokens("1000000000000000000000")},
	}
}

func TestDisplayLoading(t *testing.T) {
	r := ui.NewRecordingUI()
	DisplayFaucet(r, faucet.State{Loading: true})
	assert.Equal(t, []ui.Entry{{Method: "Info", Value: LoadingText}}, r.Entries())
}

func TestDisplayLoadedIdle(t *testing.T) {
	r := ui.NewRecordingUI()
	DisplayFaucet(r, loadedState())

	assert.Empty(t, r.ErrorMessages())
	assert.Empty(t, r.WarnMessages())
	assert.Equal(t, []string{"Your Address | Your Balance"}, r.MethodValues("TableHeader"))
	assert.Equal(t, []string{user.Hex() + " | 1.5"}, r.MethodValues("TableRow"))
	assert.Equal(t, []string{
		"Network: neox-testnet (12227332)",
		"Contract: " + contract.Hex(),
		"Contract Balance: 1000.0",
	}, r.MethodValues("KeyValue"))
	assert.Equal(t, []string{"[ Request Tokens ]"}, r.MethodValues("Success"))
	assert.False(t, r.HasMessage("Last request"))
}

func TestDisplayCoolingDownWithErrorBanner(t *testing.T) {
	st := loadedState()
	st.Request = faucet.CoolingDown
	st.CooldownSeconds = 65
	st.ErrorMessage = faucet.AlreadyRequestedMessage

	r := ui.NewRecordingUI()
	DisplayFaucet(r, st)

	assert.Equal(t, []string{faucet.AlreadyRequestedMessage}, r.ErrorMessages())
	assert.Contains(t, r.InfoMessages(), "[ Try again in 1:05 ] (disabled)")
	assert.Empty(t, r.MethodValues("Success"))
	// the banner co-renders with the balances
	assert.NotEmpty(t, r.MethodValues("TableRow"))

	d := BuildFaucetDisplay(st)
	assert.Equal(t, 65, d.Button.CooldownSeconds)
	assert.False(t, d.Button.Enabled)
}

func TestDisplayRequesting(t *testing.T) {
	st := loadedState()
	st.Request = faucet.Requesting
	d := BuildFaucetDisplay(st)
	assert.Equal(t, "Requesting...", d.Button.Label)
	assert.False(t, d.Button.Enabled)
}

func TestDisplayFailedReadAndMismatch(t *testing.T) {
	st := loadedState()
	st.UserBalance = faucet.Reading{Err: &faucet.BalanceReadError{Address: user, Err: errors.New("boom")}}
	st.Network = faucet.Network{Name: "unknown", ChainID: 1, Expected: 12227332}

	r := ui.NewRecordingUI()
	DisplayFaucet(r, st)

	assert.Equal(t, []string{user.Hex() + " | unavailable"}, r.MethodValues("TableRow"))
	require.Len(t, r.WarnMessages(), 1)
	assert.Contains(t, r.WarnMessages()[0], "expects chain id 12227332")
}

func TestDisplayFatalWithoutWallet(t *testing.T) {
	st := faucet.State{
		Contract:     contract,
		Fatal:        &faucet.NoWalletError{},
		ErrorMessage: faucet.NoWalletMessage,
	}
	r := ui.NewRecordingUI()
	DisplayFaucet(r, st)

	assert.Equal(t, []string{faucet.NoWalletMessage}, r.ErrorMessages())
	assert.Empty(t, r.MethodValues("TableRow"))
	assert.Contains(t, r.MethodValues("KeyValue"), "Contract Balance: -")
	assert.Contains(t, r.InfoMessages(), "[ Request Tokens ] (reconnect)")
	assert.Empty(t, r.MethodValues("Success"))
}

func TestDisplayContractMissingDisablesButton(t *testing.T) {
	st := loadedState()
	st.Loaded = false
	st.Fatal = &faucet.ContractNotFoundError{Address: contract}
	st.ErrorMessage = faucet.ContractNotFoundMessage

	d := BuildFaucetDisplay(st)
	assert.False(t, d.Button.Enabled)
	assert.True(t, d.Button.Reconnect)
	assert.Equal(t, "Request Tokens", d.Button.Label)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"enabled":false`)
}

func TestDisplayLastRequest(t *testing.T) {
	st := loadedState()
	st.LastRequest = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	st.LastTxHash = common.HexToHash("0x01")

	r := ui.NewRecordingUI()
	DisplayFaucet(r, st)

	assert.Contains(t, r.InfoMessages(), "Last request: "+st.LastRequest.Local().Format(time.DateTime))
	assert.Equal(t, []string{"Last tx: " + st.LastTxHash.Hex()}, r.CriticalMessages())
}

func TestFaucetDisplayJSON(t *testing.T) {
	st := loadedState()
	st.Request = faucet.CoolingDown
	st.CooldownSeconds = 3600

	b, err := json.Marshal(BuildFaucetDisplay(st))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "1.5", got["userBalance"])
	assert.Equal(t, "1000.0", got["contractBalance"])
	button := got["button"].(map[string]interface{})
	assert.Equal(t, "Try again in 60:00", button["label"])
	assert.Equal(t, false, button["enabled"])
	assert.NotContains(t, got, "error")
}
