package cmd

import (
	"errors"
	"sync"

	"github.com/spf13/cobra"

	"github.com/tranvictor/faucet/faucet"
	"github.com/tranvictor/faucet/ui"
	"github.com/tranvictor/faucet/util"
)

// renderer redraws the faucet on every state change except countdown ticks.
type renderer struct {
	mu   sync.Mutex
	u    ui.UI
	last *faucet.State
}

func (r *renderer) observe(st faucet.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last != nil {
		if st.Version <= r.last.Version {
			return
		}
		if st.SameView(*r.last) {
			r.last = &st
			return
		}
	}
	r.last = &st
	util.DisplayFaucet(r.u, st)
}

const (
	menuRequest = iota
	menuRefresh
	menuStatus
	menuReload
	menuQuit
)

var menu = []string{
	"Request tokens",
	"Refresh balances",
	"Show status",
	"Reconnect",
	"Quit",
}

// runOpen drives the interactive loop until the user quits.
func runOpen(cmd *cobra.Command, s *faucet.Session, u ui.UI) error {
	ctx := cmd.Context()
	r := &renderer{u: u}
	unsubscribe := s.Subscribe(r.observe)
	defer unsubscribe()

	_ = s.Load(ctx)
	for {
		if ctx.Err() != nil {
			return nil
		}
		switch u.Choose("What do you want to do?", menu) {
		case menuRequest:
			err := s.RequestTokens(ctx)
			switch {
			case errors.Is(err, faucet.ErrNotIdle):
				u.Warn("%s", s.State().ButtonLabel())
			case errors.Is(err, faucet.ErrNotLoaded):
				u.Warn("The faucet is not loaded. Reconnect first.")
			}
		case menuRefresh:
			if err := s.Refresh(ctx); errors.Is(err, faucet.ErrNotLoaded) {
				u.Warn("The faucet is not loaded. Reconnect first.")
			}
		case menuStatus:
			util.DisplayFaucet(u, s.State())
		case menuReload:
			_ = s.Load(ctx)
		case menuQuit:
			return nil
		}
	}
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open an interactive faucet session",
	Long: `Connects your wallet, shows your balance and the faucet's balance and lets you
request tokens. The countdown after a request is shown by "Show status".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cfg, appUI)
		if err != nil {
			return err
		}
		defer s.Close()
		return runOpen(cmd, s, appUI)
	},
}

func init() {
	AddCommonFlagsToTransactionalCmds(openCmd)
	rootCmd.AddCommand(openCmd)
}
