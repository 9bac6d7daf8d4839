package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/faucet/faucet"
	"github.com/tranvictor/faucet/ui"
	"github.com/tranvictor/faucet/util"
)

func showResult(u ui.UI, st faucet.State) error {
	if flags.json {
		return printJSON(u, util.BuildFaucetDisplay(st))
	}
	util.DisplayFaucet(u, st)
	return nil
}

// runRequest loads s and requests tokens once.
func runRequest(cmd *cobra.Command, s *faucet.Session, u ui.UI) error {
	ctx := cmd.Context()
	if err := s.Load(ctx); err != nil {
		_ = showResult(u, s.State())
		return err
	}
	err := s.RequestTokens(ctx)
	if perr := showResult(u, s.State()); perr != nil && err == nil {
		err = perr
	}
	return err
}

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Request tokens once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cfg, appUI)
		if err != nil {
			return err
		}
		defer s.Close()
		return runRequest(cmd, s, appUI)
	},
}

func init() {
	AddCommonFlagsToTransactionalCmds(requestCmd)
	rootCmd.AddCommand(requestCmd)
}
