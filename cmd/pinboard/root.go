package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/pinboard"
	"github.com/phanxgames/pinboard/config"
)

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "pinboard",
		Short:         "Cork board of pinned images and notes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			a.cfg = cfg
			a.log = setupLogging(cfg.Debug)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "pinboard.yaml", "path to the YAML config file")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")

	root.AddCommand(
		newPlayCmd(a),
		newReplayCmd(a),
		newExportCmd(a),
		newShowCmd(a),
		newServeCmd(a),
	)
	return root
}

// openSession builds a loaded session over the configured gateway. The
// returned function closes the session and then the gateway.
func (a *app) openSession(ctx context.Context, board pinboard.Rect, opts pinboard.Options) (*pinboard.Session, func(), error) {
	gw, closeGateway, err := config.OpenGateway(ctx, a.cfg, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("opening gateway: %w", err)
	}
	opts.Gateway = gw
	opts.Logger = a.log
	opts.Passphrase = a.cfg.Passphrase
	opts.SaveDebounce = a.cfg.Debounce
	opts.Board = board
	opts.Viewport = board.Size()
	if opts.Dimensions == nil {
		opts.Dimensions = pinboard.NewDimensionCache(pinboard.HTTPOpener(nil), a.log)
	}

	s := pinboard.NewSession(opts)
	s.Load(ctx)
	return s, func() {
		s.Close()
		if err := closeGateway(); err != nil {
			a.log.WithError(err).Warn("closing gateway")
		}
	}, nil
}

func (a *app) windowBoard() pinboard.Rect {
	return pinboard.Rect{Width: float64(a.cfg.Window.Width), Height: float64(a.cfg.Window.Height)}
}
