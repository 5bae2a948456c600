package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/phanxgames/pinboard"
	"github.com/phanxgames/pinboard/view"
)

func newPlayCmd(a *app) *cobra.Command {
	var showFPS bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the board in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			var game *view.Game
			s, done, err := a.openSession(cmd.Context(), a.windowBoard(), pinboard.Options{
				Confirm: func(it pinboard.Item) bool { return game.Confirm(it) },
			})
			if err != nil {
				return err
			}
			defer done()

			game = view.New(s)
			game.SetShowFPS(showFPS)
			ebiten.SetWindowTitle(a.cfg.Window.Title)
			ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			return ebiten.RunGame(game)
		},
	}
	cmd.Flags().BoolVar(&showFPS, "fps", false, "show the FPS readout")
	return cmd
}
