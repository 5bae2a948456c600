package main

import (
	"github.com/spf13/cobra"

	"github.com/phanxgames/pinboard"
	"github.com/phanxgames/pinboard/render"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		out           string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the stored board to a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			dims := pinboard.NewDimensionCache(pinboard.HTTPOpener(nil), a.log)
			board := pinboard.Rect{Width: float64(width), Height: float64(height)}
			s, done, err := a.openSession(cmd.Context(), board, pinboard.Options{Dimensions: dims})
			if err != nil {
				return err
			}
			defer done()

			// Image sizes decide item boxes.
			dims.Wait()
			err = render.ExportPNG(out, s.Snapshot(), render.Options{
				Width:   width,
				Height:  height,
				Natural: dims.Natural,
			})
			if err != nil {
				return err
			}
			a.log.WithField("path", out).Info("board exported")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "png", "o", "board.png", "output PNG path")
	cmd.Flags().IntVar(&width, "width", 1280, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 800, "image height in pixels")
	return cmd
}
