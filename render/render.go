// Package render draws a board snapshot to a PNG image.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/phanxgames/pinboard"
)

var (
	noteFill   = color.RGBA{0xfe, 0xfc, 0xe8, 0xff}
	imageFill  = color.RGBA{0xf1, 0xf5, 0xf9, 0xff}
	edgeColor  = color.RGBA{0x47, 0x55, 0x69, 0xff}
	titleColor = color.RGBA{0x1f, 0x29, 0x37, 0xff}
)

const pinRadius = 8.0

// Options controls an export.
type Options struct {
	Width, Height int
	// Natural returns the natural size of an image item's content, or a zero
	// Size when unknown. Nil renders every image at placeholder size.
	Natural func(url string) pinboard.Size
	// FontSize is the title size in points. Defaults to 14.
	FontSize float64
}

// Draw renders snap onto a new image. Items are drawn bottom to top as
// rotated boxes with their titles and pins.
func Draw(snap pinboard.Snapshot, opts Options) (image.Image, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New("render: width and height must be positive")
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 14
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	bg, ok := pinboard.ParseHexColor(snap.BoardConfig.BackgroundColor)
	if !ok {
		bg, _ = pinboard.ParseHexColor(pinboard.DefaultBoardConfig().BackgroundColor)
	}
	dc.SetColor(bg)
	dc.Clear()

	ttfFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	board := pinboard.Size{Width: float64(opts.Width), Height: float64(opts.Height)}
	store := pinboard.NewItemStore(snap.Items, snap.BoardConfig.NextZIndex)
	for _, it := range store.SortedByZ() {
		var natural pinboard.Size
		if it.Kind == pinboard.KindImage && opts.Natural != nil {
			natural = opts.Natural(it.Content)
		}
		drawItem(dc, it, pinboard.FrameAt(it, pinboard.Vec2{}, board, natural))
	}
	return dc.Image(), nil
}

func drawItem(dc *gg.Context, it pinboard.Item, frame pinboard.ItemFrame) {
	c := frame.Center()
	w, h := frame.Box.Width, frame.Box.Height

	dc.Push()
	dc.RotateAbout(gg.Radians(frame.Rotation), c.X, c.Y)
	dc.DrawRectangle(frame.Box.X, frame.Box.Y, w, h)
	if it.Kind == pinboard.KindNote {
		dc.SetColor(noteFill)
	} else {
		dc.SetColor(imageFill)
	}
	dc.FillPreserve()
	dc.SetLineWidth(1)
	dc.SetColor(edgeColor)
	dc.Stroke()

	dc.SetColor(titleColor)
	dc.DrawStringWrapped(it.Title, c.X, frame.Box.Y+dc.FontHeight(), 0.5, 0, w-8, 1.2, gg.AlignCenter)
	dc.Pop()

	if it.Pin.Enabled {
		p := frame.PinPoint(it.Pin.Position)
		dc.DrawCircle(p.X, p.Y, pinRadius)
		dc.SetColor(pinboard.PinColor(it.Pin.Color))
		dc.FillPreserve()
		dc.SetColor(color.RGBA{0, 0, 0, 0x60})
		dc.SetLineWidth(1)
		dc.Stroke()
	}
}

// WritePNG renders snap and encodes it as PNG to w.
func WritePNG(w io.Writer, snap pinboard.Snapshot, opts Options) error {
	img, err := Draw(snap, opts)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(img)
	return dc.EncodePNG(w)
}

// ExportPNG renders snap to the PNG file at path.
func ExportPNG(path string, snap pinboard.Snapshot, opts Options) error {
	img, err := Draw(snap, opts)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}
