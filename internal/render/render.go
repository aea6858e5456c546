// Package render draws a push table entry as an SVG or PNG board diagram.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"github.com/hailam/pawnpush/internal/board"
)

const (
	lightSquare = "fill:#eeeed2"
	darkSquare  = "fill:#769656"
	originStyle = "fill:#f6f669"
	targetStyle = "fill:#cc3333;fill-opacity:0.8"
	labelStyle  = "font-family:sans-serif;font-size:%dpx;fill:#333333"

	// PNGs are rasterized at this multiple and scaled down for smooth edges.
	renderScale = 3

	MinSize = 64
	MaxSize = 2048
)

// Options controls a diagram.
type Options struct {
	// Size is the edge length in pixels, clamped to [MinSize, MaxSize].
	Size int
	// Labels adds file and rank coordinates. Only the SVG output shows them.
	Labels bool
}

func (o Options) size() int {
	switch {
	case o.Size < MinSize:
		return MinSize
	case o.Size > MaxSize:
		return MaxSize
	}
	return o.Size
}

// WriteSVG draws the board with from highlighted and every square of mask
// marked, rank 8 at the top.
func WriteSVG(w io.Writer, from board.Square, mask board.Bitboard, opts Options) error {
	return writeSVG(w, from, mask, opts.size(), opts.Labels)
}

func writeSVG(w io.Writer, from board.Square, mask board.Bitboard, size int, labels bool) error {
	if !from.IsValid() {
		return fmt.Errorf("%w: %d", board.ErrSquareOutOfRange, from)
	}

	cell := size / 8
	size = cell * 8

	canvas := svg.New(w)
	canvas.Startview(size, size, 0, 0, size, size)
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			sq := board.NewSquare(file, rank)
			x, y := file*cell, (7-rank)*cell

			style := darkSquare
			if (file+rank)%2 == 1 {
				style = lightSquare
			}
			if sq == from {
				style = originStyle
			}
			canvas.Rect(x, y, cell, cell, style)

			if mask.IsSet(sq) {
				canvas.Circle(x+cell/2, y+cell/2, cell/4, targetStyle)
			}
		}
	}

	if labels {
		font := fmt.Sprintf(labelStyle, cell/5)
		for i := 0; i < 8; i++ {
			canvas.Text(i*cell+2, size-3, string(rune('a'+i)), font)
			canvas.Text(2, (7-i)*cell+cell/5+1, string(rune('1'+i)), font)
		}
	}
	canvas.End()
	return nil
}

// WritePNG renders the same diagram as WriteSVG into a PNG.
func WritePNG(w io.Writer, from board.Square, mask board.Bitboard, opts Options) error {
	img, err := Image(from, mask, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Image rasterizes the diagram.
func Image(from board.Square, mask board.Bitboard, opts Options) (*image.RGBA, error) {
	size := opts.size()
	renderSize := size * renderScale

	var buf bytes.Buffer
	if err := writeSVG(&buf, from, mask, renderSize, false); err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(&buf, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse diagram: %w", err)
	}
	icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

	hi := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	scanner := rasterx.NewScannerGV(renderSize, renderSize, hi, hi.Bounds())
	raster := rasterx.NewDasher(renderSize, renderSize, scanner)
	icon.Draw(raster, 1.0)

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(out, out.Bounds(), hi, hi.Bounds(), draw.Over, nil)
	return out, nil
}
