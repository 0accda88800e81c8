// Package raster paints render commands into an image.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/rocketscienceinc/dotsandboxes-backend/internal/render"
)

var (
	ErrInvalidColor = errors.New("invalid color")
	ErrUnknownKind  = errors.New("unknown command kind")
)

// Paint executes commands on a new width x height canvas.
func Paint(commands []render.Command, width, height int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gc := draw2dimg.NewGraphicContext(img)
	gc.SetLineCap(draw2d.RoundCap)

	for i, cmd := range commands {
		c, err := ParseColor(cmd.Color)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}

		switch cmd.Kind {
		case render.KindClear:
			draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
		case render.KindLine:
			gc.BeginPath()
			gc.SetStrokeColor(c)
			gc.SetLineWidth(cmd.Width)
			gc.MoveTo(cmd.X1, cmd.Y1)
			gc.LineTo(cmd.X2, cmd.Y2)
			gc.Stroke()
		case render.KindCircle:
			gc.BeginPath()
			gc.SetFillColor(c)
			draw2dkit.Circle(gc, cmd.X1, cmd.Y1, cmd.Radius)
			gc.Fill()
		case render.KindText:
			// bitmap face: Size is not honoured
			drawLabel(img, c, cmd.X1, cmd.Y1, cmd.Text)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cmd.Kind)
		}
	}

	return img, nil
}

// EncodePNG paints commands and writes them as a PNG.
func EncodePNG(w io.Writer, commands []render.Command, width, height int) error {
	img, err := Paint(commands, width, height)
	if err != nil {
		return err
	}

	if err = png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}

	return nil
}

// ParseColor accepts "#rgb" and "#rrggbb".
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// drawLabel centres text horizontally on x with its baseline at y.
func drawLabel(dst draw.Image, c color.Color, x, y float64, text string) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(int(x)) - width/2, Y: fixed.I(int(y))},
	}
	d.DrawString(text)
}
