package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFontSize is the point size of the built-in watermark font.
const DefaultFontSize = 32.0

// HAlign is the horizontal placement of a text block inside its bounds.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign is the vertical placement of a text block inside its bounds.
type VAlign int

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

// TextStyle selects the face and colour used by RenderText.
// A zero TextStyle renders with DefaultTextStyle.
type TextStyle struct {
	Face  font.Face
	Color color.Color
}

var goRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// NewTextStyle builds a text style.
//
// Parameters:
//   - fontPath: A TrueType font file. Empty selects the embedded Go Regular
//     sans-serif face, so no font needs to be installed.
//   - size: Font size in points. Values <= 0 mean DefaultFontSize.
//   - hexColor: Text colour as "#RRGGBB" or "#RGB" (the leading '#' is
//     optional). Empty means black.
func NewTextStyle(fontPath string, size float64, hexColor string) (TextStyle, error) {
	if size <= 0 {
		size = DefaultFontSize
	}

	col := color.Color(color.Black)
	if hexColor != "" {
		c, err := ParseColor(hexColor)
		if err != nil {
			return TextStyle{}, err
		}
		col = c
	}

	if fontPath != "" {
		face, err := gg.LoadFontFace(fontPath, size)
		if err != nil {
			return TextStyle{}, fmt.Errorf("failed to load font %s: %w", fontPath, err)
		}
		return TextStyle{Face: face, Color: col}, nil
	}

	f, err := goRegular()
	if err != nil {
		return TextStyle{}, fmt.Errorf("failed to parse built-in font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return TextStyle{}, fmt.Errorf("failed to create font face: %w", err)
	}

	return TextStyle{Face: face, Color: col}, nil
}

// DefaultTextStyle returns black Go Regular at DefaultFontSize.
func DefaultTextStyle() TextStyle {
	style, err := NewTextStyle("", DefaultFontSize, "")
	if err != nil {
		// goregular.TTF is compiled in and always parses.
		panic(err)
	}
	return style
}

// ParseColor parses a hex colour such as "#1A2B3C" into an opaque colour.
func ParseColor(hex string) (color.NRGBA, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// RenderText draws a single line of text onto a copy of base.
//
// Parameters:
//   - base: The canvas. Not modified.
//   - text: The text to draw. Empty text returns base itself, untouched.
//   - bounds: The rectangle the text block is aligned within. Use
//     base.Bounds() to align against the whole image.
//   - h, v: Placement of the measured text block inside bounds.
//   - style: Face and colour. A zero style uses DefaultTextStyle.
//
// Text is not wrapped. A block larger than bounds overflows it, and anything
// outside the canvas is clipped. Only pixels covered by glyphs change; they
// are blended source-over as in Composite.
//
// # Errors
//
// Returns ErrInvariant if base is malformed.
func RenderText(base *image.NRGBA, text string, bounds image.Rectangle, h HAlign, v VAlign, style TextStyle) (*image.NRGBA, error) {
	if err := checkBuffer(base); err != nil {
		return nil, err
	}
	if text == "" {
		return base, nil
	}

	if style.Face == nil {
		def := DefaultTextStyle()
		style.Face = def.Face
		if style.Color == nil {
			style.Color = def.Color
		}
	}
	if style.Color == nil {
		style.Color = color.Black
	}

	// Glyphs go on a transparent layer of the same size, so pixels outside
	// the text never pass through gg's premultiplied buffer.
	dc := gg.NewContext(base.Rect.Dx(), base.Rect.Dy())
	dc.SetFontFace(style.Face)
	dc.SetColor(style.Color)

	// DrawStringAnchored shifts the baseline by the anchor times the measured
	// block size, so anchoring at a bounds edge aligns the block to that edge.
	var x, ax float64
	switch h {
	case AlignLeft:
		x, ax = float64(bounds.Min.X), 0
	case AlignRight:
		x, ax = float64(bounds.Max.X), 1
	default:
		x, ax = float64(bounds.Min.X)+float64(bounds.Dx())/2, 0.5
	}

	var y, ay float64
	switch v {
	case AlignTop:
		y, ay = float64(bounds.Min.Y), 1
	case AlignBottom:
		y, ay = float64(bounds.Max.Y), 0
	default:
		y, ay = float64(bounds.Min.Y)+float64(bounds.Dy())/2, 0.5
	}

	dc.DrawStringAnchored(text, x, y, ax, ay)

	return Composite(base, imaging.Clone(dc.Image()), 0, 0, 1)
}
