package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// ToneKind identifies a whole-image tonal adjustment.
type ToneKind int

const (
	ToneBrightness ToneKind = iota
	ToneContrast
	ToneGrayscale
	ToneInvert
)

func (k ToneKind) String() string {
	switch k {
	case ToneBrightness:
		return "brightness"
	case ToneContrast:
		return "contrast"
	case ToneGrayscale:
		return "grayscale"
	case ToneInvert:
		return "invert"
	default:
		return fmt.Sprintf("ToneKind(%d)", int(k))
	}
}

// ToneOp is one tonal adjustment. Delta is used by brightness and contrast
// and must lie in [-1, 1].
type ToneOp struct {
	Kind  ToneKind
	Delta float64
}

// ParseDelta parses a user-supplied adjustment amount such as ".4" or "-0.2".
//
// Returns ErrParse if s is not a number and ErrRange if it is outside [-1, 1].
func ParseDelta(s string) (float64, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, s)
	}
	if err := checkDelta(d); err != nil {
		return 0, err
	}
	return d, nil
}

// ParseToneOp builds a ToneOp of the given kind from raw user input.
// raw is ignored for kinds that take no amount.
func ParseToneOp(kind ToneKind, raw string) (ToneOp, error) {
	switch kind {
	case ToneBrightness, ToneContrast:
		d, err := ParseDelta(raw)
		if err != nil {
			return ToneOp{}, fmt.Errorf("%s: %w", kind, err)
		}
		return ToneOp{Kind: kind, Delta: d}, nil
	case ToneGrayscale, ToneInvert:
		return ToneOp{Kind: kind}, nil
	default:
		return ToneOp{}, fmt.Errorf("unknown tone operation: %s", kind)
	}
}

// ApplyTone applies op to a copy of buf.
func ApplyTone(buf *image.NRGBA, op ToneOp) (*image.NRGBA, error) {
	switch op.Kind {
	case ToneBrightness:
		return Brightness(buf, op.Delta)
	case ToneContrast:
		return Contrast(buf, op.Delta)
	case ToneGrayscale:
		return Grayscale(buf)
	case ToneInvert:
		return Invert(buf)
	default:
		return nil, fmt.Errorf("unknown tone operation: %s", op.Kind)
	}
}

// Brightness shifts every colour channel by delta*255.
//
// Parameters:
//   - buf: Source pixels. Not modified.
//   - delta: Amount in [-1, 1]. Positive values move toward white, negative
//     toward black, 0 is the identity. ±1 saturates every channel.
//
// Each of R, G and B maps through
//
//	v' = clamp(round(v + delta*255), 0, 255)
//
// Alpha is left unchanged.
//
// # Errors
//
// ErrRange if delta is outside [-1, 1] or NaN, ErrInvariant if buf is
// malformed. Validation happens before any pixel is touched.
func Brightness(buf *image.NRGBA, delta float64) (*image.NRGBA, error) {
	if err := checkDelta(delta); err != nil {
		return nil, err
	}
	if err := checkBuffer(buf); err != nil {
		return nil, err
	}

	shift := delta * 255
	var lut [256]uint8
	for i := range lut {
		lut[i] = clampChannel(math.Round(float64(i) + shift))
	}
	return applyLUT(buf, &lut), nil
}

// Contrast stretches or flattens every colour channel around mid-gray.
//
// Each of R, G and B maps through
//
//	v' = clamp(round((v-128)*f + 128), 0, 255)
//
// where the factor f grows monotonically with delta:
//   - delta in [-1, 0]: f = 1 + delta, so -1 collapses the image to flat gray
//   - delta in (0, 1):  f = 1 / (1 - delta)
//   - delta == 1:       a hard threshold at 128
//
// delta = 0 is the identity. Errors are the same as Brightness.
func Contrast(buf *image.NRGBA, delta float64) (*image.NRGBA, error) {
	if err := checkDelta(delta); err != nil {
		return nil, err
	}
	if err := checkBuffer(buf); err != nil {
		return nil, err
	}

	var lut [256]uint8
	for i := range lut {
		v := float64(i)
		switch {
		case delta >= 1:
			if v >= 128 {
				lut[i] = 255
			}
		case delta > 0:
			lut[i] = clampChannel(math.Round((v-128)/(1-delta) + 128))
		default:
			lut[i] = clampChannel(math.Round((v-128)*(1+delta) + 128))
		}
	}
	return applyLUT(buf, &lut), nil
}

// Grayscale converts buf to luminance, keeping its alpha.
func Grayscale(buf *image.NRGBA) (*image.NRGBA, error) {
	if err := checkBuffer(buf); err != nil {
		return nil, err
	}

	// bild works on premultiplied pixels; undo that for translucent ones.
	out := imaging.Clone(effect.Grayscale(buf))
	for i := 0; i < len(out.Pix); i += 4 {
		a := buf.Pix[i+3]
		g := out.Pix[i]
		if a != 0 && a != 255 {
			g = clampChannel(math.Round(float64(g) * 255 / float64(a)))
		}
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = g, g, g, a
	}
	return out, nil
}

// Invert replaces every colour channel v with 255-v, keeping alpha.
func Invert(buf *image.NRGBA) (*image.NRGBA, error) {
	if err := checkBuffer(buf); err != nil {
		return nil, err
	}
	return imaging.Invert(buf), nil
}

func checkDelta(d float64) error {
	if !(d >= -1 && d <= 1) {
		return fmt.Errorf("%w: %v is not within [-1, 1]", ErrRange, d)
	}
	return nil
}

func applyLUT(buf *image.NRGBA, lut *[256]uint8) *image.NRGBA {
	return imaging.AdjustFunc(buf, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
}
