package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// DefaultOpacity is the overlay opacity used for image watermarks.
const DefaultOpacity = 0.5

// CenterOffset returns the top-left position that centers an overlay of size
// overlay on a canvas of size base. Integer division truncates toward zero, so
// an overlay larger than the canvas gets a negative offset and is clipped
// evenly on both sides.
func CenterOffset(base, overlay image.Rectangle) image.Point {
	return image.Pt(
		(base.Dx()-overlay.Dx())/2,
		(base.Dy()-overlay.Dy())/2,
	)
}

// Composite blends overlay onto a copy of base with its top-left corner at
// (x, y) and returns the copy.
//
// Parameters:
//   - base: The canvas. Not modified.
//   - overlay: The image placed on top. Parts falling outside base are clipped.
//   - x, y: Overlay position in base coordinates. May be negative.
//   - opacity: Extra opacity factor applied to the overlay, clamped to [0,1].
//     NaN is treated as 0.
//
// # Blend Rule
//
// For every base pixel covered by the overlay, each channel (including alpha)
// is blended source-over with the overlay's alpha scaled by opacity:
//
//	k   = opacity * overlayAlpha / 255
//	out = base*(1-k) + overlay*k
//
// Pixels outside the overlay keep their base values. An opacity of 0 returns
// an exact copy of base.
//
// # Errors
//
// Returns ErrInvariant if either buffer is malformed.
func Composite(base, overlay *image.NRGBA, x, y int, opacity float64) (*image.NRGBA, error) {
	if err := checkBuffer(base); err != nil {
		return nil, err
	}
	if err := checkBuffer(overlay); err != nil {
		return nil, err
	}

	if math.IsNaN(opacity) {
		opacity = 0
	}
	opacity = math.Min(math.Max(opacity, 0), 1)

	out := imaging.Clone(base)

	area := out.Rect.Intersect(overlay.Rect.Add(image.Pt(x, y)))
	if area.Empty() || opacity == 0 {
		return out, nil
	}

	for py := area.Min.Y; py < area.Max.Y; py++ {
		d := out.PixOffset(area.Min.X, py)
		s := overlay.PixOffset(area.Min.X-x, py-y)
		for px := area.Min.X; px < area.Max.X; px++ {
			k := opacity * float64(overlay.Pix[s+3]) / 255
			if k > 0 {
				for c := 0; c < 4; c++ {
					v := float64(out.Pix[d+c])*(1-k) + float64(overlay.Pix[s+c])*k
					out.Pix[d+c] = clampChannel(v)
				}
			}
			d += 4
			s += 4
		}
	}

	return out, nil
}

// clampChannel rounds v to the nearest 8-bit channel value.
func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
