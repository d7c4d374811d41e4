package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/ironsheep/watermark-manager/internal/imaging"
)

// WatermarkOptions configures a Watermarker. Zero values select the defaults.
// Opacity is a pointer because 0 is a valid opacity.
type WatermarkOptions struct {
	// Opacity of image watermarks, 0-1. Nil means imaging.DefaultOpacity.
	Opacity *float64

	// Quality is the JPEG quality of the output. Zero means
	// imaging.DefaultQuality.
	Quality int

	// Style is used for text watermarks. A zero style is black Go Regular
	// at imaging.DefaultFontSize.
	Style imaging.TextStyle
}

// Watermarker stamps a text or image watermark on an image file.
type Watermarker struct {
	opacity float64
	quality int
	style   imaging.TextStyle
}

// NewWatermarker creates a Watermarker with the given options.
func NewWatermarker(opts WatermarkOptions) *Watermarker {
	w := &Watermarker{
		opacity: imaging.DefaultOpacity,
		quality: opts.Quality,
		style:   opts.Style,
	}
	if opts.Opacity != nil {
		w.opacity = *opts.Opacity
	}
	if w.quality == 0 {
		w.quality = imaging.DefaultQuality
	}
	if w.style.Face == nil {
		w.style = imaging.DefaultTextStyle()
	}
	return w
}

// Apply watermarks the image at inputPath and writes the result to
// imaging.OutputPath(inputPath, imaging.TagWatermark), returning that path.
//
// Text is centered over the whole image. An image overlay is centered and
// blended at the configured opacity. Errors wrap the imaging sentinels
// (ErrNotFound for a missing input or overlay, ErrDecode, ErrWrite,
// ErrInvariant) prefixed with the failing stage. A cancelled ctx stops the
// run before anything is written.
func (w *Watermarker) Apply(ctx context.Context, inputPath string, wm Watermark) (string, error) {
	log := zerolog.Ctx(ctx).With().
		Str("input", inputPath).
		Stringer("watermark", wm.Kind).
		Logger()
	enter(&log, StateStart)

	base, err := imaging.Decode(inputPath)
	if err != nil {
		return "", fail(&log, "decode input", err)
	}
	enter(&log, StateDecoded)

	var out *image.NRGBA
	switch wm.Kind {
	case WatermarkText:
		out, err = imaging.RenderText(base, wm.Text, base.Bounds(), imaging.AlignCenter, imaging.AlignMiddle, w.style)
		if err != nil {
			return "", fail(&log, "render text", err)
		}

	case WatermarkImage:
		overlay, err := imaging.Decode(wm.OverlayPath)
		if err != nil {
			return "", fail(&log, "decode overlay", err)
		}
		off := imaging.CenterOffset(base.Bounds(), overlay.Bounds())
		out, err = imaging.Composite(base, overlay, off.X, off.Y, w.opacity)
		if err != nil {
			return "", fail(&log, "composite", err)
		}

	default:
		return "", fail(&log, "render", fmt.Errorf("unknown watermark kind %s", wm.Kind))
	}
	enter(&log, StateRendered)

	if err := ctx.Err(); err != nil {
		return "", fail(&log, "encode", err)
	}

	dst := imaging.OutputPath(inputPath, imaging.TagWatermark)
	if err := imaging.Encode(out, dst, w.quality); err != nil {
		return "", fail(&log, "encode", err)
	}
	enter(&log, StateDone)

	log.Info().Str("output", dst).Msg("watermark written")
	return dst, nil
}
