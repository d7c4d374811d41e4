package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ironsheep/watermark-manager/internal/imaging"
)

// Editor applies one tonal adjustment to an image file.
type Editor struct {
	quality int
}

// NewEditor creates an Editor writing JPEG output at quality (0 means
// imaging.DefaultQuality).
func NewEditor(quality int) *Editor {
	if quality == 0 {
		quality = imaging.DefaultQuality
	}
	return &Editor{quality: quality}
}

// Apply adjusts the image at inputPath with op and writes the result to
// imaging.OutputPath(inputPath, imaging.TagEdited), returning that path.
// Exactly one operation is applied per call.
func (e *Editor) Apply(ctx context.Context, inputPath string, op imaging.ToneOp) (string, error) {
	log := zerolog.Ctx(ctx).With().
		Str("input", inputPath).
		Stringer("tone", op.Kind).
		Float64("delta", op.Delta).
		Logger()
	enter(&log, StateStart)

	src, err := imaging.Decode(inputPath)
	if err != nil {
		return "", fail(&log, "decode input", err)
	}
	enter(&log, StateDecoded)

	out, err := imaging.ApplyTone(src, op)
	if err != nil {
		return "", fail(&log, "adjust", err)
	}
	enter(&log, StateRendered)

	if err := ctx.Err(); err != nil {
		return "", fail(&log, "encode", err)
	}

	dst := imaging.OutputPath(inputPath, imaging.TagEdited)
	if err := imaging.Encode(out, dst, e.quality); err != nil {
		return "", fail(&log, "encode", err)
	}
	enter(&log, StateDone)

	log.Info().Str("output", dst).Msg("edited image written")
	return dst, nil
}
