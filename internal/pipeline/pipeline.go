// Package pipeline runs one watermarking or editing operation end to end:
// decode the input, transform it, and write the result next to the input
// under a derived name.
//
// A run moves through Start, Decoded, Rendered and Done. Any failure ends it
// in Failed, and nothing is written unless the final encode succeeds.
// Transitions are logged at debug level on the logger carried by the context
// (see zerolog.Ctx), so callers can tag a whole run with fields such as a run
// id.
package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"
)

// WatermarkKind selects between text and image watermarks.
type WatermarkKind int

const (
	WatermarkText WatermarkKind = iota
	WatermarkImage
)

func (k WatermarkKind) String() string {
	switch k {
	case WatermarkText:
		return "text"
	case WatermarkImage:
		return "image"
	default:
		return fmt.Sprintf("WatermarkKind(%d)", int(k))
	}
}

// Watermark describes what to stamp on an image. Build it with TextWatermark
// or ImageWatermark.
type Watermark struct {
	Kind        WatermarkKind
	Text        string // for WatermarkText
	OverlayPath string // for WatermarkImage
}

// TextWatermark returns a watermark that draws text.
func TextWatermark(text string) Watermark {
	return Watermark{Kind: WatermarkText, Text: text}
}

// ImageWatermark returns a watermark that composites the image at overlayPath.
func ImageWatermark(overlayPath string) Watermark {
	return Watermark{Kind: WatermarkImage, OverlayPath: overlayPath}
}

// State is a step of a pipeline run.
type State int

const (
	StateStart State = iota
	StateDecoded
	StateRendered
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateDecoded:
		return "decoded"
	case StateRendered:
		return "rendered"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func enter(log *zerolog.Logger, s State) {
	log.Debug().Stringer("state", s).Msg("pipeline state")
}

// fail logs the failure and wraps err with the stage that produced it.
func fail(log *zerolog.Logger, stage string, err error) error {
	log.Debug().Stringer("state", StateFailed).Str("stage", stage).Err(err).Msg("pipeline state")
	return fmt.Errorf("%s: %w", stage, err)
}
