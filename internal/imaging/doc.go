// Package imaging provides the pixel operations behind the watermark tool:
// decoding and encoding image files, compositing an overlay, drawing text,
// tonal adjustments, and deriving output file names.
//
// # Pixel Buffers
//
// Every operation works on *image.NRGBA buffers that satisfy one invariant:
//   - the rectangle starts at (0,0) and is non-empty
//   - Stride is exactly 4*width
//   - len(Pix) == width*height*4 (8-bit, non-premultiplied RGBA)
//
// Decode always returns such a buffer. Operations never modify their input;
// each returns a new buffer (RenderText with empty text returns its input).
// A buffer that breaks the invariant is a programming error and is reported
// as ErrInvariant.
//
// # Coordinate System
//
// (0,0) is the top-left pixel, X grows rightward and Y grows downward.
// Rectangles are half-open: Min is inclusive, Max is exclusive.
//
// # Error Handling
//
// Failures wrap one of the sentinel errors so callers can classify them with
// errors.Is:
//   - ErrNotFound: the input or overlay file does not exist
//   - ErrDecode: the file is not a supported image
//   - ErrWrite: the output could not be written
//   - ErrRange: an adjustment amount is outside [-1, 1]
//   - ErrParse: an adjustment amount is not a number
//   - ErrInvariant: a malformed buffer reached an operation
//
// Operations validate all parameters before producing output, so an error
// never comes with a partially processed image.
package imaging
