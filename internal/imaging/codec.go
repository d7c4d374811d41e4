package imaging

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// DefaultQuality is the JPEG quality used when the caller does not choose one.
const DefaultQuality = 100

// Decode reads an image file into a pixel buffer.
//
// Parameters:
//   - path: Path to the image file. Supported formats are JPEG, PNG, GIF,
//     TIFF and BMP.
//
// Returns:
//   - *image.NRGBA: The decoded pixels, anchored at (0,0) with a tight stride.
//     EXIF orientation is applied, so a rotated camera JPEG comes back upright.
//   - error: ErrNotFound if path does not exist or is a directory, ErrDecode if
//     the file cannot be read or is not a supported raster format.
func Decode(path string) (*image.NRGBA, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to stat %s: %v", ErrDecode, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrDecode, path, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	buf := imaging.Clone(img)
	if err := checkBuffer(buf); err != nil {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrDecode, path)
	}
	return buf, nil
}

// Encode writes buf to path in the format implied by the path's extension.
//
// Parameters:
//   - buf: The pixels to write. Must satisfy the buffer invariant.
//   - path: Destination file. The extension selects the encoder (.jpg, .jpeg,
//     .png, .gif, .tif, .tiff, .bmp). An existing file is replaced.
//   - quality: JPEG quality in 1..100. Other values mean DefaultQuality.
//     Ignored for lossless formats.
//
// The image is encoded into a temporary file in the destination directory and
// renamed over path only after the encoder succeeds, so a failure never leaves
// a truncated output behind.
//
// # Errors
//
//   - ErrInvariant if buf is malformed
//   - ErrWrite for an unsupported extension or any I/O failure
func Encode(buf *image.NRGBA, path string, quality int) error {
	if err := checkBuffer(buf); err != nil {
		return err
	}

	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file for %s: %v", ErrWrite, path, err)
	}
	tmpName := tmp.Name()
	// Removing after a successful rename is a harmless no-op.
	defer os.Remove(tmpName)

	if err := imaging.Encode(tmp, buf, format, imaging.JPEGQuality(quality)); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to encode %s: %v", ErrWrite, path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to set mode on %s: %v", ErrWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to flush %s: %v", ErrWrite, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: failed to move output into place: %v", ErrWrite, err)
	}

	return nil
}
