package imaging

import (
	"path/filepath"
	"strings"
)

// Output tags appended to the input's stem.
const (
	TagWatermark = "with-watermark"
	TagEdited    = "edited"
)

// NameFor derives an output file name from an input file name and a tag.
//
// The name is split at its first '.': the stem is everything before it and
// the extension everything after, so "photo.jpg" becomes
// "photo-with-watermark.jpg" and "a.b.jpg" becomes "a-edited.b.jpg". A name
// without a dot gets the tag appended and no extension.
//
// name should be a bare file name; use OutputPath for paths.
func NameFor(name, tag string) string {
	stem, ext, found := strings.Cut(name, ".")
	if !found {
		return stem + "-" + tag
	}
	return stem + "-" + tag + "." + ext
}

// OutputPath applies NameFor to the file name of inputPath and keeps it in the
// same directory. Dots in directory names are never treated as extension
// separators.
func OutputPath(inputPath, tag string) string {
	dir, name := filepath.Split(inputPath)
	return filepath.Join(dir, NameFor(name, tag))
}
