package images

import "bytes"

// Supported image formats. The format doubles as the file extension
// except for jpeg, which uses .jpg.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatWebP = "webp"
	FormatGIF  = "gif"
)

// DetectFormat sniffs the image format from the first bytes of data.
// Returns the format name and true, or "" and false for anything that
// is not a supported image.
func DetectFormat(data []byte) (string, bool) {
	if len(data) < 12 {
		return "", false
	}

	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return FormatJPEG, true
	case bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return FormatPNG, true
	case bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return FormatWebP, true
	case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
		return FormatGIF, true
	default:
		return "", false
	}
}

// Extension returns the file extension for a detected format.
func Extension(format string) string {
	if format == FormatJPEG {
		return "jpg"
	}
	return format
}
