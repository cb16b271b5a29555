package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTestJPEG encodes a small solid-color JPEG for testing.
func makeTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func makeTestPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStorage_SaveGetDelete(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	data := makeTestJPEG(t, 4, 4)
	require.NoError(t, s.Save("recipe-1.jpg", data))

	assert.True(t, s.Exists("recipe-1.jpg"))
	got, err := s.Get("recipe-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, s.Delete("recipe-1.jpg"))
	assert.False(t, s.Exists("recipe-1.jpg"))

	// Deleting again is not an error.
	assert.NoError(t, s.Delete("recipe-1.jpg"))
}

func TestStorage_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save("recipe-2.jpg", makeTestJPEG(t, 4, 4)))

	// Overwriting goes through the same rename path.
	replacement := makeTestPNG(t)
	require.NoError(t, s.Save("recipe-2.jpg", replacement))

	got, err := s.Get("recipe-2.jpg")
	require.NoError(t, err)
	assert.Equal(t, replacement, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "recipe-2.jpg", entries[0].Name())
}

func TestStorage_GetMissing(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get("nope.jpg")
	assert.Error(t, err)
}

func TestStorage_RejectsEmptyInput(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Save("", []byte("data")))
	assert.Error(t, s.Save("file.jpg", nil))
	assert.False(t, s.Exists(""))
}

func TestStorage_PathTraversal(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(dir)
	require.NoError(t, err)

	// Directory components are stripped, keeping files inside basePath.
	path := s.Path("../../etc/passwd")
	assert.Equal(t, s.Path("passwd"), path)
}

func TestStorage_Hash(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	data := makeTestJPEG(t, 4, 4)
	require.NoError(t, s.Save("recipe-h.jpg", data))

	h1, err := s.Hash("recipe-h.jpg")
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	h2, err := s.Hash("recipe-h.jpg")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format string
		ok     bool
	}{
		{"jpeg", makeTestJPEG(t, 4, 4), FormatJPEG, true},
		{"png", makeTestPNG(t), FormatPNG, true},
		{"gif", append([]byte("GIF89a"), make([]byte, 16)...), FormatGIF, true},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 8)...), FormatWebP, true},
		{"text", []byte("definitely not an image, just text"), "", false},
		{"short", []byte{0xFF, 0xD8}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, ok := DetectFormat(tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.format, format)
		})
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "jpg", Extension(FormatJPEG))
	assert.Equal(t, "png", Extension(FormatPNG))
	assert.Equal(t, "webp", Extension(FormatWebP))
	assert.Equal(t, "gif", Extension(FormatGIF))
}

func TestDecode(t *testing.T) {
	img, err := Decode(makeTestJPEG(t, 8, 8))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	_, err = Decode([]byte("not an image"))
	assert.Error(t, err)
}

func TestDecode_CorruptWithMagicPrefix(t *testing.T) {
	// A JPEG magic number over garbage bytes sniffs as JPEG but must
	// not decode.
	data := append([]byte{0xFF, 0xD8, 0xFF}, []byte("garbage that is not jpeg entropy data")...)

	format, ok := DetectFormat(data)
	require.True(t, ok)
	assert.Equal(t, FormatJPEG, format)

	_, err := Decode(data)
	assert.Error(t, err)
}

func TestComputeBlurHash(t *testing.T) {
	img, err := Decode(makeTestJPEG(t, 100, 80))
	require.NoError(t, err)

	hash, err := ComputeBlurHash(img)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	// Deterministic for the same input.
	hash2, err := ComputeBlurHash(img)
	require.NoError(t, err)
	assert.Equal(t, hash, hash2)
}
