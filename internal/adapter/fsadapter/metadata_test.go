package fsadapter

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func encodeImage(t *testing.T, format string, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	var buf bytes.Buffer
	switch format {
	case "png":
		require.NoError(t, png.Encode(&buf, img))
	case "jpeg":
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	case "tiff":
		require.NoError(t, tiff.Encode(&buf, img, nil))
	default:
		t.Fatalf("unknown format %s", format)
	}

	return buf.Bytes()
}

func box(boxType string, payload []byte) []byte {
	out := make([]byte, 8, 8+len(payload))
	binary.BigEndian.PutUint32(out[0:4], uint32(8+len(payload)))
	copy(out[4:8], boxType)

	return append(out, payload...)
}

// jp2Bytes builds the smallest box layout the reader needs: signature, file
// type and a header box with image header and optional colour specification.
func jp2Bytes(width, height uint32, withColour bool) []byte {
	ihdr := make([]byte, 14)
	binary.BigEndian.PutUint32(ihdr[0:4], height)
	binary.BigEndian.PutUint32(ihdr[4:8], width)
	binary.BigEndian.PutUint16(ihdr[8:10], 3)
	ihdr[10] = 7
	ihdr[11] = 7

	header := box("ihdr", ihdr)
	if withColour {
		header = append(header, box("colr", []byte{1, 0, 0, 0, 0, 0, 16})...)
	}

	out := append([]byte{}, jp2Signature...)
	out = append(out, box("ftyp", []byte("jp2 \x00\x00\x00\x00jp2 "))...)

	return append(out, box("jp2h", header)...)
}

// withPNGProfile inserts an iCCP chunk right after the IHDR chunk.
func withPNGProfile(content []byte) []byte {
	const ihdrEnd = 8 + 8 + 13 + 4

	data := []byte("sRGB\x00\x00profile")
	chunk := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(chunk[0:4], uint32(len(data)))
	copy(chunk[4:8], "iCCP")
	chunk = append(chunk, data...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	out := append([]byte{}, content[:ihdrEnd]...)
	out = append(out, chunk...)

	return append(out, content[ihdrEnd:]...)
}

// withJPEGProfile inserts an APP2 ICC_PROFILE segment right after SOI.
func withJPEGProfile(content []byte) []byte {
	payload := []byte("ICC_PROFILE\x00\x01\x01profile")
	segment := []byte{0xff, 0xe2}
	segment = binary.BigEndian.AppendUint16(segment, uint16(2+len(payload)))
	segment = append(segment, payload...)

	out := append([]byte{}, content[:2]...)
	out = append(out, segment...)

	return append(out, content[2:]...)
}

// grayTIFF writes an uncompressed 8-bit grayscale TIFF, with the ICC profile tag
// when withProfile is set.
func grayTIFF(width, height uint16, withProfile bool) []byte {
	type entry struct {
		tag, typ uint16
		value    uint32
	}

	const (
		typeShort     = 3
		typeLong      = 4
		typeUndefined = 7
	)

	entries := []entry{
		{256, typeShort, uint32(width)},
		{257, typeShort, uint32(height)},
		{258, typeShort, 8},
		{259, typeShort, 1},
		{262, typeShort, 1},
		{273, typeLong, 0},
		{277, typeShort, 1},
		{278, typeShort, uint32(height)},
		{279, typeLong, uint32(width) * uint32(height)},
	}

	if withProfile {
		entries = append(entries, entry{0x8773, typeUndefined, 0})
	}

	dataOffset := uint32(8 + 2 + 12*len(entries) + 4)
	entries[5].value = dataOffset

	le := binary.LittleEndian
	out := []byte("II*\x00")
	out = le.AppendUint32(out, 8)
	out = le.AppendUint16(out, uint16(len(entries)))

	for _, e := range entries {
		out = le.AppendUint16(out, e.tag)
		out = le.AppendUint16(out, e.typ)

		switch e.typ {
		case typeShort:
			out = le.AppendUint32(out, 1)
			out = le.AppendUint16(out, uint16(e.value))
			out = le.AppendUint16(out, 0)
		case typeLong:
			out = le.AppendUint32(out, 1)
			out = le.AppendUint32(out, e.value)
		case typeUndefined:
			out = le.AppendUint32(out, 4)
			out = append(out, "icc!"...)
		}
	}

	out = le.AppendUint32(out, 0)

	return append(out, make([]byte, int(width)*int(height))...)
}

func TestImageMetadataReader(t *testing.T) {
	testCases := []struct {
		name        string
		content     []byte
		expected    *EmbeddedMetadata
		checkColour bool
	}{
		{
			name:        "PNG",
			content:     encodeImage(t, "png", 30, 20),
			expected:    &EmbeddedMetadata{MimeType: "image/png", Width: 30, Height: 20},
			checkColour: true,
		},
		{
			name:        "JPEG without EXIF",
			content:     encodeImage(t, "jpeg", 16, 8),
			expected:    &EmbeddedMetadata{MimeType: "image/jpeg", Width: 16, Height: 8},
			checkColour: true,
		},
		{
			name:     "TIFF",
			content:  encodeImage(t, "tiff", 7, 5),
			expected: &EmbeddedMetadata{MimeType: "image/tiff", Width: 7, Height: 5},
		},
		{
			name:        "PNG with ICC profile",
			content:     withPNGProfile(encodeImage(t, "png", 30, 20)),
			expected:    &EmbeddedMetadata{MimeType: "image/png", Width: 30, Height: 20, ColorProfile: true},
			checkColour: true,
		},
		{
			name:        "JPEG with ICC profile",
			content:     withJPEGProfile(encodeImage(t, "jpeg", 16, 8)),
			expected:    &EmbeddedMetadata{MimeType: "image/jpeg", Width: 16, Height: 8, ColorProfile: true},
			checkColour: true,
		},
		{
			name:        "TIFF with ICC profile",
			content:     grayTIFF(4, 3, true),
			expected:    &EmbeddedMetadata{MimeType: "image/tiff", Width: 4, Height: 3, ColorProfile: true},
			checkColour: true,
		},
		{
			name:        "TIFF without ICC profile",
			content:     grayTIFF(4, 3, false),
			expected:    &EmbeddedMetadata{MimeType: "image/tiff", Width: 4, Height: 3},
			checkColour: true,
		},
		{
			name:        "JP2 with colour specification",
			content:     jp2Bytes(640, 480, true),
			expected:    &EmbeddedMetadata{MimeType: "image/jp2", Width: 640, Height: 480, ColorProfile: true},
			checkColour: true,
		},
		{
			name:        "JP2 without colour specification",
			content:     jp2Bytes(2, 3, false),
			expected:    &EmbeddedMetadata{MimeType: "image/jp2", Width: 2, Height: 3},
			checkColour: true,
		},
		{
			name:    "Plain text has no metadata",
			content: []byte("just some words"),
		},
		{
			name:    "Empty file has no metadata",
			content: []byte{},
		},
	}

	reader := NewImageMetadataReader()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			meta, err := reader.Read(bytes.NewReader(tc.content))
			require.NoError(t, err)

			if tc.expected == nil {
				require.Nil(t, meta)

				return
			}

			require.NotNil(t, meta)
			require.Equal(t, tc.expected.MimeType, meta.MimeType)
			require.Equal(t, tc.expected.Width, meta.Width)
			require.Equal(t, tc.expected.Height, meta.Height)

			if tc.checkColour {
				require.Equal(t, tc.expected.ColorProfile, meta.ColorProfile)
			}
		})
	}
}

func TestImageMetadataReaderCorrupt(t *testing.T) {
	testCases := []struct {
		name    string
		content []byte
	}{
		{name: "Truncated TIFF", content: []byte("II*\x00\x08\x00\x00\x00\x05")},
		{name: "Truncated PNG", content: []byte("\x89PNG\r\n\x1a\n\x00\x00")},
		{name: "JP2 without header box", content: append(append([]byte{}, jp2Signature...), box("ftyp", []byte("jp2 "))...)},
		{name: "JP2 with short box", content: append(append([]byte{}, jp2Signature...), 0, 0, 0, 4, 'f', 't', 'y', 'p')},
	}

	reader := NewImageMetadataReader()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			meta, err := reader.Read(bytes.NewReader(tc.content))
			require.Error(t, err)
			require.Nil(t, meta)
		})
	}
}
