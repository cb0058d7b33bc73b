package fsadapter

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	boxHeaderSize  = 8
	boxTypeHeader  = "jp2h"
	boxTypeImage   = "ihdr"
	boxTypeColour  = "colr"
	imageHeaderLen = 8

	pngSignatureLen  = 8
	pngChunkICC      = "iCCP"
	pngChunkData     = "IDAT"
	pngChunkEnd      = "IEND"
	jpegMarkerAPP2   = 0xe2
	jpegMarkerSOS    = 0xda
	jpegMarkerEOI    = 0xd9
	tiffTagICC       = 0x8773
	jpegICCSignature = "ICC_PROFILE\x00"
)

var jp2Signature = []byte{0x00, 0x00, 0x00, 0x0c, 'j', 'P', ' ', ' ', 0x0d, 0x0a, 0x87, 0x0a}

var formatMimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"tiff": "image/tiff",
	"bmp":  "image/bmp",
	"webp": "image/webp",
}

// EmbeddedMetadata is what the file says about itself.
type EmbeddedMetadata struct {
	MimeType     string
	Width        int
	Height       int
	ColorProfile bool
}

// MetadataReader extracts embedded metadata. A nil result without error means the
// format carries no metadata the reader understands.
type MetadataReader interface {
	Read(r io.ReadSeeker) (*EmbeddedMetadata, error)
}

type imageMetadataReader struct{}

func NewImageMetadataReader() MetadataReader {
	return imageMetadataReader{}
}

func (imageMetadataReader) Read(r io.ReadSeeker) (*EmbeddedMetadata, error) {
	head := make([]byte, len(jp2Signature))
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if bytes.Equal(head[:n], jp2Signature) {
		return readJP2(r)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, nil
		}

		return nil, fmt.Errorf("cannot decode image header: %w", err)
	}

	meta := &EmbeddedMetadata{
		MimeType: formatMimeTypes[format],
		Width:    cfg.Width,
		Height:   cfg.Height,
	}

	switch format {
	case "png":
		meta.ColorProfile = hasPNGProfile(r)
	case "jpeg":
		meta.ColorProfile = hasExifColorSpace(r) || hasJPEGProfile(r)
	case "tiff":
		meta.ColorProfile = hasExifColorSpace(r) || hasTIFFProfile(r)
	}

	return meta, nil
}

func hasExifColorSpace(r io.ReadSeeker) bool {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return false
	}

	x, err := exif.Decode(r)
	if err != nil {
		return false
	}

	_, err = x.Get(exif.ColorSpace)

	return err == nil
}

// hasPNGProfile looks for an embedded ICC profile chunk ahead of the image data.
func hasPNGProfile(r io.ReadSeeker) bool {
	if _, err := r.Seek(pngSignatureLen, io.SeekStart); err != nil {
		return false
	}

	var header [8]byte
	for {
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return false
		}

		switch string(header[4:8]) {
		case pngChunkICC:
			return true
		case pngChunkData, pngChunkEnd:
			return false
		}

		// Chunk data plus CRC.
		skip := int64(binary.BigEndian.Uint32(header[0:4])) + 4
		if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
			return false
		}
	}
}

// hasJPEGProfile looks for an APP2 ICC_PROFILE segment ahead of the scan data.
func hasJPEGProfile(r io.ReadSeeker) bool {
	if _, err := r.Seek(2, io.SeekStart); err != nil {
		return false
	}

	var header [4]byte
	for {
		if _, err := io.ReadFull(r, header[:2]); err != nil || header[0] != 0xff {
			return false
		}

		marker := header[1]
		if marker == jpegMarkerSOS || marker == jpegMarkerEOI {
			return false
		}

		if _, err := io.ReadFull(r, header[2:4]); err != nil {
			return false
		}

		length := int64(binary.BigEndian.Uint16(header[2:4])) - 2
		if length < 0 {
			return false
		}

		if marker == jpegMarkerAPP2 && length >= int64(len(jpegICCSignature)) {
			sig := make([]byte, len(jpegICCSignature))
			if _, err := io.ReadFull(r, sig); err != nil {
				return false
			}

			if string(sig) == jpegICCSignature {
				return true
			}

			length -= int64(len(sig))
		}

		if _, err := r.Seek(length, io.SeekCurrent); err != nil {
			return false
		}
	}
}

// hasTIFFProfile looks for the ICC profile tag in any image directory.
func hasTIFFProfile(r io.ReadSeeker) bool {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return false
	}

	t, err := tiff.Decode(r)
	if err != nil {
		return false
	}

	for _, dir := range t.Dirs {
		for _, tag := range dir.Tags {
			if tag.Id == tiffTagICC {
				return true
			}
		}
	}

	return false
}

// readJP2 walks the top level boxes after the signature up to the header box.
func readJP2(r io.ReadSeeker) (*EmbeddedMetadata, error) {
	for {
		boxType, size, err := nextBox(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("jp2 header box not found")
			}

			return nil, err
		}

		if boxType == boxTypeHeader {
			if size < 0 {
				return readJP2Header(r)
			}

			return readJP2Header(io.LimitReader(r, size))
		}

		if size < 0 {
			return nil, fmt.Errorf("jp2 header box not found")
		}

		if _, err := r.Seek(size, io.SeekCurrent); err != nil {
			return nil, err
		}
	}
}

func readJP2Header(r io.Reader) (*EmbeddedMetadata, error) {
	meta := &EmbeddedMetadata{MimeType: mimeTypeJP2}
	found := false

	for {
		boxType, size, err := nextBox(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, err
		}

		switch boxType {
		case boxTypeImage:
			var dims [imageHeaderLen]byte
			if _, err := io.ReadFull(r, dims[:]); err != nil {
				return nil, fmt.Errorf("cannot read jp2 image header: %w", err)
			}

			meta.Height = int(binary.BigEndian.Uint32(dims[0:4]))
			meta.Width = int(binary.BigEndian.Uint32(dims[4:8]))
			found = true
			size -= imageHeaderLen
		case boxTypeColour:
			meta.ColorProfile = true
		}

		if size < 0 {
			break
		}

		if _, err := io.CopyN(io.Discard, r, size); err != nil {
			return nil, fmt.Errorf("truncated jp2 box %s: %w", boxType, err)
		}
	}

	if !found {
		return nil, fmt.Errorf("jp2 image header not found")
	}

	return meta, nil
}

// nextBox reads a box header and returns its type and payload size, -1 when the
// box extends to the end of the stream.
func nextBox(r io.Reader) (string, int64, error) {
	var header [boxHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return "", 0, fmt.Errorf("truncated jp2 box header: %w", err)
		}

		return "", 0, err
	}

	length := int64(binary.BigEndian.Uint32(header[0:4]))
	boxType := string(header[4:8])

	switch {
	case length == 0:
		return boxType, -1, nil
	case length == 1:
		var ext [8]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return "", 0, fmt.Errorf("truncated jp2 box header: %w", err)
		}

		length = int64(binary.BigEndian.Uint64(ext[:]))
		if length < boxHeaderSize+8 {
			return "", 0, fmt.Errorf("invalid jp2 box length %d", length)
		}

		return boxType, length - boxHeaderSize - 8, nil
	case length < boxHeaderSize:
		return "", 0, fmt.Errorf("invalid jp2 box length %d", length)
	}

	return boxType, length - boxHeaderSize, nil
}
