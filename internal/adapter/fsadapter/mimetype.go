package fsadapter

import (
	"mime"
	"strings"

	"github.com/jgivc/contentmetadata/internal/entity"
)

// resolveMimeType tries the configured methods in order and stops at the first
// non-empty answer. Unknown method names are skipped.
func (f *ObjectFile) resolveMimeType() (string, error) {
	if err := f.checkForFile(); err != nil {
		return "", err
	}

	for _, method := range f.mimeTypeOrder {
		var (
			mimeType string
			err      error
		)

		switch method.Normalize() {
		case entity.MimeTypeOverride:
			mimeType = f.OverrideMimeType()
		case entity.MimeTypeExif:
			mimeType, err = f.ExifMimeType()
		case entity.MimeTypeFile:
			mimeType, err = f.FileMimeType()
		case entity.MimeTypeExtension:
			mimeType = f.ExtensionMimeType()
		default:
			continue
		}

		if err != nil {
			return "", err
		}

		if mimeType != "" {
			return mimeType, nil
		}
	}

	return "", nil
}

// OverrideMimeType looks the extension up in the manual override table.
func (f *ObjectFile) OverrideMimeType() string {
	return overrideMimeTypes[f.Ext()]
}

// ExtensionMimeType is the broadest fallback: the static table first, then the
// platform registry.
func (f *ObjectFile) ExtensionMimeType() string {
	ext := strings.ToLower(f.Ext())
	if ext == "" {
		return ""
	}

	if mimeType, exists := extensionMimeTypes[ext]; exists {
		return mimeType
	}

	return stripParams(mime.TypeByExtension(ext))
}

// FileMimeType is the OS probe answer, replaced by the embedded metadata mimetype
// when the probe answer is not trusted.
func (f *ObjectFile) FileMimeType() (string, error) {
	probed, err := f.probed()
	if err != nil {
		return "", err
	}

	if f.isTrusted(probed) {
		return probed, nil
	}

	meta, err := f.Metadata()
	if err != nil {
		return "", err
	}

	if meta != nil && meta.MimeType != "" {
		return meta.MimeType, nil
	}

	return probed, nil
}

// ExifMimeType returns the embedded metadata mimetype unless the OS probe answer
// is trusted, in which case metadata is not read at all.
func (f *ObjectFile) ExifMimeType() (string, error) {
	probed, err := f.probed()
	if err != nil {
		return "", err
	}

	if f.isTrusted(probed) {
		return "", nil
	}

	meta, err := f.Metadata()
	if err != nil || meta == nil {
		return "", err
	}

	return meta.MimeType, nil
}

func (f *ObjectFile) isTrusted(mimeType string) bool {
	_, trusted := f.trusted[mimeType]

	return trusted
}
