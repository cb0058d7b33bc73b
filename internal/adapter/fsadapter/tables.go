package fsadapter

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jgivc/contentmetadata/internal/entity"
)

const (
	mimeTypeJP2     = "image/jp2"
	mimeTypeUnknown = "application/octet-stream"
)

// overrideMimeTypes forces a mimetype for an extension regardless of content.
var overrideMimeTypes = map[string]string{
	".json": "application/json",
	".vtt":  "text/vtt",
}

// defaultTrustedMimeTypes are taken from the OS probe as is. For any other probe
// result the embedded metadata mimetype wins when there is one.
var defaultTrustedMimeTypes = []string{
	"text/plain",
	"plain/text",
	"application/pdf",
	"text/html",
	"application/xml",
	mimeTypeUnknown,
}

// jp2ableMimeTypes are the source images a JP2 derivative can be made from.
var jp2ableMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/tiff": {},
	"image/tif":  {},
	"image/png":  {},
}

var extensionMimeTypes = map[string]string{
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".jp2":  mimeTypeJP2,
	".jpx":  "image/jpx",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".wav":  "audio/x-wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".mp4":  "video/mp4",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",
	".mov":  "video/quicktime",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".htm":  "text/html",
	".html": "text/html",
	".vtt":  "text/vtt",
	".xml":  "application/xml",
	".json": "application/json",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".warc": "application/warc",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".obj":  "application/x-tgif",
	".ply":  "application/ply",
	".glb":  "model/gltf-binary",
	".gltf": "model/gltf+json",
	".stl":  "model/stl",
}

// objectTypes pins the category of mimetypes whose media type is not their
// category or that no registry knows.
var objectTypes = map[string]entity.ObjectType{
	"image/tif":                entity.ObjectTypeImage,
	"image/x-ms-bmp":           entity.ObjectTypeImage,
	"audio/wav":                entity.ObjectTypeAudio,
	"audio/flac":               entity.ObjectTypeAudio,
	"video/webm":               entity.ObjectTypeVideo,
	"text/xml":                 entity.ObjectTypeText,
	"text/markdown":            entity.ObjectTypeText,
	"application/gzip":         entity.ObjectTypeApplication,
	"application/x-tar":        entity.ObjectTypeApplication,
	"application/octet-stream": entity.ObjectTypeApplication,
	"message/rfc822":           entity.ObjectTypeMessage,
	"multipart/mixed":          entity.ObjectTypeMultipart,
}

func init() {
	for _, mimeType := range extensionMimeTypes {
		if _, exists := objectTypes[mimeType]; !exists {
			objectTypes[mimeType] = mediaType(mimeType)
		}
	}
}

func mediaType(mimeType string) entity.ObjectType {
	major, _, found := strings.Cut(mimeType, "/")
	if !found || major == "" {
		return entity.ObjectTypeOther
	}

	return entity.ObjectType(major)
}

// lookupObjectType takes the table first, then the media type of anything the
// sniffing library or the platform registry knows. Unregistered types are "other".
func lookupObjectType(mimeType string) entity.ObjectType {
	if objectType, exists := objectTypes[mimeType]; exists {
		return objectType
	}

	if isRegistered(mimeType) {
		return mediaType(mimeType)
	}

	return entity.ObjectTypeOther
}

func isRegistered(mimeType string) bool {
	if mimeType == "" {
		return false
	}

	if mimetype.Lookup(mimeType) != nil {
		return true
	}

	exts, err := mime.ExtensionsByType(mimeType)

	return err == nil && len(exts) > 0
}
