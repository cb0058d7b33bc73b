package entity

import "strings"

// ObjectType is the coarse media category of a file, e.g. image or application.
type ObjectType string

const (
	ObjectTypeImage       ObjectType = "image"
	ObjectTypeAudio       ObjectType = "audio"
	ObjectTypeVideo       ObjectType = "video"
	ObjectTypeText        ObjectType = "text"
	ObjectTypeApplication ObjectType = "application"
	ObjectTypeModel       ObjectType = "model"
	ObjectTypeMessage     ObjectType = "message"
	ObjectTypeMultipart   ObjectType = "multipart"
	ObjectTypeOther       ObjectType = "other"
)

// MimeTypeMethod names one strategy of the mimetype resolution chain.
type MimeTypeMethod string

const (
	MimeTypeOverride  MimeTypeMethod = "override"
	MimeTypeExif      MimeTypeMethod = "exif"
	MimeTypeFile      MimeTypeMethod = "file"
	MimeTypeExtension MimeTypeMethod = "extension"
)

var mimeTypeMethodAliases = map[string]MimeTypeMethod{
	"embedded-metadata": MimeTypeExif,
	"os-probe":          MimeTypeFile,
}

// Normalize maps alias names onto the canonical method names. Unknown names are
// returned unchanged; the resolver skips them.
func (m MimeTypeMethod) Normalize() MimeTypeMethod {
	if alias, ok := mimeTypeMethodAliases[strings.ToLower(string(m))]; ok {
		return alias
	}

	return MimeTypeMethod(strings.ToLower(string(m)))
}

func DefaultMimeTypeOrder() []MimeTypeMethod {
	return []MimeTypeMethod{MimeTypeOverride, MimeTypeExif, MimeTypeFile, MimeTypeExtension}
}

const (
	AttrPreserve = "preserve"
	AttrPublish  = "publish"
	AttrShelve   = "shelve"
	AttrRole     = "role"
)

// FileAttributeNames is the emission order of file attributes.
var FileAttributeNames = []string{AttrPreserve, AttrPublish, AttrShelve, AttrRole}

// FileAttributes maps attribute names (preserve, publish, shelve, role) to values.
type FileAttributes map[string]string

// Compact returns a copy without empty values.
func (a FileAttributes) Compact() FileAttributes {
	out := make(FileAttributes, len(a))
	for k, v := range a {
		if v != "" {
			out[k] = v
		}
	}

	return out
}

type Checksums struct {
	MD5  string `yaml:"md5,omitempty"`
	SHA1 string `yaml:"sha1,omitempty"`
}

func (c Checksums) Empty() bool {
	return c.MD5 == "" && c.SHA1 == ""
}

// FileSpec is the caller supplied description of one input file.
type FileSpec struct {
	Path           string           `yaml:"path"`
	RelativePath   string           `yaml:"relative_path,omitempty"`
	Label          string           `yaml:"label,omitempty"`
	FileAttributes FileAttributes   `yaml:"file_attributes,omitempty"`
	Checksums      Checksums        `yaml:",inline"`
	MimeTypeOrder  []MimeTypeMethod `yaml:"mime_type_order,omitempty"`
}

// Manifest lists the input of one generation run. Files is used by every bundle
// strategy except prebundled, which reads Bundles.
type Manifest struct {
	ObjectID string            `yaml:"object_id"`
	Title    string            `yaml:"title,omitempty"`
	Config   *GenerationConfig `yaml:"config,omitempty"`
	Files    []FileSpec        `yaml:"files,omitempty"`
	Bundles  [][]FileSpec      `yaml:"bundles,omitempty"`
}
