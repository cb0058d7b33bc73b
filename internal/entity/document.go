package entity

const (
	ChecksumSHA1 = "sha1"
	ChecksumMD5  = "md5"
)

// Document is the content metadata tree of one digital object.
type Document struct {
	ObjectID     string      `yaml:"object_id"`
	Type         string      `yaml:"type"`
	ReadingOrder string      `yaml:"reading_order,omitempty"` // Set for book objects only.
	Resources    []*Resource `yaml:"resources"`
}

// Resource is one labeled, typed group of files.
type Resource struct {
	ID       string  `yaml:"id"`
	Sequence int     `yaml:"sequence"`
	Type     string  `yaml:"type"`
	Label    string  `yaml:"label,omitempty"`
	Files    []*File `yaml:"files"`
}

type File struct {
	ID         string         `yaml:"id"`
	MimeType   string         `yaml:"mimetype,omitempty"`
	Size       *int64         `yaml:"size,omitempty"`
	Attributes FileAttributes `yaml:"attributes,omitempty"`
	Checksums  []Checksum     `yaml:"checksums,omitempty"`
	ImageData  *ImageData     `yaml:"image_data,omitempty"`
}

type Checksum struct {
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

// ImageData carries image dimensions; zero means unknown.
type ImageData struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}
