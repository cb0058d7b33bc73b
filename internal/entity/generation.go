package entity

const (
	ReadingOrderLTR = "ltr"
	ReadingOrderRTL = "rtl"

	// DefaultAttributesKey is the fallback key of a file attribute table.
	DefaultAttributesKey = "default"
)

// GenerationConfig holds the options of one document generation run.
type GenerationConfig struct {
	Style                  Style                     `yaml:"style"`
	Bundle                 BundleStrategy            `yaml:"bundle"`
	AutoLabels             bool                      `yaml:"auto_labels"`
	AddExif                bool                      `yaml:"add_exif"`
	AddFileAttributes      bool                      `yaml:"add_file_attributes"`
	FileAttributes         map[string]FileAttributes `yaml:"file_attributes,omitempty"`
	PreserveCommonPaths    bool                      `yaml:"preserve_common_paths"`
	FlattenFolderStructure bool                      `yaml:"flatten_folder_structure"`
	IncludeRootDeclaration bool                      `yaml:"include_root_xml"`
	ReadingOrder           string                    `yaml:"reading_order"`
}

// NewGenerationConfig returns the configuration used when the caller sets nothing.
func NewGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Style:                  StyleSimpleImage,
		Bundle:                 BundleDefault,
		AutoLabels:             true,
		IncludeRootDeclaration: true,
		ReadingOrder:           ReadingOrderLTR,
	}
}
