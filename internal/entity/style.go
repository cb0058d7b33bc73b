package entity

import (
	"fmt"
	"strings"
)

// Style selects the object type of the document and the resource type convention.
type Style int

const (
	StyleSimpleImage Style = iota
	StyleFile
	StyleSimpleBook
	StyleBookAsImage
	StyleBookWithPDF
	StyleMap
	Style3D
	StyleDocument
	StyleWebarchiveSeed
)

type styleInfo struct {
	name       string
	deprecated bool
}

var styles = [...]styleInfo{
	StyleSimpleImage:    {name: "simple_image"},
	StyleFile:           {name: "file"},
	StyleSimpleBook:     {name: "simple_book"},
	StyleBookAsImage:    {name: "book_as_image", deprecated: true},
	StyleBookWithPDF:    {name: "book_with_pdf", deprecated: true},
	StyleMap:            {name: "map"},
	Style3D:             {name: "3d"},
	StyleDocument:       {name: "document"},
	StyleWebarchiveSeed: {name: "webarchive-seed"},
}

var styleAliases = map[string]Style{
	"image": StyleSimpleImage,
	"book":  StyleSimpleBook,
}

func (s Style) Valid() bool {
	return s >= 0 && int(s) < len(styles)
}

func (s Style) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Style(%d)", int(s))
	}

	return styles[s].name
}

// Deprecated reports whether the style is only kept for compatibility.
func (s Style) Deprecated() bool {
	return s.Valid() && styles[s].deprecated
}

func ParseStyle(name string) (Style, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range styles {
		if styles[i].name == name {
			return Style(i), nil
		}
	}

	if s, ok := styleAliases[name]; ok {
		return s, nil
	}

	return 0, fmt.Errorf("unknown style: %q", name)
}

func (s *Style) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}

	parsed, err := ParseStyle(name)
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

func (s Style) MarshalYAML() (any, error) {
	return s.String(), nil
}

// BundleStrategy selects how input files are partitioned into resources.
type BundleStrategy int

const (
	BundleDefault BundleStrategy = iota
	BundleFilename
	BundleDPG
	BundlePrebundled
)

var bundleNames = [...]string{
	BundleDefault:    "default",
	BundleFilename:   "filename",
	BundleDPG:        "dpg",
	BundlePrebundled: "prebundled",
}

func (b BundleStrategy) Valid() bool {
	return b >= 0 && int(b) < len(bundleNames)
}

func (b BundleStrategy) String() string {
	if !b.Valid() {
		return fmt.Sprintf("BundleStrategy(%d)", int(b))
	}

	return bundleNames[b]
}

func ParseBundleStrategy(name string) (BundleStrategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range bundleNames {
		if n == name {
			return BundleStrategy(i), nil
		}
	}

	return 0, fmt.Errorf("unknown bundle strategy: %q", name)
}

func (b *BundleStrategy) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}

	parsed, err := ParseBundleStrategy(name)
	if err != nil {
		return err
	}

	*b = parsed

	return nil
}

func (b BundleStrategy) MarshalYAML() (any, error) {
	return b.String(), nil
}
