package attributes

import (
	"github.com/jgivc/contentmetadata/internal/entity"
)

const (
	yes = "yes"
	no  = "no"
)

var (
	preserveOnly = entity.FileAttributes{entity.AttrPreserve: yes, entity.AttrShelve: no, entity.AttrPublish: no}
	accessOnly   = entity.FileAttributes{entity.AttrPreserve: no, entity.AttrShelve: yes, entity.AttrPublish: yes}
	everything   = entity.FileAttributes{entity.AttrPreserve: yes, entity.AttrShelve: yes, entity.AttrPublish: yes}
	unpublished  = entity.FileAttributes{entity.AttrPreserve: yes, entity.AttrShelve: yes, entity.AttrPublish: no}
)

// builtin is the attribute table used when neither the file nor the caller
// supplies one for a mimetype.
var builtin = map[string]entity.FileAttributes{
	entity.DefaultAttributesKey: preserveOnly,
	"image/tif":                 preserveOnly,
	"image/tiff":                preserveOnly,
	"image/jpeg":                preserveOnly,
	"audio/wav":                 preserveOnly,
	"audio/x-wav":               preserveOnly,
	"application/zip":           preserveOnly,
	"image/jp2":                 accessOnly,
	"audio/mp4":                 accessOnly,
	"audio/mpeg":                accessOnly,
	"video/mp4":                 accessOnly,
	"video/mpeg":                everything,
	"video/quicktime":           everything,
	"application/pdf":           everything,
	"plain/text":                everything,
	"text/plain":                everything,
	"application/json":          everything,
	"image/png":                 unpublished,
}

// Resolver picks the attribute set of a file. The first set found wins as a
// whole, sets are never merged.
type Resolver struct {
	overrides map[string]entity.FileAttributes
}

func NewResolver(overrides map[string]entity.FileAttributes) *Resolver {
	return &Resolver{overrides: overrides}
}

// Resolve looks at the file's own set, then the caller overrides by mimetype and
// their default, then the built-in table by mimetype and its default. Empty
// values are dropped from the result.
func (r *Resolver) Resolve(own entity.FileAttributes, mimeType string) entity.FileAttributes {
	if own != nil {
		return own.Compact()
	}

	if attrs, exists := r.overrides[mimeType]; exists {
		return attrs.Compact()
	}

	if attrs, exists := r.overrides[entity.DefaultAttributesKey]; exists {
		return attrs.Compact()
	}

	if attrs, exists := builtin[mimeType]; exists {
		return attrs.Compact()
	}

	return builtin[entity.DefaultAttributesKey].Compact()
}

// Builtin returns a copy of the built-in set for a mimetype, nil if there is none.
func Builtin(mimeType string) entity.FileAttributes {
	attrs, exists := builtin[mimeType]
	if !exists {
		return nil
	}

	return attrs.Compact()
}
