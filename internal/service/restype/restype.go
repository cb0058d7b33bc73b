package restype

import (
	"strings"

	"github.com/jgivc/contentmetadata/internal/common"
	"github.com/jgivc/contentmetadata/internal/entity"
	"github.com/jgivc/contentmetadata/internal/service/bundle"
)

const (
	TypeImage    = "image"
	TypePage     = "page"
	TypeObject   = "object"
	TypeFile     = "file"
	TypeDocument = "document"
	Type3D       = "3d"
	TypeBook     = "book"
)

type File interface {
	IsImage() (bool, error)
	Ext() string
	DPGFolder() string
}

// Policy decides the type of a resource from the style and the files in it.
type Policy struct {
	threeDExtensions map[string]struct{}
}

func NewPolicy(threeDExtensions []string) *Policy {
	exts := make(map[string]struct{}, len(threeDExtensions))
	for _, ext := range threeDExtensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	return &Policy{threeDExtensions: exts}
}

// Resolve returns the resource type. With dpg set, a group holding any file from
// a special DPG folder is always an object.
func Resolve[F File](p *Policy, style entity.Style, files []F, dpg bool) (string, error) {
	if !style.Valid() {
		return "", common.NewInputValidationError("style", style.String(), common.ErrInvalidStyle)
	}

	if dpg {
		for _, file := range files {
			if bundle.IsSpecialDPGFolder(file.DPGFolder()) {
				return TypeObject, nil
			}
		}
	}

	switch style {
	case entity.StyleSimpleImage, entity.StyleMap, entity.StyleWebarchiveSeed:
		return TypeImage, nil
	case entity.StyleFile:
		return TypeFile, nil
	case entity.StyleDocument:
		return TypeDocument, nil
	case entity.StyleSimpleBook, entity.StyleBookAsImage, entity.StyleBookWithPDF:
		hasImages, hasNonImages, err := imageMix(files)
		if err != nil {
			return "", err
		}

		return bookType(style, hasImages, hasNonImages), nil
	case entity.Style3D:
		for _, file := range files {
			if _, exists := p.threeDExtensions[strings.ToLower(file.Ext())]; exists {
				return Type3D, nil
			}
		}

		return TypeFile, nil
	}

	return "", common.NewInputValidationError("style", style.String(), common.ErrInvalidStyle)
}

// bookType keeps the two historical rules apart: simple_book and book_as_image
// switch to object only when the group has no image at all, book_with_pdf
// switches as soon as there is any non-image.
func bookType(style entity.Style, hasImages, hasNonImages bool) string {
	switch style {
	case entity.StyleSimpleBook:
		if hasNonImages && !hasImages {
			return TypeObject
		}

		return TypePage
	case entity.StyleBookAsImage:
		if hasNonImages && !hasImages {
			return TypeObject
		}

		return TypeImage
	default:
		if hasNonImages {
			return TypeObject
		}

		return TypePage
	}
}

func imageMix[F File](files []F) (bool, bool, error) {
	var hasImages, hasNonImages bool
	for _, file := range files {
		isImage, err := file.IsImage()
		if err != nil {
			return false, false, err
		}

		if isImage {
			hasImages = true
		} else {
			hasNonImages = true
		}
	}

	return hasImages, hasNonImages, nil
}

// ObjectLevelType is the type attribute of the document root.
func ObjectLevelType(style entity.Style) (string, error) {
	switch style {
	case entity.StyleSimpleImage:
		return TypeImage, nil
	case entity.StyleSimpleBook, entity.StyleBookAsImage, entity.StyleBookWithPDF:
		return TypeBook, nil
	case entity.StyleFile, entity.StyleMap, entity.Style3D, entity.StyleDocument, entity.StyleWebarchiveSeed:
		return style.String(), nil
	}

	return "", common.NewInputValidationError("style", style.String(), common.ErrInvalidStyle)
}
