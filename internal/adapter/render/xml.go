package render

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/jgivc/contentmetadata/internal/entity"
)

const (
	xmlDeclaration = `<?xml version="1.0"?>` + "\n"
	xmlIndent      = "  "
)

type xmlDocument struct {
	XMLName   xml.Name       `xml:"contentMetadata"`
	ObjectID  string         `xml:"objectId,attr"`
	Type      string         `xml:"type,attr"`
	BookData  *xmlBookData   `xml:"bookData"`
	Resources []*xmlResource `xml:"resource"`
}

type xmlBookData struct {
	ReadingOrder string `xml:"readingOrder,attr"`
}

type xmlResource struct {
	ID       string     `xml:"id,attr"`
	Sequence int        `xml:"sequence,attr"`
	Type     string     `xml:"type,attr"`
	Label    string     `xml:"label,omitempty"`
	Files    []*xmlFile `xml:"file"`
}

type xmlFile struct {
	ID         string        `xml:"id,attr"`
	MimeType   string        `xml:"mimetype,attr,omitempty"`
	Size       *int64        `xml:"size,attr,omitempty"`
	Attributes []xml.Attr    `xml:",any,attr"`
	Checksums  []xmlChecksum `xml:"checksum"`
	ImageData  *xmlImageData `xml:"imageData"`
}

type xmlChecksum struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type xmlImageData struct {
	Width  string `xml:"width,attr,omitempty"`
	Height string `xml:"height,attr,omitempty"`
}

// XML serializes the document as contentMetadata XML. The declaration line is
// written when withDeclaration is set.
func XML(doc *entity.Document, withDeclaration bool) ([]byte, error) {
	data, err := xml.MarshalIndent(toXMLDocument(doc), "", xmlIndent)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal xml: %w", err)
	}

	out := make([]byte, 0, len(xmlDeclaration)+len(data)+1)
	if withDeclaration {
		out = append(out, xmlDeclaration...)
	}

	out = append(out, data...)

	return append(out, '\n'), nil
}

func toXMLDocument(doc *entity.Document) *xmlDocument {
	x := &xmlDocument{
		ObjectID:  doc.ObjectID,
		Type:      doc.Type,
		Resources: make([]*xmlResource, 0, len(doc.Resources)),
	}

	if doc.ReadingOrder != "" {
		x.BookData = &xmlBookData{ReadingOrder: doc.ReadingOrder}
	}

	for _, resource := range doc.Resources {
		xr := &xmlResource{
			ID:       resource.ID,
			Sequence: resource.Sequence,
			Type:     resource.Type,
			Label:    resource.Label,
			Files:    make([]*xmlFile, 0, len(resource.Files)),
		}

		for _, file := range resource.Files {
			xr.Files = append(xr.Files, toXMLFile(file))
		}

		x.Resources = append(x.Resources, xr)
	}

	return x
}

func toXMLFile(file *entity.File) *xmlFile {
	xf := &xmlFile{
		ID:       file.ID,
		MimeType: file.MimeType,
		Size:     file.Size,
	}

	for _, name := range entity.FileAttributeNames {
		if value := file.Attributes[name]; value != "" {
			xf.Attributes = append(xf.Attributes, xml.Attr{Name: xml.Name{Local: name}, Value: value})
		}
	}

	for _, checksum := range file.Checksums {
		xf.Checksums = append(xf.Checksums, xmlChecksum{Type: checksum.Type, Value: checksum.Value})
	}

	if file.ImageData != nil {
		xf.ImageData = &xmlImageData{
			Width:  dimension(file.ImageData.Width),
			Height: dimension(file.ImageData.Height),
		}
	}

	return xf
}

// dimension leaves unknown (zero) sizes out of the output.
func dimension(n int) string {
	if n <= 0 {
		return ""
	}

	return strconv.Itoa(n)
}
