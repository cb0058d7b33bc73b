package render

import (
	"fmt"
	"strings"

	"github.com/disiqueira/gotree/v3"
	"github.com/jgivc/contentmetadata/internal/entity"
)

// Tree draws the document for terminals: resources with their label and files
// with mimetype and size when known.
func Tree(doc *entity.Document) string {
	root := gotree.New(fmt.Sprintf("%s (%s)", doc.ObjectID, doc.Type))

	for _, resource := range doc.Resources {
		title := fmt.Sprintf("%d %s", resource.Sequence, resource.Type)
		if resource.Label != "" {
			title += fmt.Sprintf(" %q", resource.Label)
		}

		node := root.Add(title)
		for _, file := range resource.Files {
			node.Add(fileTitle(file))
		}
	}

	return root.Print()
}

func fileTitle(file *entity.File) string {
	var details []string
	if file.MimeType != "" {
		details = append(details, file.MimeType)
	}

	if file.Size != nil {
		details = append(details, fmt.Sprintf("%d bytes", *file.Size))
	}

	if file.ImageData != nil && file.ImageData.Width > 0 {
		details = append(details, fmt.Sprintf("%dx%d", file.ImageData.Width, file.ImageData.Height))
	}

	if len(details) == 0 {
		return file.ID
	}

	return fmt.Sprintf("%s [%s]", file.ID, strings.Join(details, ", "))
}
