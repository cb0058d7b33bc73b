package render

import (
	"fmt"

	"github.com/jgivc/contentmetadata/internal/entity"
	"gopkg.in/yaml.v2"
)

func YAML(doc *entity.Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal yaml: %w", err)
	}

	return data, nil
}
