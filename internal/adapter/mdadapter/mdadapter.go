package mdadapter

import (
	"fmt"
	"strings"

	"github.com/jgivc/contentmetadata/internal/entity"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

// Description is what a staging folder says about itself in its description file.
// Files maps a file name, or a path relative to the folder, to a resource label.
type Description struct {
	ObjectID     string                           `yaml:"object_id"`
	Title        string                           `yaml:"title"`
	Style        *entity.Style                    `yaml:"style"`
	Bundle       *entity.BundleStrategy           `yaml:"bundle"`
	ReadingOrder string                           `yaml:"reading_order"`
	Files        map[string]string                `yaml:"files"`
	Attributes   map[string]entity.FileAttributes `yaml:"attributes"`
}

// Apply overlays the options set in the description onto cfg.
func (d *Description) Apply(cfg *entity.GenerationConfig) {
	if d.Style != nil {
		cfg.Style = *d.Style
	}

	if d.Bundle != nil {
		cfg.Bundle = *d.Bundle
	}

	if d.ReadingOrder != "" {
		cfg.ReadingOrder = d.ReadingOrder
	}
}

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(
				&frontmatter.Extender{},
			),
		),
	}
}

// Parse reads the frontmatter of a markdown document. Without a title in the
// frontmatter the first top level heading is used.
func (p *Parser) Parse(src []byte) (*Description, error) {
	ctx := parser.NewContext()
	doc := p.md.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))

	desc := &Description{}
	if fm := frontmatter.Get(ctx); fm != nil {
		if err := fm.Decode(desc); err != nil {
			return nil, fmt.Errorf("cannot decode frontmatter: %w", err)
		}
	}

	if desc.Title == "" {
		desc.Title = firstHeading(doc, src)
	}

	return desc, nil
}

func firstHeading(doc ast.Node, src []byte) string {
	var title string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.WalkContinue, nil
		}

		var b strings.Builder
		for c := heading.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(src))
			}
		}

		title = strings.TrimSpace(b.String())

		return ast.WalkStop, nil
	})

	return title
}
