package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jgivc/contentmetadata/internal/adapter/render"
	"github.com/jgivc/contentmetadata/internal/common"
	"github.com/jgivc/contentmetadata/internal/config"
	"github.com/jgivc/contentmetadata/internal/entity"
	"github.com/jgivc/contentmetadata/internal/service/attributes"
	"github.com/jgivc/contentmetadata/internal/service/bundle"
	"github.com/jgivc/contentmetadata/internal/service/restype"
	"github.com/jgivc/contentmetadata/internal/util"
	"golang.org/x/sync/errgroup"
)

// ObjectFile is a classified input file.
type ObjectFile interface {
	bundle.File
	restype.File

	Path() string
	RelativePath() string
	Label() string
	FileAttributes() entity.FileAttributes
	ProviderChecksums() entity.Checksums
	Exists() bool
	Mimetype() (string, error)
	Size() (int64, error)
	SHA1() (string, error)
	MD5() (string, error)
	ImageDimensions() (int, int, error)
}

// Request is the input of one generation run. Bundles is only read by the
// prebundled strategy, Files by all others.
type Request struct {
	ObjectID string
	Config   entity.GenerationConfig
	Files    []ObjectFile
	Bundles  [][]ObjectFile
}

func (r *Request) allFiles() []ObjectFile {
	if r.Config.Bundle != entity.BundlePrebundled {
		return r.Files
	}

	var files []ObjectFile
	for _, group := range r.Bundles {
		files = append(files, group...)
	}

	return files
}

type Assembler struct {
	cfg    *config.AssemblerConfig
	policy *restype.Policy
	log    *slog.Logger
}

func NewAssembler(cfg *config.AssemblerConfig, log *slog.Logger) *Assembler {
	return &Assembler{
		cfg:    cfg,
		policy: restype.NewPolicy(cfg.ThreeDExtensions),
		log:    log.With(slog.String("item", "Assembler")),
	}
}

// Generate assembles the document and serializes it as XML.
func (a *Assembler) Generate(ctx context.Context, req Request) ([]byte, error) {
	doc, err := a.Assemble(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := render.XML(doc, req.Config.IncludeRootDeclaration)
	if err != nil {
		return nil, fmt.Errorf("cannot render document: %w", err)
	}

	return data, nil
}

// Assemble validates the request, groups and types the files and builds the
// document. Nothing is returned on error.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*entity.Document, error) {
	log := a.log.With(slog.String("run_id", uuid.NewString()), slog.String("object_id", req.ObjectID))
	cfg := req.Config

	if err := validate(&req); err != nil {
		log.Error("Invalid request", slog.Any("error", err))

		return nil, err
	}

	if cfg.Style.Deprecated() {
		log.Warn("Style is deprecated and will be removed", slog.String("style", cfg.Style.String()))
	}

	files := req.allFiles()

	var commonPath string
	if !cfg.PreserveCommonPaths {
		paths := make([]string, 0, len(files))
		for _, file := range files {
			paths = append(paths, file.Path())
		}

		commonPath = CommonPath(paths)
	}

	if err := a.warmUp(ctx, files, &cfg); err != nil {
		log.Error("Cannot classify files", slog.Any("error", err))

		return nil, err
	}

	groups, err := bundle.Build(cfg.Bundle, req.Files, req.Bundles)
	if err != nil {
		return nil, err
	}

	objectType, err := restype.ObjectLevelType(cfg.Style)
	if err != nil {
		return nil, err
	}

	doc := &entity.Document{
		ObjectID:  req.ObjectID,
		Type:      objectType,
		Resources: make([]*entity.Resource, 0, len(groups)),
	}

	if objectType == restype.TypeBook {
		doc.ReadingOrder = readingOrder(cfg.ReadingOrder)
	}

	pid := util.StripNamespace(req.ObjectID)
	attrResolver := attributes.NewResolver(cfg.FileAttributes)
	counters := make(map[string]int)

	for i, group := range groups {
		sequence := i + 1

		resourceType, err := restype.Resolve(a.policy, cfg.Style, group.Files, group.DPG)
		if err != nil {
			return nil, err
		}

		counters[resourceType]++

		var label string
		if cfg.AutoLabels {
			label = fmt.Sprintf("%s %d", util.Capitalize(resourceType), counters[resourceType])
		}

		resource := &entity.Resource{
			ID:       fmt.Sprintf("%s_%d", pid, sequence),
			Sequence: sequence,
			Type:     resourceType,
			Label:    labelFromFiles(group.Files, label),
			Files:    make([]*entity.File, 0, len(group.Files)),
		}

		for _, file := range group.Files {
			node, err := buildFile(file, &cfg, commonPath, attrResolver)
			if err != nil {
				log.Error("Cannot describe file", slog.String("path", file.Path()), slog.Any("error", err))

				return nil, err
			}

			resource.Files = append(resource.Files, node)
		}

		doc.Resources = append(doc.Resources, resource)
	}

	log.Info("Assembled", slog.String("style", cfg.Style.String()), slog.String("bundle", cfg.Bundle.String()),
		slog.Int("files", len(files)), slog.Int("resources", len(doc.Resources)))

	return doc, nil
}

func validate(req *Request) error {
	cfg := &req.Config

	if strings.TrimSpace(req.ObjectID) == "" {
		return common.NewInputValidationError("object id", req.ObjectID, common.ErrEmptyObjectID)
	}

	if !cfg.Style.Valid() {
		return common.NewInputValidationError("style", cfg.Style.String(), common.ErrInvalidStyle)
	}

	if !cfg.Bundle.Valid() {
		return common.NewInputValidationError("bundle strategy", cfg.Bundle.String(), common.ErrInvalidBundle)
	}

	switch cfg.ReadingOrder {
	case "", entity.ReadingOrderLTR, entity.ReadingOrderRTL:
	default:
		return common.NewInputValidationError("reading order", cfg.ReadingOrder, common.ErrInvalidReadingOrder)
	}

	if cfg.Bundle == entity.BundlePrebundled && len(req.Files) > 0 {
		return common.NewInputValidationError("files", "", fmt.Errorf("prebundled strategy takes bundles only: %w", common.ErrInvalidInput))
	}

	if cfg.Bundle != entity.BundlePrebundled && len(req.Bundles) > 0 {
		return common.NewInputValidationError("bundles", "", fmt.Errorf("bundles need the prebundled strategy: %w", common.ErrInvalidInput))
	}

	for _, file := range req.allFiles() {
		if !file.Exists() {
			return common.NewInputValidationError("file", file.Path(), common.ErrFileNotFound)
		}
	}

	return nil
}

// warmUp computes the facets the document will need, in parallel. Files cache
// their facets, so the sequential pass afterwards only reads them.
func (a *Assembler) warmUp(ctx context.Context, files []ObjectFile, cfg *entity.GenerationConfig) error {
	needMimetype := cfg.AddExif || cfg.AddFileAttributes || isBookStyle(cfg.Style)
	if !needMimetype || len(files) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.cfg.Workers, 1))

	for _, file := range files {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if _, err := file.Mimetype(); err != nil {
				return err
			}

			if !cfg.AddExif {
				return nil
			}

			if _, err := file.Size(); err != nil {
				return err
			}

			if _, err := file.SHA1(); err != nil {
				return err
			}

			isImage, err := file.IsImage()
			if err != nil || !isImage {
				return err
			}

			_, _, err = file.ImageDimensions()

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("cannot classify files: %w", err)
	}

	return ctx.Err()
}

func isBookStyle(style entity.Style) bool {
	switch style {
	case entity.StyleSimpleBook, entity.StyleBookAsImage, entity.StyleBookWithPDF:
		return true
	}

	return false
}

func buildFile(file ObjectFile, cfg *entity.GenerationConfig, commonPath string, attrResolver *attributes.Resolver) (*entity.File, error) {
	node := &entity.File{ID: fileID(file, commonPath, cfg.FlattenFolderStructure)}

	if cfg.AddFileAttributes {
		mimeType, err := file.Mimetype()
		if err != nil {
			return nil, err
		}

		node.Attributes = attrResolver.Resolve(file.FileAttributes(), mimeType)
	}

	if !cfg.AddExif {
		provided := file.ProviderChecksums()
		if provided.SHA1 != "" {
			node.Checksums = append(node.Checksums, entity.Checksum{Type: entity.ChecksumSHA1, Value: provided.SHA1})
		}

		if provided.MD5 != "" {
			node.Checksums = append(node.Checksums, entity.Checksum{Type: entity.ChecksumMD5, Value: provided.MD5})
		}

		return node, nil
	}

	mimeType, err := file.Mimetype()
	if err != nil {
		return nil, err
	}

	size, err := file.Size()
	if err != nil {
		return nil, err
	}

	sha1, err := file.SHA1()
	if err != nil {
		return nil, err
	}

	md5, err := file.MD5()
	if err != nil {
		return nil, err
	}

	node.MimeType = mimeType
	node.Size = &size
	node.Checksums = []entity.Checksum{
		{Type: entity.ChecksumSHA1, Value: sha1},
		{Type: entity.ChecksumMD5, Value: md5},
	}

	isImage, err := file.IsImage()
	if err != nil {
		return nil, err
	}

	if isImage {
		width, height, err := file.ImageDimensions()
		if err != nil {
			return nil, err
		}

		node.ImageData = &entity.ImageData{Width: width, Height: height}
	}

	return node, nil
}

// fileID is the relative path when the caller set one, otherwise the path without
// the common prefix, reduced to the base name when flattening.
func fileID(file ObjectFile, commonPath string, flatten bool) string {
	if file.RelativePath() != "" {
		return file.RelativePath()
	}

	id := file.Path()
	if commonPath != "" {
		id = strings.TrimPrefix(id, commonPath)
	}

	if flatten {
		id = filepath.Base(id)
	}

	return id
}

func labelFromFiles(files []ObjectFile, fallback string) string {
	for _, file := range files {
		if strings.TrimSpace(file.Label()) != "" {
			return file.Label()
		}
	}

	return fallback
}

func readingOrder(order string) string {
	if order == "" {
		return entity.ReadingOrderLTR
	}

	return order
}

// CommonPath returns the longest directory prefix shared by all paths, with a
// trailing separator, or "" for no paths.
func CommonPath(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	probe := paths[0]
	for _, path := range paths[1:] {
		if path > probe {
			probe = path
		}
	}

	n := 0
	for n < len(probe) && sharedAt(paths, probe[n], n) {
		n++
	}

	prefix := probe[:n]
	if strings.HasSuffix(prefix, "/") {
		return prefix
	}

	idx := strings.LastIndex(prefix, "/")
	if idx < 0 {
		return "/"
	}

	return prefix[:idx+1]
}

func sharedAt(paths []string, c byte, n int) bool {
	for _, path := range paths {
		if n >= len(path) || path[n] != c {
			return false
		}
	}

	return true
}
