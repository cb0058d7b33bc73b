package stageadapter

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jgivc/contentmetadata/internal/adapter/mdadapter"
	"github.com/jgivc/contentmetadata/internal/common"
	"github.com/jgivc/contentmetadata/internal/config"
	"github.com/jgivc/contentmetadata/internal/entity"
	"github.com/spf13/afero"
)

const maxFiles = 10000

type stageAdapter struct {
	fs        afero.Fs
	cfg       *config.StageAdapterConfig
	skipFiles map[string]struct{}
	parser    *mdadapter.Parser

	log *slog.Logger
}

func NewStageAdapter(cfg *config.StageAdapterConfig, log *slog.Logger) *stageAdapter {
	return NewStageAdapterWithFS(afero.NewOsFs(), cfg, log)
}

func NewStageAdapterWithFS(fs afero.Fs, cfg *config.StageAdapterConfig, log *slog.Logger) *stageAdapter {
	skipFiles := make(map[string]struct{}, len(cfg.SkipFiles))
	for _, file := range cfg.SkipFiles {
		skipFiles[file] = struct{}{}
	}

	return &stageAdapter{
		fs:        fs,
		cfg:       cfg,
		skipFiles: skipFiles,
		parser:    mdadapter.NewParser(),
		log:       log.With(slog.String("item", "StageAdapter")),
	}
}

// Scan turns a staging folder into a manifest. Files are listed in lexical order,
// the description file and skipped names are left out. The description, when
// present, is applied over base.
func (a *stageAdapter) Scan(folderPath string, base entity.GenerationConfig) (*entity.Manifest, error) {
	if strings.Contains(folderPath, "..") {
		return nil, common.NewInputValidationError("folder path", folderPath, common.ErrInvalidInput)
	}

	stat, err := a.fs.Stat(folderPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.NewInputValidationError("folder path", folderPath, common.ErrFileNotFound)
		}

		return nil, fmt.Errorf("cannot stat folder %s: %w", folderPath, err)
	}

	if !stat.IsDir() {
		return nil, common.NewInputValidationError("folder path", folderPath, common.ErrInvalidInput)
	}

	desc, err := a.readDescription(folderPath)
	if err != nil {
		return nil, err
	}

	cfg := base
	desc.Apply(&cfg)

	manifest := &entity.Manifest{
		ObjectID: desc.ObjectID,
		Title:    desc.Title,
		Config:   &cfg,
	}

	if manifest.ObjectID == "" {
		manifest.ObjectID = filepath.Base(folderPath)
	}

	files, err := a.readFiles(folderPath, desc)
	if err != nil {
		return nil, fmt.Errorf("cannot get folder files: %w", err)
	}

	manifest.Files = files

	a.log.Info("Scanned folder", slog.String("path", folderPath), slog.String("object_id", manifest.ObjectID),
		slog.Int("files", len(files)))

	return manifest, nil
}

func (a *stageAdapter) readDescription(folderPath string) (*mdadapter.Description, error) {
	descPath := filepath.Join(folderPath, a.cfg.DescFileName)

	content, err := afero.ReadFile(a.fs, descPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			a.log.Debug("No description file", slog.String("path", descPath))

			return &mdadapter.Description{}, nil
		}

		return nil, fmt.Errorf("cannot read description file: %w", err)
	}

	desc, err := a.parser.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("cannot parse description file %s: %w", descPath, err)
	}

	return desc, nil
}

func (a *stageAdapter) readFiles(folderPath string, desc *mdadapter.Description) ([]entity.FileSpec, error) {
	descPath := filepath.Join(folderPath, a.cfg.DescFileName)

	var files []entity.FileSpec
	err := afero.Walk(a.fs, folderPath, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if path == descPath {
			return nil
		}

		if _, exists := a.skipFiles[info.Name()]; exists {
			a.log.Info("Skip file", slog.String("path", path))

			return nil
		}

		if len(files) >= maxFiles {
			return fmt.Errorf("folder has more than %d files", maxFiles)
		}

		rel, err := filepath.Rel(folderPath, path)
		if err != nil {
			return err
		}

		rel = filepath.ToSlash(rel)
		spec := entity.FileSpec{
			Path:  path,
			Label: lookup(desc.Files, rel, info.Name()),
		}

		if attrs, exists := desc.Attributes[rel]; exists {
			spec.FileAttributes = attrs
		} else if attrs, exists := desc.Attributes[info.Name()]; exists {
			spec.FileAttributes = attrs
		}

		files = append(files, spec)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// lookup prefers the entry for the relative path over the one for the bare name.
func lookup(labels map[string]string, rel, name string) string {
	if label, exists := labels[rel]; exists {
		return label
	}

	return labels[name]
}
