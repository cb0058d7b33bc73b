package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jgivc/contentmetadata/internal/adapter/fsadapter"
	"github.com/jgivc/contentmetadata/internal/adapter/render"
	"github.com/jgivc/contentmetadata/internal/adapter/stageadapter"
	"github.com/jgivc/contentmetadata/internal/common"
	"github.com/jgivc/contentmetadata/internal/config"
	"github.com/jgivc/contentmetadata/internal/entity"
	"github.com/jgivc/contentmetadata/internal/service/assemble"
	"github.com/jgivc/contentmetadata/internal/service/attributes"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// Overrides are command line values that take precedence over the config file.
type Overrides struct {
	Output string
	Style  string
	Bundle string
}

type App struct {
	cfgPath string
	fs      afero.Fs
	cfg     *config.Config
	log     *slog.Logger
}

func New(cfgPath string) *App {
	return NewWithFS(afero.NewOsFs(), cfgPath)
}

func NewWithFS(fs afero.Fs, cfgPath string) *App {
	return &App{
		cfgPath: cfgPath,
		fs:      fs,
	}
}

// Init loads the environment and config and builds the logger.
func (a *App) Init(logW io.Writer, overrides Overrides) error {
	if err := config.LoadEnv(config.EnvFileName); err != nil {
		return err
	}

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}

	if err := applyOverrides(cfg, overrides); err != nil {
		return err
	}

	lo := &slog.HandlerOptions{}
	switch cfg.LogLevel {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		return fmt.Errorf("unknown log level: %s", cfg.LogLevel)
	}

	a.cfg = cfg
	a.log = slog.New(slog.NewTextHandler(logW, lo))

	return nil
}

func applyOverrides(cfg *config.Config, overrides Overrides) error {
	if overrides.Output != "" {
		cfg.Output = overrides.Output
	}

	if overrides.Style != "" {
		style, err := entity.ParseStyle(overrides.Style)
		if err != nil {
			return common.NewInputValidationError("style", overrides.Style, common.ErrInvalidStyle)
		}

		cfg.Generation.Style = style
	}

	if overrides.Bundle != "" {
		bundle, err := entity.ParseBundleStrategy(overrides.Bundle)
		if err != nil {
			return common.NewInputValidationError("bundle strategy", overrides.Bundle, common.ErrInvalidBundle)
		}

		cfg.Generation.Bundle = bundle
	}

	return cfg.Validate()
}

// GenerateFromManifest builds the document described by a YAML manifest file.
func (a *App) GenerateFromManifest(ctx context.Context, manifestPath, objectID string, w io.Writer) error {
	data, err := afero.ReadFile(a.fs, manifestPath)
	if err != nil {
		return fmt.Errorf("cannot read manifest %s: %w", manifestPath, err)
	}

	generation := a.cfg.Generation
	manifest := &entity.Manifest{Config: &generation}
	if err := yaml.Unmarshal(data, manifest); err != nil {
		return fmt.Errorf("cannot parse manifest %s: %w", manifestPath, err)
	}

	if manifest.Config == nil {
		manifest.Config = &generation
	}

	if objectID != "" {
		manifest.ObjectID = objectID
	}

	return a.generate(ctx, manifest, w)
}

// GenerateFromFolder builds the document of a staging folder.
func (a *App) GenerateFromFolder(ctx context.Context, folderPath, objectID string, w io.Writer) error {
	stage := stageadapter.NewStageAdapterWithFS(a.fs, a.cfg.StageAdapterConfig(), a.log)

	manifest, err := stage.Scan(folderPath, a.cfg.Generation)
	if err != nil {
		return err
	}

	if objectID != "" {
		manifest.ObjectID = objectID
	}

	return a.generate(ctx, manifest, w)
}

func (a *App) generate(ctx context.Context, manifest *entity.Manifest, w io.Writer) error {
	fsa, err := fsadapter.NewFSAdapterWithFS(a.fs, a.cfg.FSAdapterConfig(), a.log)
	if err != nil {
		return err
	}

	req := assemble.Request{
		ObjectID: manifest.ObjectID,
		Config:   *manifest.Config,
		Files:    toRequestFiles(fsa.ToObjectFiles(ctx, manifest.Files)),
	}

	for _, group := range manifest.Bundles {
		req.Bundles = append(req.Bundles, toRequestFiles(fsa.ToObjectFiles(ctx, group)))
	}

	assembler := assemble.NewAssembler(a.cfg.AssemblerConfig(), a.log)

	var out []byte
	switch a.cfg.Output {
	case config.OutputXML:
		out, err = assembler.Generate(ctx, req)
	case config.OutputYAML:
		out, err = a.assembleWith(ctx, assembler, req, render.YAML)
	case config.OutputTree:
		out, err = a.assembleWith(ctx, assembler, req, func(doc *entity.Document) ([]byte, error) {
			return []byte(render.Tree(doc)), nil
		})
	default:
		return fmt.Errorf("unknown output format: %s", a.cfg.Output)
	}

	if err != nil {
		return err
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}

	return nil
}

func (a *App) assembleWith(ctx context.Context, assembler *assemble.Assembler, req assemble.Request,
	renderFn func(*entity.Document) ([]byte, error)) ([]byte, error) {
	doc, err := assembler.Assemble(ctx, req)
	if err != nil {
		return nil, err
	}

	return renderFn(doc)
}

func toRequestFiles(files []*fsadapter.ObjectFile) []assemble.ObjectFile {
	out := make([]assemble.ObjectFile, 0, len(files))
	for _, file := range files {
		out = append(out, file)
	}

	return out
}

type classification struct {
	Path         string                `yaml:"path"`
	MimeType     string                `yaml:"mimetype"`
	ObjectType   entity.ObjectType     `yaml:"object_type"`
	Size         int64                 `yaml:"size"`
	Image        bool                  `yaml:"image"`
	ValidImage   bool                  `yaml:"valid_image"`
	JP2able      bool                  `yaml:"jp2able"`
	ColorProfile bool                  `yaml:"color_profile"`
	Width        int                   `yaml:"width,omitempty"`
	Height       int                   `yaml:"height,omitempty"`
	DPGBaseName  string                `yaml:"dpg_base_name"`
	DPGFolder    string                `yaml:"dpg_folder,omitempty"`
	Attributes   entity.FileAttributes `yaml:"default_attributes,omitempty"`
}

// Classify writes the derived facets of every path as YAML.
func (a *App) Classify(ctx context.Context, paths []string, w io.Writer) error {
	fsa, err := fsadapter.NewFSAdapterWithFS(a.fs, a.cfg.FSAdapterConfig(), a.log)
	if err != nil {
		return err
	}

	results := make([]classification, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		file := fsa.ToObjectFile(ctx, entity.FileSpec{Path: path})
		if !file.Exists() {
			return common.NewInputValidationError("file", path, common.ErrFileNotFound)
		}

		result, err := classify(file)
		if err != nil {
			a.log.Error("Cannot classify file", slog.String("path", path), slog.Any("error", err))

			return err
		}

		results = append(results, *result)
	}

	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("cannot marshal classification: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}

	return nil
}

func classify(file *fsadapter.ObjectFile) (*classification, error) {
	result := &classification{
		Path:        file.Path(),
		DPGBaseName: file.DPGBaseName(),
		DPGFolder:   file.DPGFolder(),
	}

	var err error
	if result.MimeType, err = file.Mimetype(); err != nil {
		return nil, err
	}

	if result.ObjectType, err = file.ObjectType(); err != nil {
		return nil, err
	}

	if result.Size, err = file.Size(); err != nil {
		return nil, err
	}

	if result.Image, err = file.IsImage(); err != nil {
		return nil, err
	}

	if result.ValidImage, err = file.IsValidImage(); err != nil {
		return nil, err
	}

	if result.JP2able, err = file.IsJP2able(); err != nil {
		return nil, err
	}

	if result.ColorProfile, err = file.HasColorProfile(); err != nil {
		return nil, err
	}

	if result.Width, result.Height, err = file.ImageDimensions(); err != nil {
		return nil, err
	}

	result.Attributes = attributes.Builtin(result.MimeType)

	return result, nil
}
