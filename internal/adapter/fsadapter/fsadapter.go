package fsadapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jgivc/contentmetadata/internal/config"
	"github.com/jgivc/contentmetadata/internal/entity"
	"github.com/spf13/afero"
)

type fsAdapter struct {
	fs         afero.Fs
	cfg        *config.FSAdapterConfig
	prober     Prober
	metaReader MetadataReader
	order      []entity.MimeTypeMethod

	log *slog.Logger
}

func NewFSAdapter(cfg *config.FSAdapterConfig, log *slog.Logger) (*fsAdapter, error) {
	return NewFSAdapterWithFS(afero.NewOsFs(), cfg, log)
}

func NewFSAdapterWithFS(fs afero.Fs, cfg *config.FSAdapterConfig, log *slog.Logger) (*fsAdapter, error) {
	prober, err := newProber(cfg.Probe, fs)
	if err != nil {
		return nil, fmt.Errorf("cannot create prober: %w", err)
	}

	order := make([]entity.MimeTypeMethod, 0, len(cfg.MimeTypeOrder))
	for _, name := range cfg.MimeTypeOrder {
		order = append(order, entity.MimeTypeMethod(name))
	}

	a := &fsAdapter{
		fs:         fs,
		cfg:        cfg,
		prober:     prober,
		metaReader: NewImageMetadataReader(),
		order:      order,
		log:        log.With(slog.String("item", "FSAdapter")),
	}

	a.log.Debug("Created", slog.String("prober", fmt.Sprintf("%T", prober)), slog.Int("trusted_extra", len(cfg.TrustedMimeTypes)))

	return a, nil
}

// ToObjectFile wraps a file spec with the configured probe, metadata reader and
// trusted mimetypes. ctx bounds the OS probe.
func (a *fsAdapter) ToObjectFile(ctx context.Context, spec entity.FileSpec) *ObjectFile {
	return NewObjectFile(a.fs, spec,
		WithContext(ctx),
		WithProber(a.prober),
		WithMetadataReader(a.metaReader),
		WithTrustedMimeTypes(a.cfg.TrustedMimeTypes...),
		WithMimeTypeOrder(a.order),
	)
}

func (a *fsAdapter) ToObjectFiles(ctx context.Context, specs []entity.FileSpec) []*ObjectFile {
	files := make([]*ObjectFile, 0, len(specs))
	for _, spec := range specs {
		files = append(files, a.ToObjectFile(ctx, spec))
	}

	return files
}
