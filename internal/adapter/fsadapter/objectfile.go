package fsadapter

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jgivc/contentmetadata/internal/common"
	"github.com/jgivc/contentmetadata/internal/entity"
	"github.com/spf13/afero"
)

const dpgParts = 3

// ObjectFile wraps one input file. Derived facets are computed on first access and
// kept for the lifetime of the value.
type ObjectFile struct {
	ctx            context.Context
	fs             afero.Fs
	path           string
	relativePath   string
	label          string
	fileAttributes entity.FileAttributes
	provider       entity.Checksums
	mimeTypeOrder  []entity.MimeTypeMethod

	prober     Prober
	metaReader MetadataReader
	trusted    map[string]struct{}

	exists    func() bool
	metadata  func() (*EmbeddedMetadata, error)
	probed    func() (string, error)
	mimeType  func() (string, error)
	size      func() (int64, error)
	checksums func() (entity.Checksums, error)
}

type Option func(*ObjectFile)

// WithContext bounds the OS probe of the file. Cancelling ctx stops a running probe.
func WithContext(ctx context.Context) Option {
	return func(f *ObjectFile) {
		f.ctx = ctx
	}
}

func WithProber(p Prober) Option {
	return func(f *ObjectFile) {
		f.prober = p
	}
}

func WithMetadataReader(r MetadataReader) Option {
	return func(f *ObjectFile) {
		f.metaReader = r
	}
}

// WithTrustedMimeTypes adds probe results that bypass embedded metadata extraction.
func WithTrustedMimeTypes(mimeTypes ...string) Option {
	return func(f *ObjectFile) {
		for _, mimeType := range mimeTypes {
			f.trusted[mimeType] = struct{}{}
		}
	}
}

// WithMimeTypeOrder sets the order used when the FileSpec carries none.
func WithMimeTypeOrder(order []entity.MimeTypeMethod) Option {
	return func(f *ObjectFile) {
		if len(f.mimeTypeOrder) == 0 && len(order) > 0 {
			f.mimeTypeOrder = order
		}
	}
}

func NewObjectFile(fs afero.Fs, spec entity.FileSpec, opts ...Option) *ObjectFile {
	f := &ObjectFile{
		ctx:            context.Background(),
		fs:             fs,
		path:           spec.Path,
		relativePath:   spec.RelativePath,
		label:          spec.Label,
		fileAttributes: spec.FileAttributes,
		provider:       spec.Checksums,
		mimeTypeOrder:  spec.MimeTypeOrder,
		trusted:        make(map[string]struct{}, len(defaultTrustedMimeTypes)),
	}

	for _, mimeType := range defaultTrustedMimeTypes {
		f.trusted[mimeType] = struct{}{}
	}

	for _, opt := range opts {
		opt(f)
	}

	if len(f.mimeTypeOrder) == 0 {
		f.mimeTypeOrder = entity.DefaultMimeTypeOrder()
	}

	if f.prober == nil {
		f.prober = NewSniffProber(fs)
	}

	if f.metaReader == nil {
		f.metaReader = NewImageMetadataReader()
	}

	f.exists = sync.OnceValue(f.statExists)
	f.metadata = sync.OnceValues(f.readMetadata)
	f.probed = sync.OnceValues(f.probe)
	f.mimeType = sync.OnceValues(f.resolveMimeType)
	f.size = sync.OnceValues(f.statSize)
	f.checksums = sync.OnceValues(f.computeChecksums)

	return f
}

func (f *ObjectFile) Path() string {
	return f.path
}

func (f *ObjectFile) RelativePath() string {
	return f.relativePath
}

func (f *ObjectFile) Label() string {
	return f.label
}

// FileAttributes returns the per-file override, nil when the caller set none.
func (f *ObjectFile) FileAttributes() entity.FileAttributes {
	return f.fileAttributes
}

func (f *ObjectFile) ProviderChecksums() entity.Checksums {
	return f.provider
}

func (f *ObjectFile) MimeTypeOrder() []entity.MimeTypeMethod {
	return f.mimeTypeOrder
}

func (f *ObjectFile) Filename() string {
	return filepath.Base(f.path)
}

func (f *ObjectFile) Dirname() string {
	return filepath.Dir(f.path)
}

// Ext returns the extension including the leading dot.
func (f *ObjectFile) Ext() string {
	return filepath.Ext(f.path)
}

func (f *ObjectFile) FilenameWithoutExt() string {
	return strings.TrimSuffix(f.Filename(), f.Ext())
}

// DPGBaseName drops the folder code from {base}_{folder}_{suffix} names,
// e.g. cy565rm7188_00_001.tif gives cy565rm7188_001.
func (f *ObjectFile) DPGBaseName() string {
	parts := strings.Split(f.FilenameWithoutExt(), "_")
	if len(parts) != dpgParts {
		return f.FilenameWithoutExt()
	}

	return parts[0] + "_" + parts[2]
}

// DPGFolder returns the folder code of a DPG file name, "" for other names.
func (f *ObjectFile) DPGFolder() string {
	parts := strings.Split(f.FilenameWithoutExt(), "_")
	if len(parts) != dpgParts {
		return ""
	}

	return parts[1]
}

// Exists reports whether the path exists and is not a directory.
func (f *ObjectFile) Exists() bool {
	return f.exists()
}

func (f *ObjectFile) Mimetype() (string, error) {
	return f.mimeType()
}

func (f *ObjectFile) ObjectType() (entity.ObjectType, error) {
	mimeType, err := f.Mimetype()
	if err != nil {
		return "", err
	}

	return lookupObjectType(mimeType), nil
}

func (f *ObjectFile) IsImage() (bool, error) {
	objectType, err := f.ObjectType()
	if err != nil {
		return false, err
	}

	return objectType == entity.ObjectTypeImage, nil
}

// IsValidImage reports whether the image is a JP2 already or a JP2 can be made from it.
func (f *ObjectFile) IsValidImage() (bool, error) {
	isImage, err := f.IsImage()
	if err != nil || !isImage {
		return false, err
	}

	mimeType, err := f.Mimetype()
	if err != nil {
		return false, err
	}

	if mimeType == mimeTypeJP2 {
		return true, nil
	}

	return f.IsJP2able()
}

// IsJP2able reports whether the file has embedded metadata and an allowed source
// image mimetype. A colour profile is not required.
func (f *ObjectFile) IsJP2able() (bool, error) {
	meta, err := f.Metadata()
	if err != nil || meta == nil {
		return false, err
	}

	mimeType, err := f.Mimetype()
	if err != nil {
		return false, err
	}

	_, allowed := jp2ableMimeTypes[mimeType]

	return allowed, nil
}

func (f *ObjectFile) HasColorProfile() (bool, error) {
	meta, err := f.Metadata()
	if err != nil || meta == nil {
		return false, err
	}

	return meta.ColorProfile, nil
}

// Metadata returns the embedded metadata, nil when the file carries none.
func (f *ObjectFile) Metadata() (*EmbeddedMetadata, error) {
	return f.metadata()
}

// ImageDimensions returns width and height, zero when unknown.
func (f *ObjectFile) ImageDimensions() (int, int, error) {
	meta, err := f.Metadata()
	if err != nil || meta == nil {
		return 0, 0, err
	}

	return meta.Width, meta.Height, nil
}

func (f *ObjectFile) Size() (int64, error) {
	return f.size()
}

func (f *ObjectFile) SHA1() (string, error) {
	sums, err := f.checksums()

	return sums.SHA1, err
}

func (f *ObjectFile) MD5() (string, error) {
	sums, err := f.checksums()

	return sums.MD5, err
}

func (f *ObjectFile) checkForFile() error {
	if !f.Exists() {
		return fmt.Errorf("input file %s does not exist or is a directory: %w", f.path, common.ErrFileNotFound)
	}

	return nil
}

func (f *ObjectFile) statExists() bool {
	stat, err := f.fs.Stat(f.path)
	if err != nil {
		return false
	}

	return !stat.IsDir()
}

func (f *ObjectFile) statSize() (int64, error) {
	if err := f.checkForFile(); err != nil {
		return 0, err
	}

	stat, err := f.fs.Stat(f.path)
	if err != nil {
		return 0, fmt.Errorf("cannot stat file %s: %w", f.path, err)
	}

	return stat.Size(), nil
}

func (f *ObjectFile) readMetadata() (*EmbeddedMetadata, error) {
	if err := f.checkForFile(); err != nil {
		return nil, err
	}

	file, err := f.fs.Open(f.path)
	if err != nil {
		return nil, common.NewClassificationError(f.path, err)
	}
	defer file.Close()

	meta, err := f.metaReader.Read(file)
	if err != nil {
		return nil, common.NewClassificationError(f.path, err)
	}

	return meta, nil
}

func (f *ObjectFile) probe() (string, error) {
	if err := f.checkForFile(); err != nil {
		return "", err
	}

	mimeType, err := f.prober.Probe(f.ctx, f.path)
	if err != nil {
		return "", common.NewClassificationError(f.path, err)
	}

	return mimeType, nil
}

func (f *ObjectFile) computeChecksums() (entity.Checksums, error) {
	if err := f.checkForFile(); err != nil {
		return entity.Checksums{}, err
	}

	file, err := f.fs.Open(f.path)
	if err != nil {
		return entity.Checksums{}, fmt.Errorf("cannot open file %s: %w", f.path, err)
	}
	defer file.Close()

	md5Hash := md5.New()
	sha1Hash := sha1.New()
	if _, err := io.Copy(io.MultiWriter(md5Hash, sha1Hash), file); err != nil {
		return entity.Checksums{}, fmt.Errorf("cannot calculate checksums of %s: %w", f.path, err)
	}

	return entity.Checksums{
		MD5:  hex.EncodeToString(md5Hash.Sum(nil)),
		SHA1: hex.EncodeToString(sha1Hash.Sum(nil)),
	}, nil
}
