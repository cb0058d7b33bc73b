package fsadapter

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jgivc/contentmetadata/internal/config"
	"github.com/spf13/afero"
)

const fileCommand = "file"

// Prober is the OS level file type detector.
type Prober interface {
	Probe(ctx context.Context, path string) (string, error)
}

// CommandProber asks the unix file command. It only sees the OS filesystem.
type CommandProber struct {
	command string
}

func NewCommandProber() *CommandProber {
	return &CommandProber{command: fileCommand}
}

func (p *CommandProber) Probe(ctx context.Context, path string) (string, error) {
	out, err := exec.CommandContext(ctx, p.command, "--mime-type", "--brief", path).Output()
	if err != nil {
		return "", fmt.Errorf("cannot run %s: %w", p.command, err)
	}

	return stripParams(string(out)), nil
}

// SniffProber detects the type from the leading bytes of the content.
type SniffProber struct {
	fs afero.Fs
}

func NewSniffProber(fs afero.Fs) *SniffProber {
	return &SniffProber{fs: fs}
}

func (p *SniffProber) Probe(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := p.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("cannot detect content type: %w", err)
	}

	return stripParams(mtype.String()), nil
}

func newProber(mode string, fs afero.Fs) (Prober, error) {
	switch mode {
	case config.ProbeFile:
		return NewCommandProber(), nil
	case config.ProbeSniff:
		return NewSniffProber(fs), nil
	case config.ProbeAuto, "":
		if _, isOsFs := fs.(*afero.OsFs); isOsFs {
			if _, err := exec.LookPath(fileCommand); err == nil {
				return NewCommandProber(), nil
			}
		}

		return NewSniffProber(fs), nil
	default:
		return nil, fmt.Errorf("unknown probe mode: %s", mode)
	}
}

// stripParams turns "text/plain; charset=utf-8\n" into "text/plain".
func stripParams(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")

	return strings.TrimSpace(mimeType)
}
