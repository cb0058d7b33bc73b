package fsadapter

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/jgivc/contentmetadata/internal/config"
	"github.com/jgivc/contentmetadata/internal/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestFSAdapter(t *testing.T) {
	appCFG := &config.Config{}
	appCFG.SetDefaults()

	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	testCases := []struct {
		name        string
		probe       string
		order       []string
		trusted     []string
		path        string
		content     []byte
		expected    string
		expectError bool
	}{
		{
			name:     "Sniffed PNG with default order",
			probe:    config.ProbeSniff,
			path:     "/stage/page.tif",
			content:  encodeImage(t, "png", 4, 4),
			expected: "image/png",
		},
		{
			name:     "Sniffed text",
			probe:    config.ProbeSniff,
			path:     "/stage/notes.txt",
			content:  []byte("hello world\n"),
			expected: "text/plain",
		},
		{
			name:     "Configured order",
			probe:    config.ProbeSniff,
			order:    []string{"extension"},
			path:     "/stage/page.tif",
			content:  encodeImage(t, "png", 4, 4),
			expected: "image/tiff",
		},
		{
			name:     "Configured trusted mimetype",
			probe:    config.ProbeSniff,
			order:    []string{"exif", "extension"},
			trusted:  []string{"image/png"},
			path:     "/stage/page.tif",
			content:  encodeImage(t, "png", 4, 4),
			expected: "image/tiff",
		},
		{
			name:     "Auto probe on memory fs sniffs",
			probe:    config.ProbeAuto,
			path:     "/stage/scan.jpg",
			content:  encodeImage(t, "jpeg", 4, 4),
			expected: "image/jpeg",
		},
		{
			name:        "Unknown probe",
			probe:       "magic",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := appCFG.FSAdapterConfig()
			cfg.Probe = tc.probe
			cfg.MimeTypeOrder = tc.order
			cfg.TrustedMimeTypes = tc.trusted

			fs := afero.NewMemMapFs()
			if tc.path != "" {
				require.NoError(t, afero.WriteFile(fs, tc.path, tc.content, os.ModePerm))
			}

			adapter, err := NewFSAdapterWithFS(fs, cfg, log)
			if tc.expectError {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)

			files := adapter.ToObjectFiles(context.Background(), []entity.FileSpec{{Path: tc.path}})
			require.Len(t, files, 1)

			got, err := files[0].Mimetype()
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}
