package app

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"testing"

	"github.com/jgivc/contentmetadata/internal/common"
	"github.com/jgivc/contentmetadata/internal/config"
	"github.com/jgivc/contentmetadata/internal/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func writePNG(t *testing.T, fs afero.Fs, path string) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	require.NoError(t, afero.WriteFile(fs, path, buf.Bytes(), os.ModePerm))
}

func newTestApp(t *testing.T, fs afero.Fs, overrides Overrides) *App {
	t.Helper()

	a := NewWithFS(fs, "")
	require.NoError(t, a.Init(io.Discard, overrides))
	a.cfg.Probe = config.ProbeSniff

	return a
}

func TestGenerateFromManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePNG(t, fs, "/work/00/p1.tif")
	writePNG(t, fs, "/work/05/p1.jp2")
	require.NoError(t, afero.WriteFile(fs, "/work/notes.txt", []byte("notes\n"), os.ModePerm))

	manifest := `object_id: "druid:bb000kk0000"
config:
  style: book
  bundle: filename
  add_file_attributes: true
files:
  - path: /work/00/p1.tif
  - path: /work/05/p1.jp2
  - path: /work/notes.txt
    label: Notes
    sha1: abc
`
	require.NoError(t, afero.WriteFile(fs, "/work/manifest.yml", []byte(manifest), os.ModePerm))

	a := newTestApp(t, fs, Overrides{})

	var out bytes.Buffer
	require.NoError(t, a.GenerateFromManifest(context.Background(), "/work/manifest.yml", "", &out))

	expected := `<?xml version="1.0"?>
<contentMetadata objectId="druid:bb000kk0000" type="book">
  <bookData readingOrder="ltr"></bookData>
  <resource id="bb000kk0000_1" sequence="1" type="page">
    <label>Page 1</label>
    <file id="00/p1.tif" preserve="yes" publish="no" shelve="yes"></file>
    <file id="05/p1.jp2" preserve="yes" publish="no" shelve="yes"></file>
  </resource>
  <resource id="bb000kk0000_2" sequence="2" type="object">
    <label>Notes</label>
    <file id="notes.txt" preserve="yes" publish="yes" shelve="yes">
      <checksum type="sha1">abc</checksum>
    </file>
  </resource>
</contentMetadata>
`
	require.Equal(t, expected, out.String())
}

func TestGenerateFromManifestYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePNG(t, fs, "/work/a.tif")
	require.NoError(t, afero.WriteFile(fs, "/work/manifest.yml", []byte("object_id: x\nfiles:\n  - path: /work/a.tif\n"), os.ModePerm))

	a := newTestApp(t, fs, Overrides{Output: config.OutputYAML, Style: "map"})

	var out bytes.Buffer
	require.NoError(t, a.GenerateFromManifest(context.Background(), "/work/manifest.yml", "druid:yy000yy0000", &out))

	var doc entity.Document
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	require.Equal(t, "druid:yy000yy0000", doc.ObjectID)
	require.Equal(t, "map", doc.Type)
	require.Len(t, doc.Resources, 1)
	require.Equal(t, "yy000yy0000_1", doc.Resources[0].ID)
	require.Equal(t, "a.tif", doc.Resources[0].Files[0].ID)
}

func TestGenerateFromManifestMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/manifest.yml", []byte("object_id: x\nfiles:\n  - path: /missing.jp2\n"), os.ModePerm))

	a := newTestApp(t, fs, Overrides{})

	var out bytes.Buffer
	err := a.GenerateFromManifest(context.Background(), "/work/manifest.yml", "", &out)
	require.ErrorIs(t, err, common.ErrFileNotFound)
	require.Zero(t, out.Len())
}

func TestGenerateFromFolder(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/stage/obj/00", os.ModePerm))
	writePNG(t, fs, "/stage/obj/00/a.tif")
	writePNG(t, fs, "/stage/obj/00/b.tif")
	require.NoError(t, afero.WriteFile(fs, "/stage/obj/description.md",
		[]byte("---\nobject_id: \"druid:dd000dd0000\"\nstyle: file\nfiles:\n  b.tif: Back\n---\n"), os.ModePerm))

	a := newTestApp(t, fs, Overrides{Output: config.OutputTree})

	var out bytes.Buffer
	require.NoError(t, a.GenerateFromFolder(context.Background(), "/stage/obj", "", &out))
	require.Contains(t, out.String(), "druid:dd000dd0000 (file)")
	require.Contains(t, out.String(), `1 file "File 1"`)
	require.Contains(t, out.String(), `2 file "Back"`)
	require.NotContains(t, out.String(), "description.md")
}

func TestClassify(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePNG(t, fs, "/c/cy565rm7188_00_001.png")
	require.NoError(t, afero.WriteFile(fs, "/c/notes.txt", []byte("notes\n"), os.ModePerm))

	a := newTestApp(t, fs, Overrides{})

	var out bytes.Buffer
	require.NoError(t, a.Classify(context.Background(), []string{"/c/cy565rm7188_00_001.png", "/c/notes.txt"}, &out))

	var got []classification
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)

	require.Equal(t, "image/png", got[0].MimeType)
	require.Equal(t, entity.ObjectTypeImage, got[0].ObjectType)
	require.True(t, got[0].ValidImage)
	require.True(t, got[0].JP2able)
	require.Equal(t, 4, got[0].Width)
	require.Equal(t, 3, got[0].Height)
	require.Equal(t, "cy565rm7188_001", got[0].DPGBaseName)
	require.Equal(t, "00", got[0].DPGFolder)

	require.Equal(t, "text/plain", got[1].MimeType)
	require.False(t, got[1].Image)
	require.Equal(t, int64(6), got[1].Size)

	err := a.Classify(context.Background(), []string{"/c/missing.tif"}, &out)
	require.ErrorIs(t, err, common.ErrFileNotFound)
}

func TestInitOverrides(t *testing.T) {
	testCases := []struct {
		name        string
		overrides   Overrides
		expectedErr error
	}{
		{name: "Unknown style", overrides: Overrides{Style: "sculpture"}, expectedErr: common.ErrInvalidStyle},
		{name: "Unknown bundle", overrides: Overrides{Bundle: "sideways"}, expectedErr: common.ErrInvalidBundle},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewWithFS(afero.NewMemMapFs(), "")
			require.ErrorIs(t, a.Init(io.Discard, tc.overrides), tc.expectedErr)
		})
	}

	a := NewWithFS(afero.NewMemMapFs(), "")
	require.Error(t, a.Init(io.Discard, Overrides{Output: "pdf"}))
}
