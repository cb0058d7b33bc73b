package attributes

import (
	"testing"

	"github.com/jgivc/contentmetadata/internal/entity"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	overrides := map[string]entity.FileAttributes{
		"application/pdf": {entity.AttrPreserve: "yes", entity.AttrShelve: "no", entity.AttrPublish: "no"},
		"image/tiff":      {entity.AttrPreserve: "no", entity.AttrShelve: "", entity.AttrPublish: "yes"},
	}

	withDefault := map[string]entity.FileAttributes{
		entity.DefaultAttributesKey: {entity.AttrPreserve: "no", entity.AttrShelve: "no", entity.AttrPublish: "no", entity.AttrRole: "master"},
	}

	testCases := []struct {
		name      string
		overrides map[string]entity.FileAttributes
		own       entity.FileAttributes
		mimeType  string
		expected  entity.FileAttributes
	}{
		{
			name:     "Built-in default for unknown mimetype",
			mimeType: "application/x-unknown",
			expected: entity.FileAttributes{entity.AttrPreserve: "yes", entity.AttrShelve: "no", entity.AttrPublish: "no"},
		},
		{
			name:     "Built-in jp2",
			mimeType: "image/jp2",
			expected: entity.FileAttributes{entity.AttrPreserve: "no", entity.AttrShelve: "yes", entity.AttrPublish: "yes"},
		},
		{
			name:     "Built-in png",
			mimeType: "image/png",
			expected: entity.FileAttributes{entity.AttrPreserve: "yes", entity.AttrShelve: "yes", entity.AttrPublish: "no"},
		},
		{
			name:      "Caller override by mimetype",
			overrides: overrides,
			mimeType:  "application/pdf",
			expected:  entity.FileAttributes{entity.AttrPreserve: "yes", entity.AttrShelve: "no", entity.AttrPublish: "no"},
		},
		{
			name:      "Empty values dropped",
			overrides: overrides,
			mimeType:  "image/tiff",
			expected:  entity.FileAttributes{entity.AttrPreserve: "no", entity.AttrPublish: "yes"},
		},
		{
			name:      "Caller default beats built-in mimetype",
			overrides: withDefault,
			mimeType:  "image/jp2",
			expected:  entity.FileAttributes{entity.AttrPreserve: "no", entity.AttrShelve: "no", entity.AttrPublish: "no", entity.AttrRole: "master"},
		},
		{
			name:      "Own attributes win",
			overrides: withDefault,
			own:       entity.FileAttributes{entity.AttrRole: "transcription"},
			mimeType:  "text/plain",
			expected:  entity.FileAttributes{entity.AttrRole: "transcription"},
		},
		{
			name:      "Own empty set wins",
			overrides: withDefault,
			own:       entity.FileAttributes{},
			mimeType:  "text/plain",
			expected:  entity.FileAttributes{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewResolver(tc.overrides).Resolve(tc.own, tc.mimeType)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestResolveDoesNotLeakTable(t *testing.T) {
	got := NewResolver(nil).Resolve(nil, "image/jp2")
	got[entity.AttrPreserve] = "yes"

	require.Equal(t, "no", Builtin("image/jp2")[entity.AttrPreserve])
	require.Nil(t, Builtin("application/x-unknown"))
}
